// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package aac

import (
	"github.com/q191201771/naza/pkg/nazabits"
)

// HasAdtsSync reports whether b starts with an ADTS syncword
// (0xFFF, 12 bits), the check the codec-adapter layer uses to decide
// whether a raw AAC packet still needs ADTS/LATM framing.
func HasAdtsSync(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xff && b[1]&0xf0 == 0xf0
}

// PackLatm wraps one AAC raw_data_block in a minimal LATM AudioMuxElement
// carrying a single program/layer StreamMuxConfig with useSameStreamMux=0
// (the config is repeated on every frame — simplest, most compatible
// encoding for a live mux that never knows if a receiver joined mid-stream),
// <ISO_IEC_14496-3.pdf> <1.7.3 Multiplex layer>.
func PackLatm(ascCtx *AscContext, raw []byte) []byte {
	// StreamMuxConfig: audioMuxVersion=0, allStreamsSameTimeFraming=1,
	// numSubFrames=0, numProgram=0, numLayer=0, then one ASC, then
	// frameLengthType=0 (variable, latmBufferFullness follows), then
	// otherDataPresent=0, crcCheckPresent=0.
	smc := make([]byte, 5) // 39 bits used, rounded up to whole bytes
	bw := nazabits.NewBitWriter(smc)
	bw.WriteBits8(1, 0) // audioMuxVersion
	bw.WriteBits8(1, 1) // allStreamsSameTimeFraming
	bw.WriteBits8(6, 0) // numSubFramesMinusOne
	bw.WriteBits8(4, 0) // numProgramsMinusOne
	bw.WriteBits8(3, 0) // numLayerMinusOne
	bw.WriteBits8(5, ascCtx.AudioObjectType)
	bw.WriteBits8(4, ascCtx.SamplingFrequencyIndex)
	bw.WriteBits8(4, ascCtx.ChannelConfiguration)
	bw.WriteBits8(1, 0) // frameLengthType=0
	bw.WriteBits8(8, 0xff)
	bw.WriteBits8(1, 0) // otherDataPresent
	bw.WriteBits8(1, 0) // crcCheckPresent

	out := make([]byte, 0, 3+len(smc)+len(raw)/255+2+len(raw))
	// AudioMuxElement(useSameStreamMux=0): 1 bit flag then StreamMuxConfig.
	// Prefixed here as whole bytes to keep the framer byte-aligned, which
	// PayloadLengthInfo already requires.
	out = append(out, 0x00) // useSameStreamMux=0, padded to a byte
	out = append(out, smc...)

	// PayloadLengthInfo: 255-runs terminated by a final byte < 255.
	n := len(raw)
	for n >= 255 {
		out = append(out, 0xff)
		n -= 255
	}
	out = append(out, byte(n))
	out = append(out, raw...)
	return out
}
