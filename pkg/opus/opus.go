// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package opus implements the Opus-in-MPEG-TS codec adapter, C6: PES control
// header packing, TOC-byte sample counting, and the RFC 7845 channel
// mapping used by the extension_descriptor.
package opus

import "errors"

var ErrOpusPacketShort = errors.New("mpegts.opus: packet too short")

// frameSizeSamples48k maps an Opus config number (toc>>3, RFC 6716 Table 2)
// to the duration of one frame, in samples at 48kHz.
var frameSizeSamples48k = [32]int{
	// SILK NB, MB, WB: 10/20/40/60ms
	480, 960, 1920, 2880,
	480, 960, 1920, 2880,
	480, 960, 1920, 2880,
	// Hybrid SWB, FB: 10/20ms
	480, 960,
	480, 960,
	// CELT NB, WB, SWB, FB: 2.5/5/10/20ms
	120, 240, 480, 960,
	120, 240, 480, 960,
	120, 240, 480, 960,
	120, 240, 480, 960,
}

// CountSamples returns the number of samples (at 48kHz) encoded by one
// Opus packet, decoded from its TOC byte and code, §4.6. Code-3 packets use
// the 6-bit frame count in the second byte; padding/VBR length fields are
// not consulted since sample count only depends on frame count × frame
// size, not on the individual frame lengths.
func CountSamples(pkt []byte) (int, error) {
	if len(pkt) < 1 {
		return 0, ErrOpusPacketShort
	}
	toc := pkt[0]
	config := toc >> 3
	code := toc & 0x3
	frameSize := frameSizeSamples48k[config]

	switch code {
	case 0:
		return frameSize, nil
	case 1, 2:
		return frameSize * 2, nil
	case 3:
		if len(pkt) < 2 {
			return 0, ErrOpusPacketShort
		}
		numFrames := int(pkt[1] & 0x3f)
		return frameSize * numFrames, nil
	}
	return 0, ErrOpusPacketShort
}

// PackControlHeader builds the PES-embedded Opus control header, §4.6:
// `0x7F 0xE0 · size_bytes · [trim_start(16)] · [trim_end(16)]`. trimStart
// and trimEnd are nil when absent; when present they set bits 4/3 of the
// second header byte respectively.
func PackControlHeader(pktSize int, trimStart, trimEnd *uint16) []byte {
	out := make([]byte, 0, 8)
	flags := uint8(0xe0)
	if trimStart != nil {
		flags |= 0x10
	}
	if trimEnd != nil {
		flags |= 0x08
	}
	out = append(out, 0x7f, flags)

	n := pktSize
	for n >= 255 {
		out = append(out, 0xff)
		n -= 255
	}
	out = append(out, byte(n))

	if trimStart != nil {
		out = append(out, byte(*trimStart>>8), byte(*trimStart))
	}
	if trimEnd != nil {
		out = append(out, byte(*trimEnd>>8), byte(*trimEnd))
	}
	return out
}
