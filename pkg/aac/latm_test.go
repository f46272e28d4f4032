// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package aac_test

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tsmux/pkg/aac"
)

func TestHasAdtsSync(t *testing.T) {
	assert.Equal(t, true, aac.HasAdtsSync([]byte{0xff, 0xf1, 0x00}))
	assert.Equal(t, true, aac.HasAdtsSync([]byte{0xff, 0xf9, 0x00}))
	assert.Equal(t, false, aac.HasAdtsSync([]byte{0xff, 0x00}))
	assert.Equal(t, false, aac.HasAdtsSync([]byte{0x00}))
	assert.Equal(t, false, aac.HasAdtsSync(nil))
}

func TestPackLatmFramingShortPayload(t *testing.T) {
	ctx := &aac.AscContext{AudioObjectType: 2, SamplingFrequencyIndex: aac.AscSamplingFrequencyIndex44100, ChannelConfiguration: 2}
	raw := make([]byte, 10)
	for i := range raw {
		raw[i] = byte(i)
	}
	out := aac.PackLatm(ctx, raw)

	assert.Equal(t, byte(0x00), out[0]) // useSameStreamMux flag byte
	assert.Equal(t, byte(10), out[6])   // PayloadLengthInfo: single terminal byte, len < 255
	assert.Equal(t, raw, out[7:])
	assert.Equal(t, 1+5+1+len(raw), len(out))
}

func TestPackLatmPayloadLengthInfoOver255(t *testing.T) {
	ctx := &aac.AscContext{AudioObjectType: 2, SamplingFrequencyIndex: aac.AscSamplingFrequencyIndex44100, ChannelConfiguration: 2}
	raw := make([]byte, 300)
	out := aac.PackLatm(ctx, raw)

	// 300 = 255 + 45: one 0xff continuation byte, then a terminal byte < 255
	assert.Equal(t, byte(0xff), out[6])
	assert.Equal(t, byte(45), out[7])
	assert.Equal(t, raw, out[8:])
}

func TestPackLatmEmbedsAsc(t *testing.T) {
	ctx := &aac.AscContext{AudioObjectType: 2, SamplingFrequencyIndex: aac.AscSamplingFrequencyIndex48000, ChannelConfiguration: 1}
	out := aac.PackLatm(ctx, []byte{0x01})
	smc := out[1:6]
	assert.Equal(t, byte(0x40), smc[0]&0xc0) // audioMuxVersion=0, allStreamsSameTimeFraming=1
}
