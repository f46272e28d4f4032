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

func TestAscContextPackUnpackRoundTrip(t *testing.T) {
	ctx := aac.AscContext{AudioObjectType: 2, SamplingFrequencyIndex: aac.AscSamplingFrequencyIndex44100, ChannelConfiguration: 2}
	packed := ctx.Pack()
	assert.Equal(t, 2, len(packed))

	got, err := aac.NewAscContext(packed)
	assert.Equal(t, nil, err)
	assert.Equal(t, ctx.AudioObjectType, got.AudioObjectType)
	assert.Equal(t, ctx.SamplingFrequencyIndex, got.SamplingFrequencyIndex)
	assert.Equal(t, ctx.ChannelConfiguration, got.ChannelConfiguration)
}

func TestAscContextUnpackTooShort(t *testing.T) {
	_, err := aac.NewAscContext([]byte{0x12})
	assert.Equal(t, true, err != nil)
}

func TestAscContextGetSamplingFrequency(t *testing.T) {
	ctx := aac.AscContext{SamplingFrequencyIndex: aac.AscSamplingFrequencyIndex48000}
	freq, err := ctx.GetSamplingFrequency()
	assert.Equal(t, nil, err)
	assert.Equal(t, 48000, freq)

	ctx.SamplingFrequencyIndex = 6 // 24000, not one of the two fast-pathed indices
	_, err = ctx.GetSamplingFrequency()
	assert.Equal(t, true, err != nil)
}

func TestPackAdtsHeaderLength(t *testing.T) {
	ctx := aac.AscContext{AudioObjectType: 2, SamplingFrequencyIndex: aac.AscSamplingFrequencyIndex44100, ChannelConfiguration: 2}
	h := ctx.PackAdtsHeader(100)
	assert.Equal(t, aac.AdtsHeaderLength, len(h))
	assert.Equal(t, byte(0xff), h[0])
	assert.Equal(t, byte(0xf0), h[1]&0xf0)
}

func TestPackToAdtsHeaderTooShort(t *testing.T) {
	ctx := aac.AscContext{}
	err := ctx.PackToAdtsHeader(make([]byte, 3), 10)
	assert.Equal(t, true, err != nil)
}

func TestAdtsHeaderContextRoundTrip(t *testing.T) {
	ctx := aac.AscContext{AudioObjectType: 2, SamplingFrequencyIndex: aac.AscSamplingFrequencyIndex48000, ChannelConfiguration: 1}
	h := ctx.PackAdtsHeader(50)

	adtsCtx, err := aac.NewAdtsHeaderContext(h)
	assert.Equal(t, nil, err)
	assert.Equal(t, ctx.AudioObjectType, adtsCtx.AscCtx.AudioObjectType)
	assert.Equal(t, ctx.SamplingFrequencyIndex, adtsCtx.AscCtx.SamplingFrequencyIndex)
	assert.Equal(t, ctx.ChannelConfiguration, adtsCtx.AscCtx.ChannelConfiguration)
	assert.Equal(t, uint16(50+aac.AdtsHeaderLength), adtsCtx.AdtsLength)
}

func TestMakeAscWithAdtsHeader(t *testing.T) {
	ctx := aac.AscContext{AudioObjectType: 2, SamplingFrequencyIndex: aac.AscSamplingFrequencyIndex44100, ChannelConfiguration: 2}
	h := ctx.PackAdtsHeader(20)

	asc, err := aac.MakeAscWithAdtsHeader(h)
	assert.Equal(t, nil, err)

	back, err := aac.NewAscContext(asc)
	assert.Equal(t, nil, err)
	assert.Equal(t, ctx.AudioObjectType, back.AudioObjectType)
	assert.Equal(t, ctx.SamplingFrequencyIndex, back.SamplingFrequencyIndex)
	assert.Equal(t, ctx.ChannelConfiguration, back.ChannelConfiguration)
}
