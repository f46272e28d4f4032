// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestBuildPesHeaderPtsOnly(t *testing.T) {
	h := BuildPesHeader(StreamIdVideo, 1000, 1000, 50, false, false, false)
	assert.Equal(t, byte(0x00), h[0])
	assert.Equal(t, byte(0x00), h[1])
	assert.Equal(t, byte(0x01), h[2])
	assert.Equal(t, StreamIdVideo, h[3])
	assert.Equal(t, byte(0x2<<6), h[7]&0xc0) // PTS_DTS_flags=10
	assert.Equal(t, uint8(5), h[8])          // header_data_length
	assert.Equal(t, 14, len(h))
}

func TestBuildPesHeaderPtsAndDts(t *testing.T) {
	h := BuildPesHeader(StreamIdAudio, 2000, 1000, 50, false, false, false)
	assert.Equal(t, byte(0x3<<6), h[7]&0xc0) // PTS_DTS_flags=11
	assert.Equal(t, uint8(10), h[8])
	assert.Equal(t, 19, len(h))
}

func TestBuildPesHeaderLengthOverflowForcesZero(t *testing.T) {
	h := BuildPesHeader(StreamIdVideo, 0, 0, 0x10000, false, false, false)
	pesLen := uint16(h[4])<<8 | uint16(h[5])
	assert.Equal(t, uint16(0), pesLen)
}

func TestBuildPesHeaderForceZeroLen(t *testing.T) {
	h := BuildPesHeader(StreamIdVideo, 0, 0, 50, false, false, true)
	pesLen := uint16(h[4])<<8 | uint16(h[5])
	assert.Equal(t, uint16(0), pesLen)
}

func TestBuildPesHeaderDataAlignment(t *testing.T) {
	h := BuildPesHeader(StreamIdOther, 0, 0, 10, true, false, false)
	assert.Equal(t, byte(0x04), h[6]&0x04)
}

func TestBuildPesHeaderTeletextPadding(t *testing.T) {
	h := BuildPesHeader(StreamIdOther, 0, 0, 10, true, true, false)
	assert.Equal(t, 0x24, len(h))
}

func TestDefaultStreamId(t *testing.T) {
	assert.Equal(t, StreamIdVideo, DefaultStreamId(StreamKindVideoH264, false))
	assert.Equal(t, StreamIdVideoDirac, DefaultStreamId(StreamKindVideoDirac, false))
	assert.Equal(t, StreamIdAudio, DefaultStreamId(StreamKindAudioAac, false))
	assert.Equal(t, StreamIdOther, DefaultStreamId(StreamKindAudioAc3, false))
	assert.Equal(t, StreamIdAc3OnM2ts, DefaultStreamId(StreamKindAudioAc3, true))
	assert.Equal(t, StreamIdDataDefault, DefaultStreamId(StreamKindDataKlv, false))
	assert.Equal(t, StreamIdOther, DefaultStreamId(StreamKindSubtitleDvb, false))
}

func TestPesFramePackSinglePacket(t *testing.T) {
	frame := &PesFrame{
		Pid:      0x100,
		StreamId: StreamIdVideo,
		Pts:      90000,
		Dts:      90000,
		Key:      true,
		Raw:      []byte{0x00, 0x00, 0x00, 0x01, 0x09, 0xf0},
	}
	packets := frame.Pack()
	assert.Equal(t, 0, len(packets)%188)
	first := packets[:188]
	assert.Equal(t, byte(syncByte), first[0])
	assert.Equal(t, byte(0x40), first[1]&0x40) // payload_unit_start
	assert.Equal(t, byte(0x20), first[3]&0x20) // adaptation field present (Key)
	assert.Equal(t, byte(0x40), first[5]&0x40) // random_access_indicator
}

func TestPesFramePackWithPcr(t *testing.T) {
	pcr := uint64(1234567)
	frame := &PesFrame{
		Pid:      0x101,
		StreamId: StreamIdAudio,
		Pts:      1000,
		Dts:      1000,
		Pcr:      &pcr,
		Raw:      make([]byte, 10),
	}
	packets := frame.Pack()
	first := packets[:188]
	assert.Equal(t, byte(0x20), first[3]&0x20)
	assert.Equal(t, byte(0x10), first[5]&0x10) // PCR_flag
}

func TestPesFramePackMultiplePacketsPadsLast(t *testing.T) {
	raw := make([]byte, 500)
	for i := range raw {
		raw[i] = byte(i)
	}
	frame := &PesFrame{
		Pid:      0x102,
		StreamId: StreamIdVideo,
		Pts:      0,
		Dts:      0,
		OmitPesLength: true,
		Raw:      raw,
	}
	packets := frame.Pack()
	n := len(packets) / 188
	assert.Equal(t, true, n > 1)
	for i := 0; i < n; i++ {
		pkt := packets[i*188 : i*188+188]
		wantPusi := byte(0)
		if i == 0 {
			wantPusi = 0x40
		}
		assert.Equal(t, wantPusi, pkt[1]&0x40)
	}
}

func TestPesFramePackAdvancesContinuityCounter(t *testing.T) {
	frame := &PesFrame{
		Pid:      0x100,
		Cc:       5,
		StreamId: StreamIdVideo,
		Raw:      make([]byte, 400),
		OmitPesLength: true,
	}
	frame.Pack()
	// Cc field mutates in place, advancing once per emitted packet.
	assert.Equal(t, true, frame.Cc != 5)
}

func TestBuildPcrOnlyPacket(t *testing.T) {
	pkt := BuildPcrOnlyPacket(0x11, 3, 900000)
	assert.Equal(t, 188, len(pkt))
	assert.Equal(t, byte(syncByte), pkt[0])
	assert.Equal(t, byte(0x20|0x03), pkt[3])
	assert.Equal(t, byte(183), pkt[4])
	assert.Equal(t, byte(0x10), pkt[5])
	for i := 12; i < 188; i++ {
		assert.Equal(t, byte(0xff), pkt[i])
	}
}

func TestBuildNullPacket(t *testing.T) {
	pkt := BuildNullPacket()
	assert.Equal(t, 188, len(pkt))
	assert.Equal(t, byte(syncByte), pkt[0])
	pid := uint16(pkt[1]&0x1f)<<8 | uint16(pkt[2])
	assert.Equal(t, PidNull, pid)
}

func TestPackPcrRoundTrip(t *testing.T) {
	out := make([]byte, 6)
	packPcr(out, 27000000) // 1 second worth of 27MHz ticks
	base := uint64(out[0])<<25 | uint64(out[1])<<17 | uint64(out[2])<<9 | uint64(out[3])<<1 | uint64(out[4])>>7
	ext := (uint64(out[4]) & 0x1) << 8 | uint64(out[5])
	got := base*300 + ext
	assert.Equal(t, uint64(27000000), got)
}
