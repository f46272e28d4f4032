// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"errors"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/naza/pkg/bele"
)

func TestSecBufU8U16Bytes(t *testing.T) {
	sb := newSecBuf()
	sb.U8(0x01).U16(0x0203).Bytes_([]byte{0x04, 0x05}).Str("ab")
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 'a', 'b'}, sb.Bytes())
	assert.Equal(t, 7, sb.Len())
}

func TestSecBufBeginLen16PatchesLength(t *testing.T) {
	sb := newSecBuf()
	sb.U8(0xaa)
	sc := sb.BeginLen16(0xf000)
	sb.U8(0x01)
	sb.U8(0x02)
	sb.U8(0x03)
	sc.End()

	b := sb.Bytes()
	assert.Equal(t, byte(0xaa), b[0])
	length := bele.BeUint16(b[1:]) &^ 0xf000
	assert.Equal(t, uint16(3), length)
}

func TestSecBufNestedScopes(t *testing.T) {
	sb := newSecBuf()
	outer := sb.BeginLen16(0xb000)
	sb.U8(0x11)
	inner := sb.BeginLen16(0xf000)
	sb.U8(0x22)
	sb.U8(0x33)
	inner.End()
	sb.U8(0x44)
	outer.End()

	b := sb.Bytes()
	outerLen := bele.BeUint16(b[0:]) &^ 0xb000
	assert.Equal(t, uint16(len(b)-2), outerLen)
	innerLen := bele.BeUint16(b[3:]) &^ 0xf000
	assert.Equal(t, uint16(2), innerLen)
}

func TestWriteSectionRoundTrip(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	section, err := writeSection(TableIdPat, 0x1234, 7, 0, 0, reservedPrefixDefault, payload)
	assert.Equal(t, nil, err)

	assert.Equal(t, TableIdPat, section[0])

	sectionLength := bele.BeUint16(section[1:]) &^ 0xb000
	assert.Equal(t, int(sectionLength), len(section)-3)

	tableIdExt := bele.BeUint16(section[3:])
	assert.Equal(t, uint16(0x1234), tableIdExt)

	version := (section[5] >> 1) & 0x1f
	assert.Equal(t, uint8(7), version)
	assert.Equal(t, uint8(1), section[5]&0x01) // current_next_indicator

	crc := CalcCrc32(0xffffffff, section[:len(section)-4])
	gotCrc := bele.BeUint32(section[len(section)-4:])
	assert.Equal(t, crc, gotCrc)
}

func TestWriteSectionTooLarge(t *testing.T) {
	payload := make([]byte, SectionMaxLength)
	_, err := writeSection(TableIdPat, 0, 0, 0, 0, reservedPrefixDefault, payload)
	assert.Equal(t, true, errors.Is(err, ErrSectionTooLarge))
}

func TestWritePrivateSection(t *testing.T) {
	payload := []byte{0xaa, 0xbb}
	section := writePrivateSection(TableIdTot, payload)
	assert.Equal(t, TableIdTot, section[0])

	sectionLength := bele.BeUint16(section[1:]) &^ 0x7000
	assert.Equal(t, int(sectionLength), len(section)-3)

	crc := CalcCrc32(0xffffffff, section[:len(section)-4])
	gotCrc := bele.BeUint32(section[len(section)-4:])
	assert.Equal(t, crc, gotCrc)
}

func TestChunkSectionSinglePacket(t *testing.T) {
	section := make([]byte, 100)
	for i := range section {
		section[i] = byte(i)
	}
	var cc uint8 = 0x0f
	packets := chunkSection(section, 0x0020, &cc)

	assert.Equal(t, 1, len(packets))
	pkt := packets[0]
	assert.Equal(t, 188, len(pkt))
	assert.Equal(t, byte(syncByte), pkt[0])
	assert.Equal(t, byte(0x40|0x00), pkt[1]) // payload_unit_start + pid high bits
	assert.Equal(t, byte(0x20), pkt[2])
	assert.Equal(t, uint8(0x10|0x00), pkt[3]) // cc wrapped from 0xf to 0x0
	assert.Equal(t, byte(0x00), pkt[4])       // pointer_field
	assert.Equal(t, section, pkt[5:5+len(section)])
	for i := 5 + len(section); i < 188; i++ {
		assert.Equal(t, byte(0xff), pkt[i])
	}
}

func TestChunkSectionMultiplePackets(t *testing.T) {
	section := make([]byte, 400)
	for i := range section {
		section[i] = byte(i % 251)
	}
	var cc uint8
	packets := chunkSection(section, 0x0100, &cc)

	assert.Equal(t, true, len(packets) > 1)
	for i, pkt := range packets {
		assert.Equal(t, 188, len(pkt))
		wantPusi := byte(0)
		if i == 0 {
			wantPusi = 0x40
		}
		assert.Equal(t, wantPusi, pkt[1]&0x40)
	}

	// reassemble and compare, accounting for the first packet's pointer_field
	var rebuilt []byte
	for i, pkt := range packets {
		body := pkt[4:]
		if i == 0 {
			body = body[1:] // skip pointer_field
		}
		rebuilt = append(rebuilt, body...)
	}
	assert.Equal(t, section, rebuilt[:len(section)])
}

func TestChunkSectionAdvancesContinuityCounter(t *testing.T) {
	section := make([]byte, 400)
	var cc uint8 = 14
	packets := chunkSection(section, 0x0100, &cc)
	assert.Equal(t, true, len(packets) >= 3)
	assert.Equal(t, uint8(15), packets[0][3]&0x0f)
	assert.Equal(t, uint8(0), packets[1][3]&0x0f)
	assert.Equal(t, uint8(1), packets[2][3]&0x0f)
}
