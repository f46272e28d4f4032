// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import "github.com/q191201771/naza/pkg/bele"

// section writer, C1: wraps a table payload with the common PSI section
// header/syntax-section/CRC envelope described in <iso13818-1.pdf> 2.4.4.
//
// reservedPrefix is ORed into the 4 reserved bits preceding section_length:
// 0xF000 for SDT (all-ones reserved nibble), 0xB000 for everything else
// that goes through this writer (section_syntax_indicator=1, '0', reserved=11).
const (
	reservedPrefixDefault uint16 = 0xb000
	reservedPrefixSdt     uint16 = 0xf000
)

// writeSection builds a complete section: header, table_id_extension,
// version/current_next, section_number/last_section_number, payload, CRC32.
// Returns ErrSectionTooLarge if section_length would exceed SectionMaxLength.
func writeSection(tableId uint8, tableIdExt uint16, version uint8, sectionNumber, lastSectionNumber uint8, reservedPrefix uint16, payload []byte) ([]byte, error) {
	// payload + table_id_ext(2) + reserved/version/cni(1) + section_number(1) + last_section_number(1) + crc(4)
	sectionLength := len(payload) + 9
	if sectionLength > SectionMaxLength {
		return nil, NewErrSectionTooLarge(sectionLength)
	}

	out := make([]byte, 3+sectionLength)
	out[0] = tableId
	bele.BePutUint16(out[1:], reservedPrefix|uint16(sectionLength))
	bele.BePutUint16(out[3:], tableIdExt)
	out[5] = 0xc0 | (version&0x1f)<<1 | 0x01 // reserved=11, version(5), current_next=1
	out[6] = sectionNumber
	out[7] = lastSectionNumber
	copy(out[8:], payload)

	crc := CalcCrc32(0xffffffff, out[:8+len(payload)])
	bele.BePutUint32(out[8+len(payload):], crc)

	return out, nil
}

// writePrivateSection builds the TOT's short/private section form: no
// section_number/last_section_number, table_id_ext is not present either
// (TOT carries its payload directly after the length field), per §4.2.
func writePrivateSection(tableId uint8, payload []byte) []byte {
	sectionLength := len(payload) + 4 // payload + crc
	out := make([]byte, 3+sectionLength)
	out[0] = tableId
	bele.BePutUint16(out[1:], 0x7000|uint16(sectionLength)) // section_syntax_indicator=0, reserved=111
	copy(out[3:], payload)
	crc := CalcCrc32(0xffffffff, out[:3+len(payload)])
	bele.BePutUint32(out[3+len(payload):], crc)
	return out
}

// chunkSection splits a fully-built section (including CRC) into 188-byte TS
// packets on pid, advancing *cc for every packet, per §4.1's final paragraph.
// The first packet gets a pointer_field of 0 plus payload_unit_start=1; the
// final packet is right-padded with 0xFF.
func chunkSection(section []byte, pid uint16, cc *uint8) [][]byte {
	var packets [][]byte

	lpos := 0
	first := true
	for lpos < len(section) || first {
		pkt := make([]byte, 188)
		pkt[0] = syncByte
		pkt[1] = 0
		if first {
			pkt[1] = 0x40
		}
		pkt[1] |= uint8((pid >> 8) & 0x1f)
		pkt[2] = uint8(pid & 0xff)
		*cc = (*cc + 1) & 0x0f
		pkt[3] = 0x10 | *cc

		wpos := 4
		if first {
			pkt[4] = 0 // pointer_field
			wpos = 5
			first = false
		}

		space := 188 - wpos
		remain := len(section) - lpos
		n := remain
		if n > space {
			n = space
		}
		copy(pkt[wpos:], section[lpos:lpos+n])
		lpos += n
		wpos += n

		if wpos < 188 {
			for i := wpos; i < 188; i++ {
				pkt[i] = 0xff
			}
		}

		packets = append(packets, pkt)

		if lpos >= len(section) {
			break
		}
	}

	return packets
}
