// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// PesFrame describes one PES packet's worth of elementary-stream data, to be
// chunked onto 188-byte TS packets, C3. One PesFrame == one call to
// write_pes; the caller (the mux/service layer, C4/C5) is responsible for
// buffering audio up to pes_payload_size before constructing a PesFrame.
type PesFrame struct {
	Pid      uint16
	Cc       uint8 // continuity counter, mod 16; Pack() advances it in place
	StreamId uint8
	Pts      uint64
	Dts      uint64

	// Key sets the random_access_indicator on the PES's first TS packet's
	// adaptation field, §4.3 step 5. Meaningless for audio/subtitle streams.
	Key bool

	// Pcr, if non-nil, is scheduled into the adaptation field of the first
	// TS packet of this PES, in 27MHz ticks, §4.3 steps 2/6.
	Pcr *uint64

	DataAlignment bool // set for subtitle/teletext PES per §4.3
	PadToTeletext bool // DVB teletext: pad PES header to 0x24 bytes total
	OmitPesLength bool // §12 omit_video_pes_length: force PES_packet_length=0

	// Raw is the elementary-stream payload: ADTS/LATM AAC, Annex-B AVC/HEVC,
	// or (for DVB subtitles) the already-wrapped 0x20 0x00 ... 0xFF buffer.
	Raw []byte
}

// Pack chunks the frame into one or more 188-byte TS packets.
//
// Adaptation-field stuffing on the last packet grows the AF rather than
// padding with trailing bytes, per §4.3's invariant. The returned buffer is
// independently allocated.
func (frame *PesFrame) Pack() []byte {
	header := BuildPesHeader(frame.StreamId, frame.Pts, frame.Dts, len(frame.Raw), frame.DataAlignment, frame.PadToTeletext, frame.OmitPesLength)

	bufLen := (len(header) + len(frame.Raw)) * 2
	if bufLen < 1024 {
		bufLen = 1024
	}
	buf := make([]byte, bufLen)

	// content is the PES header followed by the elementary-stream bytes;
	// the loop below chunks this single logical stream across TS packets.
	content := make([]byte, 0, len(header)+len(frame.Raw))
	content = append(content, header...)
	content = append(content, frame.Raw...)

	lpos := 0
	rpos := len(content)
	first := true
	packetPosAtBuf := 0

	for lpos != rpos {
		if packetPosAtBuf+188 > len(buf) {
			newBuf := make([]byte, packetPosAtBuf+188)
			copy(newBuf, buf)
			buf = newBuf
		}

		packet := buf[packetPosAtBuf : packetPosAtBuf+188]
		wpos := 0
		packetPosAtBuf += 188

		frame.Cc = (frame.Cc + 1) & 0x0f

		packet[0] = syncByte
		packet[1] = 0x0
		if first {
			packet[1] = 0x40 // payload_unit_start_indicator
		}
		packet[1] |= uint8((frame.Pid >> 8) & 0x1f)
		packet[2] = uint8(frame.Pid & 0xff)

		packet[3] = 0x10 | frame.Cc
		wpos += 4

		if first {
			if frame.Key || frame.Pcr != nil {
				packet[3] |= 0x20 // adaptation_field_control: adaptation + payload
				afLen := uint8(1)
				flagsByte := uint8(0)
				if frame.Key {
					flagsByte |= 0x40 // random_access_indicator
				}
				if frame.Pcr != nil {
					flagsByte |= 0x10 // PCR_flag
					afLen += 6
				}
				packet[4] = afLen
				packet[5] = flagsByte
				if frame.Pcr != nil {
					packPcr(packet[6:], *frame.Pcr)
				}
				wpos += 1 + int(afLen)
			}
			first = false
		}

		bodySize := 188 - wpos
		inSize := rpos - lpos

		if bodySize <= inSize {
			copy(packet[wpos:], content[lpos:lpos+bodySize])
			lpos += bodySize
		} else {
			stuffSize := bodySize - inSize

			if packet[3]&0x20 != 0 {
				base := 5 + int(packet[4])
				if wpos > base {
					copy(packet[base+stuffSize:], packet[base:wpos])
				}
				wpos = base + stuffSize
				packet[4] += uint8(stuffSize)
				for i := 0; i < stuffSize; i++ {
					packet[base+i] = 0xff
				}
			} else {
				packet[3] |= 0x20
				base := 4
				if wpos > base {
					copy(packet[base+stuffSize:], packet[base:wpos])
				}
				wpos += stuffSize
				packet[4] = uint8(stuffSize - 1)
				if stuffSize >= 2 {
					packet[5] = 0
					for i := 0; i < stuffSize-2; i++ {
						packet[6+i] = 0xff
					}
				}
			}

			copy(packet[wpos:], content[lpos:lpos+inSize])
			lpos = rpos
		}
	}

	return buf[:packetPosAtBuf]
}

// BuildPcrOnlyPacket builds a PID-specific TS packet carrying only an
// adaptation field with a PCR and no payload, §4.3 step 3. cc is not
// advanced: a PCR-only packet is not a payload unit.
func BuildPcrOnlyPacket(pid uint16, cc uint8, pcr uint64) []byte {
	pkt := make([]byte, 188)
	pkt[0] = syncByte
	pkt[1] = uint8((pid >> 8) & 0x1f)
	pkt[2] = uint8(pid & 0xff)
	pkt[3] = 0x20 | (cc & 0x0f) // adaptation_field_control=10 (adaptation only)
	pkt[4] = 183
	pkt[5] = 0x10 // PCR_flag
	packPcr(pkt[6:], pcr)
	for i := 12; i < 188; i++ {
		pkt[i] = 0xff
	}
	return pkt
}

// BuildNullPacket builds a null packet (PID 0x1FFF), §4.3 step 3.
func BuildNullPacket() []byte {
	pkt := make([]byte, 188)
	pkt[0] = syncByte
	pkt[1] = uint8((PidNull >> 8) & 0x1f)
	pkt[2] = uint8(PidNull & 0xff)
	pkt[3] = 0x10
	for i := 4; i < 188; i++ {
		pkt[i] = 0xff
	}
	return pkt
}

// ----- private -------------------------------------------------------------------------------------------------------

// packPcr writes the 6-byte PCR field: 33-bit base (27MHz/300), 9-bit
// extension, §4.3's PCR encoding paragraph.
func packPcr(out []byte, pcr27 uint64) {
	base := (pcr27 / 300) & 0x1ffffffff
	ext := uint16(pcr27 % 300)
	out[0] = uint8(base >> 25)
	out[1] = uint8(base >> 17)
	out[2] = uint8(base >> 9)
	out[3] = uint8(base >> 1)
	out[4] = uint8(base<<7) | 0x7e | uint8((ext>>8)&0x1)
	out[5] = uint8(ext)
}

// packPts packs a PTS or DTS value with its 4-bit prefix (2 for PTS-only,
// 3 for PTS-with-DTS-present, 1 for DTS), per the classic 5-byte layout.
func packPts(out []byte, fb uint8, pts uint64) {
	var val uint64
	out[0] = (fb << 4) | ((uint8(pts>>30) & 0x07) << 1) | 1

	val = (((pts >> 15) & 0x7fff) << 1) | 1
	out[1] = uint8(val >> 8)
	out[2] = uint8(val)

	val = ((pts & 0x7fff) << 1) | 1
	out[3] = uint8(val >> 8)
	out[4] = uint8(val)
}
