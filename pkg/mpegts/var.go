// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/naza/pkg/nazalog"
)

var Log = nazalog.GetGlobalLogger()

// fixed PIDs, §6 PID map
const (
	PidPat  uint16 = 0x0000
	PidNit  uint16 = 0x0010
	PidSdt  uint16 = 0x0011
	PidEit  uint16 = 0x0012
	PidTot  uint16 = 0x0014
	PidNull uint16 = 0x1fff
)

// default pid allocation bases, §4.4 / §6
const (
	DefaultPmtStartPid uint16 = 0x1000
	DefaultStartPid    uint16 = 0x0100
)

// default PES stream_id values, §4.3
const (
	StreamIdVideo       uint8 = 0xe0
	StreamIdVideoDirac  uint8 = 0xfd
	StreamIdAudio       uint8 = 0xc0
	StreamIdAc3OnM2ts   uint8 = 0xfd
	StreamIdDataDefault uint8 = 0xfc
	StreamIdOther       uint8 = 0xbd
)

// table_id values, §4.2
const (
	TableIdPat uint8 = 0x00
	TableIdPmt uint8 = 0x02
	TableIdSdt uint8 = 0x42
	TableIdNit uint8 = 0x40
	TableIdTot uint8 = 0x73
	TableIdEit uint8 = 0x4e
)

const syncByte uint8 = 0x47

// delay added to every PTS/DTS value before encoding, mirrors the teacher's
// fixed offset so a freshly initialized mux never emits a PCR/PTS at 0.
const delay uint64 = 63000 // 700ms @ 90kHz, matches ffmpeg's av_rescale default initial delay order of magnitude

// SectionMaxLength is the largest permitted section_length value, §3/§4.1.
const SectionMaxLength = 1021

// stream kinds, used by the service model and codec adapters (C4/C6).
type StreamKind uint8

const (
	StreamKindUnknown StreamKind = iota
	StreamKindVideoH264
	StreamKindVideoHevc
	StreamKindVideoMpeg2
	StreamKindVideoVc1
	StreamKindVideoDirac
	StreamKindAudioAac
	StreamKindAudioMp2
	StreamKindAudioMp3
	StreamKindAudioAc3
	StreamKindAudioEac3
	StreamKindAudioDts
	StreamKindAudioTrueHd
	StreamKindAudioOpus
	StreamKindAudioS302m
	StreamKindSubtitleDvb
	StreamKindSubtitleTeletext
	StreamKindDataKlv
	StreamKindDataOther
)

func (k StreamKind) IsVideo() bool {
	switch k {
	case StreamKindVideoH264, StreamKindVideoHevc, StreamKindVideoMpeg2, StreamKindVideoVc1, StreamKindVideoDirac:
		return true
	}
	return false
}

func (k StreamKind) IsAudio() bool {
	switch k {
	case StreamKindAudioAac, StreamKindAudioMp2, StreamKindAudioMp3, StreamKindAudioAc3, StreamKindAudioEac3,
		StreamKindAudioDts, StreamKindAudioTrueHd, StreamKindAudioOpus, StreamKindAudioS302m:
		return true
	}
	return false
}

func (k StreamKind) IsSubtitle() bool {
	return k == StreamKindSubtitleDvb || k == StreamKindSubtitleTeletext
}

// StreamTypeOf maps a codec kind to its PMT stream_type, Table 1 in §4.2.
func StreamTypeOf(k StreamKind, systemB bool, aacLatm bool) uint8 {
	switch k {
	case StreamKindVideoMpeg2:
		return 0x02
	case StreamKindVideoH264:
		return 0x1b
	case StreamKindVideoHevc:
		return 0x24
	case StreamKindVideoVc1:
		return 0xea
	case StreamKindVideoDirac:
		return 0xd1
	case StreamKindAudioMp2, StreamKindAudioMp3:
		return 0x03
	case StreamKindAudioAac:
		if aacLatm {
			return 0x11
		}
		return 0x0f
	case StreamKindAudioAc3:
		if systemB {
			return 0x06
		}
		return 0x81
	case StreamKindAudioEac3:
		if systemB {
			return 0x06
		}
		return 0x87
	case StreamKindAudioDts:
		return 0x8a
	case StreamKindAudioTrueHd:
		return 0x83
	default:
		return 0x06
	}
}
