// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// EitServiceEvent is one service's present/following event entry in the EIT
// loop, §4.2.
type EitServiceEvent struct {
	Sid            uint16
	StartUnix      int64
	DurationSecs   uint32
	EventName      string
	EventText      string
	ParentalRating uint8
	FullSeg        bool
	Components     []ComponentStream
	AudioTag       uint8
	AudioStreamType uint8
	ContentNibbles [][2]uint8
}

// BuildEit builds the EIT actual-TS, present/following section (table_id
// 0x4E). table_id_ext is always tsid, passed explicitly by the caller; this
// corrects the original source's bug of substituting the last service's sid
// for the transport stream id, §9 open question 3.
func BuildEit(tsid uint16, onid uint16, version uint8, events []EitServiceEvent) ([]byte, error) {
	sb := newSecBuf()
	sb.U16(tsid)
	sb.U16(onid)
	sb.U8(0) // segment_last_section_number
	sb.U8(TableIdEit) // last_table_id

	for _, e := range events {
		sb.U16(e.Sid)
		mjd, hour, minute, second := mjdFromUnix(e.StartUnix)
		writeMjdUtc(sb, mjd, hour, minute, second)
		writeBcdDuration(sb, e.DurationSecs)

		sc := sb.BeginLen16(0x8000) // running_status(3)=100 (running), free_ca_mode(1)=0
		sb.Bytes_(descShortEvent("por", e.EventName, e.EventText))
		sb.Bytes_(descParentalRating("bra", e.ParentalRating))
		if e.FullSeg {
			for _, c := range e.Components {
				sb.Bytes_(descComponent(c))
			}
			sb.Bytes_(descAudioComponent(e.AudioTag, e.AudioStreamType, false, "por"))
			if len(e.ContentNibbles) > 0 {
				sb.Bytes_(descContent(e.ContentNibbles))
			}
		}
		sc.End()
	}

	return writeSection(TableIdEit, tsid, version, 0, 0, reservedPrefixDefault, sb.Bytes())
}

// writeBcdDuration writes a 3-byte BCD hh:mm:ss duration field.
func writeBcdDuration(sb *secBuf, totalSeconds uint32) {
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	sb.U8(toBcd(uint8(h)))
	sb.U8(toBcd(uint8(m)))
	sb.U8(toBcd(uint8(s)))
}
