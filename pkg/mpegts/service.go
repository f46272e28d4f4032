// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// TransmissionProfile selects the ISDB service-ID synthesis rule, §4.4.
type TransmissionProfile uint8

const (
	ProfileDefault TransmissionProfile = iota // single service, configured service_id
	Profile1                                  // one full-HD + one one-seg
	Profile2                                  // four SD + one one-seg
	Profile3                                  // two HD + one one-seg
)

// Service is one PAT/SDT/NIT entry: a program carrying a PMT and zero or
// more elementary streams, §3.
type Service struct {
	Sid          uint16
	PmtPid       uint16
	PcrPid       uint16 // 0x1fff until a stream is adopted, §4.4
	ProviderName string
	Name         string
	Cc           uint8 // PMT section continuity counter
	StreamIdxs   []int // indices into Mux.streams belonging to this service
}

// synthesizeSids returns the sid for each service under the given profile,
// §4.4. onid is masked to 11 bits (ONID & 0x7FF) for ISDB profiles; the
// default profile ignores onid and uses serviceId verbatim.
func synthesizeSids(profile TransmissionProfile, onid uint16, serviceId uint16) []uint16 {
	base := onid & 0x7ff
	switch profile {
	case Profile1:
		return []uint16{
			base<<5 | 0<<3 | 0,
			base<<5 | 3<<3 | 1,
		}
	case Profile2:
		return []uint16{
			base<<5 | 0<<3 | 0,
			base<<5 | 0<<3 | 1,
			base<<5 | 0<<3 | 2,
			base<<5 | 0<<3 | 3,
			base<<5 | 3<<3 | 4,
		}
	case Profile3:
		return []uint16{
			base<<5 | 0<<3 | 0,
			base<<5 | 0<<3 | 1,
			base<<5 | 3<<3 | 4,
		}
	default:
		return []uint16{serviceId}
	}
}

// WriteStream is one elementary stream's bookkeeping, §3.
type WriteStream struct {
	Kind         StreamKind
	Pid          uint16
	Cc           uint8
	SvcIndex     int // index into Mux.Services
	ChannelCount uint8
	Extradata    []byte

	PayloadBuffer []byte
	PayloadPts    uint64
	PayloadDts    uint64
	PayloadKey    bool
	HasFirstPts   bool
	PrevKey       bool
	NbFrames      uint64 // frames already adapted for this stream, §4.6's nb_frames check

	// per-codec auxiliary state, C6
	OpusPendingTrimStart uint16
	OpusPendingTrimEnd   uint16
}

// assignStreamPid resolves a caller-supplied stream id to its 13-bit PID,
// §4.4: ids below 16 are relative to startPid; ids below 0x1FFF are taken
// literally; anything else is an error.
func assignStreamPid(callerId int, index int, startPid uint16) (uint16, error) {
	if callerId >= 0 && callerId < 16 {
		return startPid + uint16(index), nil
	}
	if callerId >= 0 && callerId < 0x1fff {
		return uint16(callerId), nil
	}
	return 0, NewErrStreamIdTooLarge(callerId)
}

// assignServices builds the service registry and assigns streams to
// services round-robin (stream_index mod final_nb_services), adopting the
// first video stream's PID as its service's PCR pid (or the first stream of
// any kind if there is no video), §4.4.
func assignServices(sids []uint16, pmtStartPid uint16, providerName string, names []string, streams []*WriteStream) ([]*Service, error) {
	services := make([]*Service, len(sids))
	for i, sid := range sids {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		services[i] = &Service{
			Sid:          sid,
			PmtPid:       pmtStartPid + uint16(i),
			PcrPid:       PidNull,
			ProviderName: providerName,
			Name:         name,
		}
	}

	seenPids := make(map[uint16]bool)
	for _, svc := range services {
		if seenPids[svc.PmtPid] {
			return nil, NewErrDuplicatePid(svc.PmtPid)
		}
		seenPids[svc.PmtPid] = true
	}

	n := len(services)
	for idx, st := range streams {
		if seenPids[st.Pid] {
			return nil, NewErrDuplicatePid(st.Pid)
		}
		seenPids[st.Pid] = true

		svcIdx := idx % n
		st.SvcIndex = svcIdx
		services[svcIdx].StreamIdxs = append(services[svcIdx].StreamIdxs, idx)

		svc := services[svcIdx]
		if svc.PcrPid == PidNull {
			svc.PcrPid = st.Pid
		} else if st.Kind.IsVideo() {
			// a later video stream still wins PCR duty over an
			// already-adopted non-video stream, §4.4.
			firstIsVideo := false
			for _, si := range svc.StreamIdxs {
				if streams[si].Pid == svc.PcrPid && streams[si].Kind.IsVideo() {
					firstIsVideo = true
					break
				}
			}
			if !firstIsVideo {
				svc.PcrPid = st.Pid
			}
		}
	}

	return services, nil
}
