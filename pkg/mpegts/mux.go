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
	"time"

	"github.com/q191201771/tsmux/pkg/aac"
	"github.com/q191201771/tsmux/pkg/avc"
	"github.com/q191201771/tsmux/pkg/hevc"
	"github.com/q191201771/tsmux/pkg/opus"
)

// Sink is the opaque byte-sink collaborator, §1/§6: a file, pipe, or socket
// that the mux writes fully-formed TS packets into.
type Sink interface {
	Write(b []byte) error
}

// Config is the mux's option schema, §6. NewConfig returns it with the
// documented defaults filled in; Init substitutes a default only for a zero
// FinalNbServices, PesPayloadSize or PcrPeriodMs and uses every other field
// as given.
type Config struct {
	TransportStreamId uint16
	OriginalNetworkId uint16
	ServiceId         uint16
	FinalNbServices   int
	Profile           TransmissionProfile
	ProviderName      string
	ServiceNames      []string

	AreaCode                  uint16
	GuardInterval             uint8
	TransmissionMode          uint8
	PhysicalChannel           uint8
	VirtualChannel            uint8
	TerrestrialFrequencyQuirk bool

	PmtStartPid uint16
	StartPid    uint16

	M2tsMode       int8 // -1 auto (by output filename), 0 off, 1 on
	MuxRateBps     uint64
	PesPayloadSize int

	ResendHeaders  bool
	AacLatm        bool
	PatPmtAtFrames bool
	SystemB        bool

	TablesVersion      uint8
	OmitVideoPesLength bool

	PcrPeriodMs  uint32
	PatPeriodSec float64
	SdtPeriodSec float64
	NitPeriodSec float64
	TotPeriodSec float64
	EitPeriodSec float64

	NetworkName        string
	TsName             string
	RemoteControlKeyId uint8

	MaxDelay uint64 // 90kHz ticks; audio buffering flushes when its span reaches this

	// EpgProvider, when set, is polled every time the EIT cadence fires; it
	// returns the present/following events to publish for the given sids at
	// the given wall-clock time. A nil provider means no EIT is ever emitted.
	EpgProvider func(nowUnix int64, sids []uint16) []EitServiceEvent

	// TotCountryCode/TotRegionId feed BuildTot's local_time_offset_descriptor;
	// ISDB-Tb national broadcast has no local offset from UTC-3, so the
	// default (zero value) publishes an all-zero offset.
	TotCountryCode string
	TotRegionId    uint8
}

// NewConfig returns a Config with every documented default filled in, §6.
func NewConfig() Config {
	return Config{
		TransportStreamId:         1,
		OriginalNetworkId:         1,
		ServiceId:                 1,
		FinalNbServices:           1,
		ProviderName:              "lal",
		ServiceNames:              []string{"Service01"},
		AreaCode:                  1,
		GuardInterval:             1,
		TransmissionMode:          1,
		PhysicalChannel:           20,
		VirtualChannel:            20,
		TerrestrialFrequencyQuirk: true,
		PmtStartPid:               DefaultPmtStartPid,
		StartPid:                  DefaultStartPid,
		M2tsMode:                  -1,
		MuxRateBps:                1, // VBR
		PesPayloadSize:            2930,
		SystemB:                   true,
		OmitVideoPesLength:        true,
		PcrPeriodMs:               pcrDefaultPeriodMs,
		NetworkName:               "lal",
		TsName:                    "lal",
		RemoteControlKeyId:        1,
		MaxDelay:                  0.7 * 90000,
		TotCountryCode:            "bra",
	}
}

// StreamInput describes one elementary stream at Init time, §6.
type StreamInput struct {
	Kind         StreamKind
	CallerId     int // <16: relative to StartPid; <0x1fff: literal pid
	Extradata    []byte
	ChannelCount uint8 // audio only; drives the Opus channel-mapping descriptor
}

// Packet is one compressed-frame unit passed to WritePacket, §6. A nil Data
// means flush: drain buffered audio and emit its final PES packets.
type Packet struct {
	StreamIndex int
	Data        []byte
	Pts         uint64 // 90kHz ticks
	Dts         uint64
	Key         bool
	TrimStart   *uint16 // Opus only
	TrimEnd     *uint16 // Opus only
}

// Mux is the public facade, C8: init → write_packet* → flush → deinit.
type Mux struct {
	cfg      Config
	sink     Sink
	services []*Service
	streams  []*WriteStream
	m2ts     bool

	patCc, sdtCc, nitCc, totCc uint8
	eitCc                      uint8

	cadPat, cadSdt, cadNit, cadTot, cadEit cadence
	pcrCad                                 map[uint16]*cadence

	firstPcr     uint64
	writtenBytes uint64
	reemitOnce   bool
	inited       bool

	tableEmits map[string]uint64
}

// NewMux constructs an uninitialized Mux bound to sink.
func NewMux(sink Sink) *Mux {
	return &Mux{sink: sink}
}

// Init validates PIDs, allocates services and per-stream buffers, and
// computes cadence periods. It writes no bytes, §6.
func (m *Mux) Init(cfg Config, streams []StreamInput, outputName string) error {
	m.cfg = cfg
	if cfg.FinalNbServices <= 0 {
		m.cfg.FinalNbServices = 1
	}
	if cfg.PesPayloadSize <= 0 {
		m.cfg.PesPayloadSize = 2930
	}

	sids := synthesizeSids(cfg.Profile, cfg.OriginalNetworkId, cfg.ServiceId)
	m.streams = make([]*WriteStream, len(streams))
	for i, si := range streams {
		pid, err := assignStreamPid(si.CallerId, i, m.cfg.StartPid)
		if err != nil {
			return err
		}
		m.streams[i] = &WriteStream{Kind: si.Kind, Pid: pid, ChannelCount: si.ChannelCount, Extradata: si.Extradata}
	}

	services, err := assignServices(sids, m.cfg.PmtStartPid, m.cfg.ProviderName, m.cfg.ServiceNames, m.streams)
	if err != nil {
		return err
	}
	m.services = services

	m.setupCadences()
	m.pcrCad = make(map[uint16]*cadence)
	periodMs := m.cfg.PcrPeriodMs
	if periodMs == 0 {
		periodMs = pcrDefaultPeriodMs
	}
	for _, svc := range m.services {
		if svc.PcrPid == PidNull {
			continue
		}
		c := newCadence(0, float64(periodMs)/1000)
		m.pcrCad[svc.PcrPid] = &c
	}

	switch m.cfg.M2tsMode {
	case 1:
		m.m2ts = true
	case 0:
		m.m2ts = false
	default:
		m.m2ts = DetectM2ts(outputName)
	}

	m.firstPcr = m.cfg.MaxDelay * 300
	m.tableEmits = make(map[string]uint64)
	m.inited = true
	return nil
}

// PacketsWritten returns the number of 188-byte TS packets written to the
// sink so far, for the tsmetrics exporter.
func (m *Mux) PacketsWritten() uint64 {
	return m.writtenBytes / 188
}

// BytesWritten returns the number of TS packet bytes written to the sink so
// far, 188 per packet, for the tsmetrics exporter. The 4-byte m2ts headers
// are not counted.
func (m *Mux) BytesWritten() uint64 {
	return m.writtenBytes
}

// TableEmits returns a snapshot of how many times each SI table has been
// rewritten, keyed by table name, for the tsmetrics exporter.
func (m *Mux) TableEmits() map[string]uint64 {
	out := make(map[string]uint64, len(m.tableEmits))
	for k, v := range m.tableEmits {
		out[k] = v
	}
	return out
}

func (m *Mux) setupCadences() {
	if m.cfg.MuxRateBps > 1 {
		m.cadPat = newCadence(periodPackets(m.cfg.MuxRateBps, defaultCbrPeriodsMs[SiTablePat]), m.cfg.PatPeriodSec)
		m.cadSdt = newCadence(periodPackets(m.cfg.MuxRateBps, defaultCbrPeriodsMs[SiTableSdt]), m.cfg.SdtPeriodSec)
		m.cadNit = newCadence(periodPackets(m.cfg.MuxRateBps, defaultCbrPeriodsMs[SiTableNit]), m.cfg.NitPeriodSec)
		m.cadTot = newCadence(periodPackets(m.cfg.MuxRateBps, defaultCbrPeriodsMs[SiTableTot]), m.cfg.TotPeriodSec)
		m.cadEit = newCadence(periodPackets(m.cfg.MuxRateBps, defaultCbrPeriodsMs[SiTableEit]), m.cfg.EitPeriodSec)
	} else {
		m.cadPat = newCadence(defaultVbrPeriodPkts[SiTablePat], m.cfg.PatPeriodSec)
		m.cadSdt = newCadence(defaultVbrPeriodPkts[SiTableSdt], m.cfg.SdtPeriodSec)
		m.cadNit = newCadence(defaultVbrPeriodPkts[SiTableNit], m.cfg.NitPeriodSec)
		m.cadTot = newCadence(defaultVbrPeriodPkts[SiTableTot], m.cfg.TotPeriodSec)
		m.cadEit = newCadence(defaultVbrPeriodPkts[SiTableEit], m.cfg.EitPeriodSec)
	}
}

// CheckBitstream advises the caller whether a bitstream filter should run
// ahead of WritePacket, §6.
func (m *Mux) CheckBitstream(k StreamKind, data []byte) (needsFilter bool) {
	switch {
	case k == StreamKindVideoH264 || k == StreamKindVideoHevc:
		return len(data) > 0 && data[0] == 0 && !isAnnexbStartCode(data)
	default:
		return false
	}
}

func isAnnexbStartCode(b []byte) bool {
	if len(b) >= 3 && b[0] == 0 && b[1] == 0 && b[2] == 1 {
		return true
	}
	return len(b) >= 4 && b[0] == 0 && b[1] == 0 && b[2] == 0 && b[3] == 1
}

// oneSegSids returns the subset of the mux's own sids that are one-seg,
// per the corrected predicate (not the SDT quirk), for NIT's
// partial-reception loop.
func (m *Mux) oneSegSids() []uint16 {
	var out []uint16
	for _, svc := range m.services {
		if isOneSeg(svc.Sid) {
			out = append(out, svc.Sid)
		}
	}
	return out
}

func (m *Mux) allSids() []uint16 {
	out := make([]uint16, len(m.services))
	for i, svc := range m.services {
		out[i] = svc.Sid
	}
	return out
}

// write writes raw already-chunked TS packets to the sink, applying M2TS
// framing per packet when enabled, §4.7, and tracking the byte offset used
// by CBR PCR derivation.
func (m *Mux) write(packets []byte) error {
	if !m.m2ts {
		m.writtenBytes += uint64(len(packets))
		return m.sink.Write(packets)
	}

	n := len(packets) / 188
	out := make([]byte, 0, len(packets)+4*n)
	for i := 0; i < n; i++ {
		out = append(out, WrapM2ts(packets[i*188:i*188+188], m.currentPcr())...)
		m.writtenBytes += 188
	}
	return m.sink.Write(out)
}

// currentPcr derives the CBR PCR value at the mux's current output byte
// offset, §4.3's PCR-value-source paragraph.
func (m *Mux) currentPcr() uint64 {
	if m.cfg.MuxRateBps > 1 {
		return (m.writtenBytes+11)*8*27000000/m.cfg.MuxRateBps + m.firstPcr
	}
	return m.firstPcr
}

func joinPackets(pkts [][]byte) []byte {
	out := make([]byte, 0, 188*len(pkts))
	for _, p := range pkts {
		out = append(out, p...)
	}
	return out
}

// ReemitPatPmt arms the one-shot flag forcing every SI table to be rewritten
// on the very next packet, §4.5.
func (m *Mux) ReemitPatPmt() {
	m.reemitOnce = true
}

// WritePacket runs the codec adapter (C6) over one compressed frame, buffers
// audio up to pes_payload_size/max_delay, and packetizes video/subtitle/data
// frames immediately, §6. A Packet with nil Data flushes that stream's
// pending audio buffer without accepting new data.
func (m *Mux) WritePacket(pkt Packet) error {
	if !m.inited {
		return ErrNotInited
	}
	if pkt.StreamIndex < 0 || pkt.StreamIndex >= len(m.streams) {
		return NewErrStreamIdTooLarge(pkt.StreamIndex)
	}
	st := m.streams[pkt.StreamIndex]

	if pkt.Data == nil {
		return m.drainAudio(st)
	}

	data, err := m.adaptCodec(st, pkt)
	if err != nil {
		return err
	}

	if st.Kind.IsAudio() {
		return m.bufferAudio(st, data, pkt)
	}
	return m.emitPes(st, data, pkt.Pts, pkt.Dts, pkt.Key)
}

// adaptCodec runs the per-codec-kind checks and reframing described in §4.6,
// C6: H.264 AUD/SPS injection on keyframes, Annex-B validation for HEVC, AAC
// ADTS-to-LATM reframing when configured, and the Opus PES control header.
func (m *Mux) adaptCodec(st *WriteStream, pkt Packet) ([]byte, error) {
	switch st.Kind {
	case StreamKindVideoH264:
		if !avc.HasStartCode(pkt.Data) {
			if st.NbFrames == 0 {
				return nil, ErrMissingStartCode
			}
			Log.Warnf("missing h264 start code, pid=%d, nb_frames=%d", st.Pid, st.NbFrames)
			st.NbFrames++
			return pkt.Data, nil
		}
		st.NbFrames++
		if pkt.Key {
			return avc.PrepareKeyframe(pkt.Data, st.Extradata), nil
		}
		return pkt.Data, nil

	case StreamKindVideoHevc:
		if !hevc.HasStartCode(pkt.Data) {
			if st.NbFrames == 0 {
				return nil, ErrMissingStartCode
			}
			Log.Warnf("missing hevc start code, pid=%d, nb_frames=%d", st.Pid, st.NbFrames)
			st.NbFrames++
			return pkt.Data, nil
		}
		st.NbFrames++
		return pkt.Data, nil

	case StreamKindAudioAac:
		if !m.cfg.AacLatm {
			return pkt.Data, nil
		}
		if len(st.Extradata) == 0 {
			return nil, ErrAacNoExtraData
		}
		ascCtx, err := aac.NewAscContext(st.Extradata)
		if err != nil {
			return nil, err
		}
		raw := pkt.Data
		if aac.HasAdtsSync(raw) {
			raw = raw[7:]
		}
		return aac.PackLatm(ascCtx, raw), nil

	case StreamKindAudioOpus:
		if _, err := opus.CountSamples(pkt.Data); err != nil {
			return nil, err
		}
		header := opus.PackControlHeader(len(pkt.Data), pkt.TrimStart, pkt.TrimEnd)
		out := make([]byte, 0, len(header)+len(pkt.Data))
		out = append(out, header...)
		out = append(out, pkt.Data...)
		return out, nil

	default:
		return pkt.Data, nil
	}
}

// bufferAudio accumulates one audio frame's already-adapted bytes into its
// stream's pending PES payload, draining it once pes_payload_size or
// max_delay is reached, §4.3's audio-coalescing paragraph.
func (m *Mux) bufferAudio(st *WriteStream, data []byte, pkt Packet) error {
	if len(st.PayloadBuffer) == 0 {
		st.PayloadPts = pkt.Pts
		st.PayloadDts = pkt.Dts
	}
	st.PayloadBuffer = append(st.PayloadBuffer, data...)
	st.PayloadKey = st.PayloadKey || pkt.Key

	stale := st.HasFirstPts && pkt.Dts >= st.PayloadDts && pkt.Dts-st.PayloadDts >= m.cfg.MaxDelay
	st.HasFirstPts = true

	if len(st.PayloadBuffer) >= m.cfg.PesPayloadSize || stale {
		return m.drainAudio(st)
	}
	return nil
}

// drainAudio flushes a stream's pending audio buffer as a single PES frame.
func (m *Mux) drainAudio(st *WriteStream) error {
	if len(st.PayloadBuffer) == 0 {
		return nil
	}
	raw := st.PayloadBuffer
	pts, dts, key := st.PayloadPts, st.PayloadDts, st.PayloadKey
	st.PayloadBuffer = nil
	st.PayloadKey = false
	return m.emitPes(st, raw, pts, dts, key)
}

// emitPes runs the SI cadence check (§4.5) ahead of the frame, forcing
// PAT/PMT before a video keyframe when PatPmtAtFrames is set, schedules a
// PCR onto the frame when this stream carries its service's PCR and the PCR
// cadence is due (§4.3 steps 2/6), and writes the packetized PES.
func (m *Mux) emitPes(st *WriteStream, raw []byte, pts, dts uint64, key bool) error {
	svc := m.services[st.SvcIndex]

	if m.cfg.PatPmtAtFrames && key && st.Kind.IsVideo() {
		m.cadPat.forceNext()
	}
	if err := m.maybeEmitTables(dts); err != nil {
		return err
	}

	var pcr *uint64
	if svc.PcrPid == st.Pid {
		if c, ok := m.pcrCad[st.Pid]; ok && c.due(dts) {
			v := dts*300 + m.firstPcr
			pcr = &v
			c.mark(dts)
		}
	}

	frame := &PesFrame{
		Pid:           st.Pid,
		Cc:            st.Cc,
		StreamId:      DefaultStreamId(st.Kind, m.m2ts),
		Pts:           pts,
		Dts:           dts,
		Key:           key,
		Pcr:           pcr,
		DataAlignment: st.Kind.IsSubtitle(),
		PadToTeletext: st.Kind == StreamKindSubtitleTeletext,
		OmitPesLength: st.Kind.IsVideo() && m.cfg.OmitVideoPesLength,
		Raw:           raw,
	}
	packets := frame.Pack()
	st.Cc = frame.Cc
	return m.write(packets)
}

// maybeEmitTables runs the §4.5 cadence check and, in the documented
// ordering (SDT, NIT, TOT, EIT, then PAT/PMT), rewrites any table whose
// cadence has come due ahead of the PES packet about to be written.
func (m *Mux) maybeEmitTables(dts uint64) error {
	if m.reemitOnce {
		m.cadPat.forceNext()
		m.cadSdt.forceNext()
		m.cadNit.forceNext()
		m.cadTot.forceNext()
		m.cadEit.forceNext()
		m.reemitOnce = false
	}

	m.cadSdt.tick()
	if m.cadSdt.due(dts) {
		if err := m.emitSdt(); err != nil {
			return err
		}
		m.cadSdt.mark(dts)
	}

	m.cadNit.tick()
	if m.cadNit.due(dts) {
		if err := m.emitNit(); err != nil {
			return err
		}
		m.cadNit.mark(dts)
	}

	m.cadTot.tick()
	if m.cadTot.due(dts) {
		if err := m.emitTot(); err != nil {
			return err
		}
		m.cadTot.mark(dts)
	}

	m.cadEit.tick()
	if m.cadEit.due(dts) {
		if err := m.emitEit(); err != nil {
			return err
		}
		m.cadEit.mark(dts)
	}

	m.cadPat.tick()
	if m.cadPat.due(dts) {
		if err := m.emitPatPmt(); err != nil {
			return err
		}
		m.cadPat.mark(dts)
	}

	return nil
}

func (m *Mux) emitSdt() error {
	entries := make([]SdtServiceEntry, len(m.services))
	for i, svc := range m.services {
		entries[i] = SdtServiceEntry{Sid: svc.Sid, ProviderName: svc.ProviderName, Name: svc.Name}
	}
	section, err := BuildSdt(m.cfg.TransportStreamId, m.cfg.OriginalNetworkId, m.cfg.TablesVersion, entries)
	if err != nil {
		return err
	}
	m.tableEmits["sdt"]++
	return m.write(joinPackets(chunkSection(section, PidSdt, &m.sdtCc)))
}

func (m *Mux) emitNit() error {
	ts := NitTsInfo{
		Tsid:               m.cfg.TransportStreamId,
		Onid:               m.cfg.OriginalNetworkId,
		RemoteControlKeyId: m.cfg.RemoteControlKeyId,
		TsName:             m.cfg.TsName,
		Sids:               m.allSids(),
		OneSegSids:         m.oneSegSids(),
		AreaCode:           m.cfg.AreaCode,
		GuardInterval:      m.cfg.GuardInterval,
		TransmissionMode:   m.cfg.TransmissionMode,
		PhysicalChannel:    m.cfg.PhysicalChannel,
		TerrestrialQuirk:   m.cfg.TerrestrialFrequencyQuirk,
	}
	section, err := BuildNit(m.cfg.NetworkName, m.cfg.OriginalNetworkId, m.cfg.TablesVersion, ts)
	if err != nil {
		return err
	}
	m.tableEmits["nit"]++
	return m.write(joinPackets(chunkSection(section, PidNit, &m.nitCc)))
}

func (m *Mux) emitTot() error {
	section := BuildTot(time.Now().Unix(), m.cfg.TotCountryCode, m.cfg.TotRegionId, 0)
	m.tableEmits["tot"]++
	return m.write(joinPackets(chunkSection(section, PidTot, &m.totCc)))
}

func (m *Mux) emitEit() error {
	if m.cfg.EpgProvider == nil {
		return nil
	}
	events := m.cfg.EpgProvider(time.Now().Unix(), m.allSids())
	if len(events) == 0 {
		return nil
	}
	section, err := BuildEit(m.cfg.TransportStreamId, m.cfg.OriginalNetworkId, m.cfg.TablesVersion, events)
	if err != nil {
		return err
	}
	m.tableEmits["eit"]++
	return m.write(joinPackets(chunkSection(section, PidEit, &m.eitCc)))
}

func (m *Mux) emitPatPmt() error {
	entries := make([]PatEntry, len(m.services))
	for i, svc := range m.services {
		entries[i] = PatEntry{Sid: svc.Sid, PmtPid: svc.PmtPid}
	}
	patSection, err := BuildPat(m.cfg.TransportStreamId, m.cfg.TablesVersion, entries)
	if err != nil {
		return err
	}
	m.tableEmits["pat"]++
	if err := m.write(joinPackets(chunkSection(patSection, PidPat, &m.patCc))); err != nil {
		return err
	}

	for _, svc := range m.services {
		pmtStreams := make([]PmtStream, 0, len(svc.StreamIdxs))
		for _, idx := range svc.StreamIdxs {
			st := m.streams[idx]
			pmtStreams = append(pmtStreams, PmtStream{
				StreamType:  StreamTypeOf(st.Kind, m.cfg.SystemB, m.cfg.AacLatm),
				Pid:         st.Pid,
				Descriptors: esDescriptorsFor(st),
			})
		}
		pmtSection, written, err := BuildPmt(svc.Sid, m.cfg.TablesVersion, svc.PcrPid, [][]byte{descParentalRating("BRA", 0)}, pmtStreams)
		if err != nil {
			if !errors.Is(err, ErrPmtOverflow) {
				return err
			}
			// Degrade gracefully: the streams that fit are still written to
			// the PMT, the ones that don't keep flowing as PES only, §7.
			Log.Warnf("pmt overflow, sid=%d, dropped %d of %d streams. err=%+v", svc.Sid, len(pmtStreams)-written, len(pmtStreams), err)
		}
		m.tableEmits["pmt"]++
		if err := m.write(joinPackets(chunkSection(pmtSection, svc.PmtPid, &svc.Cc))); err != nil {
			return err
		}
	}
	return nil
}

// esDescriptorsFor builds one stream's PMT elementary-stream descriptor
// loop, §4.2, from its codec kind.
func esDescriptorsFor(st *WriteStream) [][]byte {
	switch st.Kind {
	case StreamKindAudioAac, StreamKindAudioMp2, StreamKindAudioMp3, StreamKindAudioDts, StreamKindAudioTrueHd:
		return [][]byte{descISO639Language("por", 0)}
	case StreamKindAudioAc3:
		return [][]byte{descAc3(false), descISO639Language("por", 0)}
	case StreamKindAudioEac3:
		return [][]byte{descAc3(true), descISO639Language("por", 0)}
	case StreamKindAudioOpus:
		channels := st.ChannelCount
		if channels == 0 {
			channels = 2
		}
		mapping, ok := opus.ChannelMapping(channels)
		if !ok {
			Log.Errorf("unsupported opus channel mapping, channels=%d, pid=%d", channels, st.Pid)
		}
		return [][]byte{descRegistrationTag("Opus"), descOpusExtension(channels, mapping, !ok)}
	case StreamKindSubtitleDvb:
		return [][]byte{descSubtitling("por", 0x10, 1, 1)}
	case StreamKindSubtitleTeletext:
		return [][]byte{descTeletext(nil)}
	case StreamKindAudioS302m:
		return [][]byte{descRegistrationTag("BSSD"), descISO639Language("por", 0)}
	case StreamKindVideoDirac:
		return [][]byte{descRegistrationTag("drac")}
	case StreamKindVideoVc1:
		return [][]byte{descRegistrationTag("VC-1")}
	case StreamKindDataKlv:
		return [][]byte{descRegistrationTag("KLVA")}
	default:
		return nil
	}
}

// Flush drains every stream's pending audio buffer without producing a
// final artifact, §6. Safe to call periodically, not only at shutdown.
func (m *Mux) Flush() error {
	for _, st := range m.streams {
		if err := m.drainAudio(st); err != nil {
			return err
		}
	}
	return nil
}

// WriteTrailer flushes remaining buffered audio. MPEG-TS has no closing
// record, so this is Flush's only externally meaningful effect, §6.
func (m *Mux) WriteTrailer() error {
	return m.Flush()
}

// Deinit releases the mux's per-stream/service state. The mux performs no
// dynamic allocation beyond Go slices, so this simply drops references.
func (m *Mux) Deinit() {
	m.streams = nil
	m.services = nil
	m.inited = false
}
