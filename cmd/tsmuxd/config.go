// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/q191201771/tsmux/pkg/mpegts"
)

// StreamConfig is one elementary stream entry in the TOML config file.
type StreamConfig struct {
	Kind         string
	CallerId     int
	ChannelCount uint8
	ExtradataHex string
}

// MpegtsConfig mirrors mpegts.Config field-for-field so the TOML file reads
// as a flat description of the broadcast rather than a Go struct dump.
type MpegtsConfig struct {
	TransportStreamId uint16
	OriginalNetworkId uint16
	ServiceId         uint16
	FinalNbServices   int
	Profile           uint8
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

	M2tsMode       int8
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

	MaxDelay uint64

	TotCountryCode string
	TotRegionId    uint8
}

// OutputConfig selects and configures the sink, §10/§11.
type OutputConfig struct {
	Target string // file path, or srt://host:port
	Latency uint // SRT only, milliseconds
}

// MetricsConfig configures the Prometheus exporter, §11.
type MetricsConfig struct {
	Enabled bool
	Address string
}

// Config is the full tsmuxd config file shape.
type Config struct {
	Mpegts  MpegtsConfig
	Streams []StreamConfig
	Output  OutputConfig
	Metrics MetricsConfig
}

func defaultConfig() Config {
	mc := mpegts.NewConfig()
	return Config{
		Mpegts: MpegtsConfig{
			TransportStreamId:        1,
			OriginalNetworkId:        1,
			ServiceId:                mc.ServiceId,
			FinalNbServices:          mc.FinalNbServices,
			ProviderName:             mc.ProviderName,
			ServiceNames:             mc.ServiceNames,
			AreaCode:                 mc.AreaCode,
			GuardInterval:            mc.GuardInterval,
			TransmissionMode:         mc.TransmissionMode,
			PhysicalChannel:          mc.PhysicalChannel,
			VirtualChannel:           mc.VirtualChannel,
			TerrestrialFrequencyQuirk: mc.TerrestrialFrequencyQuirk,
			PmtStartPid:              mc.PmtStartPid,
			StartPid:                 mc.StartPid,
			M2tsMode:                 mc.M2tsMode,
			MuxRateBps:               mc.MuxRateBps,
			PesPayloadSize:           mc.PesPayloadSize,
			SystemB:                  mc.SystemB,
			OmitVideoPesLength:       mc.OmitVideoPesLength,
			PcrPeriodMs:              mc.PcrPeriodMs,
			NetworkName:              mc.NetworkName,
			TsName:                   mc.TsName,
			RemoteControlKeyId:       mc.RemoteControlKeyId,
			MaxDelay:                 mc.MaxDelay,
			TotCountryCode:           mc.TotCountryCode,
		},
		Streams: []StreamConfig{
			{Kind: "h264", CallerId: 0},
			{Kind: "aac", CallerId: 1, ChannelCount: 2},
		},
		Output: OutputConfig{
			Target: "out.ts",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Address: ":9308",
		},
	}
}

// parseConfig tries each candidate path in order, applying file contents as
// an overlay on top of the documented defaults, grounded on voc-srtrelay's
// config.Parse(paths) shape.
func parseConfig(paths []string) (*Config, error) {
	cfg := defaultConfig()

	var data []byte
	var err error
	for _, path := range paths {
		data, err = ioutil.ReadFile(path)
		if err == nil {
			break
		}
		if os.IsNotExist(err) {
			continue
		}
		return nil, err
	}

	if data != nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else {
		Log.Warnf("config file not found in %v, using defaults", paths)
	}

	return &cfg, nil
}

// toMpegtsConfig converts the flat TOML shape into mpegts.Config.
func (c *Config) toMpegtsConfig() mpegts.Config {
	m := c.Mpegts
	return mpegts.Config{
		TransportStreamId:        m.TransportStreamId,
		OriginalNetworkId:        m.OriginalNetworkId,
		ServiceId:                m.ServiceId,
		FinalNbServices:          m.FinalNbServices,
		Profile:                  mpegts.TransmissionProfile(m.Profile),
		ProviderName:             m.ProviderName,
		ServiceNames:             m.ServiceNames,
		AreaCode:                 m.AreaCode,
		GuardInterval:            m.GuardInterval,
		TransmissionMode:         m.TransmissionMode,
		PhysicalChannel:          m.PhysicalChannel,
		VirtualChannel:           m.VirtualChannel,
		TerrestrialFrequencyQuirk: m.TerrestrialFrequencyQuirk,
		PmtStartPid:              m.PmtStartPid,
		StartPid:                 m.StartPid,
		M2tsMode:                 m.M2tsMode,
		MuxRateBps:               m.MuxRateBps,
		PesPayloadSize:           m.PesPayloadSize,
		ResendHeaders:            m.ResendHeaders,
		AacLatm:                  m.AacLatm,
		PatPmtAtFrames:           m.PatPmtAtFrames,
		SystemB:                  m.SystemB,
		TablesVersion:            m.TablesVersion,
		OmitVideoPesLength:       m.OmitVideoPesLength,
		PcrPeriodMs:              m.PcrPeriodMs,
		PatPeriodSec:             m.PatPeriodSec,
		SdtPeriodSec:             m.SdtPeriodSec,
		NitPeriodSec:             m.NitPeriodSec,
		TotPeriodSec:             m.TotPeriodSec,
		EitPeriodSec:             m.EitPeriodSec,
		NetworkName:              m.NetworkName,
		TsName:                   m.TsName,
		RemoteControlKeyId:       m.RemoteControlKeyId,
		MaxDelay:                 m.MaxDelay,
		TotCountryCode:           m.TotCountryCode,
		TotRegionId:              m.TotRegionId,
	}
}

var streamKindNames = map[string]mpegts.StreamKind{
	"h264":     mpegts.StreamKindVideoH264,
	"hevc":     mpegts.StreamKindVideoHevc,
	"mpeg2":    mpegts.StreamKindVideoMpeg2,
	"vc1":      mpegts.StreamKindVideoVc1,
	"dirac":    mpegts.StreamKindVideoDirac,
	"aac":      mpegts.StreamKindAudioAac,
	"mp2":      mpegts.StreamKindAudioMp2,
	"mp3":      mpegts.StreamKindAudioMp3,
	"ac3":      mpegts.StreamKindAudioAc3,
	"eac3":     mpegts.StreamKindAudioEac3,
	"dts":      mpegts.StreamKindAudioDts,
	"truehd":   mpegts.StreamKindAudioTrueHd,
	"opus":     mpegts.StreamKindAudioOpus,
	"s302m":    mpegts.StreamKindAudioS302m,
	"dvbsub":   mpegts.StreamKindSubtitleDvb,
	"teletext": mpegts.StreamKindSubtitleTeletext,
	"klv":      mpegts.StreamKindDataKlv,
	"data":     mpegts.StreamKindDataOther,
}

func (c *Config) toStreamInputs() ([]mpegts.StreamInput, error) {
	out := make([]mpegts.StreamInput, len(c.Streams))
	for i, sc := range c.Streams {
		kind, ok := streamKindNames[sc.Kind]
		if !ok {
			return nil, fmt.Errorf("tsmuxd: unknown stream kind %q at index %d", sc.Kind, i)
		}
		extradata, err := decodeExtradataHex(sc.ExtradataHex)
		if err != nil {
			return nil, err
		}
		out[i] = mpegts.StreamInput{
			Kind:         kind,
			CallerId:     sc.CallerId,
			Extradata:    extradata,
			ChannelCount: sc.ChannelCount,
		}
	}
	return out, nil
}

// decodeExtradataHex reads a stream's codec extradata (AAC AudioSpecificConfig,
// H.264 SPS/PPS, etc.) from its hex-encoded config string. Empty is valid:
// not every stream kind needs extradata at Init time.
func decodeExtradataHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}
