// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts


// Descriptor tag constants, cross-checked against go-astits' own
// DescriptorTag* values (see other_examples/k-danil-go-astits__descriptor.go).
// The MPEG-2/DVB tags below are the common ISO/IEC 13818-1 and ETSI EN 300
// 468 set; the ISDB-specific tags the teacher never needed follow them.
const (
	DescriptorTagRegistration               = 0x05
	DescriptorTagISO639LanguageAndAudioType = 0x0a
	DescriptorTagNetworkName                = 0x40
	DescriptorTagServiceList                = 0x41
	DescriptorTagService                    = 0x48
	DescriptorTagShortEvent                 = 0x4d
	DescriptorTagComponent                  = 0x50
	DescriptorTagContent                    = 0x54
	DescriptorTagParentalRating             = 0x55
	DescriptorTagTeletext                   = 0x56
	DescriptorTagLocalTimeOffset            = 0x58
	DescriptorTagSubtitling                 = 0x59
	DescriptorTagAC3                        = 0x6a
	DescriptorTagEnhancedAC3                = 0x7a
	DescriptorTagExtension                  = 0x7f

	DescriptorTagSystemManagement    = 0xfe
	DescriptorTagTsInformation       = 0xcd
	DescriptorTagPartialReception    = 0xfb
	DescriptorTagTerrestrialDelivery = 0xfa
	DescriptorTagAudioComponent      = 0xc4
	DescriptorTagLogoTransmission    = 0xcf
)

func wrapDescriptor(tag uint8, body []byte) []byte {
	out := make([]byte, 2+len(body))
	out[0] = tag
	out[1] = uint8(len(body))
	copy(out[2:], body)
	return out
}

func writeLengthPrefixedString(sb *secBuf, s string) {
	sb.U8(uint8(len(s)))
	sb.Str(s)
}

// --- program-level -----------------------------------------------------

// descParentalRating is always present at program level, §4.2: country "BRA" + 1-byte rating.
func descParentalRating(country string, rating uint8) []byte {
	sb := newSecBuf()
	sb.Str(country)
	sb.U8(rating)
	return wrapDescriptor(DescriptorTagParentalRating, sb.Bytes())
}

// --- stream-level, audio -------------------------------------------------

func descISO639Language(lang string, audioType uint8) []byte {
	sb := newSecBuf()
	sb.Str(lang)
	sb.U8(audioType)
	return wrapDescriptor(DescriptorTagISO639LanguageAndAudioType, sb.Bytes())
}

// descAc3 builds the System-B AC-3/E-AC-3 descriptor (tag 0x6A/0x7A): a
// single flags byte with no optional fields present, sufficient for a mux
// that does not re-derive bsid/bitrate from the encoder.
func descAc3(eac3 bool) []byte {
	tag := uint8(DescriptorTagAC3)
	if eac3 {
		tag = DescriptorTagEnhancedAC3
	}
	sb := newSecBuf()
	sb.U8(0x00) // all component-presence flags clear
	return wrapDescriptor(tag, sb.Bytes())
}

func descRegistration(formatIdentifier uint32, additional []byte) []byte {
	sb := newSecBuf()
	sb.U16(uint16(formatIdentifier >> 16))
	sb.U16(uint16(formatIdentifier))
	sb.Bytes_(additional)
	return wrapDescriptor(DescriptorTagRegistration, sb.Bytes())
}

// descOpusExtension builds the DVB extension_descriptor (tag 0x7F) carrying
// the Opus user_defined extension (0x80) with the RFC 7845 channel mapping,
// §4.2. mapping is the raw channel-mapping bytes already resolved by the
// opus codec adapter (C6); unsupportedMapping writes the single 0xFF
// fallback byte per §7.
func descOpusExtension(channelCount uint8, mapping []byte, unsupportedMapping bool) []byte {
	sb := newSecBuf()
	sb.U8(0x80) // user_defined, "Opus"
	if unsupportedMapping {
		sb.U8(0xff)
		return wrapDescriptor(DescriptorTagExtension, sb.Bytes())
	}
	sb.U8(channelCount)
	sb.Bytes_(mapping)
	return wrapDescriptor(DescriptorTagExtension, sb.Bytes())
}

// --- stream-level, subtitle/teletext ------------------------------------

func descSubtitling(lang string, subtitlingType uint8, compositionPageId, ancillaryPageId uint16) []byte {
	sb := newSecBuf()
	sb.Str(lang)
	sb.U8(subtitlingType)
	sb.U16(compositionPageId)
	sb.U16(ancillaryPageId)
	return wrapDescriptor(DescriptorTagSubtitling, sb.Bytes())
}

type TeletextEntry struct {
	Lang          string
	TeletextType  uint8
	Magazine      uint8
	Page          uint8
}

func descTeletext(entries []TeletextEntry) []byte {
	sb := newSecBuf()
	for _, e := range entries {
		sb.Str(e.Lang)
		sb.U8((e.TeletextType << 3) | (e.Magazine & 0x7))
		sb.U8(e.Page)
	}
	return wrapDescriptor(DescriptorTagTeletext, sb.Bytes())
}

// --- stream-level, video/data --------------------------------------------

func descRegistrationTag(tag string) []byte {
	return descRegistration(fourCC(tag), nil)
}

func fourCC(s string) uint32 {
	var v uint32
	for i := 0; i < 4 && i < len(s); i++ {
		v = v<<8 | uint32(s[i])
	}
	return v
}

// --- SDT service descriptor ----------------------------------------------

func descService(serviceType uint8, provider, name string) []byte {
	sb := newSecBuf()
	sb.U8(serviceType)
	writeLengthPrefixedString(sb, provider)
	writeLengthPrefixedString(sb, name)
	return wrapDescriptor(DescriptorTagService, sb.Bytes())
}

// --- NIT ------------------------------------------------------------------

func descNetworkName(name string) []byte {
	sb := newSecBuf()
	sb.Str(name)
	return wrapDescriptor(DescriptorTagNetworkName, sb.Bytes())
}

func descSystemManagement() []byte {
	return wrapDescriptor(DescriptorTagSystemManagement, []byte{0x03, 0x01})
}

type TsInfoTransmissionType struct {
	OneSeg bool
	Sids   []uint16
}

// descTsInformation builds the ISDB TS-information descriptor (tag 0xCD).
func descTsInformation(remoteControlKeyId uint8, tsName string, types []TsInfoTransmissionType) []byte {
	sb := newSecBuf()
	sb.U8(remoteControlKeyId)
	sb.U8((uint8(len(tsName)) << 2) | uint8(len(types)&0x3)) // length_of_ts_name(6) + transmission_type_count(2)
	sb.Str(tsName)
	for _, t := range types {
		tt := uint8(0x0f)
		if t.OneSeg {
			tt = 0xaf
		}
		sb.U8(tt)
		sb.U8(uint8(len(t.Sids)))
		for _, sid := range t.Sids {
			sb.U16(sid)
		}
	}
	return wrapDescriptor(DescriptorTagTsInformation, sb.Bytes())
}

func descServiceList(sids []uint16) []byte {
	sb := newSecBuf()
	for _, sid := range sids {
		sb.U16(sid)
		sb.U8(0x01) // service_type: digital TV
	}
	return wrapDescriptor(DescriptorTagServiceList, sb.Bytes())
}

func descPartialReception(sids []uint16) []byte {
	sb := newSecBuf()
	for _, sid := range sids {
		sb.U16(sid)
	}
	return wrapDescriptor(DescriptorTagPartialReception, sb.Bytes())
}

// descTerrestrialDelivery builds the ISDB terrestrial-delivery-system
// descriptor (tag 0xFA). When quirk is true, the frequency's 1/7 MHz term
// truncates to zero exactly as the original source computes it (§9 open
// question 1); when false, the corrected formula is used.
func descTerrestrialDelivery(areaCode uint16, guardInterval, transmissionMode uint8, physicalChannel uint8, quirk bool) []byte {
	var freq uint16
	if quirk {
		freq = uint16(((int(physicalChannel)-14)*42 + 3311))
	} else {
		freq = uint16(((int(physicalChannel)-14)*42 + 3311 + 1))
	}
	sb := newSecBuf()
	sb.U16((areaCode<<4)&0xfff0 | (uint16(guardInterval)&0x3)<<2 | uint16(transmissionMode)&0x3)
	sb.U16(freq)
	return wrapDescriptor(DescriptorTagTerrestrialDelivery, sb.Bytes())
}

func descLocalTimeOffset(country string, regionId uint8, positivePolarity bool, offsetMinutes int) []byte {
	sb := newSecBuf()
	sb.Str(country)
	polarity := uint8(0)
	if !positivePolarity {
		polarity = 1
	}
	sb.U8((regionId << 2) | 0x02 | polarity)
	writeBcdOffset(sb, offsetMinutes)
	sb.U16(0xffff) // change_time: all-ones placeholder, no scheduled DST change
	sb.U8(0xff)
	sb.U8(0xff)
	sb.U8(0xff)
	writeBcdOffset(sb, offsetMinutes)
	return wrapDescriptor(DescriptorTagLocalTimeOffset, sb.Bytes())
}

func writeBcdOffset(sb *secBuf, minutes int) {
	neg := minutes < 0
	if neg {
		minutes = -minutes
	}
	h := minutes / 60
	m := minutes % 60
	sb.U8(toBcd(uint8(h)))
	sb.U8(toBcd(uint8(m)))
}

func toBcd(v uint8) uint8 {
	return ((v / 10) << 4) | (v % 10)
}

// --- EIT -------------------------------------------------------------------

func descShortEvent(lang, eventName, text string) []byte {
	sb := newSecBuf()
	sb.Str(lang)
	writeLengthPrefixedString(sb, eventName)
	writeLengthPrefixedString(sb, text)
	return wrapDescriptor(DescriptorTagShortEvent, sb.Bytes())
}

type ComponentStream struct {
	StreamContent uint8
	ComponentType uint8
	ComponentTag  uint8
	Lang          string
	Text          string
}

func descComponent(c ComponentStream) []byte {
	sb := newSecBuf()
	sb.U8(0xf0 | (c.StreamContent & 0x0f))
	sb.U8(c.ComponentType)
	sb.U8(c.ComponentTag)
	sb.Str(c.Lang)
	sb.Str(c.Text)
	return wrapDescriptor(DescriptorTagComponent, sb.Bytes())
}

func descAudioComponent(componentTag uint8, streamType uint8, simulcast bool, lang string) []byte {
	sb := newSecBuf()
	sb.U8(0xf0 | (0x1 & 0x0f)) // stream_content = 0x1 (audio)
	sb.U8(streamType)
	sb.U8(componentTag)
	sb.U8(0x00) // stream_type/simulcast_group_tag placeholder
	b := uint8(0)
	if simulcast {
		b |= 0x80
	}
	sb.U8(b)
	sb.Str(lang)
	return wrapDescriptor(DescriptorTagAudioComponent, sb.Bytes())
}

// descContent encodes up to several (content_nibble_level_1, _2) pairs, §4.2.
func descContent(nibbles [][2]uint8) []byte {
	sb := newSecBuf()
	for _, n := range nibbles {
		sb.U8((n[0] << 4) | (n[1] & 0x0f))
		sb.U8(0x00) // user_nibble pair, unused
	}
	return wrapDescriptor(DescriptorTagContent, sb.Bytes())
}

// --- TOT / MJD-UTC ----------------------------------------------------------

// writeMjdUtc writes the 5-byte MJD date + BCD time field shared by TOT and
// the local-time-offset descriptor's change_time, per ETSI EN 300 468 Annex C.
func writeMjdUtc(sb *secBuf, mjd uint32, hour, minute, second uint8) {
	sb.U16(uint16(mjd))
	sb.U8(toBcd(hour))
	sb.U8(toBcd(minute))
	sb.U8(toBcd(second))
}

// mjdFromUnix converts a unix timestamp (UTC) to Modified Julian Date, the
// integer day count TOT/EIT use, per Annex C of ETSI EN 300 468.
func mjdFromUnix(unixSeconds int64) (mjd uint32, hour, minute, second uint8) {
	days := unixSeconds / 86400
	rem := unixSeconds % 86400
	if rem < 0 {
		rem += 86400
		days--
	}
	hour = uint8(rem / 3600)
	minute = uint8((rem % 3600) / 60)
	second = uint8(rem % 60)
	// unix epoch (1970-01-01) is MJD 40587.
	mjd = uint32(days + 40587)
	return
}
