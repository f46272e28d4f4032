// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// isOneSegSDTQuirk reproduces the original source's `sid & 0x18 >> 3` service
// descriptor check, which operator precedence turns into `sid & (0x18>>3)` =
// `sid & 3`. Used only by BuildSdt's service_type selection, §9 open question 2.
func isOneSegSDTQuirk(sid uint16) bool {
	return sid&3 != 0
}

// isOneSeg is the corrected one-seg test, (sid&0x18)>>3==3, used everywhere
// else: NIT's partial-reception loop, PID assignment, the service model.
func isOneSeg(sid uint16) bool {
	return (sid&0x18)>>3 == 3
}

// SdtServiceEntry is one SDT service loop entry, §4.2.
type SdtServiceEntry struct {
	Sid          uint16
	ProviderName string
	Name         string
}

// BuildSdt builds the SDT actual-TS section (table_id 0x42, table_id_ext =
// tsid), §4.2. Each service's service_type is 0xC0 ("one-seg") when
// isOneSegSDTQuirk(sid) holds, else 0x01 ("digital TV") — deliberately using
// the buggy predicate here, not isOneSeg, per §9 open question 2.
func BuildSdt(tsid uint16, onid uint16, version uint8, services []SdtServiceEntry) ([]byte, error) {
	sb := newSecBuf()
	sb.U16(onid)
	sb.U8(0xff)

	for _, s := range services {
		serviceType := uint8(0x01)
		if isOneSegSDTQuirk(s.Sid) {
			serviceType = 0xc0
		}
		desc := descService(serviceType, s.ProviderName, s.Name)

		sb.U16(s.Sid)
		sb.U8(0xfc) // reserved(6)=111111, eit_schedule=0, eit_pf=0
		sc := sb.BeginLen16(0x8000) // running_status(3)=100 (running), free_ca_mode(1)=0
		sb.Bytes_(desc)
		sc.End()
	}

	return writeSection(TableIdSdt, tsid, version, 0, 0, reservedPrefixSdt, sb.Bytes())
}
