// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// NitTsInfo is the single transport-stream loop entry the mux emits: one
// physical TS describing itself, §4.2.
type NitTsInfo struct {
	Tsid               uint16
	Onid               uint16
	RemoteControlKeyId uint8
	TsName             string
	Sids               []uint16 // every service carried, full-seg and one-seg
	OneSegSids         []uint16 // subset of Sids that are one-seg, per isOneSeg
	AreaCode           uint16
	GuardInterval      uint8
	TransmissionMode   uint8
	PhysicalChannel    uint8
	TerrestrialQuirk   bool
}

// BuildNit builds the NIT actual-network section (table_id 0x40,
// table_id_ext = onid), §4.2. Carries one network descriptor loop (network
// name + system management) and one transport-stream loop describing this
// mux's own TS.
func BuildNit(networkName string, onid uint16, version uint8, ts NitTsInfo) ([]byte, error) {
	sb := newSecBuf()

	netSc := sb.BeginLen16(0xf000)
	sb.Bytes_(descNetworkName(networkName))
	sb.Bytes_(descSystemManagement())
	netSc.End()

	loopSc := sb.BeginLen16(0xf000)

	sb.U16(ts.Tsid)
	sb.U16(ts.Onid)

	tsDescSc := sb.BeginLen16(0xf000)

	var types []TsInfoTransmissionType
	if len(ts.OneSegSids) > 0 {
		types = append(types, TsInfoTransmissionType{OneSeg: true, Sids: ts.OneSegSids})
	}
	var fullSegSids []uint16
	oneSeg := make(map[uint16]bool, len(ts.OneSegSids))
	for _, s := range ts.OneSegSids {
		oneSeg[s] = true
	}
	for _, s := range ts.Sids {
		if !oneSeg[s] {
			fullSegSids = append(fullSegSids, s)
		}
	}
	if len(fullSegSids) > 0 {
		types = append(types, TsInfoTransmissionType{OneSeg: false, Sids: fullSegSids})
	}
	sb.Bytes_(descTsInformation(ts.RemoteControlKeyId, ts.TsName, types))

	sb.Bytes_(descServiceList(ts.Sids))

	if len(ts.OneSegSids) > 0 {
		sb.Bytes_(descPartialReception(ts.OneSegSids))
	}

	sb.Bytes_(descTerrestrialDelivery(ts.AreaCode, ts.GuardInterval, ts.TransmissionMode, ts.PhysicalChannel, ts.TerrestrialQuirk))

	tsDescSc.End()
	loopSc.End()

	return writeSection(TableIdNit, onid, version, 0, 0, reservedPrefixDefault, sb.Bytes())
}
