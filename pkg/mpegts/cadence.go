// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// SiTable identifies one of the periodically re-emitted tables, §4.5.
type SiTable uint8

const (
	SiTablePat SiTable = iota
	SiTableSdt
	SiTableNit
	SiTableTot
	SiTableEit
)

// cadence tracks when one SI table is next due, §4.5: a table is emitted
// when packet_count reaches packet_period, or last_ts is unset, or the
// wall-clock (DTS-tick) period has elapsed. Setting a finite period_seconds
// makes the packet-count criterion moot (packet_period saturates to the max
// uint32, so only the wall-clock test can fire).
type cadence struct {
	packetCount  uint32
	packetPeriod uint32 // packets; math.MaxUint32 disables this criterion
	lastTs       uint64
	hasLastTs    bool
	periodTicks  uint64 // period_seconds * 90000; 0 disables the wall-clock criterion
}

const cadenceNoPacketPeriod = ^uint32(0)

func newCadence(packetPeriod uint32, periodSeconds float64) cadence {
	c := cadence{packetPeriod: packetPeriod}
	if periodSeconds > 0 {
		c.packetPeriod = cadenceNoPacketPeriod
		c.periodTicks = uint64(periodSeconds * 90000)
	}
	return c
}

// due reports whether this table should be (re)emitted given the current
// dts (90kHz ticks) of the packet about to be written, §4.5 (a)-(c).
func (c *cadence) due(dts uint64) bool {
	if c.packetCount >= c.packetPeriod {
		return true
	}
	if !c.hasLastTs {
		return true
	}
	if c.periodTicks > 0 && dts >= c.lastTs && dts-c.lastTs >= c.periodTicks {
		return true
	}
	return false
}

// mark resets the cadence after the table has just been written at dts.
func (c *cadence) mark(dts uint64) {
	c.packetCount = 0
	c.hasLastTs = true
	if dts > c.lastTs {
		c.lastTs = dts
	}
}

// tick is called once per incoming PES packet, before due() is consulted.
func (c *cadence) tick() {
	if c.packetCount < cadenceNoPacketPeriod {
		c.packetCount++
	}
}

// forceNext arms the cadence so the very next tick()+due() pair fires,
// implementing the REEMIT_PAT_PMT one-shot flag, §4.5.
func (c *cadence) forceNext() {
	if c.packetPeriod == 0 {
		c.packetPeriod = 1
	}
	c.packetCount = c.packetPeriod - 1
	c.hasLastTs = true // suppress the "no dts yet" criterion from double-firing
}

// defaultCbrPeriodsMs are the §4.5 CBR default periods, milliseconds.
var defaultCbrPeriodsMs = map[SiTable]uint32{
	SiTablePat: 100,
	SiTableSdt: 500,
	SiTableNit: 50,
	SiTableTot: 100,
	SiTableEit: 500,
}

// defaultVbrPeriodPkts are the §4.5 VBR fallback periods, in packets.
var defaultVbrPeriodPkts = map[SiTable]uint32{
	SiTablePat: 40,
	SiTableSdt: 200,
	SiTableNit: 200,
	SiTableTot: 200,
	SiTableEit: 200,
}

// periodPackets converts a millisecond CBR period to a packet count per
// §4.5's formula: mux_rate * period_ms / (188*8*1000).
func periodPackets(muxRateBitsPerSec uint64, periodMs uint32) uint32 {
	n := muxRateBitsPerSec * uint64(periodMs) / (188 * 8 * 1000)
	if n == 0 {
		n = 1
	}
	if n > uint64(cadenceNoPacketPeriod) {
		return cadenceNoPacketPeriod
	}
	return uint32(n)
}

const pcrDefaultPeriodMs = 20
