// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestCadenceDueOnFirstUse(t *testing.T) {
	c := newCadence(10, 0)
	assert.Equal(t, true, c.due(0))
}

func TestCadencePacketCountCriterion(t *testing.T) {
	c := newCadence(3, 0)
	c.mark(0)
	assert.Equal(t, false, c.due(1))
	c.tick()
	assert.Equal(t, false, c.due(1))
	c.tick()
	assert.Equal(t, false, c.due(1))
	c.tick()
	assert.Equal(t, true, c.due(1))
}

func TestCadenceWallClockCriterion(t *testing.T) {
	c := newCadence(0, 1.0) // 1 second => packetPeriod saturates, periodTicks=90000
	c.mark(0)
	assert.Equal(t, cadenceNoPacketPeriod, c.packetPeriod)
	assert.Equal(t, uint64(90000), c.periodTicks)

	assert.Equal(t, false, c.due(89999))
	assert.Equal(t, true, c.due(90000))
}

func TestCadenceForceNextFiresOnNextTick(t *testing.T) {
	c := newCadence(5, 0)
	c.mark(0)
	assert.Equal(t, false, c.due(1))

	c.forceNext()
	assert.Equal(t, false, c.due(1)) // not due until the next tick() call
	c.tick()
	assert.Equal(t, true, c.due(1))
}

func TestCadenceForceNextOnWallClockCadence(t *testing.T) {
	c := newCadence(0, 1.0)
	c.mark(0)
	c.forceNext()
	assert.Equal(t, false, c.due(1))
	c.tick()
	assert.Equal(t, true, c.due(1))
}

func TestCadenceMarkKeepsLatestTimestamp(t *testing.T) {
	c := newCadence(1, 0)
	c.mark(100)
	assert.Equal(t, uint64(100), c.lastTs)
	c.mark(50) // dts went backwards, lastTs must not regress
	assert.Equal(t, uint64(100), c.lastTs)
}

func TestPeriodPacketsFormula(t *testing.T) {
	// mux_rate * period_ms / (188*8*1000)
	got := periodPackets(27000000, 100)
	want := uint32(27000000 * 100 / (188 * 8 * 1000))
	assert.Equal(t, want, got)
}

func TestPeriodPacketsNeverZero(t *testing.T) {
	got := periodPackets(1000, 1)
	assert.Equal(t, uint32(1), got)
}
