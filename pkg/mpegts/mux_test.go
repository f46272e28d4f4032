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
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

type fakeSink struct {
	writes [][]byte
}

func (s *fakeSink) Write(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	s.writes = append(s.writes, cp)
	return nil
}

func (s *fakeSink) totalBytes() int {
	n := 0
	for _, w := range s.writes {
		n += len(w)
	}
	return n
}

func newTestMux(t *testing.T, streams []StreamInput, configure func(*Config)) (*Mux, *fakeSink) {
	sink := &fakeSink{}
	mux := NewMux(sink)
	cfg := NewConfig()
	cfg.TransportStreamId = 1
	cfg.OriginalNetworkId = 1
	if configure != nil {
		configure(&cfg)
	}
	err := mux.Init(cfg, streams, "out.ts")
	assert.Equal(t, nil, err)
	return mux, sink
}

func TestMuxWritePacketBeforeInitFails(t *testing.T) {
	mux := NewMux(&fakeSink{})
	err := mux.WritePacket(Packet{StreamIndex: 0})
	assert.Equal(t, true, errors.Is(err, ErrNotInited))
}

func TestMuxWritePacketStreamIndexOutOfRange(t *testing.T) {
	mux, _ := newTestMux(t, []StreamInput{{Kind: StreamKindVideoH264}}, nil)
	err := mux.WritePacket(Packet{StreamIndex: 5, Data: []byte{0, 0, 0, 1, 0x65}})
	assert.Equal(t, true, errors.Is(err, ErrStreamIdTooLarge))
}

func TestMuxFirstKeyframeEmitsAllSiTablesOnce(t *testing.T) {
	mux, sink := newTestMux(t, []StreamInput{{Kind: StreamKindVideoH264}}, nil)

	idr := []byte{0, 0, 0, 1, 0x65, 0xaa, 0xbb, 0xcc}
	err := mux.WritePacket(Packet{StreamIndex: 0, Data: idr, Pts: 0, Dts: 0, Key: true})
	assert.Equal(t, nil, err)

	emits := mux.TableEmits()
	assert.Equal(t, uint64(1), emits["pat"])
	assert.Equal(t, uint64(1), emits["pmt"])
	assert.Equal(t, uint64(1), emits["sdt"])
	assert.Equal(t, uint64(1), emits["nit"])
	assert.Equal(t, uint64(1), emits["tot"])
	assert.Equal(t, uint64(0), emits["eit"]) // no EpgProvider configured
	assert.Equal(t, true, sink.totalBytes() > 0)
	assert.Equal(t, true, sink.totalBytes()%188 == 0)
}

func TestMuxSecondPacketDoesNotReemitTablesYet(t *testing.T) {
	mux, _ := newTestMux(t, []StreamInput{{Kind: StreamKindVideoH264}}, nil)

	idr := []byte{0, 0, 0, 1, 0x65}
	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: idr, Key: true}))
	after1 := mux.TableEmits()["pat"]

	pframe := []byte{0, 0, 0, 1, 0x41}
	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: pframe, Pts: 3000, Dts: 3000}))
	after2 := mux.TableEmits()["pat"]

	// the default VBR pat period is 40 packets, far more than the one PES
	// written so far, so the table must not have been rewritten again.
	assert.Equal(t, after1, after2)
}

func TestMuxReemitPatPmtForcesNextPacket(t *testing.T) {
	mux, _ := newTestMux(t, []StreamInput{{Kind: StreamKindVideoH264}}, nil)

	idr := []byte{0, 0, 0, 1, 0x65}
	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: idr, Key: true}))
	before := mux.TableEmits()["sdt"]

	mux.ReemitPatPmt()
	pframe := []byte{0, 0, 0, 1, 0x41}
	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: pframe, Pts: 1000, Dts: 1000}))
	after := mux.TableEmits()["sdt"]

	assert.Equal(t, before+1, after)
}

func TestMuxNonKeyframeWithoutStartCodeFails(t *testing.T) {
	mux, _ := newTestMux(t, []StreamInput{{Kind: StreamKindVideoH264}}, nil)
	err := mux.WritePacket(Packet{StreamIndex: 0, Data: []byte{0x41, 0x42}, Key: false})
	assert.Equal(t, true, errors.Is(err, ErrMissingStartCode))
}

func TestMuxAudioBuffersUntilStale(t *testing.T) {
	mux, sink := newTestMux(t, []StreamInput{{Kind: StreamKindAudioAac}}, func(cfg *Config) {
		cfg.PesPayloadSize = 10000
		cfg.MaxDelay = 100
	})

	err := mux.WritePacket(Packet{StreamIndex: 0, Data: []byte{1, 2, 3, 4}, Pts: 0, Dts: 0})
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(sink.writes)) // buffered, nothing flushed yet

	err = mux.WritePacket(Packet{StreamIndex: 0, Data: []byte{5, 6, 7, 8}, Pts: 200, Dts: 200})
	assert.Equal(t, nil, err)
	assert.Equal(t, true, len(sink.writes) > 0) // staleness threshold crossed, drained
}

func TestMuxAudioBuffersUntilPesPayloadSize(t *testing.T) {
	mux, sink := newTestMux(t, []StreamInput{{Kind: StreamKindAudioAac}}, func(cfg *Config) {
		cfg.PesPayloadSize = 4
		cfg.MaxDelay = 1 << 30
	})

	err := mux.WritePacket(Packet{StreamIndex: 0, Data: []byte{1, 2, 3, 4}, Pts: 0, Dts: 0})
	assert.Equal(t, nil, err)
	assert.Equal(t, true, len(sink.writes) > 0)
}

func TestMuxFlushDrainsPendingAudio(t *testing.T) {
	mux, sink := newTestMux(t, []StreamInput{{Kind: StreamKindAudioAac}}, func(cfg *Config) {
		cfg.PesPayloadSize = 10000
		cfg.MaxDelay = 1 << 30
	})

	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: []byte{1, 2, 3}, Pts: 0, Dts: 0}))
	assert.Equal(t, 0, len(sink.writes))

	assert.Equal(t, nil, mux.Flush())
	assert.Equal(t, true, len(sink.writes) > 0)

	// flushing an empty buffer again is a no-op, not an error
	assert.Equal(t, nil, mux.Flush())
}

func TestMuxWriteTrailerIsFlush(t *testing.T) {
	mux, sink := newTestMux(t, []StreamInput{{Kind: StreamKindAudioAac}}, func(cfg *Config) {
		cfg.PesPayloadSize = 10000
		cfg.MaxDelay = 1 << 30
	})
	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: []byte{9, 9}, Pts: 0, Dts: 0}))
	assert.Equal(t, nil, mux.WriteTrailer())
	assert.Equal(t, true, len(sink.writes) > 0)
}

func TestMuxDataFlushPacketDrainsWithoutNewData(t *testing.T) {
	mux, sink := newTestMux(t, []StreamInput{{Kind: StreamKindAudioAac}}, func(cfg *Config) {
		cfg.PesPayloadSize = 10000
		cfg.MaxDelay = 1 << 30
	})
	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: []byte{1}, Pts: 0, Dts: 0}))
	assert.Equal(t, 0, len(sink.writes))
	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: nil}))
	assert.Equal(t, true, len(sink.writes) > 0)
}

func TestMuxDeinitClearsState(t *testing.T) {
	mux, _ := newTestMux(t, []StreamInput{{Kind: StreamKindVideoH264}}, nil)
	mux.Deinit()
	err := mux.WritePacket(Packet{StreamIndex: 0, Data: []byte{0, 0, 0, 1, 0x65}, Key: true})
	assert.Equal(t, true, errors.Is(err, ErrNotInited))
}

func TestMuxInitRejectsDuplicatePid(t *testing.T) {
	sink := &fakeSink{}
	mux := NewMux(sink)
	cfg := NewConfig()
	streams := []StreamInput{
		{Kind: StreamKindVideoH264, CallerId: 0x1000}, // collides with default pmt start pid
	}
	err := mux.Init(cfg, streams, "out.ts")
	assert.Equal(t, true, err != nil)
}

func TestMuxM2tsModeAutoDetectedFromFilename(t *testing.T) {
	sink := &fakeSink{}
	mux := NewMux(sink)
	cfg := NewConfig()
	err := mux.Init(cfg, []StreamInput{{Kind: StreamKindVideoH264}}, "output.m2ts")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, mux.m2ts)

	idr := []byte{0, 0, 0, 1, 0x65}
	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: idr, Key: true}))
	// every 188-byte packet grows by the 4-byte tp_extra_header under m2ts.
	assert.Equal(t, 0, sink.totalBytes()%192)
}

func TestMuxPacketsWrittenAndBytesWritten(t *testing.T) {
	mux, sink := newTestMux(t, []StreamInput{{Kind: StreamKindVideoH264}}, nil)
	idr := []byte{0, 0, 0, 1, 0x65}
	assert.Equal(t, nil, mux.WritePacket(Packet{StreamIndex: 0, Data: idr, Key: true}))

	assert.Equal(t, uint64(sink.totalBytes()), mux.BytesWritten())
	assert.Equal(t, mux.BytesWritten()/188, mux.PacketsWritten())
}
