// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package tsmetrics exports a running mux's counters as Prometheus metrics,
// grounded on voc-srtrelay/api/metrics.go's hand-declared-Desc Collector
// shape: the mux's own fields are read lazily at scrape time rather than
// incremented through global counter vars.
package tsmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tsmuxd"
const subsystem = "mux"

var (
	packetsWrittenDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "packets_written_total"),
		"total number of 188-byte TS packets written to the sink",
		nil, nil,
	)

	bytesWrittenDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "bytes_written_total"),
		"total number of TS packet bytes written to the sink, 188 per packet, m2ts headers not counted",
		nil, nil,
	)

	tableEmitsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "table_emits_total"),
		"number of times each SI table was rewritten",
		[]string{"table"}, nil,
	)
)

// Source is the subset of a running mux's bookkeeping the exporter needs to
// read at scrape time. pkg/mpegts.Mux implements this directly.
type Source interface {
	PacketsWritten() uint64
	BytesWritten() uint64
	TableEmits() map[string]uint64
}

// Exporter implements prometheus.Collector over a Source.
type Exporter struct {
	src Source
}

func NewExporter(src Source) *Exporter {
	return &Exporter{src: src}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- packetsWrittenDesc
	ch <- bytesWrittenDesc
	ch <- tableEmitsDesc
}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(packetsWrittenDesc, prometheus.CounterValue, float64(e.src.PacketsWritten()))
	ch <- prometheus.MustNewConstMetric(bytesWrittenDesc, prometheus.CounterValue, float64(e.src.BytesWritten()))

	for table, n := range e.src.TableEmits() {
		ch <- prometheus.MustNewConstMetric(tableEmitsDesc, prometheus.CounterValue, float64(n), table)
	}
}
