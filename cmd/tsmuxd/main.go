// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Command tsmuxd reads elementary-stream frames and writes a conformant
// ISDB-Tb/DVB MPEG-2 transport stream to a file or an outbound SRT
// connection, exposing Prometheus metrics over HTTP while it runs.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"

	"github.com/q191201771/tsmux/cmd/tsmuxd/tsmetrics"
	"github.com/q191201771/tsmux/pkg/mpegts"
)

var Log = nazalog.GetGlobalLogger()

func main() {
	confFile, outFlag, metricsFlag, showVersion := parseFlag()
	if showVersion {
		fmt.Println(bininfo.StringifyMultiLine())
		os.Exit(0)
	}

	cfg, err := parseConfig([]string{confFile})
	if err != nil {
		Log.Fatalf("parse config failed. file=%s err=%+v", confFile, err)
	}
	if outFlag != "" {
		cfg.Output.Target = outFlag
	}
	if metricsFlag != "" {
		cfg.Metrics.Address = metricsFlag
	}

	streams, err := cfg.toStreamInputs()
	if err != nil {
		Log.Fatalf("invalid stream config. err=%+v", err)
	}

	sink, err := openSink(cfg.Output)
	if err != nil {
		Log.Fatalf("open output sink failed. target=%s err=%+v", cfg.Output.Target, err)
	}
	defer closeSink(sink)

	mux := mpegts.NewMux(sink)
	if err := mux.Init(cfg.toMpegtsConfig(), streams, cfg.Output.Target); err != nil {
		Log.Fatalf("init mux failed. err=%+v", err)
	}
	defer mux.Deinit()

	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics.Address, mux)
	}

	Log.Infof("tsmuxd ready. output=%s streams=%d metrics=%v",
		cfg.Output.Target, len(streams), cfg.Metrics.Enabled)

	// WritePacket is driven by the caller's demuxer/capture loop, which is
	// out of scope here (§1 Non-goals): tsmuxd's own main loop only wires
	// config, sink, and metrics together and keeps the process alive.
	select {}
}

func parseFlag() (confFile, outFlag, metricsFlag string, showVersion bool) {
	v := flag.Bool("v", false, "show bin info")
	c := flag.String("c", "", "specify conf file")
	o := flag.String("o", "", "output target: file path or srt://host:port, overrides config")
	m := flag.String("m", "", "prometheus metrics listen address, overrides config")
	flag.Parse()

	if *c == "" && !*v {
		flag.Usage()
		fmt.Printf(`Example:
  tsmuxd -c /etc/tsmuxd.toml
  tsmuxd -c /etc/tsmuxd.toml -o srt://239.0.0.1:9000
  tsmuxd -v
`)
		os.Exit(1)
	}
	return *c, *o, *m, *v
}

func startMetricsServer(addr string, mux *mpegts.Mux) {
	exporter := tsmetrics.NewExporter(mux)
	registry := prometheus.NewRegistry()
	registry.MustRegister(exporter)

	go func() {
		httpMux := http.NewServeMux()
		httpMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		Log.Infof("metrics server listening. addr=%s", addr)
		if err := http.ListenAndServe(addr, httpMux); err != nil {
			Log.Errorf("metrics server exited. err=%+v", err)
		}
	}()
}
