// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/haivision/srtgo"
	"github.com/q191201771/tsmux/pkg/mpegts"
)

// srtSink wraps an outbound srtgo.SrtSocket as a mpegts.Sink, the caller
// side of the same library app/demo/srt/server.go wires in listener mode:
// SrtSocket.Connect dials out instead of Listen/Accept taking connections.
type srtSink struct {
	sock *srtgo.SrtSocket
}

func newSrtSink(target OutputConfig) (*srtSink, error) {
	host, port, err := splitSrtUrl(target.Target)
	if err != nil {
		return nil, err
	}

	options := make(map[string]string)
	options["transtype"] = "live"
	if target.Latency > 0 {
		options["latency"] = strconv.FormatUint(uint64(target.Latency), 10)
	}

	sock := srtgo.NewSrtSocket(host, uint16(port), options)
	if err := sock.Connect(); err != nil {
		return nil, fmt.Errorf("tsmuxd: srt connect to %s:%d failed: %w", host, port, err)
	}
	return &srtSink{sock: sock}, nil
}

func (s *srtSink) Write(b []byte) error {
	_, err := s.sock.Write(b)
	return err
}

func (s *srtSink) Close() error {
	s.sock.Close()
	return nil
}

// splitSrtUrl parses an srt://host:port target, §11.
func splitSrtUrl(target string) (string, int, error) {
	rest := strings.TrimPrefix(target, "srt://")
	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return "", 0, fmt.Errorf("tsmuxd: srt output target %q missing port", target)
	}
	host, portStr := rest[:i], rest[i+1:]
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("tsmuxd: srt output target %q has invalid port: %w", target, err)
	}
	return host, port, nil
}

// closeSink releases whatever OS resource the sink holds. mpegts.Sink itself
// only requires Write, so the two concrete sinks are closed by type switch
// rather than a shared interface method (FileWriter's existing Dispose and
// the new srtSink's Close don't share a name).
func closeSink(sink mpegts.Sink) error {
	switch s := sink.(type) {
	case *mpegts.FileWriter:
		return s.Dispose()
	case *srtSink:
		return s.Close()
	default:
		return nil
	}
}

// openSink resolves an OutputConfig to a mpegts.Sink, dispatching on the
// srt:// scheme the same way the CLI's -o flag is documented to, §11. The
// m2ts_mode file-extension sniffing is not done here: main passes the same
// target to mpegts.Mux.Init, which applies DetectM2ts when M2tsMode is -1.
func openSink(out OutputConfig) (mpegts.Sink, error) {
	if strings.HasPrefix(out.Target, "srt://") {
		return newSrtSink(out)
	}
	fw := &mpegts.FileWriter{}
	if err := fw.Create(out.Target); err != nil {
		return nil, err
	}
	return fw, nil
}
