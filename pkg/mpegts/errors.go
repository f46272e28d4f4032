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
	"fmt"
)

var (
	ErrMpegts = errors.New("lal.mpegts: fxxk")

	ErrSectionTooLarge  = errors.New("lal.mpegts: section exceeds 1021 bytes")
	ErrDuplicatePid     = errors.New("lal.mpegts: duplicate pid")
	ErrStreamIdTooLarge = errors.New("lal.mpegts: stream id exceeds 0x1FFF")
	ErrPmtOverflow      = errors.New("lal.mpegts: pmt does not fit in one section")
	ErrNoFirstPts       = errors.New("lal.mpegts: no pts available for first packet on stream")
	ErrMissingStartCode = errors.New("lal.mpegts: annex-b start code missing")
	ErrOpusPacketShort  = errors.New("lal.mpegts: opus packet too short")
	ErrOpusMappingUnsupported = errors.New("lal.mpegts: opus channel mapping not supported")
	ErrAacNoExtraData   = errors.New("lal.mpegts: aac packet lacks adts sync and no extradata to build latm")
	ErrNotInited        = errors.New("lal.mpegts: mux used before Init")
)

func NewErrSectionTooLarge(length int) error {
	return fmt.Errorf("%w. length=%d", ErrSectionTooLarge, length)
}

func NewErrDuplicatePid(pid uint16) error {
	return fmt.Errorf("%w. pid=%d", ErrDuplicatePid, pid)
}

func NewErrStreamIdTooLarge(id int) error {
	return fmt.Errorf("%w. id=%d", ErrStreamIdTooLarge, id)
}

func NewErrPmtOverflow(streamIndex int) error {
	return fmt.Errorf("%w. stream_index=%d", ErrPmtOverflow, streamIndex)
}
