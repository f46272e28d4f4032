// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

// AudNalu is the fixed AUD-with-any-slice NAL unit prepended ahead of a
// keyframe that lacks one, per the codec adapter's contract.
var AudNalu = []byte{0x00, 0x00, 0x00, 0x01, 0x09, 0xf0}

// HasStartCode reports whether b begins with an Annex-B start code, either
// the 3-byte or 4-byte form.
func HasStartCode(b []byte) bool {
	if len(b) >= 3 && b[0] == 0 && b[1] == 0 && b[2] == 1 {
		return true
	}
	return len(b) >= 4 && b[0] == 0 && b[1] == 0 && b[2] == 0 && b[3] == 1
}

// SplitAnnexb splits an Annex-B buffer into its NAL units (start codes
// stripped).
func SplitAnnexb(b []byte) [][]byte {
	var nalus [][]byte
	i := 0
	start := -1
	for i < len(b) {
		if i+3 <= len(b) && b[i] == 0 && b[i+1] == 0 && b[i+2] == 1 {
			if start >= 0 {
				nalus = append(nalus, trimTrailingZero(b[start:i]))
			}
			i += 3
			start = i
			continue
		}
		i++
	}
	if start >= 0 && start < len(b) {
		nalus = append(nalus, trimTrailingZero(b[start:]))
	}
	return nalus
}

func trimTrailingZero(nalu []byte) []byte {
	n := len(nalu)
	for n > 0 && nalu[n-1] == 0 {
		n--
	}
	return nalu[:n]
}

// PrepareKeyframe implements the H.264 codec adapter's on-keyframe checks,
// C6: prepend AudNalu when the frame carries no AUD NAL, and prepend
// extradata (SPS/PPS, already Annex-B-start-coded) when the frame carries
// no SPS of its own.
func PrepareKeyframe(frame []byte, extradata []byte) []byte {
	nalus := SplitAnnexb(frame)
	hasAud, hasSps := false, false
	for _, n := range nalus {
		if len(n) == 0 {
			continue
		}
		switch CalcNaluType(n) {
		case NaluUintTypeAUD:
			hasAud = true
		case NaluUintTypeSPS:
			hasSps = true
		}
	}

	out := frame
	if !hasSps && len(extradata) > 0 {
		buf := make([]byte, 0, len(extradata)+len(out))
		buf = append(buf, extradata...)
		buf = append(buf, out...)
		out = buf
	}
	if !hasAud {
		buf := make([]byte, 0, len(AudNalu)+len(out))
		buf = append(buf, AudNalu...)
		buf = append(buf, out...)
		out = buf
	}
	return out
}
