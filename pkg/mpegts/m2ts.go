// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// WrapM2ts prefixes each 188-byte TS packet in packets with a 4-byte
// big-endian tp_extra_header holding the PCR (in 27MHz ticks) at the
// packet's write offset, modulo 2^30, §4.7. packets must already be
// concatenated whole 188-byte units.
func WrapM2ts(packets []byte, pcrAtOffset uint64) []byte {
	n := len(packets) / 188
	out := make([]byte, 0, len(packets)+4*n)
	for i := 0; i < n; i++ {
		pkt := packets[i*188 : i*188+188]
		var hdr [4]byte
		v := uint32(pcrAtOffset % (1 << 30))
		hdr[0] = byte(v >> 24)
		hdr[1] = byte(v >> 16)
		hdr[2] = byte(v >> 8)
		hdr[3] = byte(v)
		out = append(out, hdr[:]...)
		out = append(out, pkt...)
	}
	return out
}

// DetectM2ts infers m2ts_mode from the output filename extension when the
// config leaves it unset (-1 / auto), §4.7.
func DetectM2ts(filename string) bool {
	n := len(filename)
	return n >= 5 && filename[n-5:] == ".m2ts"
}
