// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// CRC-32/MPEG-2: polynomial 0x04C11DB7, init 0xFFFFFFFF, not reflected, no xor-out.
//
// This is NOT the same table as Go's stdlib crc32.IEEE (used by zip/gzip/ethernet),
// which is the *reflected* form of the same-looking polynomial. ISO/IEC 13818-1
// Annex A and ffmpeg's av_crc(AV_CRC_32_IEEE, ...) both mean the non-reflected
// variant computed here; reusing crc32.IEEE would silently miscompute every
// PSI/PAT/PMT/SDT/NIT/TOT/EIT section checksum.
var crc32Mpeg2Table [256]uint32

func init() {
	const poly = 0x04c11db7
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for bit := 0; bit < 8; bit++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		crc32Mpeg2Table[i] = crc
	}
}

// CalcCrc32 folds buffer into crc using the CRC-32/MPEG-2 table. Call with
// crc=0xFFFFFFFF to start a new section checksum, matching <iso13818-1.pdf> Annex A.
func CalcCrc32(crc uint32, buffer []byte) uint32 {
	for _, b := range buffer {
		crc = (crc << 8) ^ crc32Mpeg2Table[byte(crc>>24)^b]
	}
	return crc
}
