// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package opus

// RFC 7845 §5.1.1.2's Vorbis-style channel mapping (family 1), one entry
// per channel count 1..8: number of stream_count, coupled_count entries,
// then the raw channel_mapping array in RFC 7845's fixed table.
var (
	family1StreamCount  = [8]uint8{1, 1, 2, 2, 3, 4, 4, 5}
	family1CoupledCount = [8]uint8{0, 1, 1, 2, 2, 2, 3, 3}
	family1ChannelMap   = [8][]uint8{
		{0},
		{0, 1},
		{0, 2, 1},
		{0, 1, 2, 3},
		{0, 4, 1, 2, 3},
		{0, 4, 1, 2, 3, 5},
		{0, 4, 1, 2, 3, 5, 6},
		{0, 6, 1, 2, 3, 4, 5, 7},
	}
)

// ChannelMapping resolves a channel count to its RFC 7845 family-1 mapping
// bytes (stream_count, coupled_count, channel_mapping...), the payload the
// Opus extension_descriptor carries after channel_count, §4.2/§4.6. Mono
// and stereo use family 0 (implicit mapping, no table); everything else
// through 8 channels uses the family-1 table above. Beyond 8 channels there
// is no standard mapping and the descriptor falls back to the single 0xFF
// unsupported-mapping byte.
func ChannelMapping(channels uint8) (mapping []byte, ok bool) {
	if channels == 0 || channels > 8 {
		return nil, false
	}
	if channels <= 2 {
		// family 0: implicit mapping, no channel_mapping table transmitted.
		return nil, true
	}
	i := channels - 1
	m := make([]byte, 0, 2+len(family1ChannelMap[i]))
	m = append(m, family1StreamCount[i], family1CoupledCount[i])
	m = append(m, family1ChannelMap[i]...)
	return m, true
}
