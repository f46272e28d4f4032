// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// BuildTot builds the TOT (table_id 0x73), a private/short section carrying
// the current UTC time plus the local-time-offset descriptor for Brazil,
// §4.2. unixSeconds is the wall-clock time to encode.
func BuildTot(unixSeconds int64, country string, regionId uint8, offsetMinutes int) []byte {
	sb := newSecBuf()
	mjd, hour, minute, second := mjdFromUnix(unixSeconds)
	writeMjdUtc(sb, mjd, hour, minute, second)

	sc := sb.BeginLen16(0xf000)
	sb.Bytes_(descLocalTimeOffset(country, regionId, offsetMinutes >= 0, offsetMinutes))
	sc.End()

	return writePrivateSection(TableIdTot, sb.Bytes())
}
