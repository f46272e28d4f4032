// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import "github.com/q191201771/naza/pkg/bele"

// secBuf is a growable section-payload builder. PSI/PES tables are built of
// nested length-prefixed loops (descriptor loops inside program loops inside
// a table), and the length field always has to be patched in after its
// contents are written. secBuf keeps a stack of "scopes" opened with
// BeginLen16/BeginLen12In4 and closed with End, each of which remembers
// where its length field lives and patches it once the scope's contents are
// known.
type secBuf struct {
	b []byte
}

func newSecBuf() *secBuf {
	return &secBuf{b: make([]byte, 0, 256)}
}

func (s *secBuf) Bytes() []byte { return s.b }
func (s *secBuf) Len() int      { return len(s.b) }

func (s *secBuf) U8(v uint8) *secBuf {
	s.b = append(s.b, v)
	return s
}

func (s *secBuf) U16(v uint16) *secBuf {
	s.b = append(s.b, 0, 0)
	bele.BePutUint16(s.b[len(s.b)-2:], v)
	return s
}

func (s *secBuf) Bytes_(p []byte) *secBuf {
	s.b = append(s.b, p...)
	return s
}

func (s *secBuf) Str(p string) *secBuf {
	s.b = append(s.b, p...)
	return s
}

// scope remembers a length-field position so it can be patched after its
// body has been written. The length-prefix-scope pattern from the design
// notes: acquire the cursor before the length slot, release patches it.
type scope struct {
	s       *secBuf
	at      int  // offset of the 2-byte length slot
	bodyOff int  // offset where the scoped body begins
	reserve uint16 // reserved-bits prefix ORed into the length word, e.g. 0xF000 / 0xB000 / 0xE000
}

// BeginLen16 reserves a 2-byte slot (reservedBits | length(12 or fewer bits))
// and returns a scope whose End() patches in the byte count written since.
func (s *secBuf) BeginLen16(reserve uint16) scope {
	at := s.Len()
	s.U16(reserve)
	return scope{s: s, at: at, bodyOff: s.Len(), reserve: reserve}
}

func (sc scope) End() {
	n := sc.s.Len() - sc.bodyOff
	bele.BePutUint16(sc.s.b[sc.at:], sc.reserve|uint16(n))
}
