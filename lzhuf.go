// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lzhuf implements the LZHUF compressed data format.
//
// LZHUF is the block-Huffman coding of LZSS codes used by the lh4 through
// lh7 methods of the LHA family of archivers. A stream is a sequence of
// blocks; every block carries its own canonical prefix code definitions for
// the code-length, symbol, and match-offset alphabets, followed by a declared
// number of literal or (length, offset) codes. A block declaring zero codes
// terminates the stream.
//
// This package only provides the decoder. The stream format does not record
// which method produced it; archive containers store that out-of-band, so
// the caller must supply it.
package lzhuf

import "runtime"

const (
	maxHistSize  = 1 << 16 // Size of the sliding window
	minMatchSize = 3       // Match length encoded by symbol 256
	numLitSyms   = 256     // Symbols below this are literal bytes
)

// Method identifies the per-stream coding parameters of the LHA family.
type Method int

const (
	LH4 Method = 4 + iota // 4KiB window, 4-bit offset fields
	LH5                   // 8KiB window, 4-bit offset fields
	LH6                   // 32KiB window, 5-bit offset fields
	LH7                   // 64KiB window, 5-bit offset fields
)

func (m Method) valid() bool { return m >= LH4 && m <= LH7 }

// offsetBits is the bit-width of the offset table's count field and of its
// degenerate constant.
func (m Method) offsetBits() uint {
	if m <= LH5 {
		return 4
	}
	return 5
}

// dictBits is the window size exponent advertised by the method. Decoding
// always uses a full 64KiB window since the offset coding itself can express
// distances up to 1<<16 and corrupt distances are caught against the history
// actually produced.
func (m Method) dictBits() uint {
	switch m {
	case LH4:
		return 12
	case LH5:
		return 13
	case LH6:
		return 15
	default:
		return 16
	}
}

func (m Method) String() string {
	if !m.valid() {
		return "unknown"
	}
	return string([]byte{'l', 'h', '0' + byte(m)})
}

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "lzhuf: " + string(e) }

var (
	ErrCorrupt error = Error("stream is corrupted")

	errUnknownMethod error = Error("unknown compression method")
)

func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

func allocUint32s(s []uint32, n int) []uint32 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]uint32, n, n*3/2)
}

func extendSliceUint32s(s [][]uint32, n int) [][]uint32 {
	if cap(s) >= n {
		return s[:n]
	}
	ss := make([][]uint32, n, n*3/2)
	copy(ss, s[:cap(s)])
	return ss
}
