// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzhuf

import (
	"bytes"
	"io"
	"testing"
)

func TestBitReader(t *testing.T) {
	// Bits are delivered MSB first: 0xa5 0x0f 0xf0 is the bit-stream
	// 10100101 00001111 11110000.
	var br bitReader
	br.Init(bytes.NewReader([]byte{0xa5, 0x0f, 0xf0}))

	if got := br.ReadBits(3); got != 5 {
		t.Errorf("ReadBits(3) = %d, want 5", got)
	}
	if got := br.PeekBits(5); got != 5 {
		t.Errorf("PeekBits(5) = %d, want 5", got)
	}
	if got := br.ReadBits(5); got != 5 {
		t.Errorf("ReadBits(5) = %d, want 5", got)
	}
	if br.offset != 1 {
		t.Errorf("offset mismatch: got %d, want 1", br.offset)
	}

	// Reading across the byte boundary.
	if got := br.ReadBits(12); got != 0x0ff {
		t.Errorf("ReadBits(12) = %#03x, want 0x0ff", got)
	}
	if br.offset != 3 {
		t.Errorf("offset mismatch: got %d, want 3", br.offset)
	}
	if got := br.ReadBits(4); got != 0 {
		t.Errorf("ReadBits(4) = %d, want 0", got)
	}

	err := func() (err error) {
		defer errRecover(&err)
		br.ReadBits(1)
		return nil
	}()
	if err != io.ErrUnexpectedEOF {
		t.Errorf("mismatching error: got %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

func TestBitReaderPads(t *testing.T) {
	var br bitReader
	br.Init(bytes.NewReader([]byte{0xa5, 0xff}))

	// Byte-aligned streams discard nothing.
	if got := br.ReadPads(); got != 0 {
		t.Errorf("ReadPads() = %d, want 0", got)
	}

	if got := br.ReadBits(3); got != 5 {
		t.Errorf("ReadBits(3) = %d, want 5", got)
	}
	if got := br.ReadPads(); got != 5 {
		t.Errorf("ReadPads() = %d, want 5", got)
	}
	if got := br.ReadBits(8); got != 0xff {
		t.Errorf("ReadBits(8) = %#02x, want 0xff", got)
	}
}
