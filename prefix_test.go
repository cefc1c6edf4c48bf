// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzhuf

import (
	"bytes"
	"testing"

	"github.com/dsnet/lzhuf/internal/testutil"
)

func TestReadLen(t *testing.T) {
	db := testutil.MustDecodeBitGen

	var vectors = []struct {
		input  []byte // Test input string
		output uint   // Expected length value
	}{
		{db(`>>> > 000`), 0},
		{db(`>>> > 001`), 1},
		{db(`>>> > 101`), 5},
		{db(`>>> > 110`), 6},
		{db(`>>> > 1110`), 7},
		{db(`>>> > 11110`), 8},
		{db(`>>> > 111111110`), 12},
		{db(`>>> > 1111111111110`), 16},
	}

	for i, v := range vectors {
		var br bitReader
		br.Init(bytes.NewReader(v.input))
		if got := br.ReadLen(); got != v.output {
			t.Errorf("test %d, ReadLen() = %d, want %d", i, got, v.output)
		}
	}
}

func TestReadTreeDegenerate(t *testing.T) {
	db := testutil.MustDecodeBitGen

	// Each description declares a zero count followed by a constant symbol.
	// Decoding from such a code must consume no bits at all.
	var br bitReader
	br.Init(bytes.NewReader(db(`>>> >
		D5:0 D5:7   # Degenerate code-length code: {7}
		D9:0 D9:300 # Degenerate symbol code: {300}
		D5:0 D5:3   # Degenerate offset code: {3}
	`)))

	var lt, st, ot prefixTree
	br.ReadCodeLenTree(&lt)
	br.ReadSymTree(&st, &lt)
	br.ReadOffTree(&ot, 5)

	offset := br.offset
	for i := 0; i < 3; i++ {
		if got := br.ReadTreeSymbol(&lt); got != 7 {
			t.Errorf("code-length symbol mismatch: got %d, want 7", got)
		}
		if got := br.ReadTreeSymbol(&st); got != 300 {
			t.Errorf("symbol mismatch: got %d, want 300", got)
		}
		if got := br.ReadTreeSymbol(&ot); got != 3 {
			t.Errorf("offset symbol mismatch: got %d, want 3", got)
		}
	}
	if br.offset != offset {
		t.Errorf("degenerate decoding consumed input: offset is %d, want %d", br.offset, offset)
	}
}

func TestReadSymTreeRuns(t *testing.T) {
	db := testutil.MustDecodeBitGen

	// A code-length code of {0:1, 1:1} maps symbol 0 to a single unused
	// entry and symbol 1 to the short-run escape with 4 extra bits.
	var br bitReader
	br.Init(bytes.NewReader(db(`>>> >
		D5:5         # CodeLens: 5 entries
		001 001 000  # Lens: {0:1, 1:1}
		10           # ZeroRun: 2, fills remaining entries
		D9:7         # SymLens: 7 entries
		0            # One unused symbol
		1 0000       # Short run: 3 unused symbols
		0 0 0        # Three more unused symbols
	`)))

	var lt, st prefixTree
	br.ReadCodeLenTree(&lt)
	if lt.isDef {
		t.Fatalf("unexpected degenerate code-length code")
	}

	// All 7 entries describe unused symbols, so the resulting code is empty.
	br.ReadSymTree(&st, &lt)
	if st.isDef || st.decoder.numSyms != 0 {
		t.Errorf("symbol code not empty: %d symbols", st.decoder.numSyms)
	}
}
