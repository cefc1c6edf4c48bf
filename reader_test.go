// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzhuf

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"runtime"
	"strings"
	"testing"

	"github.com/dsnet/lzhuf/internal/testutil"
)

func TestReader(t *testing.T) {
	db := testutil.MustDecodeBitGen
	dh := testutil.MustDecodeHex

	var vectors = []struct {
		desc   string // Description of the test
		method Method // Stream method (defaults to LH5)
		input  []byte // Test input string
		output []byte // Expected output string
		inIdx  int64  // Expected input offset after reading
		outIdx int64  // Expected output offset after reading
		err    error  // Expected error
	}{{
		desc: "empty string (truncated)",
		err:  io.ErrUnexpectedEOF,
	}, {
		desc:  "truncated inside block count",
		input: db(`>>> > X:00`),
		inIdx: 1,
		err:   io.ErrUnexpectedEOF,
	}, {
		desc: "empty stream",
		input: db(`>>> >
			D16:0 # Terminator block
		`),
		inIdx: 2,
	}, {
		desc: "degenerate codes, single literal",
		input: db(`>>> >
			D16:1      # NumCodes: 1
			D5:0 D5:0  # Degenerate code-length code: {0}
			D9:0 D9:5  # Degenerate symbol code: {5}
			D4:0 D4:0  # Degenerate offset code: {0}
			           # Codes: "\x05"
			D16:0      # Terminator block
		`),
		output: dh("05"),
		inIdx:  9,
		outIdx: 1,
	}, {
		desc: "degenerate codes, repeated literal",
		input: db(`>>> >
			D16:3       # NumCodes: 3
			D5:0 D5:0   # Degenerate code-length code: {0}
			D9:0 D9:65  # Degenerate symbol code: {65}
			D4:0 D4:0   # Degenerate offset code: {0}
			            # Codes: "AAA"
			D16:0       # Terminator block
		`),
		output: []byte("AAA"),
		inIdx:  9,
		outIdx: 3,
	}, {
		desc: "degenerate code-length code decoding symbol lengths",
		input: db(`>>> >
			D16:2      # NumCodes: 2
			D5:0 D5:3  # Degenerate code-length code: {3}
			D9:2       # SymLens: 2 entries, all from the constant symbol 3
			D4:0 D4:0  # Degenerate offset code: {0}
			0 1        # Codes: "\x00\x01"
			D16:0      # Terminator block
		`),
		output: dh("0001"),
		inIdx:  8,
		outIdx: 2,
	}, {
		desc: "real codes, literal run and adjacent match",
		input: db(`>>> >
			D16:2        # NumCodes: 2
			D5:4         # CodeLens: 4 entries
			000 000 001  # Lens: {2:1}
			00           # ZeroRun: 0
			001          # Lens: {3:1}
			D9:259       # SymLens: 259 entries
			0 D9:77      # 97 unused symbols
			1            # Len(97): 1
			0 D9:140     # 160 unused symbols
			1            # Len(258): 1
			D4:0 D4:0    # Degenerate offset code: {0}
			0            # Literal 'a'
			1            # Match: length 5, dist 1
			D16:0        # Terminator block
		`),
		output: []byte("aaaaaa"),
		inIdx:  12,
		outIdx: 6,
	}, {
		desc: "match with offset extra bits",
		input: db(`>>> >
			D16:4            # NumCodes: 4
			D5:5             # CodeLens: 5 entries
			000 000 001      # Lens: {2:1}
			00               # ZeroRun: 0
			000 001          # Lens: {4:1}
			D9:257           # SymLens: 257 entries
			0 D9:77          # 97 unused symbols
			1 1 1            # Len(97..99): 2
			0 D9:136         # 156 unused symbols
			1                # Len(256): 2
			D4:0 D4:2        # Degenerate offset code: {2}
			00 01 10         # Literals 'a', 'b', 'c'
			11 0             # Match: length 3, dist 3
			D16:0            # Terminator block
		`),
		output: []byte("abcabc"),
		inIdx:  13,
		outIdx: 6,
	}, {
		desc: "code-length zero-run overflows the declared count",
		input: db(`>>> >
			D16:1        # NumCodes: 1
			D5:4         # CodeLens: 4 entries
			000 000 001  # Lens: {2:1}
			11           # ZeroRun: 3, exceeds remaining entries
		`),
		inIdx: 4,
		err:   ErrCorrupt,
	}, {
		desc: "code-length zero-run exactly fills the count",
		input: db(`>>> >
			D16:1        # NumCodes: 1
			D5:5         # CodeLens: 5 entries
			001 001 000  # Lens: {0:1, 1:1}
			10           # ZeroRun: 2, fills remaining entries
			D9:0 D9:66   # Degenerate symbol code: {66}
			D4:0 D4:0    # Degenerate offset code: {0}
			             # Codes: "B"
			D16:0        # Terminator block
		`),
		output: []byte("B"),
		inIdx:  10,
		outIdx: 1,
	}, {
		desc: "under-subscribed offset code",
		input: db(`>>> >
			D16:1       # NumCodes: 1
			D5:0 D5:0   # Degenerate code-length code: {0}
			D9:0 D9:65  # Degenerate symbol code: {65}
			D4:1 001    # OffLens: {0:1}, incomplete
		`),
		inIdx: 7,
		err:   ErrCorrupt,
	}, {
		desc: "symbol run overflow is tolerated, but code is empty",
		input: db(`>>> >
			D16:1      # NumCodes: 1
			D5:0 D5:1  # Degenerate code-length code: {1}
			D9:1       # SymLens: 1 entry
			0000       # ZeroRun: 3, truncated to 1
			D4:0 D4:0  # Degenerate offset code: {0}
			           # Codes: decode against an empty symbol code
		`),
		inIdx: 6,
		err:   ErrCorrupt,
	}, {
		desc: "match distance exceeds produced history",
		input: db(`>>> >
			D16:4            # NumCodes: 4
			D5:5             # CodeLens: 5 entries
			000 000 001      # Lens: {2:1}
			00               # ZeroRun: 0
			000 001          # Lens: {4:1}
			D9:257           # SymLens: 257 entries
			0 D9:77          # 97 unused symbols
			1 1 1            # Len(97..99): 2
			0 D9:136         # 156 unused symbols
			1                # Len(256): 2
			D4:0 D4:2        # Degenerate offset code: {2}
			11 0             # Match: length 3, dist 3, history empty
		`),
		inIdx: 11,
		err:   ErrCorrupt,
	}, {
		desc: "truncated before offset code",
		input: db(`>>> >
			D16:1      # NumCodes: 1
			D5:0 D5:0  # Degenerate code-length code: {0}
			D9:0       # Degenerate symbol code, constant missing
		`),
		inIdx: 5,
		err:   io.ErrUnexpectedEOF,
	}, {
		desc: "multiple blocks",
		input: db(`>>> >
			D16:1        # NumCodes: 1
			D5:0 D5:0    # Degenerate code-length code: {0}
			D9:0 D9:120  # Degenerate symbol code: {120}
			D4:0 D4:0    # Degenerate offset code: {0}
			             # Codes: "x"
			D16:2        # NumCodes: 2
			D5:0 D5:0    # Degenerate code-length code: {0}
			D9:0 D9:121  # Degenerate symbol code: {121}
			D4:0 D4:0    # Degenerate offset code: {0}
			             # Codes: "yy"
			D16:0        # Terminator block
		`),
		output: []byte("xyy"),
		inIdx:  15,
		outIdx: 3,
	}, {
		desc: "output exceeding the window size",
		input: db(`>>> >
			D16:65535    # NumCodes: 65535
			D5:0 D5:0    # Degenerate code-length code: {0}
			D9:0 D9:122  # Degenerate symbol code: {122}
			D4:0 D4:0    # Degenerate offset code: {0}
			D16:65535    # NumCodes: 65535
			D5:0 D5:0    # Degenerate code-length code: {0}
			D9:0 D9:122  # Degenerate symbol code: {122}
			D4:0 D4:0    # Degenerate offset code: {0}
			D16:0        # Terminator block
		`),
		output: bytes.Repeat([]byte("z"), 131070),
		inIdx:  15,
		outIdx: 131070,
	}, {
		desc: "missing terminator block",
		input: db(`>>> >
			D16:1      # NumCodes: 1
			D5:0 D5:0  # Degenerate code-length code: {0}
			D9:0 D9:5  # Degenerate symbol code: {5}
			D4:0 D4:0  # Degenerate offset code: {0}
			           # Codes: "\x05"
		`),
		output: dh("05"),
		inIdx:  7,
		outIdx: 1,
		err:    io.ErrUnexpectedEOF,
	}, {
		desc: "unary length extensions and long code-length codes",
		input: db(`>>> >
			D16:2            # NumCodes: 2
			D5:8             # CodeLens: 8 entries
			001 010 011      # Lens: {0:1, 1:2, 2:3}
			00               # ZeroRun: 0
			100 101 110      # Lens: {3:4, 4:5, 5:6}
			1110 1110        # Lens: {6:7, 7:7}
			D9:2             # SymLens: 2 entries
			1110 1110        # Len(0..1): 1
			D4:0 D4:0        # Degenerate offset code: {0}
			0 1              # Codes: "\x00\x01"
			D16:0            # Terminator block
		`),
		output: dh("0001"),
		inIdx:  12,
		outIdx: 2,
	}, {
		desc: "long offset code with extra bits crossing blocks",
		input: db(`>>> >
			D16:2049                 # NumCodes: 2049
			D5:0 D5:0                # Degenerate code-length code: {0}
			D9:0 D9:113              # Degenerate symbol code: {113}
			D4:0 D4:0                # Degenerate offset code: {0}
			                         # Codes: "q"*2049
			D16:1                    # NumCodes: 1
			D5:0 D5:0                # Degenerate code-length code: {0}
			D9:0 D9:259              # Degenerate symbol code: {259}
			D4:14                    # OffLens: 14 entries
			001 010 011 100 101 110  # Lens: 1,2,3,4,5,6
			1110                     # Len: 7
			11110                    # Len: 8
			111110                   # Len: 9
			1111110                  # Len: 10
			11111110                 # Len: 11
			111111110                # Len: 12
			1111111110               # Len: 13
			1111111110               # Len: 13
			1111111111110            # Match: length 6, offset width 12
			00000000000              # ExtraBits: dist 2049
			D16:0                    # Terminator block
		`),
		output: bytes.Repeat([]byte("q"), 2055),
		inIdx:  28,
		outIdx: 2055,
	}, {
		desc:   "lh6 stream with wide offset count fields",
		method: LH6,
		input: db(`>>> >
			D16:1       # NumCodes: 1
			D5:0 D5:0   # Degenerate code-length code: {0}
			D9:0 D9:70  # Degenerate symbol code: {70}
			D5:0 D5:0   # Degenerate offset code: {0}
			            # Codes: "F"
			D16:0       # Terminator block
		`),
		output: []byte("F"),
		inIdx:  9,
		outIdx: 1,
	}, {
		desc:   "lh7 stream with oversized offset width",
		method: LH7,
		input: db(`>>> >
			D16:1        # NumCodes: 1
			D5:0 D5:0    # Degenerate code-length code: {0}
			D9:0 D9:259  # Degenerate symbol code: {259}
			D5:0 D5:18   # Degenerate offset code: {18}
		`),
		inIdx: 7,
		err:   ErrCorrupt,
	}}

	for i, v := range vectors {
		method := v.method
		if method == 0 {
			method = LH5
		}
		rd, err := NewReader(bytes.NewReader(v.input), &ReaderConfig{Method: method})
		if err != nil {
			t.Errorf("test %d, unexpected NewReader error: %v", i, err)
		}
		output, err := ioutil.ReadAll(rd)
		if cerr := rd.Close(); cerr != nil {
			err = cerr
		}

		if err != v.err {
			t.Errorf("test %d, %s\nerror mismatch: got %v, want %v", i, v.desc, err, v.err)
		}
		if !bytes.Equal(output, v.output) {
			t.Errorf("test %d, %s\noutput mismatch:\ngot  %x\nwant %x", i, v.desc, output, v.output)
		}
		if rd.InputOffset != v.inIdx {
			t.Errorf("test %d, %s\ninput offset mismatch: got %d, want %d", i, v.desc, rd.InputOffset, v.inIdx)
		}
		if rd.OutputOffset != v.outIdx {
			t.Errorf("test %d, %s\noutput offset mismatch: got %d, want %d", i, v.desc, rd.OutputOffset, v.outIdx)
		}
	}
}

func TestReaderReset(t *testing.T) {
	const data = "\x00\x03\x00\x00\x04\x10\x00\x00\x00" // Decodes to "AAA"

	var rd Reader
	if err := rd.Close(); err != nil {
		t.Errorf("unexpected Close error: %v", err)
	}

	rd.Reset(strings.NewReader("garbage"), LH5)
	if _, err := ioutil.ReadAll(&rd); err != io.ErrUnexpectedEOF {
		t.Errorf("mismatching Read error: got %v, want %v", err, io.ErrUnexpectedEOF)
	}
	if err := rd.Close(); err != io.ErrUnexpectedEOF {
		t.Errorf("mismatching Close error: got %v, want %v", err, io.ErrUnexpectedEOF)
	}

	if err := rd.Reset(strings.NewReader(data), Method(0)); err != errUnknownMethod {
		t.Errorf("mismatching Reset error: got %v, want %v", err, errUnknownMethod)
	}

	rd.Reset(strings.NewReader(data), LH5)
	if _, err := ioutil.ReadAll(&rd); err != nil {
		t.Errorf("unexpected Read error: %v", err)
	}
	if err := rd.Close(); err != nil {
		t.Errorf("unexpected Close error: %v", err)
	}
}

func TestReaderFaults(t *testing.T) {
	errFault := errors.New("fault")
	data := testutil.MustDecodeBitGen(`>>> >
		D16:3       # NumCodes: 3
		D5:0 D5:0   # Degenerate code-length code: {0}
		D9:0 D9:65  # Degenerate symbol code: {65}
		D4:0 D4:0   # Degenerate offset code: {0}
		D16:0       # Terminator block
	`)

	// Every prefix of a valid stream must report the injected fault rather
	// than hang or misreport a decoding error.
	for i := 0; i < len(data); i++ {
		br := &testutil.BuggyReader{R: bytes.NewReader(data), N: int64(i), Err: errFault}
		rd, err := NewReader(br, &ReaderConfig{Method: LH5})
		if err != nil {
			t.Fatalf("unexpected NewReader error: %v", err)
		}
		if _, err := ioutil.ReadAll(rd); err != errFault {
			t.Errorf("prefix %d, mismatching Read error: got %v, want %v", i, err, errFault)
		}
	}
}

func benchmarkDecode(b *testing.B, input []byte) {
	b.StopTimer()
	b.ReportAllocs()

	rd, err := NewReader(bytes.NewReader(input), &ReaderConfig{Method: LH5})
	if err != nil {
		b.Fatal(err)
	}
	output, err := ioutil.ReadAll(rd)
	if err != nil {
		b.Fatal(err)
	}

	nb := int64(len(output))
	output = nil
	runtime.GC()

	b.SetBytes(nb)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		rd, err := NewReader(bytes.NewReader(input), &ReaderConfig{Method: LH5})
		if err != nil {
			b.Fatalf("unexpected NewReader error: %v", err)
		}
		cnt, err := io.Copy(ioutil.Discard, rd)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
		if cnt != nb {
			b.Fatalf("unexpected count: got %d, want %d", cnt, nb)
		}
	}
}

func BenchmarkDecodeDegenerate1e6(b *testing.B) {
	benchmarkDecode(b, testutil.MustDecodeBitGen(
		">>> > "+strings.Repeat("D16:65535 D5:0 D5:0 D9:0 D9:97 D4:0 D4:0 ", 16)+"D16:0"))
}
