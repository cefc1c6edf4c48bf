// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzhuf

// Every block of the stream describes three prefix codes, in order:
//
//	code-length code: decodes the symbol code's length list
//	symbol code:      literals 0..255 and match-length codes 256 and up
//	offset code:      bit-widths of match offsets
//
// Each description begins with a count field. A zero count declares a
// degenerate code where only a single symbol (restated in the stream) is
// possible; a non-zero count is followed by that many code lengths, from
// which the canonical code is rebuilt.

const (
	lenTreeWidthBits = 5 // Bit-width of the code-length code's count field
	symTreeWidthBits = 9 // Bit-width of the symbol code's count field

	lenTreeLUTBits = 5  // Lookup acceleration width for the code-length code
	symTreeLUTBits = 12 // Lookup acceleration width for symbol and offset codes
)

// prefixTree is the prefix code of one alphabet: either a real canonical
// prefix decoder or a degenerate code whose single symbol is decoded without
// consuming any bits. Once built for a block, it is immutable until the
// block is replaced.
type prefixTree struct {
	decoder prefixDecoder
	defSym  uint32 // Symbol to return when degenerate
	isDef   bool

	codes []prefixCode // Scratch space for Init
}

// SetDefault marks the tree as degenerate with the given constant symbol.
func (pt *prefixTree) SetDefault(sym uint) {
	pt.isDef, pt.defSym = true, uint32(sym)
}

// Init builds the canonical decoder from per-symbol code lengths, where a
// zero length marks an unused symbol.
func (pt *prefixTree) Init(lens []uint8, maxWidth uint) {
	pt.isDef = false
	pt.codes = pt.codes[:0]
	for sym, n := range lens {
		if n > 0 {
			pt.codes = append(pt.codes, prefixCode{sym: uint32(sym), len: uint32(n)})
		}
	}
	pt.decoder.Init(pt.codes, maxWidth)
}

// ReadTreeSymbol reads the next prefix symbol of pt, consuming no bits if
// the tree is degenerate.
func (br *bitReader) ReadTreeSymbol(pt *prefixTree) uint {
	if pt.isDef {
		return uint(pt.defSym)
	}
	return br.ReadSymbol(&pt.decoder)
}

// ReadLen reads a single code length: a 3-bit base and, if the base is 7,
// a unary extension counting the 1 bits up to the first 0.
func (br *bitReader) ReadLen() uint {
	n := br.ReadBits(3)
	if n == 7 {
		for br.ReadBits(1) == 1 {
			n++
		}
	}
	return n
}

// ReadCodeLenTree reads the code-length code's description. Its length list
// is itself lightly run-length coded: once exactly three entries exist, a
// 2-bit field declares a run of unused codes at that position. A run that
// would exceed the declared count is corrupt.
func (br *bitReader) ReadCodeLenTree(pt *prefixTree) {
	cnt := br.ReadBits(lenTreeWidthBits)
	if cnt == 0 {
		pt.SetDefault(br.ReadBits(lenTreeWidthBits))
		return
	}

	var lensArr [1 << lenTreeWidthBits]uint8
	lens := lensArr[:0]
	for uint(len(lens)) < cnt {
		if len(lens) == 3 {
			n := br.ReadBits(2)
			if uint(len(lens))+n > cnt {
				panic(ErrCorrupt) // Zero run exceeds the declared count
			}
			for i := uint(0); i < n; i++ {
				lens = append(lens, 0)
			}
			if uint(len(lens)) == cnt {
				break
			}
		}
		lens = append(lens, uint8(br.ReadLen()))
	}
	pt.Init(lens, lenTreeLUTBits)
}

// ReadSymTree reads the symbol code's description, decoding its length list
// with the code-length tree lt: symbol 0 is one unused code, symbols 1 and 2
// declare runs of unused codes with 4 and 9 extra bits, and a symbol n >= 3
// declares a code of length n-2. A run may extend past the declared count;
// the excess entries describe unused codes either way, so they are dropped.
func (br *bitReader) ReadSymTree(pt, lt *prefixTree) {
	cnt := br.ReadBits(symTreeWidthBits)
	if cnt == 0 {
		pt.SetDefault(br.ReadBits(symTreeWidthBits))
		return
	}

	var lensArr [1 << symTreeWidthBits]uint8
	lens := lensArr[:0]
	for uint(len(lens)) < cnt {
		switch sym := br.ReadTreeSymbol(lt); {
		case sym == 0:
			lens = append(lens, 0)
		case sym >= 3:
			lens = append(lens, uint8(sym-2))
		default:
			var n uint
			if sym == 1 {
				n = 3 + br.ReadBits(4)
			} else {
				n = 20 + br.ReadBits(9)
			}
			for i := uint(0); i < n && uint(len(lens)) < cnt; i++ {
				lens = append(lens, 0)
			}
		}
	}
	pt.Init(lens, symTreeLUTBits)
}

// ReadOffTree reads the offset code's description. Offset alphabets are
// small, so the length list is stored plainly with nb-bit count fields.
func (br *bitReader) ReadOffTree(pt *prefixTree, nb uint) {
	cnt := br.ReadBits(nb)
	if cnt == 0 {
		pt.SetDefault(br.ReadBits(nb))
		return
	}

	var lensArr [1 << 5]uint8
	lens := lensArr[:0]
	for i := uint(0); i < cnt; i++ {
		lens = append(lens, uint8(br.ReadLen()))
	}
	pt.Init(lens, symTreeLUTBits)
}
