// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzhuf

import (
	"bufio"
	"io"
)

// The LZHUF family packs bits in MSB-first order, unlike DEFLATE and Brotli.
// The bitReader therefore keeps the next bit to deliver at the top of the
// valid region of bufBits, fills by shifting the buffer left, and peeks are
// top-aligned. Canonical prefix codes can then be matched directly without
// any bit reversal.

type byteReader interface {
	io.Reader
	io.ByteReader
}

type bitReader struct {
	rd      byteReader
	bufBits uint32 // Buffer to hold some bits
	numBits uint   // Number of valid bits in bufBits
	offset  int64  // Number of bytes read from the underlying reader

	// Local copy of the code-length tree to reduce memory allocations.
	prefix prefixTree
}

func (br *bitReader) Init(r io.Reader) {
	*br = bitReader{prefix: br.prefix}
	if rr, ok := r.(byteReader); ok {
		br.rd = rr
	} else {
		br.rd = bufio.NewReader(r)
	}
}

// FeedBits ensures that at least nb bits exist in the bit buffer.
// If the underlying reader is exhausted first, then it panics.
func (br *bitReader) FeedBits(nb uint) {
	for br.numBits < nb {
		c, err := br.rd.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			panic(err)
		}
		br.offset++
		br.bufBits = br.bufBits<<8 | uint32(c)
		br.numBits += 8
	}
}

// PeekBits returns the next nb bits without consuming them. If fewer than nb
// bits are buffered, the missing low bits are zero; the result is only
// authoritative for widths up to numBits.
func (br *bitReader) PeekBits(nb uint) uint {
	return uint(br.bufBits << (32 - br.numBits) >> (32 - nb))
}

// ReadBits reads nb bits in MSB-first order from the underlying reader.
func (br *bitReader) ReadBits(nb uint) uint {
	br.FeedBits(nb)
	val := br.PeekBits(nb)
	br.numBits -= nb
	return val
}

// ReadPads discards 0-7 bits from the bit buffer to achieve byte-alignment.
func (br *bitReader) ReadPads() uint {
	nb := br.numBits % 8
	val := br.PeekBits(nb)
	br.numBits -= nb
	return val
}

// ReadSymbol reads the next prefix symbol using the provided prefixDecoder.
func (br *bitReader) ReadSymbol(pd *prefixDecoder) uint {
	if len(pd.chunks) == 0 {
		panic(ErrCorrupt) // Decode with empty tree
	}

	nb := uint(pd.minBits)
	for {
		br.FeedBits(nb)
		chunk := pd.chunks[br.PeekBits(uint(pd.chunkBits))&uint(pd.chunkMask)]
		nb = uint(chunk & prefixCountMask)
		if nb > uint(pd.chunkBits) {
			linkIdx := chunk >> prefixCountBits
			idx := br.PeekBits(uint(pd.chunkBits)+uint(pd.linkBits)) & uint(pd.linkMask)
			chunk = pd.links[linkIdx][idx]
			nb = uint(chunk & prefixCountMask)
		}
		if nb <= br.numBits {
			br.numBits -= nb
			return uint(chunk >> prefixCountBits)
		}
	}
}
