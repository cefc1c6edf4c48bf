// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzhuf

const (
	// The symbol alphabet spans the 256 literals plus the match-length codes,
	// so chunk entries store the symbol in the bits above the 5-bit count.
	prefixCountBits = 5
	prefixCountMask = 1<<prefixCountBits - 1

	maxPrefixBits = 16 // Longest code length the format can describe
)

type prefixCode struct {
	sym uint32 // The symbol being mapped
	val uint32 // Value of the prefix code (must be in [0..1<<len])
	len uint32 // Bit length of the prefix code
}

type prefixDecoder struct {
	chunks    []uint32   // First-level lookup map
	links     [][]uint32 // Second-level lookup map
	chunkMask uint32     // Mask the width of the chunks table
	linkMask  uint32     // Mask the width of the link tables
	numSyms   uint32     // Number of symbols
	chunkBits uint8      // Bit-width of the chunks table
	linkBits  uint8      // Bit-width of the link tables
	minBits   uint8      // The minimum number of bits to safely make progress
}

// Init initializes the prefixDecoder as the canonical prefix code over the
// given symbols, assigning codes by ascending (length, symbol) in MSB-first
// bit order. The symbols provided must be unique and in ascending order.
// The lengths must describe a complete code; an under- or over-subscribed
// description panics with ErrCorrupt.
//
// maxWidth bounds the bit-width of the first-level lookup table. Codes longer
// than maxWidth decode through a second-level table.
func (pd *prefixDecoder) Init(codes []prefixCode, maxWidth uint) {
	if len(codes) == 0 {
		// Empty tree (should panic if used later).
		*pd = prefixDecoder{chunks: pd.chunks[:0], links: pd.links[:0]}
		return
	}

	// Compute basic statistics on the symbols.
	var bitCnts [maxPrefixBits + 1]uint32
	var minBits, maxBits uint32 = maxPrefixBits + 1, 0
	symLast := -1
	for _, c := range codes {
		if c.len == 0 || c.len > maxPrefixBits || int(c.sym) <= symLast {
			panic(ErrCorrupt)
		}
		if minBits > c.len {
			minBits = c.len
		}
		if maxBits < c.len {
			maxBits = c.len
		}
		bitCnts[c.len]++     // Histogram of bit counts
		symLast = int(c.sym) // Keep track of last symbol
	}

	// Compute the next code for a symbol of a given bit length.
	var nextCodes [maxPrefixBits + 1]uint32
	var code uint32
	for i := minBits; i <= maxBits; i++ {
		code <<= 1
		nextCodes[i] = code
		code += bitCnts[i]
	}
	if code != 1<<maxBits {
		panic(ErrCorrupt) // Tree is under or over subscribed
	}
	for i, c := range codes {
		codes[i].val = nextCodes[c.len]
		nextCodes[c.len]++
	}

	// Allocate chunks table if necessary.
	pd.numSyms = uint32(len(codes))
	pd.minBits = uint8(minBits)
	pd.chunkBits = uint8(maxBits)
	if uint(pd.chunkBits) > maxWidth {
		pd.chunkBits = uint8(maxWidth)
	}
	numChunks := 1 << pd.chunkBits
	pd.chunks = allocUint32s(pd.chunks, numChunks)
	pd.chunkMask = uint32(numChunks - 1)
	for i := range pd.chunks {
		pd.chunks[i] = 0 // Logic below relies on zero value as uninitialized
	}

	// Allocate link tables for the codes that overflow the chunks table.
	// Since the code is complete, every link entry is filled in afterwards.
	pd.links = pd.links[:0]
	pd.linkMask = 0
	pd.linkBits = 0
	if uint32(pd.chunkBits) < maxBits {
		pd.linkBits = uint8(maxBits - uint32(pd.chunkBits))
		numLinks := 1 << pd.linkBits
		pd.linkMask = uint32(numLinks - 1)
		for _, c := range codes {
			if c.len <= uint32(pd.chunkBits) {
				continue // Ignore symbols that don't require links
			}
			idx := c.val >> (c.len - uint32(pd.chunkBits))
			if pd.chunks[idx] > 0 {
				continue // Link table already initialized
			}
			linkIdx := len(pd.links)
			pd.links = extendSliceUint32s(pd.links, len(pd.links)+1)
			pd.links[linkIdx] = allocUint32s(pd.links[linkIdx], numLinks)
			pd.chunks[idx] = uint32(linkIdx)<<prefixCountBits | uint32(pd.chunkBits+1)
		}
	}

	// Fill out chunks and links tables with values. An entry for a code of
	// length n covers every table index whose top n bits equal the code.
	for _, c := range codes {
		chunk := c.sym<<prefixCountBits | c.len
		if c.len <= uint32(pd.chunkBits) {
			skip := uint32(pd.chunkBits) - c.len
			for i := c.val << skip; i < (c.val+1)<<skip; i++ {
				pd.chunks[i] = chunk
			}
		} else {
			linkIdx := pd.chunks[c.val>>(c.len-uint32(pd.chunkBits))] >> prefixCountBits
			links := pd.links[linkIdx]
			sub := c.val & (1<<(c.len-uint32(pd.chunkBits)) - 1)
			skip := uint32(pd.linkBits) - (c.len - uint32(pd.chunkBits))
			for i := sub << skip; i < (sub+1)<<skip; i++ {
				links[i] = chunk
			}
		}
	}
}
