// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzhuf

import "io"

type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd     bitReader // Input source
	method Method    // Stream parameters, fixed at Reset
	toRead []byte    // Uncompressed data ready to be emitted from Read
	blkLen int       // Number of LZSS codes left in the current block
	dist   int       // The current copy distance
	cpyLen int       // Bytes left to backward dictionary copy
	err    error     // Persistent error

	step      func(*Reader) // Single step of decompression work (can panic)
	stepState int           // The sub-step state for certain steps

	dict    dictDecoder // Dynamic sliding dictionary
	symTree prefixTree  // Literal and match-length prefix code
	offTree prefixTree  // Match-offset prefix code
}

// ReaderConfig configures the Reader. The zero value is invalid: LZHUF
// streams do not record their own method, so one must always be supplied.
type ReaderConfig struct {
	Method Method
}

func NewReader(r io.Reader, conf *ReaderConfig) (*Reader, error) {
	zr := new(Reader)
	var m Method
	if conf != nil {
		m = conf.Method
	}
	if err := zr.Reset(r, m); err != nil {
		return nil, err
	}
	return zr, nil
}

func (zr *Reader) Reset(r io.Reader, m Method) error {
	*zr = Reader{
		rd:      zr.rd,
		method:  m,
		step:    (*Reader).readBlockHeader,
		dict:    zr.dict,
		symTree: zr.symTree,
		offTree: zr.offTree,
	}
	if !m.valid() {
		zr.err = errUnknownMethod
		return zr.err
	}
	zr.rd.Init(r)
	zr.dict.Init(maxHistSize)
	return nil
}

func (zr *Reader) Read(buf []byte) (int, error) {
	for {
		if len(zr.toRead) > 0 {
			cnt := copy(buf, zr.toRead)
			zr.toRead = zr.toRead[cnt:]
			zr.OutputOffset += int64(cnt)
			return cnt, nil
		}
		if zr.err != nil {
			return 0, zr.err
		}

		// Perform next step in decompression process.
		func() {
			defer errRecover(&zr.err)
			zr.step(zr)
		}()
		zr.InputOffset = zr.rd.offset
		if zr.err != nil {
			zr.toRead = zr.dict.ReadFlush() // Flush what's left in case of error
		}
	}
}

func (zr *Reader) Close() error {
	if zr.err == io.EOF || zr.err == io.ErrClosedPipe {
		zr.toRead = nil // Make sure future reads fail
		zr.err = io.ErrClosedPipe
		return nil
	}
	return zr.err // Return the persistent error
}

// readBlockHeader reads the 16-bit code count that begins every block and
// rebuilds the three prefix codes that follow it. A zero count is the clean
// end of the stream; a short read at any point is io.ErrUnexpectedEOF.
func (zr *Reader) readBlockHeader() {
	n := zr.rd.ReadBits(16)
	if n == 0 {
		zr.rd.ReadPads()
		panic(io.EOF)
	}
	zr.blkLen = int(n)

	// Each code is decoded with help of its predecessor: the code-length
	// code decodes the symbol code's length list, and the offset code
	// stands alone with the method's field width.
	zr.rd.ReadCodeLenTree(&zr.rd.prefix)
	zr.rd.ReadSymTree(&zr.symTree, &zr.rd.prefix)
	zr.rd.ReadOffTree(&zr.offTree, zr.method.offsetBits())
	zr.step = (*Reader).readBlock
}

// readBlock decodes the LZSS codes of the current block into the dictionary,
// flushing decoded data to the user whenever the window fills up.
func (zr *Reader) readBlock() {
	const (
		stateInit = iota // Zero value must be stateInit
		stateDict
	)

	switch zr.stepState {
	case stateInit:
		goto readCode
	case stateDict:
		goto copyDistance
	}

readCode:
	// Decode one LZSS code: a literal byte or a (length, offset) reference.
	{
		if zr.blkLen == 0 {
			zr.step = (*Reader).readBlockHeader
			zr.stepState = stateInit
			return
		}
		if zr.dict.AvailSize() == 0 {
			zr.toRead = zr.dict.ReadFlush()
			zr.step = (*Reader).readBlock
			zr.stepState = stateInit // Need to continue work here
			return
		}

		sym := zr.rd.ReadTreeSymbol(&zr.symTree)
		zr.blkLen--
		if sym < numLitSyms {
			zr.dict.WriteByte(byte(sym))
			goto readCode
		}

		// Symbols 256 and up carry the match length; the offset code gives
		// the bit-width of the distance, whose remaining bits follow raw.
		// Widths 0 and 1 encode the two smallest distances outright.
		zr.cpyLen = int(sym) - numLitSyms + minMatchSize
		pos := zr.rd.ReadTreeSymbol(&zr.offTree)
		if pos > 1 {
			nb := pos - 1
			if nb > 16 {
				panic(ErrCorrupt) // Offset cannot fit in the window
			}
			pos = 1<<nb | zr.rd.ReadBits(nb)
		}
		zr.dist = int(pos) + 1
		if zr.dist > zr.dict.HistSize() {
			panic(ErrCorrupt) // Distance exceeds the produced history
		}
		goto copyDistance
	}

copyDistance:
	// Perform a backwards copy of the referenced string.
	{
		cnt := zr.dict.WriteCopy(zr.dist, zr.cpyLen)
		zr.cpyLen -= cnt

		if zr.cpyLen > 0 {
			zr.toRead = zr.dict.ReadFlush()
			zr.step = (*Reader).readBlock
			zr.stepState = stateDict // Need to continue work here
			return
		}
		goto readCode
	}
}
