// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build gofuzz

package lzhuf

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/dsnet/lzhuf"
)

func Fuzz(data []byte) int {
	var ok bool
	for _, m := range []lzhuf.Method{lzhuf.LH4, lzhuf.LH5, lzhuf.LH6, lzhuf.LH7} {
		if testDecoder(data, m) {
			ok = true
		}
	}
	if ok {
		return 1 // Favor valid inputs
	}
	return 0
}

// testDecoder tests that the decoder can handle arbitrary input without
// crashing. Any non-nil error must be one the decoder deliberately reports
// for invalid or truncated streams.
func testDecoder(data []byte, m lzhuf.Method) bool {
	zr, err := lzhuf.NewReader(bytes.NewReader(data), &lzhuf.ReaderConfig{Method: m})
	if err != nil {
		panic(err)
	}
	_, err = ioutil.ReadAll(zr)
	if err != nil {
		if _, ok := err.(lzhuf.Error); ok {
			return false
		}
		if err == io.ErrUnexpectedEOF {
			return false
		}
		panic(err)
	}
	if err := zr.Close(); err != nil {
		panic(err)
	}
	return true
}
