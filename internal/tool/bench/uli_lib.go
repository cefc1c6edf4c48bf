// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build !no_uli_lib

package bench

import (
	"io"

	"github.com/ulikunitz/xz"
)

type xzReader struct{ io.Reader }

func (xzReader) Close() error { return nil }

func init() {
	RegisterEncoder(FormatXZ, "uli",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := xz.NewWriter(w)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatXZ, "uli",
		func(r io.Reader) io.ReadCloser {
			zr, err := xz.NewReader(r)
			if err != nil {
				panic(err)
			}
			return xzReader{zr}
		})
}
