// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build !no_ds_lib

package bench

import (
	"io"

	"github.com/dsnet/lzhuf"
)

func init() {
	RegisterDecoder(FormatLZHUF, "ds",
		func(r io.Reader) io.ReadCloser {
			zr, err := lzhuf.NewReader(r, &lzhuf.ReaderConfig{Method: lzhuf.LH5})
			if err != nil {
				panic(err)
			}
			return zr
		})
}
