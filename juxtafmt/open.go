// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package juxtafmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Open opens the log at path for reading. The path "-" means standard
// input. Logs compressed with zstd or gzip are decompressed
// transparently, based on their leading magic bytes.
//
// The caller must Close the returned reader.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return Decompress(io.NopCloser(os.Stdin))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := Decompress(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}

// Decompress wraps rc with a decompressor if its content starts with a
// zstd or gzip header. Closing the result closes rc.
func Decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &stackedReader{Reader: zr, close: func() error { zr.Close(); return rc.Close() }}, nil
	case bytes.HasPrefix(head, gzipMagic):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &stackedReader{Reader: gr, close: func() error {
			gerr := gr.Close()
			if err := rc.Close(); err != nil {
				return err
			}
			return gerr
		}}, nil
	}
	return &stackedReader{Reader: br, close: rc.Close}, nil
}

// stackedReader reads from a decoder layered over an underlying file.
type stackedReader struct {
	io.Reader
	close func() error
}

func (s *stackedReader) Close() error {
	return s.close()
}
