// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package codec picks stream compression for OSM documents by file name.
package codec

import (
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

var ErrUnknownCompression = errors.New("unknown compression")

// Compression is the stream compression wrapped around a document.
type Compression int

const (
	NONE Compression = iota
	GZIP
	BZIP2
	ZSTD
	LZ4
	XZ
	LZMA
)

var extensions = map[string]Compression{
	".gz":   GZIP,
	".gzip": GZIP,
	".bz2":  BZIP2,
	".zst":  ZSTD,
	".zstd": ZSTD,
	".lz4":  LZ4,
	".xz":   XZ,
	".lzma": LZMA,
}

func (c Compression) String() string {
	switch c {
	case NONE:
		return "none"
	case GZIP:
		return "gzip"
	case BZIP2:
		return "bzip2"
	case ZSTD:
		return "zstd"
	case LZ4:
		return "lz4"
	case XZ:
		return "xz"
	case LZMA:
		return "lzma"
	default:
		return fmt.Sprintf("compression(%d)", int(c))
	}
}

// FromPath returns the compression implied by the extension of path along
// with the path stripped of that extension, so that "milan.osm.gz" yields
// GZIP and "milan.osm".
func FromPath(path string) (Compression, string) {
	ext := strings.ToLower(filepath.Ext(path))
	if c, ok := extensions[ext]; ok {
		return c, path[:len(path)-len(ext)]
	}

	return NONE, path
}

// NewReader wraps r with a decompressor for c.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case NONE:
		return io.NopCloser(r), nil
	case GZIP:
		return gzip.NewReader(r)
	case BZIP2:
		return io.NopCloser(bzip2.NewReader(r)), nil
	case ZSTD:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}

		return d.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case XZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}

		return io.NopCloser(xr), nil
	case LZMA:
		lr, err := lzma.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("lzma reader: %w", err)
		}

		return io.NopCloser(lr), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}

// NewWriter wraps w with a compressor for c.  Closing the returned writer
// flushes the compressor but leaves w open.  BZIP2 is read-only.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case NONE:
		return nopCloser{w}, nil
	case GZIP:
		return gzip.NewWriter(w), nil
	case ZSTD:
		return zstd.NewWriter(w)
	case LZ4:
		return lz4.NewWriter(w), nil
	case XZ:
		return xz.NewWriter(w)
	case LZMA:
		return lzma.NewWriter(w)
	default:
		return nil, fmt.Errorf("%w: cannot write %s", ErrUnknownCompression, c)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
