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

package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6"><node id="1" lat="45.46" lon="9.19"/></osm>`

func TestFromPath(t *testing.T) {
	testCases := []struct {
		path     string
		expected Compression
		stripped string
	}{
		{"milan.osm", NONE, "milan.osm"},
		{"milan.osm.gz", GZIP, "milan.osm"},
		{"/tmp/milan.osm.BZ2", BZIP2, "/tmp/milan.osm"},
		{"milan.osm.zst", ZSTD, "milan.osm"},
		{"milan.osm.lz4", LZ4, "milan.osm"},
		{"milan.osm.xz", XZ, "milan.osm"},
		{"milan.osm.lzma", LZMA, "milan.osm"},
		{"milan.osm.pbf", NONE, "milan.osm.pbf"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			c, stripped := FromPath(tc.path)
			assert.Equal(t, tc.expected, c)
			assert.Equal(t, tc.stripped, stripped)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{NONE, GZIP, ZSTD, LZ4, XZ, LZMA} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer

			w, err := NewWriter(&buf, c)
			require.NoError(t, err)
			_, err = io.WriteString(w, doc)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := NewReader(&buf, c)
			require.NoError(t, err)
			defer r.Close()

			b, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, doc, string(b))
		})
	}
}

func TestBzip2IsReadOnly(t *testing.T) {
	_, err := NewWriter(io.Discard, BZIP2)
	assert.ErrorIs(t, err, ErrUnknownCompression)

	_, err = NewReader(bytes.NewReader(nil), Compression(42))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
