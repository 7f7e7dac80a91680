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

package shape

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src RowSource, table string) [][]any {
	t.Helper()

	var out [][]any
	for row, err := range src.Rows(table) {
		require.NoError(t, err)
		out = append(out, row)
	}

	return out
}

func TestCSVWriter(t *testing.T) {
	recs, _ := shapeSample(t)
	dir := filepath.Join(t.TempDir(), "out")

	w, err := NewCSVWriter(dir)
	require.NoError(t, err)

	for _, n := range recs.Nodes {
		require.NoError(t, w.Write(&Shaped{Node: &n, Tags: tagsOf(recs.NodeTags, n.ID)}))
	}

	for _, way := range recs.Ways {
		require.NoError(t, w.Write(&Shaped{
			Way:      &way,
			Tags:     tagsOf(recs.WayTags, way.ID),
			WayNodes: wayNodesOf(recs.WayNodes, way.ID),
		}))
	}

	require.NoError(t, w.Close())

	b, err := os.ReadFile(CSVPath(dir, NodesTable))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "id,lat,lon,user,uid,version,changeset,timestamp", lines[0])
	assert.Equal(t, "21154906,45.4641943,9.1896346,Alessandro,1679,6,29667356,2015-03-11T10:56:20Z", lines[1])

	d, err := OpenCSVDir(dir)
	require.NoError(t, err)

	for _, table := range Tables {
		t.Run(table, func(t *testing.T) {
			assert.Len(t, collect(t, d, table), recs.Len(table))
		})
	}

	wn := collect(t, d, WayNodesTable)
	assert.Equal(t, []any{"4279412", "21154906", "3"}, wn[3])

	tags := collect(t, d, NodeTagsTable)
	assert.Contains(t, tags, []any{"21154907", "city", "Cassina de' Pecchi", "addr"})
}

func TestCSVDir_Nulls(t *testing.T) {
	dir := t.TempDir()

	w, err := NewCSVWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.Write(&Shaped{Node: &NodeRecord{ID: 1, Lat: 45.5, Lon: 9}}))
	require.NoError(t, w.Close())

	d, err := OpenCSVDir(dir)
	require.NoError(t, err)

	rows := collect(t, d, NodesTable)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"1", "45.5", "9", nil, nil, nil, nil, nil}, rows[0])
}

func TestOpenCSVDir_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := OpenCSVDir(t.TempDir())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	badHeaders := []struct {
		name   string
		header string
	}{
		{"short header", "id,name\n"},
		{"renamed column", "id,user,uid,version,changeset,ts\n"},
	}

	for _, tc := range badHeaders {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()

			w, err := NewCSVWriter(dir)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			path := CSVPath(dir, WaysTable)
			require.NoError(t, os.WriteFile(path, []byte(tc.header+"1,u,2,3,4,2013-01-01T00:00:00Z\n"), 0o644))

			d, err := OpenCSVDir(dir)
			require.NoError(t, err)

			var errs []error
			for row, err := range d.Rows(WaysTable) {
				assert.Nil(t, row)
				errs = append(errs, err)
			}

			require.Len(t, errs, 1)
			assert.ErrorContains(t, errs[0], path)
			assert.ErrorContains(t, errs[0], "header")
		})
	}

	t.Run("short row", func(t *testing.T) {
		dir := t.TempDir()

		w, err := NewCSVWriter(dir)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		require.NoError(t, os.WriteFile(CSVPath(dir, WayNodesTable), []byte("id,node_id,position\n1,2\n"), 0o644))

		d, err := OpenCSVDir(dir)
		require.NoError(t, err)

		var errs int
		for _, err := range d.Rows(WayNodesTable) {
			if err != nil {
				errs++
			}
		}

		assert.Equal(t, 1, errs)
	})
}

func TestTee(t *testing.T) {
	var a, b Records

	require.NoError(t, Tee{&a, &b}.Write(&Shaped{Node: &NodeRecord{ID: 1}}))
	assert.Len(t, a.Nodes, 1)
	assert.Len(t, b.Nodes, 1)
}

func tagsOf(tags []TagRecord, id int64) []TagRecord {
	var out []TagRecord
	for _, t := range tags {
		if t.ID == id {
			out = append(out, t)
		}
	}

	return out
}

func wayNodesOf(wns []WayNodeRecord, id int64) []WayNodeRecord {
	var out []WayNodeRecord
	for _, wn := range wns {
		if wn.ID == id {
			out = append(out, wn)
		}
	}

	return out
}
