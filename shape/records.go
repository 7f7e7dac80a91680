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
	"strconv"
	"time"

	"golang.org/x/exp/constraints"
)

// Table names, in load order.
const (
	NodesTable    = "nodes"
	NodeTagsTable = "nodes_tags"
	WaysTable     = "ways"
	WayTagsTable  = "ways_tags"
	WayNodesTable = "ways_nodes"
)

// Tables lists the shaped tables in load order.
var Tables = []string{NodesTable, NodeTagsTable, WaysTable, WayTagsTable, WayNodesTable}

// Column order of each table.  Values() of the matching record follows it.
var (
	NodeFields    = []string{"id", "lat", "lon", "user", "uid", "version", "changeset", "timestamp"}
	NodeTagFields = []string{"id", "key", "value", "type"}
	WayFields     = []string{"id", "user", "uid", "version", "changeset", "timestamp"}
	WayTagFields  = []string{"id", "key", "value", "type"}
	WayNodeFields = []string{"id", "node_id", "position"}
)

// Fields returns the column order of the table.
func Fields(table string) []string {
	switch table {
	case NodesTable:
		return NodeFields
	case NodeTagsTable:
		return NodeTagFields
	case WaysTable:
		return WayFields
	case WayTagsTable:
		return WayTagFields
	case WayNodesTable:
		return WayNodeFields
	default:
		return nil
	}
}

// TimestampLayout is the layout of timestamps in shaped output.
const TimestampLayout = time.RFC3339

// NodeRecord is the row of a node.
type NodeRecord struct {
	ID        int64
	Lat       float64
	Lon       float64
	User      string
	UID       int64
	Version   int32
	Changeset int64
	Timestamp time.Time
}

func (r NodeRecord) Values() []any {
	return []any{r.ID, r.Lat, r.Lon, nullString(r.User), nullable(r.UID),
		version(r.Version), nullable(r.Changeset), timestamp(r.Timestamp)}
}

// WayRecord is the row of a way.
type WayRecord struct {
	ID        int64
	User      string
	UID       int64
	Version   int32
	Changeset int64
	Timestamp time.Time
}

func (r WayRecord) Values() []any {
	return []any{r.ID, nullString(r.User), nullable(r.UID),
		version(r.Version), nullable(r.Changeset), timestamp(r.Timestamp)}
}

// TagRecord is the row of a node or way tag.
type TagRecord struct {
	ID    int64
	Key   string
	Value string
	Type  string
}

func (r TagRecord) Values() []any {
	return []any{r.ID, r.Key, r.Value, r.Type}
}

// WayNodeRecord is a node reference of a way at its zero-based position.
type WayNodeRecord struct {
	ID       int64
	NodeID   int64
	Position int
}

func (r WayNodeRecord) Values() []any {
	return []any{r.ID, r.NodeID, int64(r.Position)}
}

// Shaped is the flat decomposition of one element.  Exactly one of Node and
// Way is set.
type Shaped struct {
	Node     *NodeRecord
	Way      *WayRecord
	Tags     []TagRecord
	WayNodes []WayNodeRecord
}

// nullable maps the zero value to NULL.
func nullable[T constraints.Integer | constraints.Float](v T) any {
	if v == 0 {
		return nil
	}

	return v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func version(v int32) any {
	if v == 0 {
		return nil
	}

	return strconv.FormatInt(int64(v), 10)
}

func timestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}

	return t.UTC().Format(TimestampLayout)
}
