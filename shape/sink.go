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
	"fmt"
	"iter"
)

// RowSource yields the rows of a table in column order.
type RowSource interface {
	Rows(table string) iter.Seq2[[]any, error]
}

// Records accumulates shaped output in memory.  It is both a Sink and a
// RowSource.
type Records struct {
	Nodes    []NodeRecord
	NodeTags []TagRecord
	Ways     []WayRecord
	WayTags  []TagRecord
	WayNodes []WayNodeRecord
}

func (r *Records) Write(s *Shaped) error {
	switch {
	case s.Node != nil:
		r.Nodes = append(r.Nodes, *s.Node)
		r.NodeTags = append(r.NodeTags, s.Tags...)
	case s.Way != nil:
		r.Ways = append(r.Ways, *s.Way)
		r.WayTags = append(r.WayTags, s.Tags...)
		r.WayNodes = append(r.WayNodes, s.WayNodes...)
	}

	return nil
}

// Len returns the number of rows held for table.
func (r *Records) Len(table string) int {
	switch table {
	case NodesTable:
		return len(r.Nodes)
	case NodeTagsTable:
		return len(r.NodeTags)
	case WaysTable:
		return len(r.Ways)
	case WayTagsTable:
		return len(r.WayTags)
	case WayNodesTable:
		return len(r.WayNodes)
	default:
		return 0
	}
}

func (r *Records) Rows(table string) iter.Seq2[[]any, error] {
	switch table {
	case NodesTable:
		return rows(r.Nodes)
	case NodeTagsTable:
		return rows(r.NodeTags)
	case WaysTable:
		return rows(r.Ways)
	case WayTagsTable:
		return rows(r.WayTags)
	case WayNodesTable:
		return rows(r.WayNodes)
	default:
		return func(yield func([]any, error) bool) {
			yield(nil, fmt.Errorf("unknown table %q", table))
		}
	}
}

type valuer interface {
	Values() []any
}

func rows[T valuer](records []T) iter.Seq2[[]any, error] {
	return func(yield func([]any, error) bool) {
		for _, r := range records {
			if !yield(r.Values(), nil) {
				return
			}
		}
	}
}

// Tee writes every shaped element to each of the sinks in turn.
type Tee []Sink

func (t Tee) Write(s *Shaped) error {
	for _, sink := range t {
		if err := sink.Write(s); err != nil {
			return err
		}
	}

	return nil
}
