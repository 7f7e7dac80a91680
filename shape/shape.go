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

// Package shape decomposes nodes and ways into the flat records of the
// relational schema, cleaning address values on the way.
package shape

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"m4o.io/osmwrangle/clean"
	"m4o.io/osmwrangle/model"
	"m4o.io/osmwrangle/rules"
)

// DefaultTagType is the type of tags whose key has no namespace.
const DefaultTagType = "regular"

const (
	progressInterval = 100_000
	progressPeriod   = 10 * time.Second
)

var ErrValidation = errors.New("validation failed")

// ValidationError names the element and the required attribute it lacks.
type ValidationError struct {
	Type  model.EntityType
	ID    model.ID
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %d: missing required attribute %q", e.Type, e.ID, e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Sink receives shaped elements.
type Sink interface {
	Write(s *Shaped) error
}

// Stats counts the output of a shaping run.
type Stats struct {
	Nodes     int64 `json:"nodes"`
	Ways      int64 `json:"ways"`
	Tags      int64 `json:"tags"`
	WayNodes  int64 `json:"way_nodes"`
	Dropped   int64 `json:"dropped_tags"`
	Cleaned   int64 `json:"cleaned"`
	Relations int64 `json:"skipped_relations"`
}

// shaperOptions provides optional configuration parameters for Shaper construction.
type shaperOptions struct {
	validate bool
	cuisine  bool
}

// Option configures a Shaper.
type Option func(*shaperOptions)

// WithValidation makes a missing required attribute a fatal error.
func WithValidation(validate bool) Option {
	return func(o *shaperOptions) {
		o.validate = validate
	}
}

// WithCuisineNormalization also cleans cuisine values.
func WithCuisineNormalization(cuisine bool) Option {
	return func(o *shaperOptions) {
		o.cuisine = cuisine
	}
}

// Shaper turns elements into records.
type Shaper struct {
	cleaner *clean.Cleaner
	cfg     shaperOptions
}

// New returns a shaper cleaning values with cleaner.
func New(cleaner *clean.Cleaner, opts ...Option) *Shaper {
	s := &Shaper{cleaner: cleaner}

	for _, opt := range opts {
		opt(&s.cfg)
	}

	return s
}

// SplitKey splits a tag key at its first colon into type and key.  Keys
// without a colon, or with nothing on either side of it, get the default
// type.
func SplitKey(k string) (typ, key string) {
	if t, rest, ok := strings.Cut(k, ":"); ok && t != "" && rest != "" {
		return t, rest
	}

	return DefaultTagType, k
}

// Shape decomposes e.  Relations yield nil.
func (s *Shaper) Shape(e model.Entity) (*Shaped, error) {
	shaped, _, err := s.shape(e)

	return shaped, err
}

// tally counts what happened to the tags of one element.
type tally struct {
	dropped int64
	cleaned int64
}

func (s *Shaper) shape(e model.Entity) (*Shaped, tally, error) {
	var t tally

	if e.GetType() == model.RELATION {
		return nil, t, nil
	}

	var info model.Info
	if i := e.GetInfo(); i != nil {
		info = *i
	}

	if s.cfg.validate {
		if err := validate(e, info); err != nil {
			return nil, t, err
		}
	}

	id := int64(e.GetID())
	out := &Shaped{}

	switch v := e.(type) {
	case *model.Node:
		out.Node = &NodeRecord{
			ID:        id,
			Lat:       float64(v.Lat),
			Lon:       float64(v.Lon),
			User:      info.User,
			UID:       int64(info.UID),
			Version:   info.Version,
			Changeset: info.Changeset,
			Timestamp: info.Timestamp,
		}
	case *model.Way:
		out.Way = &WayRecord{
			ID:        id,
			User:      info.User,
			UID:       int64(info.UID),
			Version:   info.Version,
			Changeset: info.Changeset,
			Timestamp: info.Timestamp,
		}

		out.WayNodes = make([]WayNodeRecord, len(v.NodeIDs))
		for i, ref := range v.NodeIDs {
			out.WayNodes[i] = WayNodeRecord{ID: id, NodeID: int64(ref), Position: i}
		}
	default:
		return nil, t, nil
	}

	for _, tag := range e.GetTags() {
		if rules.IsMalformedKey(tag.Key) {
			t.dropped++

			continue
		}

		typ, key := SplitKey(tag.Key)

		value := tag.Value
		if f, ok := s.cleaner.ForKey(key, s.cfg.cuisine); ok {
			value = f(value)
			if value != tag.Value {
				t.cleaned++
			}
		}

		out.Tags = append(out.Tags, TagRecord{ID: id, Key: key, Value: value, Type: typ})
	}

	return out, t, nil
}

func validate(e model.Entity, info model.Info) error {
	missing := func(field string) error {
		return &ValidationError{Type: e.GetType(), ID: e.GetID(), Field: field}
	}

	switch {
	case e.GetID() == 0:
		return missing("id")
	case info.User == "":
		return missing("user")
	case info.UID == 0:
		return missing("uid")
	case info.Version == 0:
		return missing("version")
	case info.Changeset == 0:
		return missing("changeset")
	case info.Timestamp.IsZero():
		return missing("timestamp")
	}

	return nil
}

// ShapeAll shapes every node and way of elements into sink.
func (s *Shaper) ShapeAll(ctx context.Context, elements iter.Seq2[model.Entity, error], sink Sink) (Stats, error) {
	var stats Stats

	progress := rate.Sometimes{Every: progressInterval, Interval: progressPeriod}

	for e, err := range elements {
		if err != nil {
			return stats, err
		}

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		shaped, t, err := s.shape(e)
		if err != nil {
			slog.Error("shaping failed", "error", err)

			return stats, err
		}

		if shaped == nil {
			stats.Relations++

			continue
		}

		stats.Dropped += t.dropped
		stats.Cleaned += t.cleaned

		if shaped.Node != nil {
			stats.Nodes++
		} else {
			stats.Ways++
		}

		stats.Tags += int64(len(shaped.Tags))
		stats.WayNodes += int64(len(shaped.WayNodes))

		if err := sink.Write(shaped); err != nil {
			return stats, err
		}

		progress.Do(func() { slog.Debug("shaping", "nodes", stats.Nodes, "ways", stats.Ways) })
	}

	slog.Debug("shape complete", "nodes", stats.Nodes, "ways", stats.Ways, "tags", stats.Tags)

	return stats, nil
}
