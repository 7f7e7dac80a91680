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

package osmwrangle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"m4o.io/osmwrangle/internal/codec"
	"m4o.io/osmwrangle/model"
)

// scanner is the part of the osmxml and osmpbf scanners the Decoder needs.
type scanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

// Decoder reads OpenStreetMap XML or PBF data from an input stream and
// yields nodes, ways and relations one at a time.
type Decoder struct {
	Header model.Header

	cfg     decoderOptions
	scanner scanner
	pending model.Entity
	closers []io.Closer
}

// NewDecoder returns a new decoder, configured with options, that reads from
// r.  Any <bounds> element preceding the first entity is captured in Header.
func NewDecoder(ctx context.Context, r io.Reader, opts ...DecoderOption) (*Decoder, error) {
	cfg := defaultDecoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Decoder{cfg: cfg}

	switch cfg.format {
	case XML:
		d.Header.Version = "0.6"
		d.scanner = osmxml.New(ctx, r)
	case PBF:
		s := osmpbf.New(ctx, r, int(max(cfg.nCPU, 1)))
		s.SkipNodes = !cfg.wants(model.NODE)
		s.SkipWays = !cfg.wants(model.WAY)
		s.SkipRelations = !cfg.wants(model.RELATION)
		d.scanner = s
	default:
		return nil, fmt.Errorf("unknown format %d", cfg.format)
	}

	e, err := d.next()
	if err != nil && !errors.Is(err, io.EOF) {
		_ = d.scanner.Close()

		return nil, err
	}

	d.pending = e

	return d, nil
}

// Open opens the named file and returns a decoder over its contents.  The
// compression is chosen by the file extension and a ".pbf" name selects the
// PBF format; an explicit WithFormat option takes precedence.
func Open(ctx context.Context, path string, opts ...DecoderOption) (*Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	d, err := NewDecoderForPath(ctx, f, path, opts...)
	if err != nil {
		_ = f.Close()

		return nil, err
	}

	d.closers = append(d.closers, f)

	return d, nil
}

// NewDecoderForPath returns a decoder for r, choosing the compression and
// format from name the way Open does.  Closing the decoder does not close r.
func NewDecoderForPath(ctx context.Context, r io.Reader, name string, opts ...DecoderOption) (*Decoder, error) {
	c, stripped := codec.FromPath(name)

	rc, err := codec.NewReader(r, c)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}

	if strings.HasSuffix(strings.ToLower(stripped), ".pbf") {
		opts = append([]DecoderOption{WithFormat(PBF)}, opts...)
	}

	d, err := NewDecoder(ctx, rc, opts...)
	if err != nil {
		_ = rc.Close()

		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	d.closers = append(d.closers, rc)

	return d, nil
}

// Decode reads the next node, way or relation.  The end of the input stream
// is reported by an io.EOF error.
func (d *Decoder) Decode() (model.Entity, error) {
	if e := d.pending; e != nil {
		d.pending = nil

		return e, nil
	}

	return d.next()
}

// Elements returns an iterator over the remaining entities of the stream.
// Iteration stops after the first error.
func (d *Decoder) Elements() iter.Seq2[model.Entity, error] {
	return func(yield func(model.Entity, error) bool) {
		for {
			e, err := d.Decode()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the scanner and any reader the decoder opened.
func (d *Decoder) Close() error {
	errs := []error{d.scanner.Close()}

	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i].Close())
	}

	return errors.Join(errs...)
}

func (d *Decoder) next() (model.Entity, error) {
	for d.scanner.Scan() {
		switch o := d.scanner.Object().(type) {
		case *osm.Bounds:
			bbox := model.InitialBoundingBox()
			if d.Header.BoundingBox != nil {
				bbox = d.Header.BoundingBox
			}

			bbox.ExpandWithBoundingBox(&model.BoundingBox{
				Top:    model.Degrees(o.MaxLat),
				Left:   model.Degrees(o.MinLon),
				Bottom: model.Degrees(o.MinLat),
				Right:  model.Degrees(o.MaxLon),
			})
			d.Header.BoundingBox = bbox
		case *osm.Node:
			if d.cfg.wants(model.NODE) {
				return toNode(o), nil
			}
		case *osm.Way:
			if d.cfg.wants(model.WAY) {
				return toWay(o), nil
			}
		case *osm.Relation:
			if d.cfg.wants(model.RELATION) {
				return toRelation(o), nil
			}
		}
	}

	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning elements: %w", err)
	}

	return nil, io.EOF
}
