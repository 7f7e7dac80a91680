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

// Package sample derives a smaller working document from a large one by
// keeping every k-th top-level element.
package sample

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/model"
)

var ErrInvalidStride = errors.New("stride must be at least 1")

// Encoder receives the sampled elements.
type Encoder interface {
	Encode(entity model.Entity) error
}

// Stats counts the elements read and written by a run.
type Stats struct {
	Read    int64 `json:"read"`
	Written int64 `json:"written"`
}

// Sampler keeps the elements whose zero-based position in the stream is a
// multiple of its stride.
type Sampler struct {
	stride int64
}

// New returns a sampler with stride k.
func New(k int) (*Sampler, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStride, k)
	}

	return &Sampler{stride: int64(k)}, nil
}

// Sample writes every k-th element of elements to enc, one element at a
// time.
func (s *Sampler) Sample(ctx context.Context, elements iter.Seq2[model.Entity, error], enc Encoder) (Stats, error) {
	var stats Stats

	for e, err := range elements {
		if err != nil {
			return stats, err
		}

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if stats.Read%s.stride == 0 {
			if err := enc.Encode(e); err != nil {
				return stats, fmt.Errorf("writing %s %d: %w", e.GetType(), e.GetID(), err)
			}

			stats.Written++
		}

		stats.Read++
	}

	slog.Debug("sample complete", "read", stats.Read, "written", stats.Written, "stride", s.stride)

	return stats, nil
}

// SampleFile samples the document at src into a new document at dst.  Both
// may be compressed, as chosen by their extensions.  The bounds of the
// source, if any, are carried over.
func (s *Sampler) SampleFile(ctx context.Context, src, dst string, opts ...osmwrangle.DecoderOption) (Stats, error) {
	d, err := osmwrangle.Open(ctx, src, opts...)
	if err != nil {
		return Stats{}, err
	}
	defer d.Close()

	return s.SampleTo(ctx, d, dst)
}

// SampleTo samples the decoder into a new document at dst.
func (s *Sampler) SampleTo(ctx context.Context, d *osmwrangle.Decoder, dst string) (Stats, error) {
	enc, err := osmwrangle.Create(dst, osmwrangle.WithBoundingBox(d.Header.BoundingBox))
	if err != nil {
		return Stats{}, err
	}

	stats, err := s.Sample(ctx, d.Elements(), enc)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}

	return stats, err
}
