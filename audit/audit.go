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

// Package audit classifies address, city and cuisine tag values against the
// configured rules and collects the offending values into reports.
package audit

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"m4o.io/osmwrangle/model"
	"m4o.io/osmwrangle/rules"
)

// Progress is logged every progressInterval elements or progressPeriod,
// whichever comes first.
const (
	progressInterval = 100_000
	progressPeriod   = 10 * time.Second
)

// Finding is a single check firing on a tag value.
type Finding struct {
	Category  rules.Category
	Signature string
	Value     string
}

// Counts tallies the elements and tags seen by an audit.
type Counts struct {
	Nodes       int64 `json:"nodes"`
	Ways        int64 `json:"ways"`
	Relations   int64 `json:"relations"`
	Tags        int64 `json:"tags"`
	DroppedTags int64 `json:"dropped_tags"`
}

// Result is the outcome of an audit run.
type Result struct {
	Reports     map[rules.Category]*DefectReport `json:"reports"`
	Counts      Counts                           `json:"counts"`
	BoundingBox *model.BoundingBox               `json:"bounding_box,omitempty"`
}

// Report returns the report of the category, never nil.
func (r *Result) Report(c rules.Category) *DefectReport {
	if rep, ok := r.Reports[c]; ok {
		return rep
	}

	return &DefectReport{}
}

// Auditor is a read-only diagnostic pass over a stream of elements.
type Auditor struct {
	rules      *rules.Compiled
	categories map[rules.Category]bool
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithCategories restricts the audit to the given categories.
func WithCategories(categories ...rules.Category) Option {
	return func(a *Auditor) {
		a.categories = make(map[rules.Category]bool, len(categories))
		for _, c := range categories {
			a.categories[c] = true
		}
	}
}

// New returns an auditor using the compiled rules.
func New(r *rules.Compiled, opts ...Option) *Auditor {
	a := &Auditor{rules: r}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Classify returns the findings for a single tag.  Malformed keys and keys
// that carry no address or cuisine value yield nothing.
func (a *Auditor) Classify(key, value string) []Finding {
	if rules.IsMalformedKey(key) {
		return nil
	}

	var findings []Finding

	for _, c := range rules.CategoriesFor(key) {
		if a.categories != nil && !a.categories[c] {
			continue
		}

		if sig, ok := a.rules.Check(c, value); ok {
			findings = append(findings, Finding{Category: c, Signature: sig, Value: value})
		}
	}

	return findings
}

// Audit classifies the tags of every node and way of the stream.  The first
// stream error ends the audit and is returned along with the partial result.
func (a *Auditor) Audit(ctx context.Context, elements iter.Seq2[model.Entity, error]) (*Result, error) {
	res := &Result{Reports: make(map[rules.Category]*DefectReport)}
	bbox := model.InitialBoundingBox()

	var n int64

	progress := rate.Sometimes{Every: progressInterval, Interval: progressPeriod}
	for e, err := range elements {
		if err != nil {
			slog.Error("audit aborted", "error", err)

			return res, err
		}

		if err := ctx.Err(); err != nil {
			return res, err
		}

		switch v := e.(type) {
		case *model.Node:
			res.Counts.Nodes++
			bbox.ExpandWithLatLng(v.Lat, v.Lon)
		case *model.Way:
			res.Counts.Ways++
		case *model.Relation:
			res.Counts.Relations++

			continue
		}

		for _, tag := range e.GetTags() {
			res.Counts.Tags++

			if rules.IsMalformedKey(tag.Key) {
				res.Counts.DroppedTags++

				continue
			}

			for _, f := range a.Classify(tag.Key, tag.Value) {
				rep, ok := res.Reports[f.Category]
				if !ok {
					rep = &DefectReport{}
					res.Reports[f.Category] = rep
				}

				rep.Add(f.Signature, f.Value)
			}
		}

		n++
		progress.Do(func() { slog.Debug("auditing", "elements", n) })
	}

	if !bbox.IsEmpty() {
		res.BoundingBox = bbox
	}

	slog.Debug("audit complete", "nodes", res.Counts.Nodes, "ways", res.Counts.Ways, "tags", res.Counts.Tags)

	return res, nil
}
