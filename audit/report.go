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

package audit

import (
	"bytes"
	"encoding/json"
	"iter"
)

// DefectReport groups offending values under the signature that flagged
// them.  Both signatures and values keep insertion order.
type DefectReport struct {
	keys   []string
	values map[string][]string
	seen   map[string]map[string]bool
}

// Add records value under key, ignoring duplicates.
func (r *DefectReport) Add(key, value string) {
	if r.values == nil {
		r.values = make(map[string][]string)
		r.seen = make(map[string]map[string]bool)
	}

	seen, ok := r.seen[key]
	if !ok {
		seen = make(map[string]bool)
		r.seen[key] = seen
		r.keys = append(r.keys, key)
	}

	if !seen[value] {
		seen[value] = true
		r.values[key] = append(r.values[key], value)
	}
}

// Len returns the number of distinct signatures.
func (r *DefectReport) Len() int {
	return len(r.keys)
}

// Keys returns the signatures in the order they were first seen.
func (r *DefectReport) Keys() []string {
	return r.keys
}

// Values returns the distinct values recorded under key.
func (r *DefectReport) Values(key string) []string {
	return r.values[key]
}

// All iterates signatures and their values in insertion order.
func (r *DefectReport) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, k := range r.keys {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}

// MarshalJSON renders the report as an object whose members keep
// insertion order.
func (r *DefectReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		values, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(values)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
