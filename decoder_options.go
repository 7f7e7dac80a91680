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
	"runtime"

	"m4o.io/osmwrangle/model"
)

// Format is the encoding of an OSM document.
type Format int

const (
	// XML is the OSM XML 0.6 format.
	XML Format = iota

	// PBF is the OSM protocol buffer binary format.
	PBF
)

func (f Format) String() string {
	if f == PBF {
		return "pbf"
	}

	return "xml"
}

// DefaultNCpu provides the default number of CPUs.
func DefaultNCpu() uint16 {
	cpus := uint16(runtime.GOMAXPROCS(-1))

	return max(cpus-1, 1)
}

// decoderOptions provides optional configuration parameters for Decoder construction.
type decoderOptions struct {
	format Format
	nCPU   uint16 // the number of CPUs to use for PBF decoding
	types  map[model.EntityType]bool
}

// DecoderOption configures how we set up the decoder.
type DecoderOption func(*decoderOptions)

// WithFormat lets you set the format of the document being decoded.  The
// default is XML.
func WithFormat(f Format) DecoderOption {
	return func(o *decoderOptions) {
		o.format = f
	}
}

// WithNCpus lets you set the number of CPUs to use for PBF decoding.
func WithNCpus(n uint16) DecoderOption {
	return func(o *decoderOptions) {
		o.nCPU = n
	}
}

// WithTypes restricts the decoder to the given entity types.
func WithTypes(types ...model.EntityType) DecoderOption {
	return func(o *decoderOptions) {
		o.types = make(map[model.EntityType]bool, len(types))
		for _, t := range types {
			o.types[t] = true
		}
	}
}

func (o *decoderOptions) wants(t model.EntityType) bool {
	return o.types == nil || o.types[t]
}

// defaultDecoderConfig provides a default configuration for decoders.
var defaultDecoderConfig = decoderOptions{
	format: XML,
	nCPU:   DefaultNCpu(),
}
