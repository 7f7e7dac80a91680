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
	"m4o.io/osmwrangle/internal/codec"
	"m4o.io/osmwrangle/model"
)

// DefaultGenerator is written to the generator attribute of the <osm> root.
const DefaultGenerator = "osmwrangle"

// encoderOptions provides optional configuration parameters for Encoder construction.
type encoderOptions struct {
	compression codec.Compression
	generator   string
	bbox        *model.BoundingBox
	indent      bool
}

// EncoderOption configures how we set up the encoder.
type EncoderOption func(*encoderOptions)

// WithCompression specifies the compression wrapped around the document.
// The default is none.
func WithCompression(c codec.Compression) EncoderOption {
	return func(o *encoderOptions) {
		o.compression = c
	}
}

// WithGenerator sets the generator attribute of the <osm> root.
func WithGenerator(generator string) EncoderOption {
	return func(o *encoderOptions) {
		o.generator = generator
	}
}

// WithBoundingBox writes a <bounds> element ahead of the entities.
func WithBoundingBox(bbox *model.BoundingBox) EncoderOption {
	return func(o *encoderOptions) {
		o.bbox = bbox
	}
}

// WithIndent toggles one element per indented line.  Enabled by default.
func WithIndent(indent bool) EncoderOption {
	return func(o *encoderOptions) {
		o.indent = indent
	}
}

// defaultEncoderConfig provides a default configuration for encoders.
var defaultEncoderConfig = encoderOptions{
	compression: codec.NONE,
	generator:   DefaultGenerator,
	indent:      true,
}
