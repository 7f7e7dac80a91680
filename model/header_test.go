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

package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"m4o.io/osmwrangle/model"
)

func TestHeader_JSON(t *testing.T) {
	h := model.Header{
		Version:   "0.6",
		Generator: "osmconvert 0.8.5",
		BoundingBox: &model.BoundingBox{
			Top:    45.6358,
			Left:   8.9318,
			Bottom: 45.3129,
			Right:  9.5557,
		},
	}

	b, err := json.Marshal(h)
	assert.NoError(t, err)
	assert.Equal(t, `{"version":"0.6","generator":"osmconvert 0.8.5","bounding_box":{"top":45.6358,"left":8.9318,"bottom":45.3129,"right":9.5557}}`, string(b))
}

func TestTags_Get(t *testing.T) {
	tags := model.Tags{{Key: "addr:street", Value: "Via Dante"}, {Key: "addr:city", Value: "Milano"}}

	v, ok := tags.Get("addr:city")
	assert.True(t, ok)
	assert.Equal(t, "Milano", v)

	_, ok = tags.Get("cuisine")
	assert.False(t, ok)
}
