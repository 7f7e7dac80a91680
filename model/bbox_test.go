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
	"testing"

	"github.com/stretchr/testify/assert"

	"m4o.io/osmwrangle/model"
)

// roughly the Milan metropolitan extract
var milan = &model.BoundingBox{Top: 45.6358, Left: 8.9318, Bottom: 45.3129, Right: 9.5557}

func TestInitialBoundingBox(t *testing.T) {
	initial := model.InitialBoundingBox()
	assert.Equal(t, model.MinLat, initial.Top)
	assert.Equal(t, model.MaxLat, initial.Bottom)
	assert.Equal(t, model.MinLon, initial.Right)
	assert.Equal(t, model.MaxLon, initial.Left)
	assert.True(t, initial.IsEmpty())
}

func TestBoundingBox_EqualWithin(t *testing.T) {
	shifted := &model.BoundingBox{
		Top:    milan.Top + model.Degrees(model.E6),
		Left:   milan.Left + model.Degrees(model.E6),
		Bottom: milan.Bottom + model.Degrees(model.E6),
		Right:  milan.Right + model.Degrees(model.E6),
	}

	assert.True(t, milan.EqualWithin(shifted, model.E5))
	assert.False(t, milan.EqualWithin(shifted, model.E7))
	assert.True(t, milan.EqualWithin(milan, model.E9))
}

func TestBoundingBox_Contains(t *testing.T) {
	testCases := []struct {
		name     string
		lat      model.Degrees
		lng      model.Degrees
		expected bool
	}{
		{"duomo", 45.4641943, 9.1896346, true},
		{"corner", milan.Bottom, milan.Left, true},
		{"west", milan.Bottom, milan.Left - model.Degrees(model.E5), false},
		{"rounding on the edge", milan.Top + 3e-8, milan.Right - 3e-8, true},
		{"north", milan.Top + model.Degrees(model.E5), milan.Right, false},
		{"bergamo", 45.6983, 9.6773, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, milan.Contains(tc.lat, tc.lng))
		})
	}
}

func TestBoundingBox_Expand(t *testing.T) {
	bbox := model.InitialBoundingBox()
	bbox.ExpandWithLatLng(45.3129, 9.5557)
	bbox.ExpandWithBoundingBox(&model.BoundingBox{Top: 45.6358, Left: 8.9318, Bottom: 45.5, Right: 9.0})
	bbox.ExpandWithBoundingBox(model.InitialBoundingBox())

	assert.False(t, bbox.IsEmpty())
	assert.True(t, bbox.EqualWithin(milan, model.E9))
}

func TestBoundingBox_Span(t *testing.T) {
	height, width := milan.Span()
	assert.True(t, height.Degrees().EqualWithin(0.3229, model.E7))
	assert.True(t, width.Degrees().EqualWithin(0.6239, model.E7))
	assert.Equal(t, "0.3229000", height.String())
}

func TestBoundingBoxString(t *testing.T) {
	assert.Equal(t, "[(45.6358, 8.9318) (45.3129, 9.5557)]", milan.String())
}
