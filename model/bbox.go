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

package model

import (
	"fmt"
)

// Latitude and longitude limits.
const (
	MaxLat Degrees = 90.0
	MaxLon Degrees = 180.0
	MinLat Degrees = -90.0
	MinLon Degrees = -180.0
)

// BoundingBox is simply a bounding box.
type BoundingBox struct {
	Top    Degrees `json:"top"`
	Left   Degrees `json:"left"`
	Bottom Degrees `json:"bottom"`
	Right  Degrees `json:"right"`
}

// InitialBoundingBox creates a BoundingBox that is meant to be expanded.
func InitialBoundingBox() *BoundingBox {
	return &BoundingBox{
		Top:    MinLat,
		Left:   MaxLon,
		Bottom: MaxLat,
		Right:  MinLon,
	}
}

// IsEmpty reports whether the bounding box has never been expanded.
func (b *BoundingBox) IsEmpty() bool {
	return b.Top < b.Bottom || b.Right < b.Left
}

// EqualWithin checks if two bounding boxes are within a specific epsilon.
func (b *BoundingBox) EqualWithin(o *BoundingBox, eps Epsilon) bool {
	return b.Left.EqualWithin(o.Left, eps) &&
		b.Right.EqualWithin(o.Right, eps) &&
		b.Top.EqualWithin(o.Top, eps) &&
		b.Bottom.EqualWithin(o.Bottom, eps)
}

// Contains checks if the bounding box contains the lat lng point. Points
// within E7, the precision of OSM coordinates, of an edge are inside.
func (b *BoundingBox) Contains(lat Degrees, lng Degrees) bool {
	return between(b.Left, lng, b.Right) && between(b.Bottom, lat, b.Top)
}

// Span returns the angular height and width of the bounding box.
func (b *BoundingBox) Span() (height, width Angle) {
	return (b.Top - b.Bottom).Angle(), (b.Right - b.Left).Angle()
}

func between(lo, v, hi Degrees) bool {
	return (lo <= v || lo.EqualWithin(v, E7)) && (v <= hi || v.EqualWithin(hi, E7))
}

// ExpandWithLatLng expands the bounding box to include the lat lng point.
func (b *BoundingBox) ExpandWithLatLng(lat, lng Degrees) {
	b.Top = max(b.Top, lat)
	b.Bottom = min(b.Bottom, lat)
	b.Left = min(b.Left, lng)
	b.Right = max(b.Right, lng)
}

// ExpandWithBoundingBox expands the bounding box to include another bounding box.
func (b *BoundingBox) ExpandWithBoundingBox(o *BoundingBox) {
	if o == nil || o.IsEmpty() {
		return
	}

	b.ExpandWithLatLng(o.Top, o.Left)
	b.ExpandWithLatLng(o.Bottom, o.Right)
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("[(%s, %s) (%s, %s)]",
		ftoa(float64(b.Top)), ftoa(float64(b.Left)),
		ftoa(float64(b.Bottom)), ftoa(float64(b.Right)))
}
