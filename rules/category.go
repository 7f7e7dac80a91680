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

package rules

import (
	"fmt"
)

// Category is one of the fixed classes of malformed address, city and
// cuisine text.
type Category int

const (
	StreetType Category = iota
	RoadAbbreviation
	HistoricalDate
	Abbreviation
	Apostrophe
	EmbeddedNumber
	PostcodeLength
	CityFormatting
	CuisineNormalization
)

var categoryNames = [...]string{
	StreetType:           "street-type",
	RoadAbbreviation:     "road-abbreviation",
	HistoricalDate:       "historical-date",
	Abbreviation:         "abbreviation",
	Apostrophe:           "apostrophe",
	EmbeddedNumber:       "embedded-number",
	PostcodeLength:       "postcode",
	CityFormatting:       "city",
	CuisineNormalization: "cuisine",
}

// StreetCategories are the street checks in the order they are applied.
var StreetCategories = []Category{
	StreetType,
	RoadAbbreviation,
	HistoricalDate,
	Abbreviation,
	Apostrophe,
	EmbeddedNumber,
}

// Categories returns every category in declaration order.
func Categories() []Category {
	cats := make([]Category, len(categoryNames))
	for i := range categoryNames {
		cats[i] = Category(i)
	}

	return cats
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}

	return categoryNames[c]
}

// ParseCategory returns the category with the given name.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown category %q", ErrInvalidRules, s)
}

// MarshalText lets categories key JSON objects by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
