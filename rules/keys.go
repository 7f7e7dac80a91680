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
	"regexp"
)

// Tag keys carrying address and cuisine values.
const (
	StreetKey   = "addr:street"
	PostcodeKey = "addr:postcode"
	CityKey     = "addr:city"
	CuisineKey  = "cuisine"
)

var problemChars = regexp.MustCompile(`[=+/&<>;'"?%#$@,. \t\r\n]`)

// IsMalformedKey reports whether a tag key contains a character that is
// not allowed in a key.  Such tags are dropped before auditing and shaping.
func IsMalformedKey(k string) bool {
	return problemChars.MatchString(k)
}

// CategoriesFor returns the categories checked for values of the tag key.
func CategoriesFor(key string) []Category {
	switch key {
	case StreetKey:
		return StreetCategories
	case PostcodeKey:
		return []Category{PostcodeLength}
	case CityKey:
		return []Category{CityFormatting}
	case CuisineKey:
		return []Category{CuisineNormalization}
	default:
		return nil
	}
}
