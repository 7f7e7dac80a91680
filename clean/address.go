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

package clean

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"m4o.io/osmwrangle/rules"
)

// PostcodeRule brings digit strings to the configured postcode length:
// short codes are right-padded with zeros, long ones lose zeros, first
// zero first, and are finally truncated.
type PostcodeRule struct {
	rules *rules.Compiled
}

// Category returns rules.PostcodeLength.
func (PostcodeRule) Category() rules.Category { return rules.PostcodeLength }

// Clean pads or trims the postcode to the configured length.
func (r PostcodeRule) Clean(postcode string) string {
	if !r.rules.IsMisSizedPostcode(postcode) {
		return postcode
	}

	n := r.rules.Rules.Postcode.Length

	if len(postcode) < n {
		return postcode + strings.Repeat("0", n-len(postcode))
	}

	for len(postcode) > n {
		i := strings.IndexByte(postcode, '0')
		if i < 0 {
			break
		}

		postcode = postcode[:i] + postcode[i+1:]
	}

	return postcode[:n]
}

var trailingParens = regexp.MustCompile(`(\s*\([^()]*\))+\s*$`)

// CityRule normalises the capitalisation of city names, removes a trailing
// province code and fixes the accent of a final "é".
type CityRule struct {
	rules *rules.Compiled
}

// Category returns rules.CityFormatting.
func (CityRule) Category() rules.Category { return rules.CityFormatting }

// Clean capitalises the city, elides prepositions and drops trailing
// parentheticals.
func (r CityRule) Clean(city string) string {
	if startsLower(city) {
		city = titleCase(city)
	}

	city = r.elide(city)
	city = trailingParens.ReplaceAllString(city, "")

	if s, ok := strings.CutSuffix(city, "é"); ok {
		city = s + "è"
	}

	return r.rules.CityPrepositions().ReplaceAllStringFunc(city, strings.ToLower)
}

// elide lowercases the preposition in front of the first apostrophe, e.g.
// "Torre D'Isola" becomes "Torre d'Isola", and puts a single space after
// the apostrophe of those ending in "e", as in "Cassina de' Pecchi".
func (r CityRule) elide(city string) string {
	before, after, ok := strings.Cut(city, "'")
	if !ok {
		return city
	}

	i := strings.LastIndexFunc(before, unicode.IsSpace)
	if i < 0 {
		return city
	}

	_, size := utf8.DecodeRuneInString(before[i:])
	prefix, prep := before[:i+size], before[i+size:]

	if !r.rules.IsElided(prep) {
		return city
	}

	prep = strings.ToLower(prep)
	after = strings.TrimLeftFunc(after, unicode.IsSpace)

	if strings.HasSuffix(prep, "e") {
		return prefix + prep + "' " + after
	}

	return prefix + prep + "'" + after
}

// CuisineRule maps free-text cuisine values onto the configured
// categories.  Values spanning more than one category are mixed.
type CuisineRule struct {
	rules *rules.Compiled
}

// Category returns rules.CuisineNormalization.
func (CuisineRule) Category() rules.Category { return rules.CuisineNormalization }

// Clean maps a list of cuisines, separated by ";" or ",", onto one category.
func (r CuisineRule) Clean(cuisine string) string {
	tokens := strings.FieldsFunc(cuisine, func(c rune) bool {
		return c == ';' || c == ','
	})

	var categories []string
	seen := false
	for _, t := range tokens {
		if strings.TrimSpace(t) == "" {
			continue
		}

		seen = true

		c := r.rules.CuisineCategory(t)
		if c != r.rules.Rules.OtherCuisine && !slices.Contains(categories, c) {
			categories = append(categories, c)
		}
	}

	switch {
	case !seen:
		return cuisine
	case len(categories) == 0:
		return r.rules.Rules.OtherCuisine
	case len(categories) == 1:
		return categories[0]
	default:
		return r.rules.Rules.MixedCuisine
	}
}
