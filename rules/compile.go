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
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// word is the Unicode equivalent of \w.
const word = `[\p{L}\p{N}_]`

// Matcher finds the defect signature of a value.
type Matcher interface {
	// Find returns the offending substring of s, if any.
	Find(s string) (string, bool)
}

// regexMatcher matches pattern unless the value also matches exclude.
type regexMatcher struct {
	pattern *regexp.Regexp
	exclude *regexp.Regexp
}

func (m regexMatcher) Find(s string) (string, bool) {
	if m.exclude != nil && m.exclude.MatchString(s) {
		return "", false
	}

	loc := m.pattern.FindStringIndex(s)
	if loc == nil {
		return "", false
	}

	return s[loc[0]:loc[1]], true
}

// Locate returns the byte offsets of the match in s.
func (m regexMatcher) Locate(s string) []int {
	if m.exclude != nil && m.exclude.MatchString(s) {
		return nil
	}

	return m.pattern.FindStringIndex(s)
}

// postcodeMatcher flags values that are not in the postcode window.
type postcodeMatcher struct {
	window Postcode
	length *regexp.Regexp
}

func (m postcodeMatcher) Find(s string) (string, bool) {
	if m.length.MatchString(s) {
		return s, true
	}

	if len(s) != m.window.Length || !strings.HasPrefix(s, m.window.Prefix) {
		return s, true
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < m.window.Min || n > m.window.Max {
		return s, true
	}

	return "", false
}

// Compiled is a rule set ready for use: patterns compiled, lookup tables
// indexed.
type Compiled struct {
	Rules *Rules

	matchers map[Category]Matcher
	expected map[Category]map[string]bool

	// shortPostcode matches digit strings of the wrong length.
	shortPostcode *regexp.Regexp

	cityPrepositions *regexp.Regexp
	elided           map[string]bool
	cuisines         map[string]string

	streetTypeKeys   []string
	abbreviationKeys []string
}

// Compile validates r and compiles its patterns.
func Compile(r *Rules) (*Compiled, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	c := &Compiled{
		Rules:    r,
		matchers: make(map[Category]Matcher),
		expected: make(map[Category]map[string]bool),
		elided:   make(map[string]bool),
		cuisines: make(map[string]string),
	}

	qualifiers := make([]string, len(r.StreetQualifiers))
	for i, q := range r.StreetQualifiers {
		qualifiers[i] = `(\s` + q + `)?`
	}

	months := alternation(r.Months, true)
	markers := slices.Concat(r.Months, r.StreetQualifiers, quoteAll(r.NumberMarkers))

	patterns := []struct {
		category Category
		pattern  string
		exclude  string
	}{
		{StreetType, `(?i)\S+` + strings.Join(qualifiers, ""), ""},
		{RoadAbbreviation, `S\.*[\p{L}\p{N}_+]*\.*\d+`, ""},
		{HistoricalDate, `(?i)\d{1,2}°*\s(` + months + `)\s*[\d+]*$`, ""},
		{Abbreviation, word + `+\.` + word + `*`, ""},
		{Apostrophe, word + `*l'\s` + word + `+`, ""},
		{EmbeddedNumber, `(?i)^.*\s\d+$`, `(?i)\b(` + strings.Join(markers, "|") + `)(\b|\d)`},
		{CityFormatting, `\s(` + alternation(r.CityPrepositions, true) + `)\b|'|\(|^\p{Ll}|é$`, ""},
		{CuisineNormalization, `^.+$`, ""},
	}

	for _, p := range patterns {
		m := regexMatcher{}

		var err error
		if m.pattern, err = regexp.Compile(p.pattern); err != nil {
			return nil, fmt.Errorf("%w: %s pattern: %w", ErrInvalidRules, p.category, err)
		}

		if p.exclude != "" {
			if m.exclude, err = regexp.Compile(p.exclude); err != nil {
				return nil, fmt.Errorf("%w: %s exclusion: %w", ErrInvalidRules, p.category, err)
			}
		}

		c.matchers[p.category] = m
	}

	c.shortPostcode = regexp.MustCompile(fmt.Sprintf(`^\d{0,%d}$|^\d{%d,}`, r.Postcode.Length-1, r.Postcode.Length+1))
	c.matchers[PostcodeLength] = postcodeMatcher{window: r.Postcode, length: c.shortPostcode}

	c.cityPrepositions = regexp.MustCompile(`(\s)(` + alternation(r.CityPrepositions, true) + `)\b`)

	c.expected[StreetType] = set(r.ExpectedStreetTypes)
	c.expected[HistoricalDate] = set(r.Months)

	categories := []string{r.MixedCuisine}
	for category, members := range r.Cuisines {
		categories = append(categories, category)

		for _, m := range members {
			c.cuisines[strings.ToLower(m)] = category
		}
	}

	c.expected[CuisineNormalization] = set(categories)

	for _, p := range r.ElidedPrepositions {
		c.elided[strings.ToLower(p)] = true
	}

	c.streetTypeKeys = longestFirst(r.StreetTypes)
	c.abbreviationKeys = longestFirst(r.Abbreviations)

	return c, nil
}

// MustCompile is like Compile but panics on invalid rules.
func MustCompile(r *Rules) *Compiled {
	c, err := Compile(r)
	if err != nil {
		panic(err)
	}

	return c
}

// Matcher returns the matcher of the category.
func (c *Compiled) Matcher(category Category) Matcher {
	return c.matchers[category]
}

// Locate returns the byte offsets of the category's match in s, or nil.
func (c *Compiled) Locate(category Category, s string) []int {
	if m, ok := c.matchers[category].(regexMatcher); ok {
		return m.Locate(s)
	}

	return nil
}

// Pattern returns the regular expression of the category, or nil for
// categories that are not pattern based.
func (c *Compiled) Pattern(category Category) *regexp.Regexp {
	if m, ok := c.matchers[category].(regexMatcher); ok {
		return m.pattern
	}

	return nil
}

// Expected reports whether a matched substring is in the category's
// expected set.  Categories without an expected set expect nothing.
func (c *Compiled) Expected(category Category, match string) bool {
	return c.expected[category][match]
}

// Check applies the category to value and returns the defect signature
// when the check fires.
func (c *Compiled) Check(category Category, value string) (string, bool) {
	m, ok := c.matchers[category]
	if !ok {
		return "", false
	}

	match, found := m.Find(value)
	if !found || c.Expected(category, match) {
		return "", false
	}

	return match, true
}

// IsMisSizedPostcode reports whether s is a digit string of the wrong length.
func (c *Compiled) IsMisSizedPostcode(s string) bool {
	return c.shortPostcode.MatchString(s)
}

// CityPrepositions matches a capitalised preposition after whitespace,
// capturing the whitespace and the preposition.
func (c *Compiled) CityPrepositions() *regexp.Regexp {
	return c.cityPrepositions
}

// IsElided reports whether p is a preposition elided before an apostrophe.
func (c *Compiled) IsElided(p string) bool {
	return c.elided[strings.ToLower(p)]
}

// CuisineCategory returns the category of a single cuisine value.  A
// category name is its own category.
func (c *Compiled) CuisineCategory(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))

	if c.expected[CuisineNormalization][v] || v == c.Rules.OtherCuisine {
		return v
	}

	if category, ok := c.cuisines[v]; ok {
		return category
	}

	return c.Rules.OtherCuisine
}

// StreetTypeKeys returns the street type lookup keys, longest first.
func (c *Compiled) StreetTypeKeys() []string {
	return c.streetTypeKeys
}

// AbbreviationKeys returns the abbreviation lookup keys, longest first.
func (c *Compiled) AbbreviationKeys() []string {
	return c.abbreviationKeys
}

func set(values []string) map[string]bool {
	s := make(map[string]bool, len(values))
	for _, v := range values {
		s[v] = true
	}

	return s
}

func quoteAll(values []string) []string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = regexp.QuoteMeta(v)
	}

	return quoted
}

// alternation joins values into a regular expression alternation, longest
// first so that longer alternatives win.
func alternation(values []string, quote bool) string {
	alts := slices.Clone(values)
	if quote {
		alts = quoteAll(alts)
	}

	slices.SortStableFunc(alts, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})

	return strings.Join(alts, "|")
}

// longestFirst returns the keys of m, longest first and then in lexical
// order, so that lookups are deterministic.
func longestFirst(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b string) int {
		if n := cmp.Compare(len(b), len(a)); n != 0 {
			return n
		}

		return cmp.Compare(a, b)
	})

	return keys
}
