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
	"strings"
	"unicode"

	"m4o.io/osmwrangle/rules"
)

// StreetTypeRule replaces an irregular street type with its canonical form,
// title-casing names written entirely in lowercase.
type StreetTypeRule struct {
	rules *rules.Compiled
}

// Category returns rules.StreetType.
func (StreetTypeRule) Category() rules.Category { return rules.StreetType }

// Clean replaces the first irregular street type in name.
func (r StreetTypeRule) Clean(name string) string {
	loc := r.rules.Locate(rules.StreetType, name)
	if loc == nil {
		return name
	}

	canonical, ok := r.rules.Rules.StreetTypes[name[loc[0]:loc[1]]]
	if !ok {
		return name
	}

	if isLower(name) {
		name = titleCase(name)
		loc = r.rules.Locate(rules.StreetType, name)
	}

	return replaceSpan(name, loc, canonical)
}

// RoadAbbreviationRule expands an abbreviated road type glued to its number,
// e.g. "SP14" becomes "Strada Provinciale 14".
type RoadAbbreviationRule struct {
	rules *rules.Compiled
}

// Category returns rules.RoadAbbreviation.
func (RoadAbbreviationRule) Category() rules.Category { return rules.RoadAbbreviation }

// Clean expands the first road abbreviation in name.
func (r RoadAbbreviationRule) Clean(name string) string {
	loc := r.rules.Locate(rules.RoadAbbreviation, name)
	if loc == nil {
		return name
	}

	match := name[loc[0]:loc[1]]

	for _, key := range r.rules.StreetTypeKeys() {
		if _, number, found := strings.Cut(match, key); found {
			number = strings.TrimLeft(number, ". ")

			return replaceSpan(name, loc, r.rules.Rules.StreetTypes[key]+" "+number)
		}
	}

	return name
}

// HistoricalDateRule rewrites the day of a date to its canonical form and
// capitalises the month, e.g. "25 aprile" becomes "XXV Aprile".
type HistoricalDateRule struct {
	rules *rules.Compiled
}

// Category returns rules.HistoricalDate.
func (HistoricalDateRule) Category() rules.Category { return rules.HistoricalDate }

// Clean rewrites the first date in name.
func (r HistoricalDateRule) Clean(name string) string {
	loc := r.rules.Locate(rules.HistoricalDate, name)
	if loc == nil {
		return name
	}

	day, rest, _ := strings.Cut(name[loc[0]:loc[1]], " ")

	canonical, ok := r.rules.Rules.Days[day]
	if !ok {
		return name
	}

	return replaceSpan(name, loc, canonical+" "+capitalize(rest))
}

// AbbreviationRule expands abbreviated words such as "F.lli" or "Ing.".
type AbbreviationRule struct {
	rules *rules.Compiled
}

// Category returns rules.Abbreviation.
func (AbbreviationRule) Category() rules.Category { return rules.Abbreviation }

// Clean expands every configured abbreviation.
func (r AbbreviationRule) Clean(name string) string {
	return r.rules.Pattern(rules.Abbreviation).ReplaceAllStringFunc(name, func(match string) string {
		for _, key := range r.rules.AbbreviationKeys() {
			if strings.Contains(match, key) {
				expanded := strings.Replace(match, key, r.rules.Rules.Abbreviations[key]+" ", 1)

				return strings.Join(strings.Fields(expanded), " ")
			}
		}

		return match
	})
}

// ApostropheRule joins an elided article to the following word and
// title-cases both, e.g. "dell' artigianato" becomes "Dell'Artigianato".
type ApostropheRule struct {
	rules *rules.Compiled
}

// Category returns rules.Apostrophe.
func (ApostropheRule) Category() rules.Category { return rules.Apostrophe }

// Clean joins every elided article in name to the word that follows.
func (r ApostropheRule) Clean(name string) string {
	return r.rules.Pattern(rules.Apostrophe).ReplaceAllStringFunc(name, func(match string) string {
		return strings.Join(strings.Fields(titleCase(match)), "")
	})
}

// EmbeddedNumberRule drops a house number trailing the street name, unless
// the number is part of the name.
type EmbeddedNumberRule struct {
	rules *rules.Compiled
}

// Category returns rules.EmbeddedNumber.
func (EmbeddedNumberRule) Category() rules.Category { return rules.EmbeddedNumber }

// Clean drops the trailing house number of name, if any.
func (r EmbeddedNumberRule) Clean(name string) string {
	loc := r.rules.Locate(rules.EmbeddedNumber, name)
	if loc == nil {
		return name
	}

	match := name[loc[0]:loc[1]]

	i := strings.LastIndexFunc(match, unicode.IsSpace)
	if i < 0 {
		return name
	}

	return replaceSpan(name, loc, strings.TrimRightFunc(match[:i], unicode.IsSpace))
}
