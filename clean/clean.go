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

// Package clean rewrites flagged tag values into their normalised form.
// Every rule is a pure function: unmatched input is returned unchanged.
package clean

import (
	"m4o.io/osmwrangle/rules"
)

// Rule is the rewrite of one defect category.
type Rule interface {
	Category() rules.Category

	Clean(value string) string
}

var (
	_ Rule = StreetTypeRule{}
	_ Rule = RoadAbbreviationRule{}
	_ Rule = HistoricalDateRule{}
	_ Rule = AbbreviationRule{}
	_ Rule = ApostropheRule{}
	_ Rule = EmbeddedNumberRule{}
	_ Rule = PostcodeRule{}
	_ Rule = CityRule{}
	_ Rule = CuisineRule{}
)

// Cleaner bundles the rules of every category.
type Cleaner struct {
	rules  map[rules.Category]Rule
	street []Rule
}

// New returns a cleaner over the compiled rules.
func New(c *rules.Compiled) *Cleaner {
	all := []Rule{
		StreetTypeRule{c},
		RoadAbbreviationRule{c},
		HistoricalDateRule{c},
		AbbreviationRule{c},
		ApostropheRule{c},
		EmbeddedNumberRule{c},
		PostcodeRule{c},
		CityRule{c},
		CuisineRule{c},
	}

	cl := &Cleaner{rules: make(map[rules.Category]Rule, len(all))}
	for _, r := range all {
		cl.rules[r.Category()] = r
	}

	for _, cat := range rules.StreetCategories {
		cl.street = append(cl.street, cl.rules[cat])
	}

	return cl
}

// Rule returns the rule of the category.
func (c *Cleaner) Rule(category rules.Category) Rule {
	return c.rules[category]
}

// Street applies the street rules in order.
func (c *Cleaner) Street(name string) string {
	for _, r := range c.street {
		name = r.Clean(name)
	}

	return name
}

// Postcode applies the postcode rule.
func (c *Cleaner) Postcode(postcode string) string {
	return c.rules[rules.PostcodeLength].Clean(postcode)
}

// City applies the city rule.
func (c *Cleaner) City(city string) string {
	return c.rules[rules.CityFormatting].Clean(city)
}

// Cuisine applies the cuisine rule.
func (c *Cleaner) Cuisine(cuisine string) string {
	return c.rules[rules.CuisineNormalization].Clean(cuisine)
}

// ForKey returns the cleaning function for a resolved tag key, one of
// "street", "postcode" or "city".  Cuisine is cleaned only on request.
func (c *Cleaner) ForKey(key string, cuisine bool) (func(string) string, bool) {
	switch key {
	case "street":
		return c.Street, true
	case "postcode":
		return c.Postcode, true
	case "city":
		return c.City, true
	case "cuisine":
		if cuisine {
			return c.Cuisine, true
		}

		return nil, false
	default:
		return nil, false
	}
}
