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

// Package rules holds the configuration shared by the auditor and the
// cleaner: the patterns that detect defects and the lookup tables that
// repair them.  Defaults describe the Milan (Italy) extract; a YAML file
// can override any table.
package rules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

var ErrInvalidRules = errors.New("invalid rules")

// Postcode describes the admissible postal codes of the region.
type Postcode struct {
	Length int    `yaml:"length"`
	Prefix string `yaml:"prefix"`
	Min    int    `yaml:"min"`
	Max    int    `yaml:"max"`
}

// Rules is the static rule configuration.
type Rules struct {
	// StreetQualifiers may follow the street type, e.g. "Strada Statale".
	// Entries are regular expression fragments.
	StreetQualifiers []string `yaml:"street_qualifiers"`

	// ExpectedStreetTypes are the street types left alone by the audit.
	ExpectedStreetTypes []string `yaml:"expected_street_types"`

	// StreetTypes maps irregular street types to their canonical form.
	StreetTypes map[string]string `yaml:"street_types"`

	// Months appear in streets named after a date.
	Months []string `yaml:"months"`

	// Days maps the day of a date to its canonical, mostly Roman, form.
	Days map[string]string `yaml:"days"`

	// Abbreviations maps abbreviated words to their expansion.
	Abbreviations map[string]string `yaml:"abbreviations"`

	// NumberMarkers, along with months and qualifiers, mark street names
	// whose trailing number is part of the name.
	NumberMarkers []string `yaml:"number_markers"`

	Postcode Postcode `yaml:"postcode"`

	// CityPrepositions are lowercased when they follow whitespace.
	CityPrepositions []string `yaml:"city_prepositions"`

	// ElidedPrepositions are lowercased in front of an apostrophe.  Those
	// ending in "e", like "de'", are followed by a space.
	ElidedPrepositions []string `yaml:"elided_prepositions"`

	// Cuisines maps each cuisine category to its member values.
	Cuisines map[string][]string `yaml:"cuisines"`

	// MixedCuisine is the category of values spanning several categories.
	MixedCuisine string `yaml:"mixed_cuisine"`

	// OtherCuisine is the category of values matching no category.
	OtherCuisine string `yaml:"other_cuisine"`
}

// Default returns the rule set tuned to the Milan extract.
func Default() *Rules {
	return &Rules{
		StreetQualifiers: []string{"Comunale", "Privat[ao]", "Provinciale", "Statale"},
		ExpectedStreetTypes: []string{
			"Alzaia", "Bastioni", "Cascina", "Circonvallazione", "Corso", "Corte",
			"Cortile", "Foro", "Galleria", "Galleria privata", "Giardino", "Largo",
			"Località", "Passaggio", "Passerella", "Piazza", "Piazzale", "Piazzaletto",
			"Piazzetta", "Residenza", "Ripa", "Spalto", "Strada", "Strada Comunale",
			"Strada Provinciale", "Strada Statale", "Torri", "Via", "Via privata",
			"Via Provinciale", "Viale", "Vicolo", "Vicolo privato",
		},
		StreetTypes: map[string]string{
			"piazza":             "Piazza",
			"Stradia":            "Strada",
			"S.C.":               "Strada Comunale",
			"S.P.":               "Strada Provinciale",
			"S.S.":               "Strada Statale",
			"SC":                 "Strada Comunale",
			"SP":                 "Strada Provinciale",
			"SS":                 "Strada Statale",
			"Strada comunale":    "Strada Comunale",
			"Strada provinciale": "Strada Provinciale",
			"Strada statale":     "Strada Statale",
			"VIa":                "Via",
			"via":                "Via",
			"Via Privata":        "Via privata",
			"viale":              "Viale",
			"Vicolo Privato":     "Vicolo privato",
		},
		Months: []string{
			"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
			"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
		},
		Days: map[string]string{
			"1°": "1°", "I": "1°", "2": "II", "3": "III", "4": "IV", "5": "V",
			"6": "VI", "7": "VII", "8": "VIII", "9": "IX", "10": "X",
			"11": "XI", "12": "XII", "13": "XIII", "14": "XIV", "15": "XV",
			"16": "XVI", "17": "XVII", "18": "XVIII", "19": "XIX", "20": "XX",
			"21": "XXI", "22": "XXII", "23": "XXIII", "24": "XXIV", "25": "XXV",
			"26": "XXVI", "27": "XXVII", "28": "XXVIII", "29": "XXIX", "30": "XXX",
			"31": "XXXI",
		},
		Abbreviations: map[string]string{
			"C.na":  "Cascina",
			"Cav.":  "Cavalier",
			"F.lli": "Fratelli",
			"Ing.":  "Ingegner",
			"Geom.": "Geometra",
			"On.":   "Onorevole",
		},
		NumberMarkers: []string{"Km", "SP", "SS"},
		Postcode: Postcode{
			Length: 5,
			Prefix: "20",
			Min:    20010,
			Max:    20900,
		},
		CityPrepositions:   []string{"Al", "Con", "Di", "In", "Su", "Sul", "Sull"},
		ElidedPrepositions: []string{"d", "de", "dell", "l", "nell", "sull", "all"},
		Cuisines: map[string][]string{
			"african": {"egyptian", "eritrean", "moroccan"},
			"asian": {
				"chinese", "giapponese", "indian", "japanese", "korean", "malaysian",
				"noodle", "ramen", "sri_lankan", "sri lankan", "sushi", "thai",
				"taiwanese", "vietnamese",
			},
			"continental":    {"buschenschank", "danish", "french", "heuriger", "german", "russian"},
			"latin_american": {"argentinian", "brazilian", "cuban", "latin", "mexican", "peruvian"},
			"mediterranean": {
				"fish", "flatbread", "friture", "greek", "italian", "_italian",
				"italian_pizza", "local", "macrobiotica", "pesce", "piadina", "pizza",
				"pizza_al_trancio_da_asporto", "pizzeria", "pizzeria d'asporto",
				"pugliese", "regional", "regional_and_pizzeria", "regionale", "seafood",
				"sicilian", "spanish", "specialita_di_pesce", "taglieri", "traditional",
				"trattoria", "tuscan", "vegan", "vegetarian",
			},
			"middle_eastern": {
				"arab", "kebab", "kebap", "kevab", "kosher", "lebanese", "libanese",
				"oriental", "persian", "turkish",
			},
			"north_american": {
				"american", "barbecue", "burger", "chicken", "chips", "deli", "donut",
				"fast_food", "fried_chicken", "hamburger", "hamurger", "hotdog",
				"pancake", "sandwich", "steak", "steak_house", "toast",
			},
			"oceanic":       {"australian"},
			"international": {"fusion", "pizza_kebab"},
		},
		MixedCuisine: "international",
		OtherCuisine: "other",
	}
}

// Load reads a YAML document overriding the defaults.  Tables present in
// the document replace the default table of the same name, except for the
// map tables, whose entries are merged into the defaults.
func Load(r io.Reader) (*Rules, error) {
	rules := Default()

	if err := yaml.NewDecoder(r).Decode(rules); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return rules, nil
}

// LoadFile reads the YAML rules at path.  An empty path yields the defaults.
func LoadFile(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rules, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return rules, nil
}

// Validate checks that the configuration is internally consistent.
func (r *Rules) Validate() error {
	p := r.Postcode

	switch {
	case p.Length < 1:
		return fmt.Errorf("%w: postcode length %d", ErrInvalidRules, p.Length)
	case len(p.Prefix) > p.Length:
		return fmt.Errorf("%w: postcode prefix %q longer than %d", ErrInvalidRules, p.Prefix, p.Length)
	case p.Min > p.Max:
		return fmt.Errorf("%w: postcode window %d..%d", ErrInvalidRules, p.Min, p.Max)
	}

	if p.Prefix != "" {
		if _, err := strconv.ParseUint(p.Prefix, 10, 64); err != nil {
			return fmt.Errorf("%w: postcode prefix %q is not numeric", ErrInvalidRules, p.Prefix)
		}
	}

	if r.MixedCuisine == "" || r.OtherCuisine == "" {
		return fmt.Errorf("%w: mixed and other cuisine categories are required", ErrInvalidRules)
	}

	if _, ok := r.Cuisines[r.OtherCuisine]; ok {
		return fmt.Errorf("%w: %q cannot list members", ErrInvalidRules, r.OtherCuisine)
	}

	seen := make(map[string]string)
	for category, members := range r.Cuisines {
		for _, m := range members {
			if prev, ok := seen[m]; ok && prev != category {
				return fmt.Errorf("%w: cuisine %q is in both %s and %s", ErrInvalidRules, m, prev, category)
			}
			seen[m] = category
		}
	}

	return nil
}
