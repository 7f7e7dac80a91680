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

package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strconv"
	"strings"

	"m4o.io/osmwrangle/shape"
)

// MunicipalityFields is the header of the municipalities CSV file.
var MunicipalityFields = []string{"municipality", "province", "province_code", "region", "postcode", "population"}

// Municipality is a row of the reference table used to check cleaned city
// names and postcodes.
type Municipality struct {
	Municipality string
	Province     string
	ProvinceCode string
	Region       string
	Postcode     string
	Population   int64
}

func (m Municipality) Values() []any {
	return []any{m.Municipality, nullString(m.Province), nullString(m.ProvinceCode),
		nullString(m.Region), nullString(m.Postcode), nullInt(m.Population)}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func nullInt(n int64) any {
	if n == 0 {
		return nil
	}

	return n
}

// ReadMunicipalities parses a municipalities CSV file.  The header row is
// required; population may carry thousands separators.
func ReadMunicipalities(r io.Reader) ([]Municipality, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(MunicipalityFields)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("municipalities: missing header")
		}

		return nil, fmt.Errorf("municipalities: %w", err)
	}

	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	if !slices.Equal(header, MunicipalityFields) {
		return nil, fmt.Errorf("municipalities: header %v, expected %v", header, MunicipalityFields)
	}

	var out []Municipality

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return nil, fmt.Errorf("municipalities: %w", err)
		}

		pop, err := parsePopulation(rec[5])
		if err != nil {
			line, _ := cr.FieldPos(5)

			return nil, fmt.Errorf("municipalities: line %d: %w", line, err)
		}

		out = append(out, Municipality{
			Municipality: strings.TrimSpace(rec[0]),
			Province:     strings.TrimSpace(rec[1]),
			ProvinceCode: strings.TrimSpace(rec[2]),
			Region:       strings.TrimSpace(rec[3]),
			Postcode:     strings.TrimSpace(rec[4]),
			Population:   pop,
		})
	}
}

// ReadMunicipalitiesFile reads the municipalities CSV file at path.
func ReadMunicipalitiesFile(path string) ([]Municipality, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadMunicipalities(f)
}

func parsePopulation(s string) (int64, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', ' ', '\u00a0', '\'':
			return -1
		}

		return r
	}, s)

	if s == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid population: %w", err)
	}

	return n, nil
}

func municipalityRows(ms []Municipality) iter.Seq2[[]any, error] {
	return func(yield func([]any, error) bool) {
		for _, m := range ms {
			if !yield(m.Values(), nil) {
				return
			}
		}
	}
}

// CheckReport lists the address values with no match in the municipalities
// table.
type CheckReport struct {
	UnknownCities    []string `json:"unknown_cities"`
	UnknownPostcodes []string `json:"unknown_postcodes"`
}

func (r CheckReport) Empty() bool {
	return len(r.UnknownCities) == 0 && len(r.UnknownPostcodes) == 0
}

// CrossCheck compares the city and postcode tags of nodes and ways against
// the municipalities table.
func (s *Store) CrossCheck(ctx context.Context) (CheckReport, error) {
	var (
		report CheckReport
		err    error
	)

	report.UnknownCities, err = s.unknown(ctx, "city", "municipality")
	if err != nil {
		return report, err
	}

	report.UnknownPostcodes, err = s.unknown(ctx, "postcode", "postcode")

	return report, err
}

func (s *Store) unknown(ctx context.Context, key, column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT t.%[1]s FROM (
    SELECT %[1]s FROM %[4]s WHERE %[2]s = %[7]s AND %[3]s = 'addr'
    UNION ALL
    SELECT %[1]s FROM %[5]s WHERE %[2]s = %[8]s AND %[3]s = 'addr'
) t
WHERE t.%[1]s NOT IN (SELECT %[9]s FROM %[6]s WHERE %[9]s IS NOT NULL)
ORDER BY t.%[1]s`,
		quote("value"), quote("key"), quote("type"),
		quote(shape.NodeTagsTable), quote(shape.WayTagsTable), quote(MunicipalitiesTable),
		s.dialect.placeholder(1), s.dialect.placeholder(2), quote(column))

	rows, err := s.db.QueryContext(ctx, query, key, key)
	if err != nil {
		return nil, fmt.Errorf("unable to check %s values: %w", key, err)
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, rows.Err()
}
