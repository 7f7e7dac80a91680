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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmwrangle/shape"
)

func TestReadMunicipalities(t *testing.T) {
	ms, err := ReadMunicipalities(strings.NewReader(municipalitiesCSV))
	require.NoError(t, err)
	require.Len(t, ms, 3)

	assert.Equal(t, Municipality{
		Municipality: "Milano",
		Province:     "Milano",
		ProvinceCode: "MI",
		Region:       "Lombardia",
		Postcode:     "20122",
		Population:   1352000,
	}, ms[0])
	assert.Equal(t, int64(81773), ms[1].Population)
	assert.Zero(t, ms[2].Population)
	assert.Nil(t, ms[2].Values()[5])
}

func TestReadMunicipalities_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"header":     "city,province\nMilano,Milano\n",
		"population": "municipality,province,province_code,region,postcode,population\nMilano,Milano,MI,Lombardia,20122,many\n",
		"fields":     "municipality,province,province_code,region,postcode,population\nMilano,Milano\n",
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMunicipalities(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Municipalities(t *testing.T) {
	ms, err := ReadMunicipalities(strings.NewReader(municipalitiesCSV))
	require.NoError(t, err)

	s := newTestStore(t)

	counts, err := s.Load(context.Background(), sampleRecords(t), WithMunicipalities(ms))
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[MunicipalitiesTable])

	report, err := s.CrossCheck(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Empty())
	assert.Equal(t, []string{"Cassina de' Pecchi"}, report.UnknownCities)
	assert.Equal(t, []string{"20100"}, report.UnknownPostcodes)
}

func TestCrossCheck_Empty(t *testing.T) {
	s := newTestStore(t)

	report, err := s.CrossCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Empty())

	_, err = s.Count(context.Background(), "nope")
	assert.Error(t, err)

	n, err := s.Count(context.Background(), shape.NodesTable)
	require.NoError(t, err)
	assert.Zero(t, n)
}
