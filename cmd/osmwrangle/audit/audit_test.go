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

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/audit"
	"m4o.io/osmwrangle/rules"
)

const sampleFile = "../../../testdata/milan-sample.osm"

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	saved := out
	out = buf

	t.Cleanup(func() { out = saved })

	return buf
}

func TestRunAudit(t *testing.T) {
	d, err := osmwrangle.Open(context.Background(), sampleFile)
	require.NoError(t, err)
	defer d.Close()

	result, err := runAudit(context.Background(), d, rules.MustCompile(rules.Default()),
		[]rules.Category{rules.PostcodeLength})
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Counts.Nodes)
	assert.Equal(t, []string{"201"}, result.Report(rules.PostcodeLength).Keys())
	assert.Zero(t, result.Report(rules.StreetType).Len())
}

func TestParseCategories(t *testing.T) {
	categories, err := parseCategories([]string{"postcode", "city"})
	require.NoError(t, err)
	assert.Equal(t, []rules.Category{rules.PostcodeLength, rules.CityFormatting}, categories)

	_, err = parseCategories([]string{"zipcode"})
	assert.Error(t, err)
}

func TestRenderTxt(t *testing.T) {
	street := &audit.DefectReport{}
	street.Add("via", "via milano 30")
	street.Add("via", "via Dante")
	street.Add("via", "via Torino")
	street.Add("C.na", "C.na Gobba")

	result := &audit.Result{
		Reports: map[rules.Category]*audit.DefectReport{rules.StreetType: street},
		Counts:  audit.Counts{Nodes: 1234, Ways: 56, Relations: 7, Tags: 4321, DroppedTags: 1},
	}

	buf := capture(t)
	renderTxt(result, 2)

	assert.Equal(t, `NodeCount: 1,234
WayCount: 56
RelationCount: 7
TagCount: 4,321
DroppedTagCount: 1

street-type (2)
  via: via milano 30 | via Dante (+1 more)
  C.na: C.na Gobba
`, buf.String())
}

func TestRenderJSON(t *testing.T) {
	city := &audit.DefectReport{}
	city.Add("(", "Origgio (VA)")

	result := &audit.Result{
		Reports: map[rules.Category]*audit.DefectReport{rules.CityFormatting: city},
		Counts:  audit.Counts{Nodes: 1},
	}

	buf := capture(t)
	require.NoError(t, renderJSON(result))

	var decoded struct {
		Reports map[string]map[string][]string `json:"reports"`
		Counts  audit.Counts                   `json:"counts"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"Origgio (VA)"}, decoded.Reports["city"]["("])
	assert.Equal(t, int64(1), decoded.Counts.Nodes)
}
