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

package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/audit"
	"m4o.io/osmwrangle/model"
	"m4o.io/osmwrangle/rules"
)

func seq(entities ...model.Entity) iter.Seq2[model.Entity, error] {
	return func(yield func(model.Entity, error) bool) {
		for _, e := range entities {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func node(id model.ID, tags ...string) *model.Node {
	n := &model.Node{ID: id, Lat: 45.46, Lon: 9.19}
	for i := 0; i+1 < len(tags); i += 2 {
		n.Tags = append(n.Tags, model.Tag{Key: tags[i], Value: tags[i+1]})
	}

	return n
}

func newAuditor(opts ...audit.Option) *audit.Auditor {
	return audit.New(rules.MustCompile(rules.Default()), opts...)
}

func TestClassify(t *testing.T) {
	a := newAuditor()

	findings := a.Classify("addr:street", "via milano 30")
	assert.Equal(t, []audit.Finding{
		{Category: rules.StreetType, Signature: "via", Value: "via milano 30"},
		{Category: rules.EmbeddedNumber, Signature: "via milano 30", Value: "via milano 30"},
	}, findings)

	assert.Empty(t, a.Classify("addr:street", "Via Dante Alighieri"))
	assert.Empty(t, a.Classify("name", "via milano 30"))
	assert.Empty(t, a.Classify("addr street", "via milano 30"))

	findings = a.Classify("addr:postcode", "2013")
	require.Len(t, findings, 1)
	assert.Equal(t, rules.PostcodeLength, findings[0].Category)
}

func TestClassify_Restricted(t *testing.T) {
	a := newAuditor(audit.WithCategories(rules.EmbeddedNumber))

	assert.Equal(t, []audit.Finding{
		{Category: rules.EmbeddedNumber, Signature: "via milano 30", Value: "via milano 30"},
	}, a.Classify("addr:street", "via milano 30"))
}

func TestAudit(t *testing.T) {
	a := newAuditor()

	res, err := a.Audit(context.Background(), seq(
		node(1, "addr:street", "via Dante", "addr:postcode", "20122"),
		node(2, "addr:street", "via Torino", "addr:city", "milano"),
		node(3, "addr:street", "via Dante", "bad key", "x"),
		&model.Way{ID: 10, NodeIDs: []model.ID{1, 2}, Tags: model.Tags{{Key: "cuisine", Value: "pizza"}}},
		&model.Relation{ID: 20, Tags: model.Tags{{Key: "addr:city", Value: "milano"}}},
	))
	require.NoError(t, err)

	street := res.Report(rules.StreetType)
	assert.Equal(t, []string{"via"}, street.Keys())
	assert.Equal(t, []string{"via Dante", "via Torino"}, street.Values("via"))

	assert.Equal(t, 0, res.Report(rules.PostcodeLength).Len())
	assert.Equal(t, []string{"milano"}, res.Report(rules.CityFormatting).Values("m"))
	assert.Equal(t, []string{"pizza"}, res.Report(rules.CuisineNormalization).Values("pizza"))

	assert.Equal(t, audit.Counts{Nodes: 3, Ways: 1, Relations: 1, Tags: 7, DroppedTags: 1}, res.Counts)
	require.NotNil(t, res.BoundingBox)
	assert.True(t, res.BoundingBox.Contains(45.46, 9.19))
}

func TestAudit_ValueInManyCategories(t *testing.T) {
	res, err := newAuditor().Audit(context.Background(), seq(node(1, "addr:street", "via F.lli Bandiera 3")))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Report(rules.StreetType).Len())
	assert.Equal(t, 1, res.Report(rules.Abbreviation).Len())
	assert.Equal(t, 1, res.Report(rules.EmbeddedNumber).Len())
}

func TestAudit_StreamError(t *testing.T) {
	boom := errors.New("boom")

	elements := func(yield func(model.Entity, error) bool) {
		if !yield(node(1, "addr:city", "milano"), nil) {
			return
		}
		yield(nil, boom)
	}

	res, err := newAuditor().Audit(context.Background(), elements)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), res.Counts.Nodes)
}

func TestAudit_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAuditor().Audit(ctx, seq(node(1)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAudit_SampleFile(t *testing.T) {
	d, err := osmwrangle.Open(context.Background(), "../testdata/milan-sample.osm")
	require.NoError(t, err)
	defer d.Close()

	res, err := newAuditor().Audit(context.Background(), d.Elements())
	require.NoError(t, err)

	assert.Equal(t, []string{"piazza", "via", "SP14", "C.na"}, res.Report(rules.StreetType).Keys())
	assert.Equal(t, []string{"SP14"}, res.Report(rules.RoadAbbreviation).Keys())
	assert.Equal(t, []string{"25 aprile"}, res.Report(rules.HistoricalDate).Keys())
	assert.Equal(t, []string{"C.na"}, res.Report(rules.Abbreviation).Keys())
	assert.Equal(t, []string{"dell' artigianato"}, res.Report(rules.Apostrophe).Keys())
	assert.Equal(t, []string{"via milano 30"}, res.Report(rules.EmbeddedNumber).Keys())
	assert.Equal(t, []string{"201"}, res.Report(rules.PostcodeLength).Keys())
	assert.Equal(t, []string{"'", "("}, res.Report(rules.CityFormatting).Keys())
	assert.Equal(t, []string{"pizza;steak"}, res.Report(rules.CuisineNormalization).Keys())
	assert.Equal(t, int64(1), res.Counts.DroppedTags)
}

func TestDefectReport_JSON(t *testing.T) {
	var r audit.DefectReport
	r.Add("via", "via Dante")
	r.Add("piazza", "piazza Duomo")
	r.Add("via", "via Torino")
	r.Add("via", "via Dante")

	b, err := json.Marshal(&r)
	require.NoError(t, err)
	assert.Equal(t, `{"via":["via Dante","via Torino"],"piazza":["piazza Duomo"]}`, string(b))

	var keys []string
	for k := range r.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"via", "piazza"}, keys)
}
