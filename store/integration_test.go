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

//go:build integration

package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgres_Load(t *testing.T) {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("osm"),
		postgres.WithUsername("osm"),
		postgres.WithPassword("osm"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := Open(ctx, dsn, WithBatchSize(3))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, Postgres, s.Dialect())
	require.NoError(t, s.CreateSchema(ctx))
	require.NoError(t, s.CreateSchema(ctx))

	ms, err := ReadMunicipalities(strings.NewReader(municipalitiesCSV))
	require.NoError(t, err)

	_, err = s.Load(ctx, sampleRecords(t), WithMunicipalities(ms))
	require.NoError(t, err)
	assertCounts(t, s, sampleCounts)

	report, err := s.CrossCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cassina de' Pecchi"}, report.UnknownCities)

	recs := sampleRecords(t)
	recs.Nodes[0].ID = 1

	_, err = s.Load(ctx, recs)
	require.Error(t, err)
	assertCounts(t, s, sampleCounts)
}
