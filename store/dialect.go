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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect selects the SQL flavour spoken to the database.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	case Postgres:
		return "postgres"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// Driver is the database/sql driver name of the dialect.
func (d Dialect) Driver() string {
	if d == Postgres {
		return "pgx"
	}

	return "sqlite"
}

// MaxParams is the bound-parameter limit of a single statement.
func (d Dialect) MaxParams() int {
	if d == Postgres {
		return 65535
	}

	return 32766
}

func (d Dialect) placeholder(i int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(i)
	}

	return "?"
}

func (d Dialect) columnType(t ColumnType) string {
	if d == Postgres {
		switch t {
		case Integer:
			return "BIGINT"
		case Real:
			return "DOUBLE PRECISION"
		}
	}

	return t.String()
}

// ParseDSN splits a data source name into its dialect and the driver
// specific connection string.  SQLite takes "sqlite://path" (or
// "sqlite::memory:"), PostgreSQL a "postgres://" or "postgresql://" URL.
func ParseDSN(dsn string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return SQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return SQLite, strings.TrimPrefix(dsn, "sqlite:"), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, dsn, nil
	default:
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownDialect, redact(dsn))
	}
}

// redact drops everything after the scheme so credentials stay out of
// error messages.
func redact(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "..."
	}

	if len(dsn) > 16 {
		return dsn[:16] + "..."
	}

	return dsn
}
