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

// Package store loads shaped records into a relational database, SQLite or
// PostgreSQL, inside a single transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/destel/rill"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"m4o.io/osmwrangle/shape"
)

// Store is a database holding the shaped tables.
type Store struct {
	db      *sql.DB
	dialect Dialect
	cfg     storeOptions
	owned   bool
}

// Open connects to the database named by dsn.  See ParseDSN.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	dialect, conn, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.Driver(), conn)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s database: %w", dialect, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("unable to connect to %s database: %w", dialect, err)
	}

	s := New(db, dialect, opts...)
	s.owned = true

	return s, nil
}

// New wraps an open database.  SQLite databases are limited to a single
// connection so that pragmas and in-memory databases are shared.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	cfg := defaultStoreConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	}

	return &Store{db: db, dialect: dialect, cfg: cfg}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the database if the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}

	return s.db.Close()
}

func (s *Store) enableForeignKeys(ctx context.Context) error {
	if s.dialect != SQLite {
		return nil
	}

	_, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON")

	return err
}

// CreateSchema creates every table that does not exist yet.
func (s *Store) CreateSchema(ctx context.Context) error {
	if err := s.enableForeignKeys(ctx); err != nil {
		return err
	}

	for _, t := range Schema {
		if _, err := s.db.ExecContext(ctx, s.dialect.createTable(t)); err != nil {
			return fmt.Errorf("unable to create table %s: %w", t.Name, err)
		}
	}

	return nil
}

// Counts maps each table to the number of rows inserted into it.
type Counts map[string]int64

// Load inserts the five shaped tables of src, and the municipalities when
// configured, in one transaction.  Nothing is committed unless every row
// is inserted.
func (s *Store) Load(ctx context.Context, src shape.RowSource, opts ...LoadOption) (Counts, error) {
	cfg := defaultLoadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := s.enableForeignKeys(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to begin transaction: %w", err)
	}

	counts, err := s.load(ctx, tx, src, cfg)
	if err != nil {
		slog.Error("load failed, rolling back", "error", err)

		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			err = errors.Join(err, rerr)
		}

		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("unable to commit: %w", err)
	}

	return counts, nil
}

func (s *Store) load(ctx context.Context, tx *sql.Tx, src shape.RowSource, cfg loadOptions) (Counts, error) {
	counts := make(Counts, len(Schema))

	for _, t := range Schema {
		var rows iter.Seq2[[]any, error]

		if t.Name == MunicipalitiesTable {
			if cfg.municipalities == nil {
				continue
			}

			rows = municipalityRows(cfg.municipalities)
		} else {
			rows = src.Rows(t.Name)
		}

		n, err := s.loadTable(ctx, tx, t, rows)
		if err != nil {
			return nil, fmt.Errorf("unable to load %s: %w", t.Name, err)
		}

		slog.Debug("table loaded", "table", t.Name, "rows", n)

		counts[t.Name] = n
	}

	return counts, nil
}

// batchSize is the number of rows per INSERT statement for t.
func (s *Store) batchSize(t Table) int {
	n := s.dialect.MaxParams() / len(t.Columns)
	if s.cfg.batchSize > 0 && s.cfg.batchSize < n {
		n = s.cfg.batchSize
	}

	return n
}

func (s *Store) loadTable(ctx context.Context, tx *sql.Tx, t Table, rows iter.Seq2[[]any, error]) (int64, error) {
	in := make(chan rill.Try[[]any])
	done := make(chan struct{})

	// stops the producer once ForEach returns, early or not
	pctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		<-done
	}()

	go func() {
		defer close(done)
		defer close(in)

		for row, err := range rows {
			select {
			case in <- rill.Wrap(row, err):
			case <-pctx.Done():
				return
			}

			if err != nil {
				return
			}
		}
	}()

	coerced := rill.OrderedMap(in, 1, t.coerce)
	batches := rill.Batch(coerced, s.batchSize(t), -1)

	var n int64

	err := rill.ForEach(batches, 1, func(batch [][]any) error {
		args := make([]any, 0, len(batch)*len(t.Columns))
		for _, row := range batch {
			args = append(args, row...)
		}

		if _, err := tx.ExecContext(ctx, s.dialect.insert(t, len(batch)), args...); err != nil {
			return err
		}

		n += int64(len(batch))

		return nil
	})
	if err != nil {
		return n, err
	}

	return n, ctx.Err()
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	if _, ok := Lookup(table); !ok {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quote(table)).Scan(&n)

	return n, err
}
