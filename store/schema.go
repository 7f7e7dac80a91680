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
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"m4o.io/osmwrangle/shape"
)

// MunicipalitiesTable holds the reference list of municipalities.
const MunicipalitiesTable = "municipalities"

// ColumnType is the storage class of a column.
type ColumnType int

const (
	Integer ColumnType = iota
	Real
	Text
)

func (c ColumnType) String() string {
	switch c {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Text:
		return "TEXT"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(c))
	}
}

type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool
}

type ForeignKey struct {
	Column string
	Table  string
}

// Table describes one relation.  Columns are in insert order.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  string
	ForeignKeys []ForeignKey
}

// ColumnNames lists the column names of the table in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}

	return names
}

func notNull(name string, typ ColumnType) Column {
	return Column{Name: name, Type: typ, NotNull: true}
}

func nullable(name string, typ ColumnType) Column {
	return Column{Name: name, Type: typ}
}

func tagTable(name, owner string) Table {
	return Table{
		Name: name,
		Columns: []Column{
			notNull("id", Integer),
			notNull("key", Text),
			notNull("value", Text),
			notNull("type", Text),
		},
		ForeignKeys: []ForeignKey{{Column: "id", Table: owner}},
	}
}

// Schema lists the tables in creation and load order.
var Schema = []Table{
	{
		Name: shape.NodesTable,
		Columns: []Column{
			notNull("id", Integer),
			notNull("lat", Real),
			notNull("lon", Real),
			notNull("user", Text),
			notNull("uid", Integer),
			notNull("version", Text),
			notNull("changeset", Integer),
			notNull("timestamp", Text),
		},
		PrimaryKey: "id",
	},
	tagTable(shape.NodeTagsTable, shape.NodesTable),
	{
		Name: shape.WaysTable,
		Columns: []Column{
			notNull("id", Integer),
			notNull("user", Text),
			notNull("uid", Integer),
			notNull("version", Text),
			notNull("changeset", Integer),
			notNull("timestamp", Text),
		},
		PrimaryKey: "id",
	},
	tagTable(shape.WayTagsTable, shape.WaysTable),
	{
		Name: shape.WayNodesTable,
		Columns: []Column{
			notNull("id", Integer),
			notNull("node_id", Integer),
			notNull("position", Integer),
		},
		ForeignKeys: []ForeignKey{{Column: "id", Table: shape.WaysTable}},
	},
	{
		Name: MunicipalitiesTable,
		Columns: []Column{
			notNull("municipality", Text),
			nullable("province", Text),
			nullable("province_code", Text),
			nullable("region", Text),
			nullable("postcode", Text),
			nullable("population", Integer),
		},
	},
}

// Lookup returns the table with the given name.
func Lookup(name string) (Table, bool) {
	for _, t := range Schema {
		if t.Name == name {
			return t, true
		}
	}

	return Table{}, false
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}

	return strings.Join(quoted, ", ")
}

// createTable renders the idempotent DDL of t.
func (d Dialect) createTable(t Table) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quote(t.Name))

	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}

		fmt.Fprintf(&b, "    %s %s", quote(c.Name), d.columnType(c.Type))

		if c.Name == t.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}

		if c.NotNull {
			b.WriteString(" NOT NULL")
		}
	}

	for _, fk := range t.ForeignKeys {
		fmt.Fprintf(&b, ",\n    FOREIGN KEY (%s) REFERENCES %s (%s)", quote(fk.Column), quote(fk.Table), quote("id"))
	}

	b.WriteString("\n)")

	return b.String()
}

// insert renders a multi-row INSERT of n rows into t.
func (d Dialect) insert(t Table, n int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", quote(t.Name), quoteAll(t.ColumnNames()))

	p := 1
	for r := range n {
		if r > 0 {
			b.WriteString(", ")
		}

		b.WriteByte('(')

		for c := range t.Columns {
			if c > 0 {
				b.WriteString(", ")
			}

			b.WriteString(d.placeholder(p))
			p++
		}

		b.WriteByte(')')
	}

	return b.String()
}
