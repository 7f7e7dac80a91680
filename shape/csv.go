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

package shape

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strconv"
)

// CSVExt is the extension of the shaped table files.
const CSVExt = ".csv"

// CSVPath returns the path of the CSV file of table inside dir.
func CSVPath(dir, table string) string {
	return filepath.Join(dir, table+CSVExt)
}

type csvFile struct {
	file *os.File
	w    *csv.Writer
}

// CSVWriter writes shaped elements into one CSV file per table, each
// starting with a header row in column order.
type CSVWriter struct {
	files map[string]*csvFile
}

// NewCSVWriter creates the table files inside dir, creating dir if needed.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create %s: %w", dir, err)
	}

	c := &CSVWriter{files: make(map[string]*csvFile, len(Tables))}

	for _, table := range Tables {
		f, err := os.Create(CSVPath(dir, table))
		if err != nil {
			_ = c.Close()

			return nil, err
		}

		w := csv.NewWriter(f)
		c.files[table] = &csvFile{file: f, w: w}

		if err := w.Write(Fields(table)); err != nil {
			_ = c.Close()

			return nil, err
		}
	}

	return c, nil
}

func (c *CSVWriter) Write(s *Shaped) error {
	switch {
	case s.Node != nil:
		if err := c.write(NodesTable, s.Node.Values()); err != nil {
			return err
		}

		return c.writeTags(NodeTagsTable, s.Tags)
	case s.Way != nil:
		if err := c.write(WaysTable, s.Way.Values()); err != nil {
			return err
		}

		if err := c.writeTags(WayTagsTable, s.Tags); err != nil {
			return err
		}

		for _, wn := range s.WayNodes {
			if err := c.write(WayNodesTable, wn.Values()); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *CSVWriter) writeTags(table string, tags []TagRecord) error {
	for _, t := range tags {
		if err := c.write(table, t.Values()); err != nil {
			return err
		}
	}

	return nil
}

func (c *CSVWriter) write(table string, values []any) error {
	record := make([]string, len(values))
	for i, v := range values {
		record[i] = format(v)
	}

	return c.files[table].w.Write(record)
}

// Close flushes and closes every table file.
func (c *CSVWriter) Close() error {
	var errs []error

	for _, table := range Tables {
		f, ok := c.files[table]
		if !ok {
			continue
		}

		f.w.Flush()
		errs = append(errs, f.w.Error(), f.file.Close())
	}

	return errors.Join(errs...)
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// CSVDir reads back the table files written by CSVWriter.  Cells are
// yielded as strings, empty cells as nil.
type CSVDir struct {
	dir string
}

// OpenCSVDir checks that dir holds every table file.
func OpenCSVDir(dir string) (*CSVDir, error) {
	for _, table := range Tables {
		if _, err := os.Stat(CSVPath(dir, table)); err != nil {
			return nil, fmt.Errorf("missing %s table: %w", table, err)
		}
	}

	return &CSVDir{dir: dir}, nil
}

func (d *CSVDir) Rows(table string) iter.Seq2[[]any, error] {
	return func(yield func([]any, error) bool) {
		fields := Fields(table)
		if fields == nil {
			yield(nil, fmt.Errorf("unknown table %q", table))

			return
		}

		path := CSVPath(d.dir, table)

		f, err := os.Open(path)
		if err != nil {
			yield(nil, err)

			return
		}
		defer f.Close()

		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		r.ReuseRecord = true

		header, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("%s: missing header", path)
			} else {
				err = fmt.Errorf("%s: reading header: %w", path, err)
			}

			yield(nil, err)

			return
		}

		if !slices.Equal(header, fields) {
			yield(nil, fmt.Errorf("%s: header %v, expected %v", path, header, fields))

			return
		}

		r.FieldsPerRecord = len(fields)

		for {
			record, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				yield(nil, fmt.Errorf("%s: %w", path, err))

				return
			}

			row := make([]any, len(record))
			for i, cell := range record {
				if cell != "" {
					row[i] = cell
				}
			}

			if !yield(row, nil) {
				return
			}
		}
	}
}
