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
	"math"
	"strconv"
	"strings"
)

var ErrSchemaViolation = errors.New("schema violation")

// coerce converts row to the column types of t.
func (t Table) coerce(row []any) ([]any, error) {
	if len(row) != len(t.Columns) {
		return nil, fmt.Errorf("%w: %s: %d values for %d columns", ErrSchemaViolation, t.Name, len(row), len(t.Columns))
	}

	out := make([]any, len(row))

	for i, c := range t.Columns {
		v, err := coerceValue(row[i], c.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", ErrSchemaViolation, t.Name, c.Name, err)
		}

		if v == nil && c.NotNull {
			return nil, fmt.Errorf("%w: %s.%s: missing value in row %v", ErrSchemaViolation, t.Name, c.Name, row)
		}

		out[i] = v
	}

	return out, nil
}

func coerceValue(v any, typ ColumnType) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch typ {
	case Integer:
		return toInt(v)
	case Real:
		return toFloat(v)
	case Text:
		return toText(v)
	default:
		return nil, fmt.Errorf("unsupported column type %v", typ)
	}
}

func toInt(v any) (any, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}

		return int64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}

		return strconv.ParseInt(s, 10, 64)
	default:
		return nil, fmt.Errorf("cannot store %T as integer", v)
	}
}

func toFloat(v any) (any, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}

		return strconv.ParseFloat(s, 64)
	default:
		return nil, fmt.Errorf("cannot store %T as real", v)
	}
}

func toText(v any) (any, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("cannot store %T as text", v)
	}
}
