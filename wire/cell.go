// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wire

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind of the value held by a Cell.
type Kind uint8

// Values of Kind.
const (
	MissingCell Kind = iota
	NumberCell
	StringCell
	BoolCell
	DateCell
	ListCell // an undecoded sequence, e.g. an error marker with several entries
)

// Cell is a single decoded value. The zero value is a missing value.
type Cell struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
	Date Date
	List []Cell
}

// Missing creates a missing value.
func Missing() Cell { return Cell{} }

// Number creates a numeric cell.
func Number(x float64) Cell { return Cell{Kind: NumberCell, Num: x} }

// String creates a string cell.
func String(s string) Cell { return Cell{Kind: StringCell, Str: s} }

// Bool creates a boolean cell.
func Bool(b bool) Cell { return Cell{Kind: BoolCell, Bool: b} }

// DateValue creates a date cell.
func DateValue(d Date) Cell { return Cell{Kind: DateCell, Date: d} }

// NewCell converts a generic JSON value, as decoded by encoding/json, into a
// Cell. Values are passed through as is; in particular, strings are never
// date-parsed here.
func NewCell(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Missing()
	case float64:
		return Number(x)
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case Date:
		return DateValue(x)
	case Cell:
		return x
	case []any:
		list := make([]Cell, len(x))
		for i, e := range x {
			list[i] = NewCell(e)
		}
		return Cell{Kind: ListCell, List: list}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return String(fmt.Sprintf("%v", v))
	}
	return String(string(b))
}

// IsMissing checks whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == MissingCell }

// Float returns the numeric value of the cell, if it is a number.
func (c Cell) Float() (float64, bool) {
	if c.Kind != NumberCell {
		return 0, false
	}
	return c.Num, true
}

// Value converts the cell back to a plain Go value: nil, float64, string,
// bool, Date or []any.
func (c Cell) Value() any {
	switch c.Kind {
	case NumberCell:
		return c.Num
	case StringCell:
		return c.Str
	case BoolCell:
		return c.Bool
	case DateCell:
		return c.Date
	case ListCell:
		res := make([]any, len(c.List))
		for i, e := range c.List {
			res[i] = e.Value()
		}
		return res
	}
	return nil
}

// String representation of the cell for text and CSV output. A missing value
// is an empty string.
func (c Cell) String() string {
	switch c.Kind {
	case NumberCell:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case StringCell:
		return c.Str
	case BoolCell:
		if c.Bool {
			return "TRUE"
		}
		return "FALSE"
	case DateCell:
		return c.Date.String()
	case ListCell:
		parts := make([]string, len(c.List))
		for i, e := range c.List {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return ""
}

// MarshalJSON implements json.Marshaler, writing the plain value.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}
