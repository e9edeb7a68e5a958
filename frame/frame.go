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

package frame

import (
	"github.com/vishalbelsare/Datastream/table"
	"github.com/vishalbelsare/Datastream/wire"
)

// Shape of a Frame.
type Shape uint8

// Values of Shape.
const (
	Long Shape = iota
	Wide
)

func (s Shape) String() string {
	if s == Wide {
		return "wide"
	}
	return "long"
}

// Column names of a Frame.
const (
	InstrumentColumn = "Instrument"
	DatatypeColumn   = "Datatype"
	ValueColumn      = "Value"
	CurrencyColumn   = "Currency"
	DatesColumn      = "Dates" // constant column for a single-date response
	IndexName        = "Dates" // name of the row index
)

// Frame is the table projected from a single response.
//
// In the long form, Keys[i] identifies Rows[i]. In the wide form, Keys[j]
// identifies the data column Rows[*][j]; a constant Dates column, if any,
// follows the data columns.
type Frame struct {
	Shape   Shape
	Keys    []FieldColumn
	Columns []string      // header, not including the index
	Index   wire.DateAxis // row labels named IndexName; nil if unindexed
	Rows    [][]wire.Cell
}

// NumRows of the frame.
func (f *Frame) NumRows() int { return len(f.Rows) }

// Indexed checks whether the rows are labeled by dates.
func (f *Frame) Indexed() bool { return f.Index != nil }

// ColumnIndex returns the position of the named column, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (f *Frame) keyIndex(key FieldColumn) int {
	for i, k := range f.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Value of the key in a long form frame. The second value is false if the
// frame is wide or the key is not present.
func (f *Frame) Value(key FieldColumn) (wire.Cell, bool) {
	if f.Shape != Long {
		return wire.Cell{}, false
	}
	i := f.keyIndex(key)
	if i < 0 {
		return wire.Cell{}, false
	}
	return f.Rows[i][f.ColumnIndex(ValueColumn)], true
}

// Series of the key in a wide form frame. The second value is false if the
// frame is long or the key is not present.
func (f *Frame) Series(key FieldColumn) ([]wire.Cell, bool) {
	if f.Shape != Wide {
		return nil, false
	}
	j := f.keyIndex(key)
	if j < 0 {
		return nil, false
	}
	res := make([]wire.Cell, len(f.Rows))
	for i, row := range f.Rows {
		res[i] = row[j]
	}
	return res, true
}

// Row of cells in a table.Table.
type Row []wire.Cell

var _ table.Row = Row{}

// CSV implements table.Row.
func (r Row) CSV() []string {
	res := make([]string, len(r))
	for i, c := range r {
		res[i] = c.String()
	}
	return res
}

// Table converts the frame into a table.Table. The index, when present,
// becomes the leading Dates column.
func (f *Frame) Table() *table.Table {
	header := f.Columns
	if f.Indexed() {
		header = append([]string{IndexName}, f.Columns...)
	}
	t := table.NewTable(header...)
	for i, r := range f.Rows {
		row := Row(r)
		if f.Indexed() {
			row = append(Row{f.Index[i]}, r...)
		}
		t.AddRow(row)
	}
	return t
}
