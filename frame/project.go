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
	"context"

	"github.com/stockparfait/logging"

	"github.com/vishalbelsare/Datastream/wire"
)

type column struct {
	key   FieldColumn
	value wire.Decoded
}

// decodeAxis decodes the shared date axis and logs unparsable dates.
func decodeAxis(ctx context.Context, dates []any) wire.DateAxis {
	axis := wire.DecodeDates(dates)
	for i, c := range axis {
		if c.IsMissing() && dates[i] != nil {
			logging.Debugf(ctx, "unparsable date at position %d: %v", i, dates[i])
		}
	}
	return axis
}

// collect decodes all the symbol values of the response in the order of
// appearance and checks that every key is unique.
func collect(resp *wire.DataResponse) ([]column, error) {
	var cols []column
	seen := make(map[FieldColumn]struct{})
	for _, dtv := range resp.DataTypeValues {
		for _, sv := range dtv.SymbolValues {
			key := NewFieldColumn(sv.Symbol, dtv.DataType)
			if sv.HasCurrency {
				key = key.WithCurrency(sv.Currency)
			}
			if _, ok := seen[key]; ok {
				return nil, NewShapeConflictError(key)
			}
			seen[key] = struct{}{}
			cols = append(cols, column{key: key, value: wire.DecodeSymbolValue(sv)})
		}
	}
	return cols, nil
}

// Project converts a single response into a Frame.
//
// All values are decoded first. The number of rows is the length of the
// longest array value; shorter arrays are padded with missing values. If any
// array value has more than one element, the frame is in the wide form with
// one column per key and single values repeated on every row. Otherwise the
// frame is in the long form with one row per key, in the order of appearance.
//
// The date axis becomes the row index when its length equals the number of
// rows and is greater than 1. A single date is added as a constant Dates
// column. Any other length is left out of the frame.
//
// A response without dates is a ServiceError when it carries a message, and a
// MalformedResponse otherwise.
func Project(ctx context.Context, resp *wire.DataResponse) (*Frame, error) {
	if resp == nil {
		return nil, NewMalformedError()
	}
	if !resp.HasDates {
		if resp.Message != "" {
			return nil, NewServiceError(resp.Message)
		}
		return nil, NewMalformedError()
	}
	axis := decodeAxis(ctx, resp.Dates)
	cols, err := collect(resp)
	if err != nil {
		return nil, err
	}
	rows := 0
	for _, c := range cols {
		if c.value.Array && len(c.value.Values) > rows {
			rows = len(c.value.Values)
		}
	}
	wide := false
	for i := range cols {
		cols[i].value.Pad(rows)
		if cols[i].value.Multi() {
			wide = true
		}
	}
	var f *Frame
	if wide {
		f = wideFrame(cols, rows)
	} else {
		f = longFrame(cols)
	}
	f.reconcile(axis)
	logging.Debugf(ctx, "projected %s frame [%s]: %d rows, %d dates",
		f.Shape, resp.Tag, f.NumRows(), len(axis))
	return f, nil
}

func longFrame(cols []column) *Frame {
	currency := false
	for _, c := range cols {
		if c.key.HasCurrency {
			currency = true
			break
		}
	}
	f := &Frame{
		Shape:   Long,
		Columns: []string{InstrumentColumn, DatatypeColumn, ValueColumn},
	}
	if currency {
		f.Columns = append(f.Columns, CurrencyColumn)
	}
	for _, c := range cols {
		row := []wire.Cell{
			wire.String(c.key.Instrument),
			wire.String(c.key.Datatype),
			c.value.First(),
		}
		if currency {
			cur := wire.Missing()
			if c.key.HasCurrency {
				cur = wire.String(c.key.Currency)
			}
			row = append(row, cur)
		}
		f.Keys = append(f.Keys, c.key)
		f.Rows = append(f.Rows, row)
	}
	return f
}

func wideFrame(cols []column, rows int) *Frame {
	f := &Frame{Shape: Wide}
	for _, c := range cols {
		f.Keys = append(f.Keys, c.key)
		f.Columns = append(f.Columns, c.key.String())
	}
	f.Rows = make([][]wire.Cell, rows)
	for i := range f.Rows {
		row := make([]wire.Cell, len(cols))
		for j, c := range cols {
			if c.value.Array {
				row[j] = c.value.Values[i]
			} else {
				row[j] = c.value.First()
			}
		}
		f.Rows[i] = row
	}
	return f
}

// reconcile attaches the date axis to the frame.
func (f *Frame) reconcile(axis wire.DateAxis) {
	n := f.NumRows()
	switch {
	case len(axis) == 1:
		f.Columns = append(f.Columns, DatesColumn)
		for i := range f.Rows {
			f.Rows[i] = append(f.Rows[i], axis[0])
		}
	case len(axis) > 1 && len(axis) == n:
		f.Index = axis
	}
}
