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

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/stockparfait/errors"
)

// Row interface that a table row representation must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Strings is a Row of preformatted values.
type Strings []string

var _ Row = Strings{}

// CSV implements Row.
func (s Strings) CSV() []string { return s }

// Table container.
//
// A typical use:
//
//	t := NewTable("Instrument", "Datatype", "Value")
//	t.AddRow(Strings{"VOD", "P", "72.5"}, Strings{"BARC", "P", "151.2"})
//	err := t.WriteText(os.Stdout, Params{})
type Table struct {
	Header []string // optional, may be nil
	Rows   []Row
}

// NewTable creates a new Table instance with optional column headers.  It is
// expected that, when present, the number of column headers is the same as the
// number of elements in each Row.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// AddStrings adds a single row of preformatted values.
func (t *Table) AddStrings(values ...string) {
	t.Rows = append(t.Rows, Strings(values))
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

func (p Params) header(t *Table) bool {
	return !p.NoHeader && len(t.Header) > 0
}

// rows of the table limited by Params.Rows.
func (p Params) rows(t *Table) []Row {
	if p.Rows > 0 && p.Rows < len(t.Rows) {
		return t.Rows[:p.Rows]
	}
	return t.Rows
}

// WriteCSV writes the entire table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if p.header(t) {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for _, r := range p.rows(t) {
		if err := cw.Write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// textLayout computes column widths for WriteText.
type textLayout struct {
	widths   []int
	maxWidth int
}

func (l *textLayout) update(row []string) error {
	if len(row) == 0 {
		return errors.Reason("row size = 0")
	}
	if l.widths == nil {
		l.widths = make([]int, len(row))
	}
	if len(row) != len(l.widths) {
		return errors.Reason("row size [%d] != expected size [%d]",
			len(row), len(l.widths))
	}
	for i, s := range row {
		w := utf8.RuneCountInString(s)
		if l.maxWidth > 0 && w > l.maxWidth {
			w = l.maxWidth
		}
		if l.widths[i] < w {
			l.widths[i] = w
		}
	}
	return nil
}

// format right-aligns the row, trimming long values with "..".
func (l *textLayout) format(row []string) string {
	cells := make([]string, len(row))
	for i, s := range row {
		if r := []rune(s); len(r) > l.widths[i] {
			s = string(r[:l.widths[i]-2]) + ".."
		}
		cells[i] = fmt.Sprintf("%[2]*[1]s", s, l.widths[i])
	}
	return strings.Join(cells, " | ")
}

func (l *textLayout) separator() string {
	cells := make([]string, len(l.widths))
	for i, w := range l.widths {
		cells[i] = strings.Repeat("-", w)
	}
	return strings.Join(cells, " | ")
}

// WriteText writes the table as a text formatted for ease of reading.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	l := &textLayout{maxWidth: p.MaxColWidth}
	rows := p.rows(t)
	if p.header(t) {
		if err := l.update(t.Header); err != nil {
			return errors.Annotate(err, "failed to update header widths")
		}
	}
	for _, r := range rows {
		if err := l.update(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to update row widths")
		}
	}
	var lines []string
	if p.header(t) {
		lines = append(lines, l.format(t.Header), l.separator())
	}
	for _, r := range rows {
		lines = append(lines, l.format(r.CSV()))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.Annotate(err, "failed to write line")
		}
	}
	return nil
}
