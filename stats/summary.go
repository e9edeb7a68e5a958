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

package stats

import (
	"strconv"

	"github.com/stockparfait/errors"

	"github.com/vishalbelsare/Datastream/frame"
	"github.com/vishalbelsare/Datastream/table"
)

// SummaryHeader is the header of the SummaryTable.
var SummaryHeader = []string{"Column", "Count", "Mean", "StdDev", "Min", "Median", "Max"}

// SummaryRow is a row of the SummaryTable.
type SummaryRow struct {
	Column string
	Summary
}

var _ table.Row = SummaryRow{}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// CSV implements table.Row.
func (r SummaryRow) CSV() []string {
	return []string{
		r.Column,
		strconv.Itoa(r.Count),
		formatFloat(r.Mean),
		formatFloat(r.StdDev),
		formatFloat(r.Min),
		formatFloat(r.Median),
		formatFloat(r.Max),
	}
}

// numbers returns the numeric values of the key in a wide frame.
func numbers(f *frame.Frame, key frame.FieldColumn) []float64 {
	cells, _ := f.Series(key)
	var res []float64
	for _, c := range cells {
		if x, ok := c.Float(); ok {
			res = append(res, x)
		}
	}
	return res
}

// SummaryTable summarizes every column of a wide frame that has at least one
// numeric value. With logProfits, the summary is of the 1-period log-profits
// of the column, which requires a date-indexed frame.
func SummaryTable(f *frame.Frame, logProfits bool) (*table.Table, error) {
	if f.Shape != frame.Wide {
		return nil, errors.Reason("summary requires a wide frame")
	}
	t := table.NewTable(SummaryHeader...)
	for _, key := range f.Keys {
		data := numbers(f, key)
		if len(data) == 0 {
			continue
		}
		if logProfits {
			ts, err := FromFrame(f, key)
			if err != nil {
				return nil, errors.Annotate(err, "cannot compute log-profits")
			}
			data = ts.LogProfits(1).Data()
		}
		t.AddRow(SummaryRow{Column: key.String(), Summary: NewSample(data).Summary()})
	}
	return t, nil
}
