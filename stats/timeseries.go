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
	"math"

	"github.com/stockparfait/errors"

	"github.com/vishalbelsare/Datastream/frame"
	"github.com/vishalbelsare/Datastream/wire"
)

// Timeseries stores numeric values along with their dates. The dates are
// always sorted in ascending order.
type Timeseries struct {
	dates []wire.Date
	data  []float64
}

// NewTimeseries creates a new Timeseries. The dates are expected to be sorted
// in ascending order (not checked). It panics if dates and data have different
// lengths.  Note, that the argument slices are used as is, not copied.  Use
// Copy() if arguments need to be modified after the call.
func NewTimeseries(dates []wire.Date, data []float64) *Timeseries {
	if len(dates) != len(data) {
		panic(errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(dates), len(data)))
	}
	return &Timeseries{dates: dates, data: data}
}

// FromFrame extracts the numeric series of the key from a date-indexed wide
// frame. Rows with a missing date or a non-numeric value are skipped.
func FromFrame(f *frame.Frame, key frame.FieldColumn) (*Timeseries, error) {
	if !f.Indexed() {
		return nil, errors.Reason("frame is not indexed by dates")
	}
	cells, ok := f.Series(key)
	if !ok {
		return nil, errors.Reason("no series for %s", key)
	}
	var dates []wire.Date
	var data []float64
	for i, c := range cells {
		x, ok := c.Float()
		if !ok || f.Index[i].Kind != wire.DateCell {
			continue
		}
		dates = append(dates, f.Index[i].Date)
		data = append(data, x)
	}
	ts := NewTimeseries(dates, data)
	if err := ts.Check(); err != nil {
		return nil, errors.Annotate(err, "invalid series for %s", key)
	}
	return ts, nil
}

// Dates of the Timeseries.
func (t *Timeseries) Dates() []wire.Date { return t.dates }

// Data of the Timeseries.
func (t *Timeseries) Data() []float64 { return t.data }

// Copy makes a deep copy of the Timeseries.
func (t *Timeseries) Copy() *Timeseries {
	dates := make([]wire.Date, len(t.dates))
	data := make([]float64, len(t.data))
	copy(dates, t.dates)
	copy(data, t.data)
	return NewTimeseries(dates, data)
}

// Check that Timeseries is consistent: the lengths of dates and data are the
// same and the dates are strictly ascending.
func (t *Timeseries) Check() error {
	if len(t.dates) != len(t.data) {
		return errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(t.dates), len(t.data))
	}
	for i := 1; i < len(t.dates); i++ {
		if !t.dates[i-1].Before(t.dates[i]) {
			return errors.Reason("dates[%d] = %s >= dates[%d] = %s",
				i-1, t.dates[i-1], i, t.dates[i])
		}
	}
	return nil
}

// Range extracts the sub-series from the inclusive date interval. It may
// return an empty Timeseries, but never nil.
func (t *Timeseries) Range(start, end wire.Date) *Timeseries {
	if start.After(end) {
		return NewTimeseries(nil, nil)
	}
	s := len(t.dates)
	for i, d := range t.dates {
		if !d.Before(start) {
			s = i
			break
		}
	}
	e := s
	for e < len(t.dates) && !t.dates[e].After(end) {
		e++
	}
	if s == 0 && e == len(t.dates) {
		return t
	}
	return NewTimeseries(t.dates[s:e], t.data[s:e])
}

// Shift the timeseries in time.  A positive shift moves the values into the
// future, negative - into the past. The values outside of the date range are
// dropped. It may return an empty Timeseries, but never nil.
func (t *Timeseries) Shift(shift int) *Timeseries {
	if shift == 0 {
		return t
	}
	abs := shift
	if abs < 0 {
		abs = -shift
	}
	l := len(t.dates)
	if abs >= l {
		return NewTimeseries(nil, nil)
	}
	if shift > 0 {
		return NewTimeseries(t.dates[shift:], t.data[:l-shift])
	}
	return NewTimeseries(t.dates[:l+shift], t.data[-shift:])
}

// LogProfits computes a new Timeseries of log-profits {log(x[t+n]) -
// log(x[t])}. The associated log-profit date is t+n.
func (t *Timeseries) LogProfits(n int) *Timeseries {
	if n < 1 {
		panic(errors.Reason("n=%d must be >= 1", n))
	}
	if n >= len(t.data) {
		return NewTimeseries(nil, nil)
	}
	deltas := make([]float64, 0, len(t.data)-n)
	for i := n; i < len(t.data); i++ {
		deltas = append(deltas, math.Log(t.data[i])-math.Log(t.data[i-n]))
	}
	return NewTimeseries(t.dates[n:], deltas)
}
