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
	"bytes"
	"math"
	"testing"

	"github.com/stockparfait/testutil"

	"github.com/vishalbelsare/Datastream/frame"
	"github.com/vishalbelsare/Datastream/table"
	"github.com/vishalbelsare/Datastream/wire"

	. "github.com/smartystreets/goconvey/convey"
)

func testDates() []wire.Date {
	return []wire.Date{
		wire.NewDate(2020, 1, 1),
		wire.NewDate(2020, 1, 2),
		wire.NewDate(2020, 1, 3),
		wire.NewDate(2020, 1, 6),
		wire.NewDate(2020, 1, 7),
	}
}

func testData() []float64 { return []float64{1, 2, 3, 4, 5} }

func roundSlice(x []float64, places int) []float64 {
	res := make([]float64, len(x))
	for i, v := range x {
		res[i] = testutil.Round(v, places)
	}
	return res
}

func testFrame() *frame.Frame {
	d := testDates()
	vod := frame.NewFieldColumn("VOD", "P")
	name := frame.NewFieldColumn("VOD", "NAME")
	barc := frame.NewFieldColumn("BARC", "P").WithCurrency("E")
	return &frame.Frame{
		Shape:   frame.Wide,
		Keys:    []frame.FieldColumn{vod, name, barc},
		Columns: []string{vod.String(), name.String(), barc.String()},
		Index: wire.DateAxis{
			wire.DateValue(d[0]), wire.DateValue(d[1]), wire.Missing(), wire.DateValue(d[3]),
		},
		Rows: [][]wire.Cell{
			{wire.Number(1), wire.String("VODAFONE"), wire.Number(10)},
			{wire.Number(2), wire.String("VODAFONE"), wire.Missing()},
			{wire.Number(3), wire.String("VODAFONE"), wire.Number(30)},
			{wire.Number(4), wire.String("VODAFONE"), wire.Number(40)},
		},
	}
}

func TestTimeseries(t *testing.T) {
	t.Parallel()

	Convey("Timeseries works", t, func() {
		ts := NewTimeseries(testDates(), testData())

		Convey("Check", func() {
			So(ts.Check(), ShouldBeNil)
			d := testDates()
			d[2] = d[1]
			So(NewTimeseries(d, testData()).Check(), ShouldNotBeNil)
			So((&Timeseries{dates: testDates()}).Check(), ShouldNotBeNil)
		})

		Convey("NewTimeseries panics on mismatched lengths", func() {
			So(func() { NewTimeseries(testDates(), nil) }, ShouldPanic)
		})

		Convey("Copy", func() {
			c := ts.Copy()
			c.Data()[0] = 42
			So(ts.Data(), ShouldResemble, testData())
		})

		Convey("Range", func() {
			r := ts.Range(wire.NewDate(2020, 1, 2), wire.NewDate(2020, 1, 4))
			So(r.Dates(), ShouldResemble, testDates()[1:3])
			So(r.Data(), ShouldResemble, testData()[1:3])

			So(ts.Range(wire.NewDate(2019, 1, 1), wire.NewDate(2021, 1, 1)), ShouldEqual, ts)
			So(len(ts.Range(wire.NewDate(2020, 2, 1), wire.NewDate(2021, 1, 1)).Data()), ShouldEqual, 0)
			So(len(ts.Range(wire.NewDate(2020, 1, 3), wire.NewDate(2020, 1, 2)).Data()), ShouldEqual, 0)
		})

		Convey("Shift", func() {
			So(ts.Shift(0), ShouldEqual, ts)

			r := ts.Shift(2)
			So(r.Dates(), ShouldResemble, testDates()[2:])
			So(r.Data(), ShouldResemble, testData()[:3])

			r = ts.Shift(-2)
			So(r.Dates(), ShouldResemble, testDates()[:3])
			So(r.Data(), ShouldResemble, testData()[2:])

			So(len(ts.Shift(5).Data()), ShouldEqual, 0)
		})

		Convey("LogProfits", func() {
			lp := ts.LogProfits(1)
			So(ts.Data(), ShouldResemble, testData())
			So(lp.Dates(), ShouldResemble, testDates()[1:])
			So(roundSlice(lp.Data(), 5), ShouldResemble, roundSlice([]float64{
				math.Log(2.0),
				math.Log(3.0 / 2.0),
				math.Log(4.0 / 3.0),
				math.Log(5.0 / 4.0),
			}, 5))

			So(len(ts.LogProfits(5).Data()), ShouldEqual, 0)
			So(func() { ts.LogProfits(0) }, ShouldPanic)
		})

		Convey("FromFrame", func() {
			f := testFrame()
			d := testDates()

			ts, err := FromFrame(f, frame.NewFieldColumn("VOD", "P"))
			So(err, ShouldBeNil)
			So(ts.Dates(), ShouldResemble, []wire.Date{d[0], d[1], d[3]})
			So(ts.Data(), ShouldResemble, []float64{1, 2, 4})

			ts, err = FromFrame(f, frame.NewFieldColumn("BARC", "P").WithCurrency("E"))
			So(err, ShouldBeNil)
			So(ts.Data(), ShouldResemble, []float64{10, 40})

			ts, err = FromFrame(f, frame.NewFieldColumn("VOD", "NAME"))
			So(err, ShouldBeNil)
			So(len(ts.Data()), ShouldEqual, 0)

			_, err = FromFrame(f, frame.NewFieldColumn("LLOY", "P"))
			So(err, ShouldNotBeNil)

			f.Index = nil
			_, err = FromFrame(f, frame.NewFieldColumn("VOD", "P"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSample(t *testing.T) {
	t.Parallel()

	Convey("Sample works", t, func() {
		data := []float64{1.5, 2.0, 2.5, 0.0}
		s := NewSample(data)

		Convey("Data and Copy", func() {
			So(s.Data(), ShouldResemble, data)
			c := s.Copy()
			c.Data()[0] = 42
			So(s.Data()[0], ShouldEqual, 1.5)
		})

		Convey("statistics", func() {
			So(s.Mean(), ShouldEqual, 1.5)
			So(testutil.Round(s.StdDev(), 5), ShouldEqual, 1.08012)
			So(s.Min(), ShouldEqual, 0.0)
			So(s.Max(), ShouldEqual, 2.5)
			So(s.Median(), ShouldEqual, 1.5)
			So(NewSample([]float64{3, 1, 2}).Median(), ShouldEqual, 2.0)
			So(s.Data(), ShouldResemble, data) // not sorted in place
		})

		Convey("empty sample", func() {
			So(NewSample(nil).Summary(), ShouldResemble, Summary{})
			So(NewSample([]float64{7}).Summary(), ShouldResemble, Summary{
				Count: 1, Mean: 7, Min: 7, Median: 7, Max: 7})
		})
	})
}

func TestSummaryTable(t *testing.T) {
	t.Parallel()

	Convey("SummaryTable works", t, func() {
		f := testFrame()

		Convey("levels", func() {
			t, err := SummaryTable(f, false)
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(t.WriteCSV(&buf, table.Params{}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Column,Count,Mean,StdDev,Min,Median,Max
"(VOD, P)",4,2.5,1.29099,1,2,4
"(BARC, P, E)",3,26.6667,15.2753,10,30,40
`)
		})

		Convey("log-profits", func() {
			f.Rows = [][]wire.Cell{{wire.Number(1)}, {wire.Number(2)}, {wire.Number(3)}, {wire.Number(4)}}
			f.Keys = f.Keys[:1]
			f.Columns = f.Columns[:1]
			t, err := SummaryTable(f, true)
			So(err, ShouldBeNil)
			So(len(t.Rows), ShouldEqual, 1)
			row := t.Rows[0].(SummaryRow)
			So(row.Count, ShouldEqual, 2) // the row with a missing date is skipped
			So(testutil.Round(row.Mean, 5), ShouldEqual, testutil.Round(math.Log(2), 5))
		})

		Convey("long frame", func() {
			f.Shape = frame.Long
			_, err := SummaryTable(f, false)
			So(err, ShouldNotBeNil)
		})
	})
}
