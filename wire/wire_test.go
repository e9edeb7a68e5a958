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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDate(t *testing.T) {
	t.Parallel()

	Convey("Wire dates are parsed", t, func() {
		Convey("offset after the parenthesis", func() {
			d, err := ParseDate("/Date(1000)+0000/")
			So(err, ShouldBeNil)
			So(d.String(), ShouldEqual, "1970-01-01")
		})

		Convey("offset inside the parenthesis", func() {
			d, err := ParseDate("/Date(1546300800000+0000)/")
			So(err, ShouldBeNil)
			So(d, ShouldResemble, NewDate(2019, 1, 1))
		})

		Convey("one day later", func() {
			d, err := ParseDate("/Date(86400000)+0000/")
			So(err, ShouldBeNil)
			So(d.String(), ShouldEqual, "1970-01-02")
		})

		Convey("negative milliseconds", func() {
			d, err := ParseDate("/Date(-86400000-0500)/")
			So(err, ShouldBeNil)
			So(d.String(), ShouldEqual, "1969-12-31")
			d, err = ParseDate("/Date(-1+0000)/")
			So(err, ShouldBeNil)
			So(d.String(), ShouldEqual, "1969-12-31")
		})

		Convey("offset is parsed but not applied", func() {
			d, err := ParseDate("/Date(82800000+0200)/") // 23:00 UTC
			So(err, ShouldBeNil)
			So(d.String(), ShouldEqual, "1970-01-01")
			offset, err := ParseDateOffset("/Date(82800000+0200)/")
			So(err, ShouldBeNil)
			So(offset, ShouldEqual, "+0200")
		})

		Convey("malformed dates fail", func() {
			for _, s := range []string{
				"/Date(1000)/",
				"/Date(abc+0000)/",
				"/Date(+0000)/",
				"Date(1000+0000)/",
				"2019-01-01",
				"",
			} {
				_, err := ParseDate(s)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, InvalidDateFormat)
			}
		})

		Convey("DecodeDate absorbs failures", func() {
			So(DecodeDate("/Date(0)+0000/"), ShouldResemble, DateValue(NewDate(1970, 1, 1)))
			So(DecodeDate("/Date(1000)/").IsMissing(), ShouldBeTrue)
			So(DecodeDate(nil).IsMissing(), ShouldBeTrue)
			So(DecodeDate(42.0).IsMissing(), ShouldBeTrue)
		})

		Convey("date candidates", func() {
			So(IsDateCandidate("x/Date(0)+0000/"), ShouldBeTrue)
			So(IsDateCandidate("N/A"), ShouldBeFalse)
			So(IsDateCandidate(1.0), ShouldBeFalse)
		})
	})

	Convey("Date methods work", t, func() {
		d := NewDate(2020, 2, 29)
		So(d.Before(NewDate(2020, 3, 1)), ShouldBeTrue)
		So(d.After(NewDate(2019, 12, 31)), ShouldBeTrue)
		So(d.Before(d), ShouldBeFalse)
		So(Date{}.IsZero(), ShouldBeTrue)
		So(NewDateFromTime(d.ToTime()), ShouldResemble, d)

		js, err := json.Marshal(d)
		So(err, ShouldBeNil)
		So(string(js), ShouldEqual, `"2020-02-29"`)
		var d2 Date
		So(json.Unmarshal(js, &d2), ShouldBeNil)
		So(d2, ShouldResemble, d)
		So(json.Unmarshal([]byte(`"/Date(0+0000)/"`), &d2), ShouldBeNil)
		So(d2, ShouldResemble, NewDate(1970, 1, 1))
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	Convey("Decode follows the type code families", t, func() {
		Convey("scalars pass through", func() {
			for _, tc := range []TypeCode{TypeEmpty, TypeBool, TypeInt, TypeDouble, TypeString} {
				d := Decode("/Date(0)+0000/", tc)
				So(d.Array, ShouldBeFalse)
				So(d.Values, ShouldResemble, []Cell{String("/Date(0)+0000/")})
			}
			So(Decode(5.0, TypeDouble).Values, ShouldResemble, []Cell{Number(5.0)})
			So(Decode(true, TypeBool).Values, ShouldResemble, []Cell{Bool(true)})
		})

		Convey("scalar date", func() {
			d := Decode("/Date(86400000+0000)/", TypeDateTime)
			So(d.Multi(), ShouldBeFalse)
			So(d.Values, ShouldResemble, []Cell{DateValue(NewDate(1970, 1, 2))})
			So(Decode("", TypeDateTime).Values, ShouldResemble, []Cell{String("")})
			So(Decode("/Date(bad)/", TypeDateTime).First().IsMissing(), ShouldBeTrue)
		})

		Convey("error marker is verbatim", func() {
			d := Decode("N/A", TypeError)
			So(d.Multi(), ShouldBeFalse)
			So(d.Values, ShouldResemble, []Cell{String("N/A")})
			d = Decode("/Date(0)+0000/", TypeError)
			So(d.Values, ShouldResemble, []Cell{String("/Date(0)+0000/")})
			d = Decode([]any{"$$ER", "E100"}, TypeError)
			So(d.Multi(), ShouldBeFalse)
			So(d.First().Kind, ShouldEqual, ListCell)
			So(d.First().String(), ShouldEqual, "[$$ER, E100]")
		})

		Convey("arrays decode dates element-wise", func() {
			d := Decode([]any{1.5, "/Date(0+0000)/", nil, "text"}, TypeObjectArray)
			So(d.Multi(), ShouldBeTrue)
			So(d.Values, ShouldResemble, []Cell{
				Number(1.5), DateValue(NewDate(1970, 1, 1)), Missing(), String("text")})
		})

		Convey("array of dates", func() {
			d := Decode([]any{"/Date(0+0000)/", "junk", nil}, TypeDateTimeArray)
			So(d.Values, ShouldResemble, []Cell{
				DateValue(NewDate(1970, 1, 1)), Missing(), Missing()})
		})

		Convey("single element array is not multi-valued", func() {
			d := Decode([]any{1.0}, TypeDoubleArray)
			So(d.Array, ShouldBeTrue)
			So(d.Multi(), ShouldBeFalse)
		})

		Convey("padding counts towards cardinality", func() {
			d := Decode([]any{1.0}, TypeDoubleArray)
			d.Pad(3)
			So(d.Values, ShouldResemble, []Cell{Number(1.0), Missing(), Missing()})
			So(d.Multi(), ShouldBeTrue)

			s := Decode(1.0, TypeDouble)
			s.Pad(3)
			So(len(s.Values), ShouldEqual, 1)
		})

		Convey("unknown codes are scalars", func() {
			So(TypeCode(42).IsKnown(), ShouldBeFalse)
			So(TypeCode(42).String(), ShouldEqual, "Unknown(42)")
			So(Decode([]any{1.0, 2.0}, TypeCode(42)).Multi(), ShouldBeFalse)
		})
	})

	Convey("Cells render as text", t, func() {
		So(Number(1.1).String(), ShouldEqual, "1.1")
		So(Number(1000000).String(), ShouldEqual, "1000000")
		So(Missing().String(), ShouldEqual, "")
		So(Bool(false).String(), ShouldEqual, "FALSE")
		So(DateValue(NewDate(2001, 2, 3)).String(), ShouldEqual, "2001-02-03")
		js, err := json.Marshal([]Cell{Number(1), Missing(), DateValue(NewDate(2001, 2, 3))})
		So(err, ShouldBeNil)
		So(string(js), ShouldEqual, `[1,null,"2001-02-03"]`)
	})
}

func TestResponse(t *testing.T) {
	t.Parallel()

	Convey("DataResponse tracks optional keys", t, func() {
		Convey("with dates and currency", func() {
			var r DataResponse
			So(json.Unmarshal([]byte(`{
  "Dates": ["/Date(0+0000)/"],
  "DataTypeValues": [{"DataType": "P", "SymbolValues": [
    {"Symbol": "VOD", "Currency": "E", "Value": 5.0, "Type": 5},
    {"Symbol": "BARC", "Currency": null, "Value": 6.0, "Type": 5},
    {"Symbol": "BP.", "Value": 7.0, "Type": 5}]}],
  "Tag": null
}`), &r), ShouldBeNil)
			So(r.HasDates, ShouldBeTrue)
			So(r.Dates, ShouldResemble, []any{"/Date(0+0000)/"})
			svs := r.DataTypeValues[0].SymbolValues
			So(svs[0].HasCurrency, ShouldBeTrue)
			So(svs[0].Currency, ShouldEqual, "E")
			So(svs[1].HasCurrency, ShouldBeTrue)
			So(svs[1].Currency, ShouldEqual, "")
			So(svs[2].HasCurrency, ShouldBeFalse)
			So(svs[2].Type, ShouldEqual, TypeDouble)
		})

		Convey("with null dates", func() {
			var r DataResponse
			So(json.Unmarshal([]byte(`{"Dates": null, "DataTypeValues": []}`), &r), ShouldBeNil)
			So(r.HasDates, ShouldBeTrue)
			So(len(r.Dates), ShouldEqual, 0)
		})

		Convey("without dates", func() {
			var r DataResponse
			So(json.Unmarshal([]byte(`{"Message": "Invalid token"}`), &r), ShouldBeNil)
			So(r.HasDates, ShouldBeFalse)
			So(r.Message, ShouldEqual, "Invalid token")
		})

		Convey("survives a JSON round trip", func() {
			var r DataResponse
			js := `{"Dates":null,"DataTypeValues":[{"DataType":"P","SymbolValues":[{"Symbol":"VOD","Currency":"E","Value":[1,2],"Type":10}]}],"SymbolNames":null,"DataTypeNames":null,"Tag":"t1"}`
			So(json.Unmarshal([]byte(js), &r), ShouldBeNil)
			out, err := json.Marshal(r)
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, js)
		})
	})
}
