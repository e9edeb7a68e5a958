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

import "fmt"

// TypeCode is the value type tag of a symbol value in a DSWS response.
type TypeCode int

// Values of TypeCode as defined by the service.
const (
	TypeError                 TypeCode = 0
	TypeEmpty                 TypeCode = 1
	TypeBool                  TypeCode = 2
	TypeInt                   TypeCode = 3
	TypeDateTime              TypeCode = 4
	TypeDouble                TypeCode = 5
	TypeString                TypeCode = 6
	TypeBoolArray             TypeCode = 7
	TypeIntArray              TypeCode = 8
	TypeDateTimeArray         TypeCode = 9
	TypeDoubleArray           TypeCode = 10
	TypeStringArray           TypeCode = 11
	TypeObjectArray           TypeCode = 12
	TypeNullableBoolArray     TypeCode = 13
	TypeNullableIntArray      TypeCode = 14
	TypeNullableDateTimeArray TypeCode = 15
	TypeNullableDoubleArray   TypeCode = 16
)

var typeNames = map[TypeCode]string{
	TypeError:                 "Error",
	TypeEmpty:                 "Empty",
	TypeBool:                  "Bool",
	TypeInt:                   "Int",
	TypeDateTime:              "DateTime",
	TypeDouble:                "Double",
	TypeString:                "String",
	TypeBoolArray:             "BoolArray",
	TypeIntArray:              "IntArray",
	TypeDateTimeArray:         "DateTimeArray",
	TypeDoubleArray:           "DoubleArray",
	TypeStringArray:           "StringArray",
	TypeObjectArray:           "ObjectArray",
	TypeNullableBoolArray:     "NullableBoolArray",
	TypeNullableIntArray:      "NullableIntArray",
	TypeNullableDateTimeArray: "NullableDateTimeArray",
	TypeNullableDoubleArray:   "NullableDoubleArray",
}

func (t TypeCode) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", int(t))
}

// Family groups type codes by their decoding rule.
type Family uint8

// Values of Family.
const (
	ScalarFamily    Family = iota // passed through unchanged
	DateFamily                    // a single wire date
	ErrorFamily                   // error marker, passed through verbatim
	ArrayFamily                   // a sequence, dates decoded element-wise
	DateArrayFamily               // a sequence of wire dates
)

// Family of the type code. Unknown codes are treated as scalars.
func (t TypeCode) Family() Family {
	switch t {
	case TypeError:
		return ErrorFamily
	case TypeDateTime:
		return DateFamily
	case TypeDateTimeArray:
		return DateArrayFamily
	case TypeBoolArray, TypeIntArray, TypeDoubleArray, TypeStringArray,
		TypeObjectArray, TypeNullableBoolArray, TypeNullableIntArray,
		TypeNullableDateTimeArray, TypeNullableDoubleArray:
		return ArrayFamily
	}
	return ScalarFamily
}

// IsArray checks whether the payload of this type is a sequence.
func (t TypeCode) IsArray() bool {
	f := t.Family()
	return f == ArrayFamily || f == DateArrayFamily
}

// IsKnown checks whether the code is one of the documented type codes.
func (t TypeCode) IsKnown() bool {
	_, ok := typeNames[t]
	return ok
}

// Decoded is the normalized content of a single symbol value.
type Decoded struct {
	Values []Cell
	Array  bool // whether the value came from an array-valued type
}

// Multi checks whether the decoded value is a multi-valued series. The
// cardinality is judged on the (possibly padded) length, not on the number of
// non-missing values.
func (d Decoded) Multi() bool {
	return d.Array && len(d.Values) > 1
}

// Pad extends an array value on its tail with missing values up to n
// elements. Scalar values and arrays of length >= n are not modified.
func (d *Decoded) Pad(n int) {
	if !d.Array {
		return
	}
	for len(d.Values) < n {
		d.Values = append(d.Values, Missing())
	}
}

// First value, or a missing value for an empty array.
func (d Decoded) First() Cell {
	if len(d.Values) == 0 {
		return Missing()
	}
	return d.Values[0]
}

// asSlice returns the elements of an array payload. A non-array payload is
// treated as a single element.
func asSlice(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case nil:
		return nil
	}
	return []any{v}
}

// Decode classifies and normalizes a single value according to its type code:
//
//   - scalars (1, 2, 3, 5, 6 and unknown codes) are passed through;
//   - a date (4) is date-parsed when it looks like a wire date;
//   - an error marker (0) is passed through verbatim and never date-parsed;
//     a sequence payload stays a single List cell;
//   - arrays (7, 8, 10-16) have each element date-parsed when it looks like a
//     wire date;
//   - an array of dates (9) has every element date-parsed.
//
// Unparsable dates become missing values.
func Decode(v any, t TypeCode) Decoded {
	switch t.Family() {
	case ErrorFamily:
		return Decoded{Values: []Cell{NewCell(v)}}
	case DateFamily:
		if IsDateCandidate(v) {
			return Decoded{Values: []Cell{DecodeDate(v)}}
		}
		return Decoded{Values: []Cell{NewCell(v)}}
	case ArrayFamily:
		elems := asSlice(v)
		values := make([]Cell, len(elems))
		for i, e := range elems {
			if IsDateCandidate(e) {
				values[i] = DecodeDate(e)
			} else {
				values[i] = NewCell(e)
			}
		}
		return Decoded{Values: values, Array: true}
	case DateArrayFamily:
		elems := asSlice(v)
		values := make([]Cell, len(elems))
		for i, e := range elems {
			values[i] = DecodeDate(e)
		}
		return Decoded{Values: values, Array: true}
	}
	return Decoded{Values: []Cell{NewCell(v)}}
}

// DecodeSymbolValue is a shortcut for Decode(sv.Value, sv.Type).
func DecodeSymbolValue(sv SymbolValue) Decoded {
	return Decode(sv.Value, sv.Type)
}

// DateAxis is the decoded date sequence shared by all the fields of one
// response.
type DateAxis []Cell

// DecodeDates decodes the raw dates of a response. Unparsable dates become
// missing values.
func DecodeDates(dates []any) DateAxis {
	axis := make(DateAxis, len(dates))
	for i, d := range dates {
		axis[i] = DecodeDate(d)
	}
	return axis
}
