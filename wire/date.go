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
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stockparfait/errors"
)

// Date records a calendar date as year, month and day.
type Date struct {
	YearVal  uint16
	MonthVal uint8
	DayVal   uint8
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = &Date{}

// NewDate is the constructor for Date.
func NewDate(year uint16, month, day uint8) Date {
	return Date{year, month, day}
}

// NewDateFromTime creates a Date instance from a time.Time value in UTC.
func NewDateFromTime(t time.Time) Date {
	t = t.UTC()
	return Date{
		YearVal:  uint16(t.Year()),
		MonthVal: uint8(t.Month()),
		DayVal:   uint8(t.Day()),
	}
}

// NewDateFromString parses a "YYYY-MM-DD" date.
func NewDateFromString(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, errors.Annotate(err, "failed to parse a Date string: '%s'", s)
	}
	return NewDateFromTime(t), nil
}

func (d Date) Year() uint16 { return d.YearVal }
func (d Date) Month() uint8 { return d.MonthVal }
func (d Date) Day() uint8   { return d.DayVal }

// String representation of the value.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.Month(), d.Day())
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts both "YYYY-MM-DD" and
// the wire date encoding.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Date JSON must be a string")
	}
	var date Date
	var err error
	if IsDateCandidate(s) {
		date, err = ParseDate(s)
	} else {
		date, err = NewDateFromString(s)
	}
	if err != nil {
		return errors.Annotate(err, "failed to parse Date string")
	}
	*d = date
	return nil
}

// ToTime converts Date to Time in UTC.
func (d Date) ToTime() time.Time {
	return time.Date(int(d.Year()), time.Month(d.Month()), int(d.Day()), 0, 0, 0, 0, time.UTC)
}

// Before compares two Date objects for strict inequality (self < d2).
func (d Date) Before(d2 Date) bool {
	if d.YearVal != d2.YearVal {
		return d.YearVal < d2.YearVal
	}
	if d.MonthVal != d2.MonthVal {
		return d.MonthVal < d2.MonthVal
	}
	return d.DayVal < d2.DayVal
}

// After compares two Date objects for strict inequality, self > d2.
func (d Date) After(d2 Date) bool {
	return d2.Before(d)
}

// IsZero checks whether the date has a zero value.
func (d Date) IsZero() bool {
	return d.Year() == 0 && d.Month() == 0 && d.Day() == 0
}

// datePrefix marks a string as a candidate for wire date parsing.
const datePrefix = "/Date("

// datePattern matches the wire date encoding. The service places the offset
// inside the parentheses, but the variant with the offset after the closing
// parenthesis is accepted as well. Only the leading part of the string has to
// match.
var datePattern = regexp.MustCompile(
	`^/Date\((-?\d*)(?:([+-])(.{4})\)/|\)([+-])(.{4})/)`)

// InvalidDateFormat is the error message for a string which is not a wire
// date.
const InvalidDateFormat = "invalid wire date format"

// IsDateCandidate checks whether v is a string containing the wire date
// prefix. Only such values are subject to date parsing.
func IsDateCandidate(v any) bool {
	s, ok := v.(string)
	return ok && strings.Contains(s, datePrefix)
}

// matchDate splits a wire date into its millisecond body and the signed
// offset.
func matchDate(s string) (ms int64, offset string, err error) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, "", errors.Reason("%s: '%s'", InvalidDateFormat, s)
	}
	offset = m[2] + m[3]
	if m[2] == "" {
		offset = m[4] + m[5]
	}
	ms, err = strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, "", errors.Annotate(err, "%s: '%s'", InvalidDateFormat, s)
	}
	return ms, offset, nil
}

// ParseTime converts a wire date into a UTC timestamp. The offset is not
// applied.
//
// TODO: apply the offset once it is confirmed that the service does not
// already report UTC milliseconds; the calendar date may shift by a day.
func ParseTime(s string) (time.Time, error) {
	ms, _, err := matchDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// ParseDate converts a wire date into the UTC calendar date.
func ParseDate(s string) (Date, error) {
	t, err := ParseTime(s)
	if err != nil {
		return Date{}, err
	}
	return NewDateFromTime(t), nil
}

// ParseDateOffset returns the raw 4-character offset of a wire date together
// with its sign, e.g. "+0100".
func ParseDateOffset(s string) (string, error) {
	_, offset, err := matchDate(s)
	return offset, err
}

// DecodeDate converts v into a Date cell. Anything which is not a valid wire
// date becomes a Missing cell.
func DecodeDate(v any) Cell {
	s, ok := v.(string)
	if !ok {
		return Cell{}
	}
	d, err := ParseDate(s)
	if err != nil {
		return Cell{}
	}
	return DateValue(d)
}
