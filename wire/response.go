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
	"bytes"
	"encoding/json"

	"github.com/stockparfait/errors"
)

// KeyValue is the generic key-value pair used throughout the DSWS protocol.
type KeyValue struct {
	Key   string `json:"Key"`
	Value any    `json:"Value"`
}

// isNull checks a raw JSON value for the null literal.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// SymbolValue is a single value of one datatype for one instrument.
type SymbolValue struct {
	Symbol      string
	Currency    string
	HasCurrency bool // Currency key was present, even if null
	Value       any
	Type        TypeCode
}

type symbolValueJSON struct {
	Symbol   string          `json:"Symbol"`
	Currency json.RawMessage `json:"Currency,omitempty"`
	Value    any             `json:"Value"`
	Type     TypeCode        `json:"Type"`
}

var _ json.Unmarshaler = &SymbolValue{}
var _ json.Marshaler = SymbolValue{}

// UnmarshalJSON implements json.Unmarshaler. It records whether the optional
// Currency key is present.
func (s *SymbolValue) UnmarshalJSON(data []byte) error {
	var raw symbolValueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Annotate(err, "failed to parse SymbolValue")
	}
	*s = SymbolValue{Symbol: raw.Symbol, Value: raw.Value, Type: raw.Type}
	if len(raw.Currency) == 0 {
		return nil
	}
	s.HasCurrency = true
	if isNull(raw.Currency) {
		return nil
	}
	if err := json.Unmarshal(raw.Currency, &s.Currency); err != nil {
		return errors.Annotate(err, "Currency of %s must be a string", s.Symbol)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s SymbolValue) MarshalJSON() ([]byte, error) {
	raw := symbolValueJSON{Symbol: s.Symbol, Value: s.Value, Type: s.Type}
	if s.HasCurrency {
		c, err := json.Marshal(s.Currency)
		if err != nil {
			return nil, err
		}
		raw.Currency = c
	}
	return json.Marshal(&raw)
}

// DataTypeValue holds the values of one datatype for all the instruments.
type DataTypeValue struct {
	DataType     string        `json:"DataType"`
	SymbolValues []SymbolValue `json:"SymbolValues"`
}

// DataResponse is the response to a single data request.
type DataResponse struct {
	Dates          []any // raw wire dates
	HasDates       bool  // Dates key was present, even if null
	DataTypeValues []DataTypeValue
	SymbolNames    []KeyValue
	DataTypeNames  []KeyValue
	Tag            string
	Message        string // set by the service instead of data on errors
}

type dataResponseJSON struct {
	Dates          json.RawMessage `json:"Dates,omitempty"`
	DataTypeValues []DataTypeValue `json:"DataTypeValues"`
	SymbolNames    []KeyValue      `json:"SymbolNames"`
	DataTypeNames  []KeyValue      `json:"DataTypeNames"`
	Tag            *string         `json:"Tag"`
	Message        string          `json:"Message,omitempty"`
}

var _ json.Unmarshaler = &DataResponse{}
var _ json.Marshaler = DataResponse{}

// UnmarshalJSON implements json.Unmarshaler. It distinguishes a missing Dates
// key from a null one.
func (r *DataResponse) UnmarshalJSON(data []byte) error {
	var raw dataResponseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Annotate(err, "failed to parse DataResponse")
	}
	*r = DataResponse{
		DataTypeValues: raw.DataTypeValues,
		SymbolNames:    raw.SymbolNames,
		DataTypeNames:  raw.DataTypeNames,
		Message:        raw.Message,
	}
	if raw.Tag != nil {
		r.Tag = *raw.Tag
	}
	if len(raw.Dates) == 0 {
		return nil
	}
	r.HasDates = true
	if isNull(raw.Dates) {
		return nil
	}
	if err := json.Unmarshal(raw.Dates, &r.Dates); err != nil {
		return errors.Annotate(err, "Dates must be an array")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r DataResponse) MarshalJSON() ([]byte, error) {
	raw := dataResponseJSON{
		DataTypeValues: r.DataTypeValues,
		SymbolNames:    r.SymbolNames,
		DataTypeNames:  r.DataTypeNames,
		Message:        r.Message,
	}
	if r.Tag != "" {
		raw.Tag = &r.Tag
	}
	if r.HasDates {
		d, err := json.Marshal(r.Dates)
		if err != nil {
			return nil, err
		}
		raw.Dates = d
	}
	return json.Marshal(&raw)
}

// DataEnvelope is the top-level response of the GetData call.
type DataEnvelope struct {
	DataResponse *DataResponse `json:"DataResponse"`
	Message      string        `json:"Message,omitempty"`
}

// BundleEnvelope is the top-level response of the GetDataBundle call.
type BundleEnvelope struct {
	DataResponses []DataResponse `json:"DataResponses"`
	Message       string         `json:"Message,omitempty"`
}

// TokenResponse is the response of the GetToken call.
type TokenResponse struct {
	TokenValue  string `json:"TokenValue"`
	TokenExpiry string `json:"TokenExpiry"` // wire date
	Message     string `json:"Message,omitempty"`
}
