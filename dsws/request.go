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

package dsws

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockparfait/errors"
)

// MaxInstruments is the largest number of instruments accepted in a single
// request.
const MaxInstruments = 50

// Kind of a request.
type Kind int

// Values of Kind.
const (
	Snapshot   Kind = 0 // static values as of a single date
	TimeSeries Kind = 1
)

// Property is a key-value pair attached to instruments, datatypes and
// envelopes.
type Property struct {
	Key   string `json:"Key"`
	Value any    `json:"Value"`
}

// Property keys.
const (
	IsExpression = "IsExpression"
	IsList       = "IsList"
	ReturnName   = "ReturnName"
	SourceKey    = "Source"
	AppIDKey     = "__AppId"
)

// propertyCodes maps the ticker property codes to instrument properties.
var propertyCodes = map[string]string{
	"E": IsExpression,
	"L": IsList,
}

// nameCode requests the names of the instruments and datatypes.
const nameCode = "N"

// Instrument of a request: one or more comma-separated tickers, expressions or
// a list.
type Instrument struct {
	Value      string     `json:"Value"`
	Properties []Property `json:"Properties"`
}

// DataType of a request.
type DataType struct {
	Value      string     `json:"Value"`
	Properties []Property `json:"Properties"`
}

// DateRange of a request. Dates are either absolute (YYYY-MM-DD) or relative
// (e.g. "-1Y", "BDATE"). An empty Frequency means daily.
type DateRange struct {
	Start     string `json:"Start"`
	End       string `json:"End"`
	Frequency string `json:"Frequency"`
	Kind      Kind   `json:"Kind"`
}

// DataRequest is a single request for data.
type DataRequest struct {
	DataTypes  []DataType `json:"DataTypes"`
	Instrument Instrument `json:"Instrument"`
	Date       DateRange  `json:"Date"`
	Tag        string     `json:"Tag"`
}

// ReturnsNames checks whether the request asks for instrument and datatype
// names.
func (r *DataRequest) ReturnsNames() bool {
	for _, dt := range r.DataTypes {
		for _, p := range dt.Properties {
			if p.Key == ReturnName {
				return true
			}
		}
	}
	return false
}

// countInstruments counts comma-separated instruments, ignoring commas inside
// parentheses of expressions.
func countInstruments(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	n := 1
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				n++
			}
		}
	}
	return n
}

// ParseTickers parses the instrument string of the form
// "TICKER[,TICKER...][|CODE[,CODE...]]". Property codes are E (expression),
// L (list) and N (return names). The second value reports the N code.
func ParseTickers(tickers string) (Instrument, bool, error) {
	var inst Instrument
	returnName := false
	value := tickers
	if i := strings.LastIndex(tickers, "|"); i >= 0 {
		value = tickers[:i]
		for _, code := range strings.Split(tickers[i+1:], ",") {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code == nameCode {
				returnName = true
				continue
			}
			key, ok := propertyCodes[code]
			if !ok {
				return Instrument{}, false, errors.Reason(
					"unknown property code '%s' in '%s'", code, tickers)
			}
			inst.Properties = append(inst.Properties, Property{Key: key, Value: true})
		}
	}
	inst.Value = strings.TrimSpace(value)
	if inst.Value == "" {
		return Instrument{}, false, errors.Reason("no instrument in '%s'", tickers)
	}
	if n := countInstruments(inst.Value); n > MaxInstruments {
		return Instrument{}, false, errors.Reason(
			"too many instruments: %d > %d", n, MaxInstruments)
	}
	return inst, returnName, nil
}

// NewRequest creates a DataRequest for the tickers (see ParseTickers) and the
// datatype fields. The request is tagged with a fresh UUID.
func NewRequest(tickers string, fields []string, start, end, freq string, kind Kind) (*DataRequest, error) {
	inst, returnName, err := ParseTickers(tickers)
	if err != nil {
		return nil, errors.Annotate(err, "invalid tickers")
	}
	var props []Property
	if returnName {
		props = []Property{{Key: ReturnName, Value: true}}
	}
	req := &DataRequest{
		Instrument: inst,
		DataTypes:  []DataType{},
		Date:       DateRange{Start: start, End: end, Frequency: freq, Kind: kind},
		Tag:        uuid.NewString(),
	}
	for _, f := range fields {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		req.DataTypes = append(req.DataTypes, DataType{Value: f, Properties: props})
	}
	return req, nil
}

// DataEnvelope is the body of the GetData call.
type DataEnvelope struct {
	DataRequest *DataRequest `json:"DataRequest"`
	Properties  []Property   `json:"Properties"`
	TokenValue  string       `json:"TokenValue"`
}

// BundleEnvelope is the body of the GetDataBundle call.
type BundleEnvelope struct {
	DataRequests []*DataRequest `json:"DataRequests"`
	Properties   []Property     `json:"Properties"`
	TokenValue   string         `json:"TokenValue"`
}

// TokenRequest is the body of the GetToken call. Credentials travel in the
// body, never in the URL.
type TokenRequest struct {
	UserName   string     `json:"UserName"`
	Password   string     `json:"Password"`
	Properties []Property `json:"Properties"`
}
