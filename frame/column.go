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
	"fmt"
	"strings"
)

// NoCurrency is the currency label used when the service reports a currency
// key with a null or empty value.
const NoCurrency = "NA"

// FieldColumn identifies one decoded series of a response. The currency is
// optional; a key with HasCurrency == false is a two-part key.
type FieldColumn struct {
	Instrument  string
	Datatype    string
	Currency    string
	HasCurrency bool
}

// NewFieldColumn creates a key without a currency.
func NewFieldColumn(instrument, datatype string) FieldColumn {
	return FieldColumn{Instrument: instrument, Datatype: datatype}
}

// WithCurrency returns a copy of the key tagged with the currency. An empty
// currency becomes NoCurrency.
func (k FieldColumn) WithCurrency(currency string) FieldColumn {
	if currency == "" {
		currency = NoCurrency
	}
	k.Currency = currency
	k.HasCurrency = true
	return k
}

// Labels of the key: instrument, datatype and, when present, currency.
func (k FieldColumn) Labels() []string {
	if k.HasCurrency {
		return []string{k.Instrument, k.Datatype, k.Currency}
	}
	return []string{k.Instrument, k.Datatype}
}

// String is the composite column label, e.g. "(VOD, P)" or "(VOD, P, E)".
func (k FieldColumn) String() string {
	return fmt.Sprintf("(%s)", strings.Join(k.Labels(), ", "))
}
