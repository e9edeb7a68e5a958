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

// Package frame projects decoded DSWS responses into tables.
//
// A single response becomes exactly one Frame of one of two shapes:
//
//   - long form: one row per instrument x datatype, with the columns
//     Instrument, Datatype, Value and, if any value carries a currency,
//     Currency;
//   - wide form: one column per instrument x datatype (x currency), rows
//     aligned to the response's date axis.
//
// The shape is decided only after every value of the response has been
// classified: if at least one value is a multi-valued series, the whole frame
// is wide. Single values are then broadcast to all the rows.
//
// A bundle of responses is projected item by item. The result for each item is
// either a Frame or an error, in the same order as the requests.
package frame
