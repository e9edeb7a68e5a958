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

// Package wire decodes the values found in Datastream Web Service (DSWS) JSON
// responses.
//
// Every instrument/datatype pair in a response carries a value cell tagged
// with an integer type code (see TypeCode). Depending on the code, the value is
// a scalar, an array, or a date encoded as a string of the form
//
//   /Date(<milliseconds><sign><4-char offset>)/
//
// The decoder turns each cell into a list of typed Cells and reports whether
// the cell came from an array. It never fails on bad data: an unparsable date
// becomes a Missing cell. Deciding the shape of the resulting table is left to
// the frame package.
package wire
