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

import "fmt"

// ErrorKind is the category of a projection failure.
type ErrorKind string

const (
	// MalformedResponse means the response lacks the expected shape.
	MalformedResponse ErrorKind = "MalformedResponse"
	// ServiceError means the service returned a message instead of data.
	ServiceError ErrorKind = "ServiceError"
	// InvalidDateFormat means a wire date did not match the expected
	// pattern. Such failures are normally absorbed into missing values.
	InvalidDateFormat ErrorKind = "InvalidDateFormat"
	// ShapeConflict means two values of a response map to the same column.
	ShapeConflict ErrorKind = "ShapeConflict"
)

// MalformedMessage is the diagnostic for a response without dates.
const MalformedMessage = "please check instruments and parameters (time series or static)"

// Error is a response-level projection failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

var _ error = &Error{}

// Error implements the error interface. The text follows the "Error - ..."
// diagnostic format reported in place of a table.
func (e *Error) Error() string {
	if e.Kind == ServiceError {
		return fmt.Sprintf("Error - service: %s", e.Message)
	}
	return "Error - " + e.Message
}

// NewMalformedError creates a MalformedResponse error with the standard
// diagnostic.
func NewMalformedError() *Error {
	return &Error{Kind: MalformedResponse, Message: MalformedMessage}
}

// NewServiceError creates a ServiceError carrying the service's message.
func NewServiceError(message string) *Error {
	return &Error{Kind: ServiceError, Message: message}
}

// NewShapeConflictError reports a duplicate column.
func NewShapeConflictError(key FieldColumn) *Error {
	return &Error{
		Kind:    ShapeConflict,
		Message: fmt.Sprintf("duplicate column %s in response", key),
	}
}

// KindOf returns the kind of a projection error, or "" for any other error.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok && e != nil {
		return e.Kind
	}
	return ""
}
