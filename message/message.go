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

// Package message initializes configuration structs from generic JSON values,
// checking required fields, filling in defaults and rejecting unknown fields.
package message

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/slices"
)

// Message is a JSON object with a known schema, typically implemented by a
// struct pointer:
//
//	type Request struct {
//	  Tickers   string   `json:"tickers" required:"true"`
//	  Fields    []string `json:"fields"`
//	  Frequency string   `json:"freq" default:"D" choices:"D,W,M,Q,Y"`
//	  Ignored   int      `json:"-"`
//	  Next      *Request // recursively parsed Message; json key is "Next"
//	}
//
//	func (r *Request) InitMessage(js any) error {
//	  return message.Init(r, js)
//	}
type Message interface {
	// InitMessage populates the message from a generic JSON value as decoded
	// by encoding/json into an interface{}.
	InitMessage(js any) error
}

var rMessage = reflect.TypeOf((*Message)(nil)).Elem()

// FromReader decodes JSON from r and initializes m with it.
func FromReader(m Message, r io.Reader) error {
	var js any
	if err := json.NewDecoder(r).Decode(&js); err != nil {
		return errors.Annotate(err, "failed to decode JSON")
	}
	return m.InitMessage(js)
}

// FromFile reads a JSON file and initializes m with its content.
func FromFile(m Message, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Annotate(err, "failed to open '%s'", path)
	}
	defer f.Close()
	if err := FromReader(m, f); err != nil {
		return errors.Annotate(err, "failed to read '%s'", path)
	}
	return nil
}

func initMessage(jv any, t reflect.Type) (reflect.Value, error) {
	if t.Kind() != reflect.Pointer {
		return reflect.Value{}, errors.Reason(
			"type %s implements Message but is not a pointer", t)
	}
	ptr := reflect.New(t.Elem())
	if err := ptr.Interface().(Message).InitMessage(jv); err != nil {
		return reflect.Value{}, errors.Annotate(err, "%s.InitMessage() failed", t.Elem().Name())
	}
	return ptr, nil
}

// convert turns a generic JSON value into a value of type t. A nil jv yields
// the zero value, except for Message structs which get their defaults.
func convert(jv any, t reflect.Type) (reflect.Value, error) {
	if t.Implements(rMessage) {
		if jv == nil {
			return reflect.Zero(t), nil
		}
		return initMessage(jv, t)
	}
	if pt := reflect.PointerTo(t); pt.Implements(rMessage) {
		if jv == nil {
			jv = map[string]any{}
		}
		ptr, err := initMessage(jv, pt)
		if err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}
	if jv == nil {
		return reflect.Zero(t), nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		v, err := convert(jv, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	case reflect.Bool:
		b, ok := jv.(bool)
		if !ok {
			return reflect.Value{}, errors.Reason("not a bool: %v", jv)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int32, reflect.Int64:
		x, ok := jv.(float64)
		if !ok {
			return reflect.Value{}, errors.Reason("not a number: %v", jv)
		}
		if x != float64(int64(x)) {
			return reflect.Value{}, errors.Reason("not an integer: %v", jv)
		}
		return reflect.ValueOf(int64(x)).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		x, ok := jv.(float64)
		if !ok {
			return reflect.Value{}, errors.Reason("not a number: %v", jv)
		}
		return reflect.ValueOf(x).Convert(t), nil
	case reflect.String:
		s, ok := jv.(string)
		if !ok {
			return reflect.Value{}, errors.Reason("not a string: %v", jv)
		}
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return reflect.Value{}, errors.Reason("map[%s] is not supported", t.Key())
		}
		m, ok := jv.(map[string]any)
		if !ok {
			return reflect.Value{}, errors.Reason("not an object: %v", jv)
		}
		res := reflect.MakeMapWithSize(t, len(m))
		for k, x := range m {
			v, err := convert(x, t.Elem())
			if err != nil {
				return reflect.Value{}, errors.Annotate(err, "key '%s'", k)
			}
			res.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), v)
		}
		return res, nil
	case reflect.Slice:
		l, ok := jv.([]any)
		if !ok {
			return reflect.Value{}, errors.Reason("not a list: %v", jv)
		}
		res := reflect.MakeSlice(t, len(l), len(l))
		for i, x := range l {
			v, err := convert(x, t.Elem())
			if err != nil {
				return reflect.Value{}, errors.Annotate(err, "element %d", i)
			}
			res.Index(i).Set(v)
		}
		return res, nil
	}
	return reflect.Value{}, errors.Reason("unsupported type: %s", t)
}

// parseDefault converts the value of a `default` tag to type t.
func parseDefault(s string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Pointer:
		v, err := parseDefault(s, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, errors.Annotate(err, "invalid bool value: %s", s)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int32, reflect.Int64:
		x, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return reflect.Value{}, errors.Annotate(err, "invalid int value: %s", s)
		}
		return reflect.ValueOf(x).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return reflect.Value{}, errors.Annotate(err, "invalid float value: %s", s)
		}
		return reflect.ValueOf(x).Convert(t), nil
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	}
	return reflect.Value{}, errors.Reason("type %s does not support defaults", t)
}

// field is the schema of a single struct field.
type field struct {
	reflect.StructField
	key string // JSON key
}

// fields returns the exported fields of the struct type that are not
// excluded with `json:"-"`.
func fields(t reflect.Type) []field {
	var res []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if r, _ := utf8.DecodeRuneInString(f.Name); !unicode.IsUpper(r) {
			continue
		}
		key := f.Name
		if tag := strings.Split(f.Tag.Get("json"), ",")[0]; tag == "-" {
			continue
		} else if tag != "" {
			key = tag
		}
		res = append(res, field{StructField: f, key: key})
	}
	return res
}

// set assigns v to the field after checking its `choices` tag, if any.
func (f field) set(fv, v reflect.Value) error {
	if choices, ok := f.Tag.Lookup("choices"); ok {
		s := ""
		if iv := reflect.Indirect(v); iv.IsValid() {
			s = fmt.Sprint(iv.Interface())
		}
		if !slices.Contains(strings.Split(choices, ","), s) {
			return errors.Reason(
				"value for %s is not in its choice list: '%s'", f.Name, s)
		}
	}
	fv.Set(v)
	return nil
}

// Init populates the struct pointed to by m from a JSON object. It is meant to
// implement most of the InitMessage methods.
//
// Recognized struct tags:
// `json:"key" required:"true" default:"value" choices:"one,two,three"`
//
// A missing json tag is equivalent to `json:"FieldName"`; options like
// ",omitempty" are ignored, so the struct can also be marshaled with
// encoding/json. Fields absent from the JSON get their default value, or the
// zero value, and both are checked against the choices. Unknown keys are an
// error.
func Init(m Message, js any) error {
	rt := reflect.TypeOf(m)
	if !(rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.Struct) {
		return errors.Reason("expected a struct pointer, got %s", rt)
	}
	if js == nil {
		return errors.Reason("JSON object is nil")
	}
	obj, ok := js.(map[string]any)
	if !ok {
		return errors.Reason("JSON value is not an object: %v", js)
	}
	rt = rt.Elem()
	rv := reflect.ValueOf(m).Elem()
	known := make(map[string]struct{})
	var missing []string
	for _, f := range fields(rt) {
		known[f.key] = struct{}{}
		fv := rv.FieldByIndex(f.Index)
		if jv, ok := obj[f.key]; ok {
			v, err := convert(jv, f.Type)
			if err != nil {
				return errors.Annotate(err, "invalid value for %s", f.key)
			}
			if err := f.set(fv, v); err != nil {
				return err
			}
			continue
		}
		if f.Tag.Get("required") == "true" {
			missing = append(missing, f.key)
			continue
		}
		if def, ok := f.Tag.Lookup("default"); ok {
			v, err := parseDefault(def, f.Type)
			if err != nil {
				return errors.Annotate(err, "invalid default for %s", f.Name)
			}
			if err := f.set(fv, v); err != nil {
				return errors.Annotate(err, "invalid default for %s", f.Name)
			}
			continue
		}
		v, err := convert(nil, f.Type)
		if err != nil {
			return errors.Annotate(err, "failed to create zero value for %s", f.Name)
		}
		if err := f.set(fv, v); err != nil {
			return errors.Annotate(err, "invalid zero value for %s", f.Name)
		}
	}
	if len(missing) > 0 {
		return errors.Reason("missing required fields: %s", strings.Join(missing, ", "))
	}
	var unknown []string
	for k := range obj {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return errors.Reason("unsupported fields for %s: %s", rt.Name(), strings.Join(unknown, ", "))
	}
	return nil
}
