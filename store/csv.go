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

package store

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/stockparfait/errors"

	"github.com/vishalbelsare/Datastream/frame"
	"github.com/vishalbelsare/Datastream/table"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName turns an arbitrary label into a safe CSV file name.
func FileName(label string) string {
	return unsafeChars.ReplaceAllString(label, "_") + ".csv"
}

// WriteCSV exports the frame as dir/FileName(label), creating the directory
// if needed. It returns the path of the file.
func WriteCSV(dir, label string, f *frame.Frame) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Annotate(err, "failed to create dir '%s'", dir)
	}
	p := filepath.Join(dir, FileName(label))
	out, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.Annotate(err, "failed to open '%s'", p)
	}
	defer out.Close()
	if err := f.Table().WriteCSV(out, table.Params{}); err != nil {
		return "", errors.Annotate(err, "failed to write '%s'", p)
	}
	return p, nil
}
