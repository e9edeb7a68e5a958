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

// Package store caches projected results on disk and exports frames as CSV.
package store

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/stockparfait/errors"

	"github.com/vishalbelsare/Datastream/dsws"
	"github.com/vishalbelsare/Datastream/frame"
)

func writeGob(fileName string, v any) error {
	f, err := os.OpenFile(fileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Annotate(err, "failed to open file for writing: '%s'", fileName)
	}
	defer f.Close()
	if err = gob.NewEncoder(f).Encode(v); err != nil {
		return errors.Annotate(err, "failed to write to '%s'", fileName)
	}
	return nil
}

func readGob(fileName string, v any) error {
	f, err := os.Open(fileName)
	if err != nil {
		return errors.Annotate(err, "failed to open file for reading: '%s'", fileName)
	}
	defer f.Close()
	if err = gob.NewDecoder(f).Decode(v); err != nil {
		return errors.Annotate(err, "failed to read from '%s'", fileName)
	}
	return nil
}

// Fingerprint identifies a list of requests by content. Request tags are
// ignored, so the same query issued twice has the same fingerprint.
func Fingerprint(reqs []*dsws.DataRequest) (string, error) {
	untagged := make([]dsws.DataRequest, len(reqs))
	for i, r := range reqs {
		untagged[i] = *r
		untagged[i].Tag = ""
	}
	js, err := json.Marshal(untagged)
	if err != nil {
		return "", errors.Annotate(err, "failed to marshal requests")
	}
	sum := sha256.Sum256(js)
	return hex.EncodeToString(sum[:]), nil
}

// entry is the stored form of a frame.Result.
type entry struct {
	Frame   *frame.Frame
	Failed  bool
	Kind    frame.ErrorKind
	Message string
}

func toEntry(r frame.Result) entry {
	if r.Err == nil {
		return entry{Frame: r.Frame}
	}
	e := entry{Failed: true, Message: r.Err.Error()}
	if fe, ok := r.Err.(*frame.Error); ok {
		e.Kind = fe.Kind
		e.Message = fe.Message
	}
	return e
}

func (e entry) result() frame.Result {
	if !e.Failed {
		return frame.Result{Frame: e.Frame}
	}
	if e.Kind != "" {
		return frame.Result{Err: &frame.Error{Kind: e.Kind, Message: e.Message}}
	}
	return frame.Result{Err: errors.Reason("%s", e.Message)}
}

// Cache of bundle results in a directory, one gob file per fingerprint.
type Cache struct {
	Dir string
}

// NewCache creates a Cache in the directory.
func NewCache(dir string) *Cache {
	return &Cache{Dir: dir}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.Dir, key+".gob")
}

// Put stores the results under the key, creating the directory if needed.
func (c *Cache) Put(key string, results frame.Results) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return errors.Annotate(err, "failed to create cache dir '%s'", c.Dir)
	}
	entries := make([]entry, len(results))
	for i, r := range results {
		entries[i] = toEntry(r)
	}
	return writeGob(c.path(key), entries)
}

// Get loads the results stored under the key. The second value is false if
// nothing is stored.
func (c *Cache) Get(key string) (frame.Results, bool, error) {
	p := c.path(key)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return nil, false, nil
	}
	var entries []entry
	if err := readGob(p, &entries); err != nil {
		return nil, false, err
	}
	results := make(frame.Results, len(entries))
	for i, e := range entries {
		results[i] = e.result()
	}
	return results, true, nil
}
