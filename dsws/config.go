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
	"github.com/stockparfait/errors"

	"github.com/vishalbelsare/Datastream/message"
)

// RequestConfig is a single request in a JSON request file.
type RequestConfig struct {
	Tickers   string   `json:"tickers" required:"true"` // see ParseTickers
	Fields    []string `json:"fields"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Frequency string   `json:"freq" choices:",D,W,M,Q,Y"` // empty means daily
	Kind      string   `json:"kind" default:"timeseries" choices:"timeseries,snapshot"`
}

var _ message.Message = &RequestConfig{}

// InitMessage implements message.Message.
func (r *RequestConfig) InitMessage(js any) error {
	return message.Init(r, js)
}

// Request creates a new DataRequest from the config.
func (r *RequestConfig) Request() (*DataRequest, error) {
	kind := TimeSeries
	if r.Kind == "snapshot" {
		kind = Snapshot
	}
	return NewRequest(r.Tickers, r.Fields, r.Start, r.End, r.Frequency, kind)
}

// RequestsConfig is the content of a JSON request file.
type RequestsConfig struct {
	Requests []RequestConfig `json:"requests" required:"true"`
	Bundle   bool            `json:"bundle" default:"true"` // use a single GetDataBundle call
}

var _ message.Message = &RequestsConfig{}

// InitMessage implements message.Message.
func (c *RequestsConfig) InitMessage(js any) error {
	if err := message.Init(c, js); err != nil {
		return err
	}
	if len(c.Requests) == 0 {
		return errors.Reason("at least one request is required")
	}
	return nil
}

// DataRequests creates the requests of the config, in order.
func (c *RequestsConfig) DataRequests() ([]*DataRequest, error) {
	reqs := make([]*DataRequest, len(c.Requests))
	for i := range c.Requests {
		r, err := c.Requests[i].Request()
		if err != nil {
			return nil, errors.Annotate(err, "request %d", i)
		}
		reqs[i] = r
	}
	return reqs, nil
}
