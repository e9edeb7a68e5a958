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
	"context"

	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"

	"github.com/vishalbelsare/Datastream/wire"
)

// Result of projecting one response of a bundle: either a Frame or an error.
type Result struct {
	Frame *Frame
	Err   error
}

// Results of a bundle, in the order of the responses.
type Results []Result

// Frames of the successful results, in order.
func (r Results) Frames() []*Frame {
	var res []*Frame
	for _, x := range r {
		if x.Err == nil {
			res = append(res, x.Frame)
		}
	}
	return res
}

// Errors of the failed results, in order.
func (r Results) Errors() []error {
	var res []error
	for _, x := range r {
		if x.Err != nil {
			res = append(res, x.Err)
		}
	}
	return res
}

type indexedResponse struct {
	i    int
	resp *wire.DataResponse
}

type indexedResult struct {
	i   int
	res Result
}

// ProjectBundle projects each response independently using up to the given
// number of workers. A failure of one response does not affect the others;
// its error is placed at the response's position.
func ProjectBundle(ctx context.Context, responses []wire.DataResponse, workers int) Results {
	if workers < 1 {
		workers = 1
	}
	jobs := make([]indexedResponse, len(responses))
	for i := range responses {
		jobs[i] = indexedResponse{i: i, resp: &responses[i]}
	}
	f := func(j indexedResponse) indexedResult {
		fr, err := Project(ctx, j.resp)
		if err != nil {
			logging.Warningf(ctx, "response %d [%s]: %s", j.i, j.resp.Tag, err.Error())
		}
		return indexedResult{i: j.i, res: Result{Frame: fr, Err: err}}
	}
	pm := iterator.ParallelMap(ctx, workers, iterator.FromSlice(jobs), f)
	res := make(Results, len(responses))
	return iterator.Reduce[indexedResult, Results](pm, res,
		func(r indexedResult, acc Results) Results {
			acc[r.i] = r.res
			return acc
		})
}
