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
	"context"
	"fmt"

	"github.com/stockparfait/logging"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/vishalbelsare/Datastream/wire"
)

// Names merges the instrument and datatype names of the response, keyed by
// the instrument or datatype code.
func Names(resp *wire.DataResponse) map[string]string {
	names := make(map[string]string)
	add := func(kvs []wire.KeyValue) {
		for _, kv := range kvs {
			if kv.Value == nil {
				names[kv.Key] = ""
				continue
			}
			names[kv.Key] = fmt.Sprint(kv.Value)
		}
	}
	add(resp.SymbolNames)
	add(resp.DataTypeNames)
	return names
}

func logNames(ctx context.Context, resp *wire.DataResponse) {
	names := Names(resp)
	keys := maps.Keys(names)
	slices.Sort(keys)
	for _, k := range keys {
		logging.Infof(ctx, "%s: %s", k, names[k])
	}
}
