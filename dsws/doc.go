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

// Package dsws is a client for the Datastream Web Service (DSWS) REST API.
//
// A client is created from a Config and injected into the context:
//
//	c, err := dsws.NewClient(ctx, cfg)
//	...
//	ctx = dsws.UseClient(ctx, c)
//	req, err := dsws.NewRequest("VOD,BARC", []string{"P", "MV"}, "-1Y", "", "M", dsws.TimeSeries)
//	...
//	f, err := dsws.GetData(ctx, req)
//
// Responses are projected into frames by package frame.
package dsws
