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

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sfetch "github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	"github.com/vishalbelsare/Datastream/dsws"
	"github.com/vishalbelsare/Datastream/frame"
	"github.com/vishalbelsare/Datastream/wire"

	. "github.com/smartystreets/goconvey/convey"
)

const testBundle = `{"DataResponses": [
  {"Dates": ["/Date(0)+0000/", "/Date(86400000)+0000/"],
   "DataTypeValues": [{"DataType": "P", "SymbolValues": [
     {"Symbol": "VOD", "Value": [1.5, 2.5], "Type": 10}]}]},
  {"Message": "Invalid instrument"}]}`

const testRequests = `{"requests": [
  {"tickers": "VOD", "fields": ["P"], "start": "1970-01-01", "end": "1970-01-02", "freq": "D"},
  {"tickers": "NOSUCH", "fields": ["P"], "kind": "snapshot"}
]}`

func TestMain(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_dsws_app")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	dataCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc(dsws.ServicePath+"GetToken", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"TokenValue": "tok", "TokenExpiry": "/Date(4102444800000+0000)/"}`)
	})
	mux.HandleFunc(dsws.ServicePath+"GetDataBundle", func(w http.ResponseWriter, r *http.Request) {
		dataCalls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, testBundle)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	dsws.URL = server.URL

	credsFile := filepath.Join(tmpdir, "config.toml")
	confFile := filepath.Join(tmpdir, "requests.json")

	Convey("parseFlags", t, func() {
		flags, err := parseFlags([]string{
			"-creds", "path/to/creds", "-conf", "reqs.json", "-cache", "cache",
			"-log-level", "warning", "-csv", "-summary", "-log-profits",
			"-out", "out", "-workers", "3"})
		So(err, ShouldBeNil)
		So(flags.Creds, ShouldEqual, "path/to/creds")
		So(flags.Config, ShouldEqual, "reqs.json")
		So(flags.CacheDir, ShouldEqual, "cache")
		So(flags.LogLevel, ShouldEqual, logging.Warning)
		So(flags.CSV, ShouldBeTrue)
		So(flags.Summary, ShouldBeTrue)
		So(flags.LogProfits, ShouldBeTrue)
		So(flags.OutDir, ShouldEqual, "out")
		So(flags.Workers, ShouldEqual, 3)

		_, err = parseFlags([]string{})
		So(err, ShouldNotBeNil)

		_, err = parseFlags([]string{"-conf", "reqs.json", "-log-profits"})
		So(err, ShouldNotBeNil)
	})

	Convey("parseCreds", t, func() {
		Convey("missing file prints a sample", func() {
			_, err := parseCreds(filepath.Join(tmpdir, "missing.toml"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "username = ")
		})

		Convey("reads the file", func() {
			So(testutil.WriteFile(credsFile, `
username = "user"
password = "secret"
source = "PROD"
rate = 2.5
`), ShouldBeNil)
			c, err := parseCreds(credsFile)
			So(err, ShouldBeNil)
			So(c, ShouldResemble, &dsws.Config{
				Username: "user",
				Password: "secret",
				Source:   "PROD",
				Rate:     2.5,
			})
		})
	})

	Convey("printResults works", t, func() {
		ctx := context.Background()
		key := frame.NewFieldColumn("VOD", "P")
		unindexed := &frame.Frame{
			Shape:   frame.Wide,
			Keys:    []frame.FieldColumn{key},
			Columns: []string{key.String()},
			Rows:    [][]wire.Cell{{wire.Number(1)}, {wire.Number(2)}},
		}
		req, err := dsws.NewRequest("VOD", []string{"P"}, "", "", "", dsws.Snapshot)
		So(err, ShouldBeNil)

		Convey("more results than requests", func() {
			flags, err := parseFlags([]string{"-conf", confFile, "-csv"})
			So(err, ShouldBeNil)
			res := frame.Results{
				{Frame: unindexed},
				{Err: frame.NewMalformedError()},
			}
			var buf bytes.Buffer
			So(printResults(ctx, flags, []*dsws.DataRequest{req}, res, &buf), ShouldBeNil)
			So(buf.String(), ShouldEqual, `# 1 VOD
"(VOD, P)"
1
2

# 2
Error - please check instruments and parameters (time series or static)

`)
		})

		Convey("a failed summary does not stop the others", func() {
			flags, err := parseFlags([]string{"-conf", confFile, "-csv", "-summary", "-log-profits"})
			So(err, ShouldBeNil)
			res := frame.Results{{Frame: unindexed}, {Frame: unindexed}}
			var buf bytes.Buffer
			So(printResults(ctx, flags, []*dsws.DataRequest{req, req}, res, &buf), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "# 1 VOD\n")
			So(buf.String(), ShouldContainSubstring, "# 2 VOD\n")
			So(strings.Count(buf.String(), "not indexed by dates"), ShouldEqual, 2)
		})
	})

	Convey("run works", t, func() {
		ctx := sfetch.UseClient(context.Background(), server.Client())
		So(testutil.WriteFile(credsFile, `username = "user"
password = "secret"
`), ShouldBeNil)
		So(testutil.WriteFile(confFile, testRequests), ShouldBeNil)

		Convey("CSV", func() {
			flags, err := parseFlags([]string{"-creds", credsFile, "-conf", confFile, "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So(buf.String(), ShouldEqual, `# 1 VOD
Dates,"(VOD, P)"
1970-01-01,1.5
1970-01-02,2.5

# 2 NOSUCH
Error - service: Invalid instrument

`)
		})

		Convey("summary and export", func() {
			outDir := filepath.Join(tmpdir, "out")
			flags, err := parseFlags([]string{"-creds", credsFile, "-conf", confFile,
				"-summary", "-out", outDir})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Median")
			So(buf.String(), ShouldContainSubstring, "(VOD, P)")

			exported, err := os.ReadFile(filepath.Join(outDir, "1_VOD.csv"))
			So(err, ShouldBeNil)
			So(string(exported), ShouldEqual, `Dates,"(VOD, P)"
1970-01-01,1.5
1970-01-02,2.5
`)
		})

		Convey("cache", func() {
			cacheDir := filepath.Join(tmpdir, "cache")
			flags, err := parseFlags([]string{"-creds", credsFile, "-conf", confFile,
				"-csv", "-cache", cacheDir})
			So(err, ShouldBeNil)
			var first bytes.Buffer
			So(run(ctx, flags, &first), ShouldBeNil)
			calls := dataCalls

			var second bytes.Buffer
			So(run(ctx, flags, &second), ShouldBeNil)
			So(dataCalls, ShouldEqual, calls)
			So(second.String(), ShouldEqual, first.String())

			flags.Refresh = true
			var third bytes.Buffer
			So(run(ctx, flags, &third), ShouldBeNil)
			So(dataCalls, ShouldEqual, calls+1)
			So(third.String(), ShouldEqual, first.String())
		})

		Convey("bad request file", func() {
			So(testutil.WriteFile(confFile, `{"requests": []}`), ShouldBeNil)
			flags, err := parseFlags([]string{"-creds", credsFile, "-conf", confFile})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldNotBeNil)
		})
	})
}
