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
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/vishalbelsare/Datastream/dsws"
	"github.com/vishalbelsare/Datastream/frame"
	"github.com/vishalbelsare/Datastream/message"
	"github.com/vishalbelsare/Datastream/stats"
	"github.com/vishalbelsare/Datastream/store"
	"github.com/vishalbelsare/Datastream/table"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Creds      string // default: ~/.datastream/config.toml
	Config     string // JSON request file
	CacheDir   string // empty: no caching
	Refresh    bool   // ignore cached results
	LogLevel   logging.Level
	CSV        bool   // print CSV; default: text
	Summary    bool   // print summary statistics of wide tables
	LogProfits bool   // summarize log-profits instead of values
	OutDir     string // export each table as CSV into this dir
	Workers    int    // overrides the workers from the credentials file
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("dsws", flag.ExitOnError)
	fs.StringVar(&flags.Creds, "creds",
		filepath.Join(os.Getenv("HOME"), ".datastream", "config.toml"),
		"credentials file")
	fs.StringVar(&flags.Config, "conf", "", "JSON request file (required)")
	fs.StringVar(&flags.CacheDir, "cache", "", "cache directory; default: no caching")
	fs.BoolVar(&flags.Refresh, "refresh", false, "ignore and overwrite cached results")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.CSV, "csv", false, "print tables in CSV format; default: text")
	fs.BoolVar(&flags.Summary, "summary", false, "print summary statistics of time series")
	fs.BoolVar(&flags.LogProfits, "log-profits", false, "with -summary, summarize log-profits")
	fs.StringVar(&flags.OutDir, "out", "", "directory to export tables as CSV files")
	fs.IntVar(&flags.Workers, "workers", 0, "number of projection workers")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Config == "" {
		return nil, errors.Reason("missing required -conf argument")
	}
	if flags.LogProfits && !flags.Summary {
		return nil, errors.Reason("-log-profits requires -summary")
	}
	return &flags, nil
}

func parseCreds(filePath string) (*dsws.Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `username = "YourDatastreamID"
password = "YourPassword"
# source = "PROD"
# timeout = 180
# rate = 5.0
`
			return nil, errors.Annotate(err,
				"credentials file '%s' does not exist.\nPlease create it containing:\n%s",
				filePath, sample)
		}
		return nil, errors.Annotate(err,
			"cannot check credentials file for existence: '%s'", filePath)
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open credentials file %s", filePath)
	}
	defer f.Close()

	var c dsws.Config
	if err := toml.NewDecoder(f).Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read credentials file %s", filePath)
	}
	return &c, nil
}

// fetch queries the service, either in one bundle or request by request.
func fetch(ctx context.Context, bundle bool, reqs []*dsws.DataRequest) (frame.Results, error) {
	if bundle {
		return dsws.GetDataBundle(ctx, reqs)
	}
	results := make(frame.Results, len(reqs))
	for i, r := range reqs {
		f, err := dsws.GetData(ctx, r)
		if err != nil {
			logging.Warningf(ctx, "request %d [%s]: %s", i, r.Instrument.Value, err.Error())
		}
		results[i] = frame.Result{Frame: f, Err: err}
	}
	return results, nil
}

// results returns cached results when available, and fetches and caches them
// otherwise.
func results(ctx context.Context, flags *Flags, conf *dsws.RequestsConfig, reqs []*dsws.DataRequest) (frame.Results, error) {
	var cache *store.Cache
	var key string
	if flags.CacheDir != "" {
		cache = store.NewCache(flags.CacheDir)
		var err error
		if key, err = store.Fingerprint(reqs); err != nil {
			return nil, errors.Annotate(err, "failed to fingerprint requests")
		}
		if !flags.Refresh {
			res, ok, err := cache.Get(key)
			if err != nil {
				return nil, errors.Annotate(err, "failed to read cache")
			}
			if ok {
				logging.Infof(ctx, "using cached results %s", key)
				return res, nil
			}
		}
	}
	creds, err := parseCreds(flags.Creds)
	if err != nil {
		return nil, errors.Annotate(err, "failed to parse credentials")
	}
	if flags.Workers > 0 {
		creds.Workers = flags.Workers
	}
	client, err := dsws.NewClient(ctx, *creds)
	if err != nil {
		return nil, errors.Annotate(err, "failed to create client")
	}
	defer client.Close()

	res, err := fetch(dsws.UseClient(ctx, client), conf.Bundle, reqs)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch data")
	}
	if cache != nil {
		if err := cache.Put(key, res); err != nil {
			return nil, errors.Annotate(err, "failed to write cache")
		}
	}
	return res, nil
}

func printTable(t *table.Table, csv bool, w io.Writer) error {
	if csv {
		return t.WriteCSV(w, table.Params{})
	}
	return t.WriteText(w, table.Params{})
}

// resultLabel of the i-th result. Results without a matching request, e.g.
// from an old cache entry, are labeled by position only.
func resultLabel(reqs []*dsws.DataRequest, i int) string {
	if i < len(reqs) {
		return fmt.Sprintf("%d %s", i+1, reqs[i].Instrument.Value)
	}
	return fmt.Sprintf("%d", i+1)
}

// resultTable renders a successful result, or returns the error to print in
// its place.
func resultTable(flags *Flags, r frame.Result) (*table.Table, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if flags.Summary && r.Frame.Shape == frame.Wide {
		t, err := stats.SummaryTable(r.Frame, flags.LogProfits)
		if err != nil {
			return nil, errors.Annotate(err, "failed to summarize")
		}
		return t, nil
	}
	return r.Frame.Table(), nil
}

// printResults prints each result in order. A result which cannot be
// rendered is reported in its place and does not stop the others.
func printResults(ctx context.Context, flags *Flags, reqs []*dsws.DataRequest, res frame.Results, w io.Writer) error {
	for i, r := range res {
		label := resultLabel(reqs, i)
		if _, err := fmt.Fprintf(w, "# %s\n", label); err != nil {
			return errors.Annotate(err, "failed to write")
		}
		t, err := resultTable(flags, r)
		if err != nil {
			if r.Err == nil {
				logging.Warningf(ctx, "%s: %s", label, err.Error())
			}
			if _, err := fmt.Fprintf(w, "%s\n\n", err.Error()); err != nil {
				return errors.Annotate(err, "failed to write")
			}
			continue
		}
		if flags.OutDir != "" {
			p, err := store.WriteCSV(flags.OutDir, label, r.Frame)
			if err != nil {
				return errors.Annotate(err, "failed to export %s", label)
			}
			logging.Infof(ctx, "exported %s", p)
		}
		if err := printTable(t, flags.CSV, w); err != nil {
			return errors.Annotate(err, "failed to print %s", label)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return errors.Annotate(err, "failed to write")
		}
	}
	return nil
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	var conf dsws.RequestsConfig
	if err := message.FromFile(&conf, flags.Config); err != nil {
		return errors.Annotate(err, "failed to read config '%s'", flags.Config)
	}
	reqs, err := conf.DataRequests()
	if err != nil {
		return errors.Annotate(err, "invalid requests")
	}
	res, err := results(ctx, flags, &conf, reqs)
	if err != nil {
		return err
	}
	return printResults(ctx, flags, reqs, res, w)
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
