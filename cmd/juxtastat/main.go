// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Juxtastat summarizes a Juxtaposer load-test log, comparing the
// per-request latency of every tested backend to that of a baseline
// backend measured in the same run.
//
// Usage:
//
//	juxtastat [flags] logfile baseline
//
// The log file is the output of the Juxtaposer harness. It may be
// compressed with gzip or zstd, and "-" reads standard input. Every
// line holding a " [<round>/" progress marker is a run record, for
// example:
//
//	2026/10/17 10:00:00 [1/12], mysql/0                            =>          100µs,    0%
//	2026/10/17 10:00:00 [1/12], secretless/0                       =>          105µs,    5%
//
// Juxtastat keeps a moving average of the last 50 successful rounds of
// the baseline backend. Each round of every other backend is divided
// by the baseline average at that point of the log, and the resulting
// ratios are bucketed at a set of checkpoints:
//
//	$ juxtastat basic.log mysql
//	Baseline backend: mysql
//	Backend: secretless
//	Count: 10
//	Below 110% of baseline: 30.00% of requests.
//	Below 115% of baseline: 40.00% of requests.
//	...
//
// Rounds of other backends logged before the first baseline round are
// dropped. Failed rounds are counted and excluded from the ratios.
//
// Settings may also come from JUXTASTAT_* environment variables (for
// example JUXTASTAT_WINDOW=20) or from a YAML file named by --config.
// Flags take precedence over the environment, which takes precedence
// over the config file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/juxtaposer/juxtastat/cmd/juxtastat/internal/config"
	"github.com/juxtaposer/juxtastat/cmd/juxtastat/internal/ratiotab"
	"github.com/juxtaposer/juxtastat/juxtafmt"
	"github.com/juxtaposer/juxtastat/juxtamath"
)

// A usageError reports a malformed command line.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func main() {
	if err := juxtastat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "juxtastat: %s\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func juxtastat(w, wErr io.Writer, args []string) error {
	cmd := newCommand(w, wErr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprint(wErr, cmd.UsageString())
	}
	return err
}

func newCommand(w, wErr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "juxtastat [flags] logfile baseline",
		Short: "Compare backend latencies in a Juxtaposer log to a baseline backend",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return &usageError{fmt.Sprintf("expected a log file and a baseline backend, got %d arguments", len(args))}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, w, wErr, args[0], args[1])
		},
	}
	cmd.SetOut(w)
	cmd.SetErr(wErr)
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err.Error()}
	})
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newLogger(wErr io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(wErr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func run(cmd *cobra.Command, w, wErr io.Writer, path, baseline string) error {
	cfg, err := config.Load(viper.New(), cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(wErr, cfg.Verbose)

	var format func(t *ratiotab.Tables) error
	switch cfg.Format {
	case "text":
		format = func(t *ratiotab.Tables) error { return t.ToText(w) }
	case "csv":
		format = func(t *ratiotab.Tables) error { return t.ToCSV(w) }
	case "json":
		format = func(t *ratiotab.Tables) error { return t.ToJSON(w) }
	case "yaml":
		format = func(t *ratiotab.Tables) error { return t.ToYAML(w) }
	}

	f, err := juxtafmt.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat := ratiotab.NewBuilder(baseline, juxtamath.NewWindow(cfg.Window))
	reader := juxtafmt.NewReader(f, path)
	var records, skipped int
	for reader.Scan() {
		rec, err := reader.Record()
		if err != nil {
			if !cfg.SkipMalformed {
				return err
			}
			logger.Warn("skipping malformed record", "err", err)
			skipped++
			continue
		}
		records++
		stat.Add(rec)
	}
	if err := reader.Err(); err != nil {
		return err
	}
	logger.Debug("read log", "file", path, "lines", reader.Line(), "records", records, "skipped", skipped)

	tables, err := stat.ToTables(ratiotab.TableOpts{Checkpoints: cfg.Checkpoints})
	if err != nil {
		var mb *ratiotab.MissingBaselineError
		if cfg.Format == "text" && errors.As(err, &mb) {
			// The text report names the baseline before
			// discovering it is missing.
			ratiotab.WriteTextHeader(w, baseline)
		}
		return err
	}
	logger.Debug("baseline", "name", tables.Baseline, "samples", tables.BaselineSamples, "failed", tables.BaselineFailed, "window", tables.Window)
	for _, t := range tables.Tables {
		logger.Debug("backend", "name", t.Backend, "count", t.Count(), "failed", t.Failed, "dropped", t.Dropped)
	}

	if err := format(tables); err != nil {
		return err
	}
	if cfg.Chart != "" {
		if err := writeChart(cfg.Chart, tables); err != nil {
			return err
		}
		logger.Debug("wrote chart", "file", cfg.Chart)
	}
	return nil
}

func writeChart(path string, tables *ratiotab.Tables) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tables.ToChart(f); err != nil {
		f.Close()
		return fmt.Errorf("writing chart %s: %w", path, err)
	}
	return f.Close()
}
