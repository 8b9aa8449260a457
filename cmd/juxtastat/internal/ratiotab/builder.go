// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ratiotab presents backend latencies relative to a moving
// baseline as checkpoint tables.
package ratiotab

import (
	"fmt"
	"sort"

	"github.com/juxtaposer/juxtastat/juxtafmt"
	"github.com/juxtaposer/juxtastat/juxtamath"
)

// A Builder collects run records into per-backend ratio sequences.
//
// Records for the baseline backend feed the moving baseline window.
// Every other record is turned into the ratio of its duration to the
// window's mean at the moment the record is added.
type Builder struct {
	baseline string
	window   *juxtamath.Window

	// baselineFailed counts failed rounds of the baseline backend.
	baselineFailed int

	// order lists backends in order of first sighting.
	order    []string
	backends map[string]*column
}

type column struct {
	// ratios holds one ratio per successful round, in arrival
	// order until ToTables sorts it.
	ratios []float64
	// failed counts failed rounds.
	failed int
	// dropped counts rounds seen before any baseline data.
	dropped int
}

// NewBuilder returns a Builder that compares backends against the
// backend named baseline, smoothed over window.
func NewBuilder(baseline string, window *juxtamath.Window) *Builder {
	return &Builder{
		baseline: baseline,
		window:   window,
		backends: make(map[string]*column),
	}
}

// Add adds rec to the Builder.
func (b *Builder) Add(rec *juxtafmt.Record) {
	if rec.Backend == b.baseline {
		if rec.Failed() {
			b.baselineFailed++
			return
		}
		b.window.Add(rec.Duration)
		return
	}

	c := b.backends[rec.Backend]
	if c == nil {
		c = new(column)
		b.backends[rec.Backend] = c
		b.order = append(b.order, rec.Backend)
	}
	if rec.Failed() {
		c.failed++
		return
	}

	mean := b.window.Mean()
	if mean == 0 {
		// No baseline yet to compare against.
		c.dropped++
		return
	}
	c.ratios = append(c.ratios, rec.Duration/mean)
}

// A MissingBaselineError reports that no successful round of the
// baseline backend was found.
type MissingBaselineError struct {
	Baseline string
}

func (e *MissingBaselineError) Error() string {
	return fmt.Sprintf("could not find any datapoints for %q", e.Baseline)
}

// TableOpts provides options for constructing the final tables from a
// Builder.
type TableOpts struct {
	// Checkpoints are the ascending ratio thresholds to report.
	// If nil, juxtamath.DefaultCheckpoints is used.
	Checkpoints []float64
}

// Tables is the finished comparison of every backend against the
// baseline.
type Tables struct {
	// Baseline is the name of the baseline backend.
	Baseline string
	// BaselineSamples is the number of successful baseline rounds.
	BaselineSamples int
	// BaselineFailed is the number of failed baseline rounds.
	BaselineFailed int
	// Window is the baseline smoothing window capacity.
	Window int
	// Checkpoints are the thresholds each Table is bucketed by.
	Checkpoints []float64

	// Tables holds one Table per backend in order of first
	// sighting.
	Tables []*Table
}

// A Table is the checkpoint breakdown of a single backend.
type Table struct {
	Backend string

	// Ratios are the backend's ratios in ascending order.
	Ratios []float64

	Failed  int
	Dropped int

	// Rows correspond 1:1 to the Tables' Checkpoints.
	Rows []Row

	Summary juxtamath.Summary
}

// A Row reports how many ratios fall below one checkpoint.
type Row struct {
	Checkpoint float64
	Below      int
	Percent    float64
}

// Count returns the number of ratios in t.
func (t *Table) Count() int {
	return len(t.Ratios)
}

// ToTables finalizes a Builder into Tables. It returns a
// *MissingBaselineError if the baseline backend never produced a
// successful round, and an error if opts.Checkpoints is non-nil but
// empty or not strictly ascending.
func (b *Builder) ToTables(opts TableOpts) (*Tables, error) {
	if b.window.Total() == 0 {
		return nil, &MissingBaselineError{b.baseline}
	}
	cps := opts.Checkpoints
	if cps == nil {
		cps = juxtamath.DefaultCheckpoints()
	} else if err := juxtamath.ValidateCheckpoints(cps); err != nil {
		return nil, fmt.Errorf("invalid checkpoints: %w", err)
	}

	out := &Tables{
		Baseline:        b.baseline,
		BaselineSamples: b.window.Total(),
		BaselineFailed:  b.baselineFailed,
		Window:          b.window.Cap(),
		Checkpoints:     cps,
	}
	for _, name := range b.order {
		c := b.backends[name]
		sort.Float64s(c.ratios)
		t := &Table{
			Backend: name,
			Ratios:  c.ratios,
			Failed:  c.failed,
			Dropped: c.dropped,
			Rows:    make([]Row, len(cps)),
			Summary: juxtamath.Summarize(c.ratios),
		}
		for i, cp := range cps {
			below := juxtamath.Below(c.ratios, cp)
			t.Rows[i] = Row{cp, below, juxtamath.Percent(below, len(c.ratios))}
		}
		out.Tables = append(out.Tables, t)
	}
	return out, nil
}
