// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package juxtafmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

// A Writer writes run records in the format logged by the Juxtaposer
// harness.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer

	// MaxRounds is printed as the denominator of the progress
	// marker, e.g. "1000" or "infinity".
	MaxRounds string

	// Time is the timestamp written at the start of each line, in
	// the layout of the standard logger.
	Time time.Time
}

// NewWriter returns a writer that writes run records to w.
func NewWriter(w io.Writer, maxRounds string) *Writer {
	return &Writer{w: w, MaxRounds: maxRounds}
}

// Write writes rec as the result of the given round. divergence is
// the harness's own per-round percentage of the baseline and is only
// informational. For records with an OrigDuration ending in a unit,
// that token is written in order to better reproduce the original input.
func (w *Writer) Write(round int, rec *Record, divergence int) error {
	w.buf.WriteString(w.Time.Format("2006/01/02 15:04:05 "))
	worker := rec.Backend + "/" + rec.Instance
	if rec.Failed() {
		fmt.Fprintf(&w.buf, "[%.3d/%s] %-35s=> %s\n", round, w.MaxRounds, worker, rec.Failure)
	} else {
		// The harness always prints a unit. Reconstruct the token
		// for bare microsecond values so it reads back the same.
		dur := rec.OrigDuration
		if !strings.HasSuffix(dur, "s") {
			dur = time.Duration(rec.Duration * float64(time.Microsecond)).String()
		}
		fmt.Fprintf(&w.buf, "[%d/%s], %-35s=>%15s, %4d%%\n", round, w.MaxRounds, worker, dur, divergence)
	}

	// Write to the buffer can't fail, so we only have to check if
	// this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
