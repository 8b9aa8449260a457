// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package juxtafmt reads and writes the per-round log lines printed
// by the Juxtaposer latency harness.
//
// A successful round is logged as
//
//	2019/06/14 10:01:02 [12/1000], pg/0                                =>    1.234567ms,  123%
//
// and a failed round as
//
//	2019/06/14 10:01:02 [012/1000] pg/0                                => dial tcp: connection refused
//
// Lines without the " [<digits>/" progress marker are not run records
// and are skipped by the Reader. The reader is structured as a
// streaming operation modeled on bufio.Scanner so arbitrarily large
// logs can be consumed in a single pass.
package juxtafmt

// A Record is a single round read from a Juxtaposer log.
//
// Records are mutated in place and reused by Reader.
type Record struct {
	// Backend is the backend name, the part of the worker field
	// before the first "/".
	Backend string

	// Instance is the part of the worker field after the first "/",
	// typically the worker thread number. It may be empty.
	Instance string

	// Duration is the round's latency in microseconds. It is zero
	// for failed rounds.
	Duration float64

	// OrigDuration is the duration token as read from the log, after
	// a trailing "s," has been rewritten to "s".
	OrigDuration string

	// Failure is the error text of a failed round, or "" if the
	// round succeeded.
	Failure string
}

// Failed reports whether r records a failed round.
func (r *Record) Failed() bool {
	return r.Failure != ""
}

// Clone makes a copy of r that shares no state with the Reader.
func (r *Record) Clone() *Record {
	r2 := *r
	return &r2
}
