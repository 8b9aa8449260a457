// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package juxtamath provides the statistics used to compare backend
// latencies against a moving baseline.
package juxtamath

import "fmt"

// DefaultWindow is the number of recent baseline observations that
// make up the moving baseline.
const DefaultWindow = 50

// A Window is a bounded FIFO of the most recent baseline durations.
//
// Once the window is full, each Add evicts the oldest value. The zero
// value is not usable; use NewWindow.
type Window struct {
	xs    []float64 // ring buffer, len(xs) == capacity
	next  int       // index of the slot the next Add writes
	n     int       // number of live values, <= len(xs)
	total int       // number of values ever added
}

// NewWindow returns an empty window holding at most capacity values.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		panic(fmt.Sprintf("juxtamath: window capacity must be positive, got %d", capacity))
	}
	return &Window{xs: make([]float64, capacity)}
}

// Add appends x to the window, evicting the oldest value if the
// window is full.
func (w *Window) Add(x float64) {
	w.xs[w.next] = x
	w.next = (w.next + 1) % len(w.xs)
	if w.n < len(w.xs) {
		w.n++
	}
	w.total++
}

// Mean returns the arithmetic mean of the values currently in the
// window, or 0 if the window is empty.
//
// The values are summed oldest first on every call.
func (w *Window) Mean() float64 {
	if w.n == 0 {
		return 0
	}
	var sum float64
	w.each(func(x float64) { sum += x })
	return sum / float64(w.n)
}

// Len returns the number of values currently in the window.
func (w *Window) Len() int { return w.n }

// Cap returns the capacity of the window.
func (w *Window) Cap() int { return len(w.xs) }

// Total returns the number of values ever added to the window,
// including evicted ones.
func (w *Window) Total() int { return w.total }

// Values returns a copy of the live values in arrival order.
func (w *Window) Values() []float64 {
	out := make([]float64, 0, w.n)
	w.each(func(x float64) { out = append(out, x) })
	return out
}

// each calls f on each live value, oldest first.
func (w *Window) each(f func(float64)) {
	start := w.next - w.n
	if start < 0 {
		start += len(w.xs)
	}
	for i := 0; i < w.n; i++ {
		f(w.xs[(start+i)%len(w.xs)])
	}
}
