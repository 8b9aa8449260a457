// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package juxtamath

import "github.com/aclements/go-moremath/stats"

// A Summary describes the distribution of a backend's ratios.
type Summary struct {
	N       int
	Min     float64
	Max     float64
	Mean    float64
	GeoMean float64
	Median  float64
}

// Summarize computes a Summary of sorted, which must be in ascending
// order. The Summary of an empty sample is all zeros.
func Summarize(sorted []float64) Summary {
	if len(sorted) == 0 {
		return Summary{}
	}
	s := Summary{N: len(sorted)}
	s.Min, s.Max = stats.Bounds(sorted)
	s.Mean = stats.Mean(sorted)
	s.GeoMean = stats.GeoMean(sorted)
	s.Median = stats.Sample{Xs: sorted, Sorted: true}.Quantile(0.5)
	return s
}
