// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package juxtamath

import (
	"fmt"
	"sort"
)

// defaultCheckpoints are the ratio thresholds reported when none are
// configured.
var defaultCheckpoints = [...]float64{1.10, 1.15, 1.20, 1.30, 1.50, 1.60, 1.70}

// DefaultCheckpoints returns a fresh copy of the default checkpoint
// thresholds.
func DefaultCheckpoints() []float64 {
	return append([]float64(nil), defaultCheckpoints[:]...)
}

// ValidateCheckpoints checks that cps is a non-empty, strictly
// ascending sequence of positive thresholds.
func ValidateCheckpoints(cps []float64) error {
	if len(cps) == 0 {
		return fmt.Errorf("no checkpoints")
	}
	for i, cp := range cps {
		if !(cp > 0) {
			return fmt.Errorf("checkpoint %v must be positive", cp)
		}
		if i > 0 && cp <= cps[i-1] {
			return fmt.Errorf("checkpoints must be strictly ascending: %v follows %v", cp, cps[i-1])
		}
	}
	return nil
}

// Below returns the number of values in sorted that are strictly less
// than threshold. sorted must be in ascending order.
//
// This is the index of the first value >= threshold. If no value
// reaches threshold, it is len(sorted).
func Below(sorted []float64, threshold float64) int {
	return sort.SearchFloat64s(sorted, threshold)
}

// Percent returns below as a percentage of n, or 0 if n is 0.
func Percent(below, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(below) / float64(n) * 100
}
