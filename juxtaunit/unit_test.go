// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package juxtaunit

import (
	"errors"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParse(t *testing.T) {
	for _, test := range []struct {
		token string
		want  float64
	}{
		{"340us", 340},
		{"340", 340},
		{"340µs", 340},
		{"340μs", 340},
		{"12.5ms", 12500},
		{"1.5s", 1500000},
		{"2ns", 0.002},
		{"2m", 120e6},
		{"1m2.5s", 62.5e6},
		{"1h0m0s", 3600e6},
		{"0", 0},
		{".5ms", 500},
	} {
		got, err := Parse(test.token)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", test.token, err)
			continue
		}
		if got != test.want {
			t.Errorf("Parse(%q) = %v, want %v", test.token, got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, token := range []string{"", "ms", "abc", "1.2.3ms", "12xs", "1m2.5q", "-5ms"} {
		if got, err := Parse(token); err == nil {
			t.Errorf("Parse(%q) = %v, want error", token, got)
		}
	}

	_, err := Parse("12xs")
	var ue *UnitError
	if !errors.As(err, &ue) {
		t.Fatalf("Parse(%q) error %v is not a *UnitError", "12xs", err)
	}
	if ue.Unit != "xs" {
		t.Errorf("UnitError.Unit = %q, want %q", ue.Unit, "xs")
	}
}

func TestScale(t *testing.T) {
	if f, ok := Scale("ms"); !ok || f != 1000 {
		t.Errorf("Scale(ms) = %v, %v", f, ok)
	}
	if _, ok := Scale("fortnights"); ok {
		t.Errorf("Scale(fortnights) reported a known unit")
	}
}

func TestParseScalesByUnit(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	factors := map[string]float64{"": 1, "us": 1, "ms": 1000, "s": 1000000}

	properties.Property("d<unit> normalizes to d*factor microseconds", prop.ForAll(
		func(d float64, unit string) bool {
			token := strconv.FormatFloat(d, 'f', -1, 64) + unit
			got, err := Parse(token)
			if err != nil {
				return false
			}
			return got == d*factors[unit]
		},
		gen.Float64Range(0, 1e6),
		gen.OneConstOf("", "us", "ms", "s"),
	))

	properties.TestingRun(t)
}
