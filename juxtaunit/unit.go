// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package juxtaunit converts the duration tokens printed by the
// Juxtaposer harness into microseconds.
//
// A token is a decimal magnitude followed by an optional unit, such
// as "340us", "12.5ms" or "1.2s". A token without a unit is already
// in microseconds. Because the harness prints Go time.Duration
// values, composite durations such as "1m2.5s" are accepted as well.
package juxtaunit

import (
	"fmt"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"
)

// A UnitError reports a duration token whose unit is not known.
type UnitError struct {
	Token string
	Unit  string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unknown unit %q in duration %q", e.Unit, e.Token)
}

// scales maps a unit suffix to its factor relative to a microsecond.
var scales = map[string]float64{
	"":   1,
	"us": 1,
	"µs": 1, // U+00B5 MICRO SIGN, as printed by time.Duration
	"μs": 1, // U+03BC GREEK SMALL LETTER MU
	"ms": 1e3,
	"s":  1e6,
	"ns": 1e-3,
	"m":  60e6,
	"h":  3600e6,
}

// Scale returns the factor that converts a value in unit to
// microseconds, and whether unit is known.
func Scale(unit string) (factor float64, ok bool) {
	factor, ok = scales[unit]
	return
}

// Parse converts a duration token to microseconds.
func Parse(token string) (float64, error) {
	// Split into the leading numeric run and the trailing unit.
	i := 0
	for i < len(token) && (token[i] == '.' || '0' <= token[i] && token[i] <= '9') {
		i++
	}
	num, unit := token[:i], token[i:]
	if num == "" {
		return 0, fmt.Errorf("missing magnitude in duration %q", token)
	}

	if !isAlpha(unit) {
		// Probably a multi-unit time.Duration like "1m2.5s".
		return parseComposite(token)
	}

	factor, ok := Scale(unit)
	if !ok {
		return 0, &UnitError{Token: token, Unit: unit}
	}
	val, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration %q: %w", token, err)
	}
	if factor == 1 {
		return val, nil
	}
	return val * factor, nil
}

func parseComposite(token string) (float64, error) {
	d, err := time.ParseDuration(token)
	if err != nil {
		return 0, fmt.Errorf("malformed duration %q", token)
	}
	return float64(d) / float64(time.Microsecond), nil
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsLetter(r) {
			return false
		}
		i += n
	}
	return true
}
