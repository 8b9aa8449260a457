// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config layers juxtastat's settings from flags, JUXTASTAT_*
// environment variables, an optional YAML config file, and defaults,
// in that order of precedence.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/juxtaposer/juxtastat/juxtamath"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "JUXTASTAT"

// Keys, shared by flags, environment variables and the config file.
const (
	KeyConfig        = "config"
	KeyWindow        = "window"
	KeyCheckpoints   = "checkpoints"
	KeyFormat        = "format"
	KeySkipMalformed = "skip-malformed"
	KeyChart         = "chart"
	KeyVerbose       = "verbose"
)

var validFormats = map[string]bool{
	"text": true, "csv": true, "json": true, "yaml": true,
}

// Config holds the settings of one juxtastat run.
type Config struct {
	Window        int
	Checkpoints   []float64
	Format        string
	SkipMalformed bool
	Chart         string
	Verbose       bool
}

// RegisterFlags defines juxtastat's flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	var cps []string
	for _, cp := range juxtamath.DefaultCheckpoints() {
		cps = append(cps, strconv.FormatFloat(cp, 'f', -1, 64))
	}
	fs.String(KeyConfig, "", "read settings from YAML `file`")
	fs.Int(KeyWindow, juxtamath.DefaultWindow, "number of recent baseline rounds averaged into the baseline")
	fs.StringSlice(KeyCheckpoints, cps, "ascending baseline `ratios` to report")
	fs.String(KeyFormat, "text", "print results in `format`: text, csv, json or yaml")
	fs.Bool(KeySkipMalformed, false, "warn about and skip malformed run records instead of failing")
	fs.String(KeyChart, "", "also write a PNG chart of the ratio distribution to `file`")
	fs.Bool(KeyVerbose, false, "log pipeline counters to stderr")
}

// Load reads the configuration into v from fs, the environment and,
// if named by the config flag, a YAML file.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cps, err := parseCheckpoints(v.GetStringSlice(KeyCheckpoints))
	if err != nil {
		return nil, err
	}
	c := &Config{
		Window:        v.GetInt(KeyWindow),
		Checkpoints:   cps,
		Format:        v.GetString(KeyFormat),
		SkipMalformed: v.GetBool(KeySkipMalformed),
		Chart:         v.GetString(KeyChart),
		Verbose:       v.GetBool(KeyVerbose),
	}
	return c, c.Validate()
}

// parseCheckpoints accepts values separated by commas or whitespace,
// as they arrive from flags, environment variables or YAML lists.
func parseCheckpoints(vals []string) ([]float64, error) {
	var cps []float64
	for _, val := range vals {
		for _, f := range strings.FieldsFunc(val, func(r rune) bool { return r == ',' || r == ' ' }) {
			cp, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid checkpoint %q", f)
			}
			cps = append(cps, cp)
		}
	}
	return cps, nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("invalid window: %d (must be positive)", c.Window)
	}
	if err := juxtamath.ValidateCheckpoints(c.Checkpoints); err != nil {
		return fmt.Errorf("invalid checkpoints: %w", err)
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (valid: text, csv, json, yaml)", c.Format)
	}
	return nil
}
