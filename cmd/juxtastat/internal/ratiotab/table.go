// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotab

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/fastjson"
	"gopkg.in/yaml.v3"
)

// WriteTextHeader writes the line that opens a text report. It is
// exported so callers can emit it even when no Tables could be built.
func WriteTextHeader(w io.Writer, baseline string) error {
	_, err := fmt.Fprintf(w, "Baseline backend: %s\n", baseline)
	return err
}

// ToText renders t as plain text, one block per backend.
func (t *Tables) ToText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	WriteTextHeader(bw, t.Baseline)
	for _, tab := range t.Tables {
		fmt.Fprintf(bw, "Backend: %s\n", tab.Backend)
		fmt.Fprintf(bw, "Count: %d\n", tab.Count())
		if tab.Failed > 0 {
			fmt.Fprintf(bw, "Failed: %d\n", tab.Failed)
		}
		for _, row := range tab.Rows {
			fmt.Fprintf(bw, "Below %3.0f%% of baseline: %3.2f%% of requests.\n", row.Checkpoint*100, row.Percent)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// ToCSV renders t as comma-separated values, one record per backend
// and checkpoint.
func (t *Tables) ToCSV(w io.Writer) error {
	o := csv.NewWriter(w)
	o.Write([]string{"backend", "count", "failed", "dropped", "checkpoint", "below", "percent"})
	for _, tab := range t.Tables {
		for _, row := range tab.Rows {
			o.Write([]string{
				tab.Backend,
				strconv.Itoa(tab.Count()),
				strconv.Itoa(tab.Failed),
				strconv.Itoa(tab.Dropped),
				strconv.FormatFloat(row.Checkpoint, 'f', -1, 64),
				strconv.Itoa(row.Below),
				strconv.FormatFloat(row.Percent, 'f', 2, 64),
			})
		}
	}
	o.Flush()
	return o.Error()
}

// ToJSON renders t as a single JSON document.
func (t *Tables) ToJSON(w io.Writer) error {
	var a fastjson.Arena

	base := a.NewObject()
	base.Set("name", a.NewString(t.Baseline))
	base.Set("samples", a.NewNumberInt(t.BaselineSamples))
	base.Set("failed", a.NewNumberInt(t.BaselineFailed))
	base.Set("window", a.NewNumberInt(t.Window))

	backends := a.NewArray()
	for i, tab := range t.Tables {
		b := a.NewObject()
		b.Set("name", a.NewString(tab.Backend))
		b.Set("count", a.NewNumberInt(tab.Count()))
		b.Set("failed", a.NewNumberInt(tab.Failed))
		b.Set("dropped", a.NewNumberInt(tab.Dropped))

		sum := a.NewObject()
		sum.Set("min", a.NewNumberFloat64(tab.Summary.Min))
		sum.Set("max", a.NewNumberFloat64(tab.Summary.Max))
		sum.Set("mean", a.NewNumberFloat64(tab.Summary.Mean))
		sum.Set("geomean", a.NewNumberFloat64(tab.Summary.GeoMean))
		sum.Set("median", a.NewNumberFloat64(tab.Summary.Median))
		b.Set("ratio", sum)

		rows := a.NewArray()
		for j, row := range tab.Rows {
			r := a.NewObject()
			r.Set("checkpoint", a.NewNumberFloat64(row.Checkpoint))
			r.Set("below", a.NewNumberInt(row.Below))
			r.Set("percent", a.NewNumberFloat64(row.Percent))
			rows.SetArrayItem(j, r)
		}
		b.Set("checkpoints", rows)
		backends.SetArrayItem(i, b)
	}

	doc := a.NewObject()
	doc.Set("baseline", base)
	doc.Set("backends", backends)

	buf := doc.MarshalTo(nil)
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}

// yamlReport is the YAML form of Tables.
type yamlReport struct {
	Baseline struct {
		Name    string `yaml:"name"`
		Samples int    `yaml:"samples"`
		Failed  int    `yaml:"failed"`
		Window  int    `yaml:"window"`
	} `yaml:"baseline"`
	Backends []yamlBackend `yaml:"backends"`
}

type yamlBackend struct {
	Name        string           `yaml:"name"`
	Count       int              `yaml:"count"`
	Failed      int              `yaml:"failed"`
	Dropped     int              `yaml:"dropped"`
	Ratio       yamlSummary      `yaml:"ratio"`
	Checkpoints []yamlCheckpoint `yaml:"checkpoints"`
}

type yamlSummary struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Mean    float64 `yaml:"mean"`
	GeoMean float64 `yaml:"geomean"`
	Median  float64 `yaml:"median"`
}

type yamlCheckpoint struct {
	Checkpoint float64 `yaml:"checkpoint"`
	Below      int     `yaml:"below"`
	Percent    float64 `yaml:"percent"`
}

// ToYAML renders t as a YAML document.
func (t *Tables) ToYAML(w io.Writer) error {
	var rep yamlReport
	rep.Baseline.Name = t.Baseline
	rep.Baseline.Samples = t.BaselineSamples
	rep.Baseline.Failed = t.BaselineFailed
	rep.Baseline.Window = t.Window
	rep.Backends = []yamlBackend{}
	for _, tab := range t.Tables {
		yb := yamlBackend{
			Name:    tab.Backend,
			Count:   tab.Count(),
			Failed:  tab.Failed,
			Dropped: tab.Dropped,
			Ratio: yamlSummary{
				Min:     tab.Summary.Min,
				Max:     tab.Summary.Max,
				Mean:    tab.Summary.Mean,
				GeoMean: tab.Summary.GeoMean,
				Median:  tab.Summary.Median,
			},
		}
		for _, row := range tab.Rows {
			yb.Checkpoints = append(yb.Checkpoints, yamlCheckpoint(row))
		}
		rep.Backends = append(rep.Backends, yb)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&rep); err != nil {
		return err
	}
	return enc.Close()
}
