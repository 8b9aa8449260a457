// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotab

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// ToChart renders the cumulative ratio distribution of every backend
// as a PNG image. Each series shows, for a ratio x, the percentage of
// requests at or below x times the baseline.
func (t *Tables) ToChart(w io.Writer) error {
	if len(t.Checkpoints) == 0 {
		return errors.New("no checkpoints to chart")
	}
	var series []chart.Series
	xmax := t.Checkpoints[len(t.Checkpoints)-1]
	for _, tab := range t.Tables {
		n := len(tab.Ratios)
		if n == 0 {
			continue
		}
		xs := make([]float64, 0, n+1)
		ys := make([]float64, 0, n+1)
		// Start the step at 0% so single-sample backends still
		// draw a segment.
		xs = append(xs, tab.Ratios[0])
		ys = append(ys, 0)
		for i, r := range tab.Ratios {
			xs = append(xs, r)
			ys = append(ys, float64(i+1)/float64(n)*100)
		}
		xmax = math.Max(xmax, tab.Ratios[n-1])
		series = append(series, chart.ContinuousSeries{Name: tab.Backend, XValues: xs, YValues: ys})
	}
	if len(series) == 0 {
		return errors.New("no backend has ratios to chart")
	}

	ticks := make([]chart.Tick, 0, len(t.Checkpoints))
	for _, cp := range t.Checkpoints {
		ticks = append(ticks, chart.Tick{Value: cp, Label: fmt.Sprintf("%.0f%%", cp*100)})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("Latency relative to %s", t.Baseline),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "ratio to baseline",
			Range: &chart.ContinuousRange{Min: 0, Max: xmax * 1.05},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "% of requests",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}
