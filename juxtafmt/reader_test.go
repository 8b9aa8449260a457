// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package juxtafmt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/juxtaposer/juxtastat/juxtaunit"
)

func parseAll(t *testing.T, data string) []*Record {
	sr := strings.NewReader(data)
	r := NewReader(sr, "test")
	var out []*Record
	for r.Scan() {
		rec, err := r.Record()
		if err == nil {
			out = append(out, rec.Clone())
		} else {
			out = append(out, errRecord(err.Error()))
		}
	}
	if err := r.Err(); err != nil {
		t.Fatal("parsing failed: ", err)
	}
	return out
}

func printRecord(w io.Writer, r *Record) {
	fmt.Fprintf(w, "%s/%s %v (%q)", r.Backend, r.Instance, r.Duration, r.OrigDuration)
	if r.Failed() {
		fmt.Fprintf(w, " failed: %s", r.Failure)
	}
	fmt.Fprintf(w, "\n")
}

// errRecord returns a record that captures an error message. This is
// just a convenience for testing.
func errRecord(msg string) *Record {
	return &Record{Backend: "error: " + msg}
}

func rec(worker string, us float64, orig string) *Record {
	backend, instance, _ := strings.Cut(worker, "/")
	return &Record{Backend: backend, Instance: instance, Duration: us, OrigDuration: orig}
}

func failed(worker, msg string) *Record {
	r := rec(worker, 0, "")
	r.Failure = msg
	return r
}

func TestReader(t *testing.T) {
	type testCase struct {
		name, input string
		want        []*Record
	}
	for _, test := range []testCase{
		{
			"basic",
			`2019/06/14 10:00:00 Registering shutdown signal listeners...
2019/06/14 10:00:01 [1/1000], mysql/0                              =>        120.5µs,  100%
2019/06/14 10:00:01 [1/1000], secretless/0                         =>         1.25ms,  123%
2019/06/14 10:00:02 [2/1000], secretless/1                         =>          1.5s,  999%
`,
			[]*Record{
				rec("mysql/0", 120.5, "120.5µs"),
				rec("secretless/0", 1250, "1.25ms"),
				rec("secretless/1", 1500000, "1.5s"),
			},
		},
		{
			"no instance",
			`x y [3/9], pg => 340us, 100%
x y [3/9], pg/a/b => 340 , 100%
`,
			[]*Record{
				rec("pg", 340, "340us"),
				rec("pg/a/b", 340, "340"),
			},
		},
		{
			"noise",
			`
[1/10], pg/0 => 1ms, 100%
2019/06/14 10:00:01 [x/10], pg/0 => 1ms, 100%
2019/06/14 10:00:01 [/10], pg/0 => 1ms, 100%
2019/06/14 10:00:01 (1/10), pg/0 => 1ms, 100%
Data aggregation done!
`,
			nil,
		},
		{
			"failed rounds",
			`2019/06/14 10:00:01 [001/1000] pg/0                                 => dial tcp 127.0.0.1:5432: connect: connection refused
2019/06/14 10:00:01 [002/1000] pg/0 => EOF
2019/06/14 10:00:01 [003/1000] pg/0 =>
`,
			[]*Record{
				failed("pg/0", "dial tcp 127.0.0.1:5432: connect: connection refused"),
				failed("pg/0", "EOF"),
				errRecord("test:3: expected at least 6 fields, found 5"),
			},
		},
		{
			"no progress comma",
			`2019/06/14 10:00:01 [1/10] pg/0 => 150us, 100%
2019/06/14 10:00:01 [2/10] pg/0 => 1.5ms
2019/06/14 10:00:01 [3/10] pg/0 => 2s, 100%
`,
			[]*Record{
				rec("pg/0", 150, "150us"),
				rec("pg/0", 1500, "1.5ms"),
				rec("pg/0", 2000000, "2s"),
			},
		},
		{
			"bad lines",
			`a b [1/10], pg/0 =>
a b [1/10], pg/0 => fast, 100%
a b [1/10], pg/0 => 12xs, 100%
a b [1/10], pg/0 => 1.2.3ms, 100%
a b [1/10], pg/0 => 12, 100%
a [1/10],
`,
			[]*Record{
				errRecord("test:1: expected at least 6 fields, found 5"),
				errRecord(`test:2: missing magnitude in duration "fast,"`),
				errRecord(`test:3: unknown unit "xs" in duration "12xs"`),
				errRecord(`test:4: parsing duration "1.2.3ms": strconv.ParseFloat: parsing "1.2.3": invalid syntax`),
				errRecord(`test:5: malformed duration "12,"`),
				errRecord("test:6: expected at least 6 fields, found 2"),
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := parseAll(t, test.input)
			want := test.want
			var diff bytes.Buffer
			for i := 0; i < len(got) || i < len(want); i++ {
				if i >= len(got) {
					fmt.Fprintf(&diff, "[%d] got: none, want:\n", i)
					printRecord(&diff, want[i])
				} else if i >= len(want) {
					fmt.Fprintf(&diff, "[%d] want: none, got:\n", i)
					printRecord(&diff, got[i])
				} else if !reflect.DeepEqual(got[i], want[i]) {
					fmt.Fprintf(&diff, "[%d] got:\n", i)
					printRecord(&diff, got[i])
					fmt.Fprintf(&diff, "[%d] want:\n", i)
					printRecord(&diff, want[i])
				}
			}
			if diff.Len() != 0 {
				t.Error(diff.String())
			}
		})
	}
}

func TestSyntaxErrorUnwrap(t *testing.T) {
	r := NewReader(strings.NewReader("a b [1/10], pg/0 => 5000ns, 1%\na b [1/10], pg/0 => 5xs, 1%\n"), "log")
	if !r.Scan() {
		t.Fatal("expected a record")
	}
	if got, err := r.Record(); err != nil || got.Duration != 5 {
		t.Fatalf("got %+v, %v; want 5us", got, err)
	}
	if !r.Scan() {
		t.Fatal("expected a second record")
	}
	_, err := r.Record()
	var se *SyntaxError
	if !errors.As(err, &se) || se.Line != 2 || se.FileName != "log" {
		t.Fatalf("want *SyntaxError at log:2, got %v", err)
	}
	var ue *juxtaunit.UnitError
	if !errors.As(err, &ue) {
		t.Fatalf("want wrapped *juxtaunit.UnitError, got %v", err)
	}
	if r.Line() != 2 {
		t.Errorf("Line() = %d, want 2", r.Line())
	}
}

func TestLongLines(t *testing.T) {
	long := strings.Repeat("x", 2*maxLine)
	input := long + "\n" +
		"2019/06/14 10:00:01 [1/10], pg/0 => 1ms, 100%\n" +
		"2019/06/14 10:00:01 [2/10], pg/0 => 1ms, " + long + "\n" +
		"2019/06/14 10:00:01 [3/10], pg/0 => 2ms, 100%"
	r := NewReader(strings.NewReader(input), "log")

	var got []string
	for r.Scan() {
		rec, err := r.Record()
		if err != nil {
			got = append(got, err.Error())
			continue
		}
		got = append(got, fmt.Sprintf("%d: %v", r.Line(), rec.Duration))
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"2: 1000",
		fmt.Sprintf("log:3: line longer than %d bytes", maxLine),
		"4: 2000",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadErrorLine(t *testing.T) {
	errRead := errors.New("read failed")
	input := io.MultiReader(
		strings.NewReader("noise\n2019/06/14 10:00:01 [1/10], pg/0 => 1ms, 100%\n"),
		iotest.ErrReader(errRead),
	)
	r := NewReader(input, "log")
	n := 0
	for r.Scan() {
		n++
	}
	if n != 1 {
		t.Errorf("read %d records, want 1", n)
	}
	err := r.Err()
	if !errors.Is(err, errRead) {
		t.Fatalf("want read error, got %v", err)
	}
	if want := "log:3: read failed"; err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestRecordBeforeScan(t *testing.T) {
	r := NewReader(strings.NewReader(""), "")
	if _, err := r.Record(); err == nil {
		t.Error("Record before Scan succeeded")
	}
	if r.Scan() {
		t.Error("Scan of empty input returned a record")
	}
	if err := r.Err(); err != nil {
		t.Error(err)
	}
}

func TestIsRunLine(t *testing.T) {
	for _, test := range []struct {
		line string
		want bool
	}{
		{"2019/06/14 10:00:01 [1/1000], pg/0 => 1ms, 100%", true},
		{"x [12345/", true},
		{"[1/1000], pg/0 => 1ms, 100%", false},
		{"x [a/1000], pg/0 => 1ms, 100%", false},
		{"x [1 /1000], pg/0 => 1ms, 100%", false},
		{"x  1/1000], pg/0 => 1ms, 100%", false},
		{"", false},
	} {
		if got := IsRunLine([]byte(test.line)); got != test.want {
			t.Errorf("IsRunLine(%q) = %v, want %v", test.line, got, test.want)
		}
	}
}
