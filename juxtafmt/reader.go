// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package juxtafmt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/juxtaposer/juxtastat/juxtaunit"
)

// A Reader reads Juxtaposer run records.
//
// Its API is modeled on bufio.Scanner. A Reader retains ownership of
// the Record it returns; a caller should Clone anything it needs to
// retain past the next call to Scan.
//
// The zero value of the Reader is a valid Reader, but the user must
// call Reset before using it.
type Reader struct {
	br       *bufio.Reader
	buf      []byte // current line
	fileName string
	lineNum  int
	err      error // current I/O error

	record    Record
	recordErr error

	interns map[string]string
}

// A SyntaxError represents a malformed run record on a particular
// line of a Juxtaposer log.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string

	// Err is the underlying error, if any.
	Err error
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}

func (s *SyntaxError) Unwrap() error {
	return s.Err
}

var noRecord = errors.New("Reader.Scan has not been called")

// maxLine bounds the retained length of a single log line. Longer
// lines are truncated while reading; only a run record that long is an
// error.
const maxLine = 1 << 20

// runPattern matches the " [<round>/" progress marker that identifies
// a run record.
var runPattern = regexp.MustCompile(` \[\d+/`)

// IsRunLine reports whether line is a run record. Only run records
// are parsed; every other line is ignored.
func IsRunLine(line []byte) bool {
	// Cheap check first: nearly all noise lines lack a bracket.
	if bytes.IndexByte(line, '[') < 0 {
		return false
	}
	return runPattern.Match(line)
}

// NewReader constructs a reader to parse Juxtaposer run records from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	if r.br == nil {
		r.br = bufio.NewReader(ior)
	} else {
		r.br.Reset(ior)
	}
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.lineNum = 0
	r.err = nil
	r.record = Record{}
	r.recordErr = noRecord
	if r.interns == nil {
		r.interns = make(map[string]string)
	}
}

// Scan advances the reader to the next run record and reports whether
// one was read. The caller should use the Record method to get it.
// If Scan reaches EOF or an I/O error occurs, it returns false, in
// which case the caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for {
		line, long, err := r.readLine()
		if err != nil {
			if err != io.EOF {
				r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.lineNum+1, err)
			}
			return false
		}
		r.lineNum++
		if !IsRunLine(line) {
			continue
		}
		// At this point we commit to this being a run record. If
		// it's malformed, we treat that as an error.
		if long {
			r.recordErr = &SyntaxError{r.fileName, r.lineNum, fmt.Sprintf("line longer than %d bytes", maxLine), nil}
		} else {
			r.recordErr = r.parseRunLine(line)
		}
		return true
	}
}

// readLine returns the next line without its terminator. A line
// longer than maxLine is cut to its first maxLine bytes and the rest
// is discarded, in which case long is set. readLine returns io.EOF
// only when no bytes remain.
func (r *Reader) readLine() (line []byte, long bool, err error) {
	r.buf = r.buf[:0]
	n := 0
	for {
		chunk, err := r.br.ReadSlice('\n')
		n += len(chunk)
		if room := maxLine - len(r.buf); len(chunk) > room {
			chunk = chunk[:room]
			long = true
		}
		r.buf = append(r.buf, chunk...)
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil && (err != io.EOF || n == 0) {
			return nil, false, err
		}
		break
	}
	line = bytes.TrimSuffix(r.buf, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	return line, long, nil
}

// Field positions of a run record, after splitting on whitespace.
const (
	progressField = 2
	workerField   = 3
	arrowField    = 4
	durationField = 5
	minFields     = durationField + 1
)

// parseRunLine parses line as a run record and updates r.record.
func (r *Reader) parseRunLine(line []byte) error {
	var fields [minFields][]byte
	rest := bytes.TrimSpace(line)
	n := 0
	var tail []byte // text following the arrow field
	for n < minFields {
		fields[n], rest = splitField(rest)
		if len(fields[n]) == 0 {
			break
		}
		n++
		if n == arrowField+1 {
			tail = rest
		}
	}

	if n < minFields {
		return &SyntaxError{r.fileName, r.lineNum, fmt.Sprintf("expected at least %d fields, found %d", minFields, n), nil}
	}

	r.setWorker(fields[workerField])
	token := strings.ReplaceAll(string(fields[durationField]), "s,", "s")
	us, err := juxtaunit.Parse(token)
	if err != nil {
		// Failed rounds have no comma after the progress marker
		// and carry an error message where the duration would be.
		if !bytes.HasSuffix(fields[progressField], []byte(",")) && string(fields[arrowField]) == "=>" {
			r.record.Duration = 0
			r.record.OrigDuration = ""
			r.record.Failure = string(tail)
			return nil
		}
		return &SyntaxError{r.fileName, r.lineNum, err.Error(), err}
	}
	r.record.Duration = us
	r.record.OrigDuration = token
	r.record.Failure = ""
	return nil
}

// setWorker splits a "<backend>/<instance>" field into the record.
func (r *Reader) setWorker(f []byte) {
	backend, instance := f, []byte(nil)
	if slash := bytes.IndexByte(f, '/'); slash >= 0 {
		backend, instance = f[:slash], f[slash+1:]
	}
	r.record.Backend = r.intern(backend)
	r.record.Instance = r.intern(instance)
}

func (r *Reader) intern(x []byte) string {
	const maxIntern = 1024
	if s, ok := r.interns[string(x)]; ok {
		return s
	}
	if len(r.interns) >= maxIntern {
		// Evict a random item from the interns table.
		for k := range r.interns {
			delete(r.interns, k)
			break
		}
	}
	s := string(x)
	r.interns[s] = s
	return s
}

// Record returns the last record read, or an error if the record was
// malformed.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan. Whether a malformed record should end the run is up to the
// caller.
func (r *Reader) Record() (*Record, error) {
	if r.recordErr != nil {
		return nil, r.recordErr
	}
	return &r.record, nil
}

// Line returns the line number of the last record read.
func (r *Reader) Line() int {
	return r.lineNum
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

const isSpace uint64 = 1<<'\t' | 1<<'\n' | 1<<'\v' | 1<<'\f' | 1<<'\r' | 1<<' '

// splitField consumes and returns non-whitespace in x as field,
// consumes whitespace following the field, and then returns the
// remaining bytes of x.
func splitField(x []byte) (field, rest []byte) {
	var i int
	for i = 0; i < len(x); {
		if x[i] < utf8.RuneSelf {
			// Fast path for ASCII
			if (isSpace>>x[i])&1 != 0 {
				rest = x[i+1:]
				break
			}
			i++
		} else {
			r, n := utf8.DecodeRune(x[i:])
			if unicode.IsSpace(r) {
				rest = x[i+n:]
				break
			}
			i += n
		}
	}
	field = x[:i]

	for len(rest) > 0 {
		if rest[0] < utf8.RuneSelf {
			if (isSpace>>rest[0])&1 == 0 {
				break
			}
			rest = rest[1:]
		} else {
			r, n := utf8.DecodeRune(rest)
			if !unicode.IsSpace(r) {
				break
			}
			rest = rest[n:]
		}
	}
	return
}
