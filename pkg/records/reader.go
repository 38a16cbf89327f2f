// Package records reads line-delimited JSON input files into flat
// records. One logical record per line; a file may contain one or many.
package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/apperrors"
)

// Record is one flat parsed record. Values stay raw so callers decide
// how strictly each field is interpreted.
type Record map[string]json.RawMessage

// String returns the value of a JSON string field. ok is false when the
// field is absent, null, or not a string - no coercion happens here.
func (r Record) String(key string) (string, bool) {
	raw, present := r[key]
	if !present || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Float64 returns the value of a JSON number field.
func (r Record) Float64(key string) (float64, bool) {
	raw, present := r[key]
	if !present || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

// Int64 returns the value of a JSON number field that must be integral.
func (r Record) Int64(key string) (int64, bool) {
	raw, present := r[key]
	if !present || string(raw) == "null" {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// ReadFile parses a line-delimited JSON file into records. Blank lines
// are skipped. Any malformed line fails the whole file with a
// *apperrors.ParseError and no records are returned - a malformed file
// is never partially applied.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var recs []Record

	scanner := bufio.NewScanner(f)
	// Activity log lines carry long user agent strings; allow up to 1MB.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, &apperrors.ParseError{Path: path, Line: line, Err: err}
		}
		recs = append(recs, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, &apperrors.ParseError{Path: path, Line: line, Err: err}
	}

	return recs, nil
}
