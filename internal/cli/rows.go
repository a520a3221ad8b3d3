package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/hupe1980/sieve"
	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/internal/names"
)

const maxLine = 16 << 20

// Row is one JSON object read from the input.
type Row struct {
	Line   int
	Raw    json.RawMessage
	Fields map[string]any
}

// reader decodes JSON lines into rows.
type reader struct {
	dates  map[string]bool
	format extension.DateFormat
}

func newReader(dateColumns []string, format extension.DateFormat) *reader {
	r := &reader{dates: make(map[string]bool, len(dateColumns)), format: format}
	for _, c := range dateColumns {
		r.dates[names.Fold(c)] = true
	}
	return r
}

// ReadAll reads every non-blank line of in. A column whose numbers are all
// integral reads as int64, any other numeric column as float64.
func (r *reader) ReadAll(in io.Reader) ([]*Row, error) {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)

	var rows []*Row
	floats := make(map[string]bool)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		row, err := r.decode(line, raw, floats)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, row := range rows {
		for k, v := range row.Fields {
			n, ok := v.(json.Number)
			if !ok {
				continue
			}
			conv, err := number(n, floats[names.Fold(k)])
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w", row.Line, k, err)
			}
			row.Fields[k] = conv
		}
	}
	return rows, nil
}

func (r *reader) decode(line int, raw []byte, floats map[string]bool) (*Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}
	for k, v := range fields {
		switch x := v.(type) {
		case json.Number:
			if _, err := strconv.ParseInt(x.String(), 10, 64); err != nil {
				floats[names.Fold(k)] = true
			}
		case string:
			if !r.dates[names.Fold(k)] {
				continue
			}
			t, err := r.date(x)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w", line, k, err)
			}
			fields[k] = t
		}
	}
	return &Row{Line: line, Raw: bytes.Clone(raw), Fields: fields}, nil
}

// date parses RFC 3339 timestamps or the toDate format.
func (r *reader) date(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return r.format.Parse(s)
}

func number(n json.Number, float bool) (any, error) {
	if float {
		return n.Float64()
	}
	return n.Int64()
}

// schemaFor declares every key seen in rows plus extra. Keys are declared
// row by row in sorted order; keys differing only in case share a column.
func schemaFor(rows []*Row, extra ...string) *sieve.Schema[*Row] {
	schema := sieve.NewSchema[*Row]("")
	seen := make(map[string]bool)
	declare := func(name string) {
		key := names.Fold(name)
		if seen[key] {
			return
		}
		seen[key] = true
		schema.Column(name, func(row *Row) any { return lookup(row, name) })
	}
	for _, row := range rows {
		for _, k := range slices.Sorted(maps.Keys(row.Fields)) {
			declare(k)
		}
	}
	for _, c := range extra {
		declare(c)
	}
	return schema
}

func lookup(row *Row, name string) any {
	if v, ok := row.Fields[name]; ok {
		return v
	}
	key := names.Fold(name)
	for k, v := range row.Fields {
		if names.Fold(k) == key {
			return v
		}
	}
	return nil
}
