package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrNoColumns is returned for input without a header line.
var ErrNoColumns = errors.New("no columns to parse from file")

// ParseError reports a malformed record.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Column is one named column of a Table.
type Column struct {
	Name    string
	Numeric bool
	Raw     []string  // cell text as read, "" for padded cells
	Values  []float64 // parsed values, NaN where missing or not numeric
}

// Valid returns the non-missing values of a numeric column in row order.
func (c *Column) Valid() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Table is a loaded CSV file. It is never modified after Load returns.
type Table struct {
	Columns []*Column
	rows    int
}

func (t *Table) NumRows() int {
	return t.rows
}

func (t *Table) NumColumns() int {
	return len(t.Columns)
}

func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the numeric columns in their original order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.Numeric {
			out = append(out, c)
		}
	}
	return out
}

var missingMarkers = map[string]bool{
	"":         true,
	"NA":       true,
	"#NA":      true,
	"N/A":      true,
	"n/a":      true,
	"#N/A":     true,
	"#N/A N/A": true,
	"NaN":      true,
	"nan":      true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"-1.#IND":  true,
	"1.#QNAN":  true,
	"-1.#QNAN": true,
	"null":     true,
	"NULL":     true,
	"None":     true,
	"<NA>":     true,
}

// IsMissing reports whether a cell counts as a missing value.
func IsMissing(cell string) bool {
	return missingMarkers[cell]
}

// Load reads the CSV file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}
	return table, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses CSV from r. The first record is the header.
func Read(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, err
	}

	names := headerNames(header)
	columns := make([]*Column, len(names))
	for i, name := range names {
		columns[i] = &Column{Name: name}
	}

	rows := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(columns) {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, saw %d", len(columns), len(record)),
			}
		}
		for i, c := range columns {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			c.Raw = append(c.Raw, cell)
		}
		rows++
	}

	for _, c := range columns {
		inferColumn(c, rows)
	}

	return &Table{Columns: columns, rows: rows}, nil
}

// headerNames fills blank names and suffixes duplicates with .1, .2, ...
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// inferColumn marks c numeric when there is at least one row and every
// present cell parses as a float.
func inferColumn(c *Column, rows int) {
	c.Values = make([]float64, len(c.Raw))
	numeric := rows > 0
	for i, cell := range c.Raw {
		if IsMissing(cell) {
			c.Values[i] = math.NaN()
			continue
		}
		v, ok := parseNumber(cell)
		if !ok {
			numeric = false
			c.Values[i] = math.NaN()
			continue
		}
		c.Values[i] = v
	}
	c.Numeric = numeric
	if !numeric {
		for i := range c.Values {
			c.Values[i] = math.NaN()
		}
	}
}

func parseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	// ParseFloat also takes Go literal forms (1_000, 0x1p-2); CSV numbers don't.
	if s == "" || strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}
