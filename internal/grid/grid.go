// Package grid holds the read-only cell grid every sheet is turned into.
package grid

import (
	"math"
	"strconv"
	"strings"
)

// Kind tells blank, text and numeric cells apart.
type Kind uint8

const (
	Blank Kind = iota
	Text
	Number
)

// Value is one scalar cell. Str always keeps the text the loader saw.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
}

// Parse classifies a raw cell string: empty/whitespace -> Blank, numeric -> Number, else Text.
func Parse(s string) Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return Value{Kind: Blank, Str: s}
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Value{Kind: Number, Str: s, Num: f}
	}
	return Value{Kind: Text, Str: s}
}

// TextValue wraps s as a text cell without trying to parse it.
func TextValue(s string) Value { return Value{Kind: Text, Str: s} }

// NumberValue builds a numeric cell whose Str is the shortest decimal form of f.
func NumberValue(f float64) Value {
	return Value{Kind: Number, Str: strconv.FormatFloat(f, 'f', -1, 64), Num: f}
}

func (v Value) IsBlank() bool { return v.Kind == Blank }

func (v Value) String() string { return v.Str }

// Int reports the value as an integer when it is a whole number.
func (v Value) Int() (int64, bool) {
	if v.Kind != Number || v.Num != math.Trunc(v.Num) {
		return 0, false
	}
	return int64(v.Num), true
}

// Grid is a rectangular, immutable 2-D view of one worksheet.
// Every operation that narrows it returns a new Grid.
type Grid struct {
	rows  [][]Value
	width int
}

// New copies rows and pads short ones with blanks up to the widest row.
func New(rows [][]Value) *Grid {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	out := make([][]Value, len(rows))
	for i, r := range rows {
		row := make([]Value, width)
		copy(row, r)
		out[i] = row
	}
	return &Grid{rows: out, width: width}
}

// FromStrings builds a grid from an array of arrays as returned by spreadsheet readers.
func FromStrings(rows [][]string) *Grid {
	vals := make([][]Value, len(rows))
	for i, r := range rows {
		vals[i] = make([]Value, len(r))
		for j, s := range r {
			vals[i][j] = Parse(s)
		}
	}
	return New(vals)
}

// Rows is the number of rows.
func (g *Grid) Rows() int { return len(g.rows) }

// Cols is the common width of every row.
func (g *Grid) Cols() int { return g.width }

// At returns the cell at (row, col); out-of-range coordinates read as blank.
func (g *Grid) At(row, col int) Value {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= g.width {
		return Value{}
	}
	return g.rows[row][col]
}

// Row returns a copy of one row.
func (g *Grid) Row(i int) []Value {
	out := make([]Value, g.width)
	if i >= 0 && i < len(g.rows) {
		copy(out, g.rows[i])
	}
	return out
}

// RowBlank reports whether every cell of row i is blank.
func (g *Grid) RowBlank(i int) bool {
	if i < 0 || i >= len(g.rows) {
		return true
	}
	for _, v := range g.rows[i] {
		if !v.IsBlank() {
			return false
		}
	}
	return true
}

// Slice returns rows [start, end) as a new grid of the same width.
func (g *Grid) Slice(start, end int) *Grid {
	if start < 0 {
		start = 0
	}
	if end > len(g.rows) {
		end = len(g.rows)
	}
	if start >= end {
		return &Grid{width: g.width}
	}
	return &Grid{rows: g.rows[start:end], width: g.width}
}

// DropRow returns a grid without row i.
func (g *Grid) DropRow(i int) *Grid {
	if i < 0 || i >= len(g.rows) {
		return g
	}
	out := make([][]Value, 0, len(g.rows)-1)
	out = append(out, g.rows[:i]...)
	out = append(out, g.rows[i+1:]...)
	return &Grid{rows: out, width: g.width}
}

// Strings renders the grid back to text, mostly for logs and tests.
func (g *Grid) Strings() [][]string {
	out := make([][]string, len(g.rows))
	for i, r := range g.rows {
		out[i] = make([]string, len(r))
		for j, v := range r {
			out[i][j] = v.Str
		}
	}
	return out
}
