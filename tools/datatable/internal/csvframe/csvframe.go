// Package csvframe parses CSV text into a small column-typed frame and
// renders aligned text reports from it: head, summary statistics,
// missing values, correlation, group-by and top-N slices.
package csvframe

import (
	"encoding/csv"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindObject Kind = iota
	KindInt
	KindFloat
	KindTime
)

// String returns the dtype name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindTime:
		return "datetime64[ns]"
	default:
		return "object"
	}
}

// nullTokens are the cell values treated as missing, the common
// spreadsheet null spellings plus the explicit NA markers.
var nullTokens = map[string]bool{
	"":        true,
	"NA":      true,
	"N/A":     true,
	"n/a":     true,
	"NaN":     true,
	"nan":     true,
	"NULL":    true,
	"null":    true,
	"None":    true,
	"missing": true,
}

// Column is a single typed column. Numeric values are stored as floats
// regardless of the int/float distinction, which only affects rendering.
// Strs always holds the raw cells so that conversions can re-parse them.
type Column struct {
	Name string
	Kind Kind

	Strs  []string
	Nums  []float64
	Times []time.Time
	Nulls []bool
}

// IsNumeric reports whether the column holds int64 or float64 values.
func (c *Column) IsNumeric() bool {
	return c.Kind == KindInt || c.Kind == KindFloat
}

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.Nulls {
		if isNull {
			n++
		}
	}
	return n
}

// NonNull returns the numeric values of the column with missing cells
// removed.
func (c *Column) NonNull() []float64 {
	var vals []float64
	for i, v := range c.Nums {
		if !c.Nulls[i] {
			vals = append(vals, v)
		}
	}
	return vals
}

// Nunique returns the number of distinct values, missing cells excluded.
func (c *Column) Nunique() int {
	seen := map[any]bool{}
	for i := range c.Nulls {
		if !c.Nulls[i] {
			seen[c.key(i)] = true
		}
	}
	return len(seen)
}

// key returns the comparable identity of cell i for grouping.
func (c *Column) key(i int) any {
	switch c.Kind {
	case KindInt, KindFloat:
		return c.Nums[i]
	case KindTime:
		return c.Times[i].UnixNano()
	default:
		return c.Strs[i]
	}
}

// less orders cells i and j by their native value.
func (c *Column) less(i, j int) bool {
	switch c.Kind {
	case KindInt, KindFloat:
		return c.Nums[i] < c.Nums[j]
	case KindTime:
		return c.Times[i].Before(c.Times[j])
	default:
		return c.Strs[i] < c.Strs[j]
	}
}

// timeLayouts are the spreadsheet date layouts ConvertTime understands.
// Anything else coerces to a missing cell.
var timeLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ConvertTime reparses the column cells as dates, turning the column
// into a datetime column. Cells that match no known layout become
// missing cells.
func (c *Column) ConvertTime() {
	c.Times = make([]time.Time, len(c.Strs))
	for i, raw := range c.Strs {
		if c.Nulls[i] {
			continue
		}
		v := strings.TrimSpace(raw)
		parsed := false
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				c.Times[i] = ts
				parsed = true
				break
			}
		}
		if !parsed {
			c.Nulls[i] = true
		}
	}
	c.Kind = KindTime
	c.Nums = nil
}

// ConvertNumeric attempts to reparse an object column as numbers. The
// column is converted only when every non-missing cell parses, and the
// conversion result is reported.
func (c *Column) ConvertNumeric() bool {
	if c.Kind != KindObject {
		return false
	}
	nums := make([]float64, len(c.Strs))
	isInt := true
	anyNull := false
	for i, raw := range c.Strs {
		if c.Nulls[i] {
			nums[i] = math.NaN()
			anyNull = true
			continue
		}
		v := strings.TrimSpace(raw)
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return false
		}
		nums[i] = f
		if f != math.Trunc(f) || strings.ContainsAny(v, ".eE") {
			isInt = false
		}
	}
	c.Nums = nums
	if isInt && !anyNull {
		c.Kind = KindInt
	} else {
		c.Kind = KindFloat
	}
	return true
}

// Frame is an ordered set of equally sized columns with numeric row
// labels. Slicing operations keep the original labels, so a sorted or
// sliced frame still reports where each row came from.
type Frame struct {
	cols  []*Column
	index []int
}

// Parse reads CSV text into a frame. The first record is the header;
// columns where every non-missing cell parses as a number become
// numeric, int64 when all values are whole and none is missing.
func Parse(data string) (*Frame, error) {
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(records) == 0 {
		return nil, errors.New("no columns to parse from empty data")
	}

	header := records[0]
	rows := records[1:]
	f := &Frame{index: make([]int, len(rows))}
	for i := range rows {
		f.index[i] = i
	}

	for j, name := range header {
		c := &Column{
			Name:  name,
			Strs:  make([]string, len(rows)),
			Nulls: make([]bool, len(rows)),
		}
		for i, rec := range rows {
			c.Strs[i] = rec[j]
			if nullTokens[strings.TrimSpace(rec[j])] {
				c.Nulls[i] = true
			}
		}
		inferKind(c, len(rows))
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// inferKind classifies a freshly parsed column.
func inferKind(c *Column, rows int) {
	if rows == 0 {
		return
	}
	nums := make([]float64, rows)
	isNum := true
	isInt := true
	anyNull := false
	for i := 0; i < rows && isNum; i++ {
		if c.Nulls[i] {
			nums[i] = math.NaN()
			anyNull = true
			continue
		}
		v := strings.TrimSpace(c.Strs[i])
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			isNum = false
			continue
		}
		nums[i] = f
		if f != math.Trunc(f) || strings.ContainsAny(v, ".eE") {
			isInt = false
		}
	}
	if !isNum {
		return
	}
	c.Nums = nums
	if isInt && !anyNull {
		c.Kind = KindInt
	} else {
		c.Kind = KindFloat
	}
}

// NumRows returns the number of data rows.
func (f *Frame) NumRows() int {
	return len(f.index)
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int {
	return len(f.cols)
}

// Columns returns the columns in file order.
func (f *Frame) Columns() []*Column {
	return f.cols
}

// ColumnNames returns the column names in file order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the exact name, or nil.
func (f *Frame) Column(name string) *Column {
	for _, c := range f.cols {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NumericColumns returns the numeric columns in file order.
func (f *Frame) NumericColumns() []*Column {
	var cols []*Column
	for _, c := range f.cols {
		if c.IsNumeric() {
			cols = append(cols, c)
		}
	}
	return cols
}

// TotalNulls returns the number of missing cells across all columns.
func (f *Frame) TotalNulls() int {
	n := 0
	for _, c := range f.cols {
		n += c.NullCount()
	}
	return n
}

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n > f.NumRows() {
		n = f.NumRows()
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return f.restrict(rows)
}

// NLargest returns the rows holding the n largest values of col,
// keeping first-seen order for ties and dropping missing cells.
func (f *Frame) NLargest(n int, col *Column) *Frame {
	var rows []int
	for i := 0; i < f.NumRows(); i++ {
		if !col.Nulls[i] {
			rows = append(rows, i)
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return col.Nums[rows[a]] > col.Nums[rows[b]]
	})
	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	return f.restrict(rows)
}

// GroupBy partitions the frame rows by the values of col, missing cells
// dropped. Keys are returned rendered, in ascending value order, along
// with the row positions belonging to each key.
func (f *Frame) GroupBy(col *Column) ([]string, [][]int) {
	var reps []int
	var groups [][]int
	byKey := map[any]int{}
	for i := 0; i < f.NumRows(); i++ {
		if col.Nulls[i] {
			continue
		}
		k := col.key(i)
		gi, ok := byKey[k]
		if !ok {
			gi = len(reps)
			byKey[k] = gi
			reps = append(reps, i)
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], i)
	}

	order := make([]int, len(reps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return col.less(reps[order[a]], reps[order[b]])
	})

	keys := make([]string, len(order))
	sorted := make([][]int, len(order))
	for i, g := range order {
		keys[i] = col.CellString(reps[g])
		sorted[i] = groups[g]
	}
	return keys, sorted
}

// restrict builds a new frame from the given row positions, carrying
// the original row labels along.
func (f *Frame) restrict(rows []int) *Frame {
	nf := &Frame{index: make([]int, len(rows))}
	for i, r := range rows {
		nf.index[i] = f.index[r]
	}
	for _, c := range f.cols {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		for _, r := range rows {
			nc.Nulls = append(nc.Nulls, c.Nulls[r])
			nc.Strs = append(nc.Strs, c.Strs[r])
			if c.Nums != nil {
				nc.Nums = append(nc.Nums, c.Nums[r])
			}
			if c.Times != nil {
				nc.Times = append(nc.Times, c.Times[r])
			}
		}
		nf.cols = append(nf.cols, nc)
	}
	return nf
}
