package csvframe

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxDecimals caps the rendered precision of float cells.
const maxDecimals = 6

// FormatFloats renders a set of float values with a shared precision:
// the longest fraction among the values, at least one digit and at most
// six. NaN renders as "NaN".
func FormatFloats(vals []float64) []string {
	dec := 1
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if i := strings.IndexByte(s, '.'); i >= 0 {
			if d := len(s) - i - 1; d > dec {
				dec = d
			}
		}
	}
	if dec > maxDecimals {
		dec = maxDecimals
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			out[i] = "NaN"
			continue
		}
		out[i] = strconv.FormatFloat(v, 'f', dec, 64)
	}
	return out
}

// FormatList renders names as a single-quoted list, the way column
// lists appear in the analysis reports: ['name', 'age'].
func FormatList(items []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(item)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

// Table renders header and rows as text columns separated by two
// spaces, every cell right-aligned. A nil header renders rows only.
func Table(header []string, rows [][]string) string {
	return renderTable(header, rows, false)
}

// LabeledTable renders like Table but left-aligns the first column,
// which is how label rows read.
func LabeledTable(header []string, rows [][]string) string {
	return renderTable(header, rows, true)
}

func renderTable(header []string, rows [][]string, leftFirst bool) string {
	cols := len(header)
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if len([]rune(cell)) > widths[i] {
				widths[i] = len([]rune(cell))
			}
		}
	}
	if header != nil {
		measure(header)
	}
	for _, row := range rows {
		measure(row)
	}

	renderRow := func(row []string) string {
		parts := make([]string, len(row))
		for i, cell := range row {
			pad := strings.Repeat(" ", widths[i]-len([]rune(cell)))
			if leftFirst && i == 0 {
				parts[i] = cell + pad
			} else {
				parts[i] = pad + cell
			}
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var lines []string
	if header != nil {
		lines = append(lines, renderRow(header))
	}
	for _, row := range rows {
		lines = append(lines, renderRow(row))
	}
	return strings.Join(lines, "\n")
}

// CellString renders cell i of the column. Float cells use the shared
// column precision so a column reads consistently.
func (c *Column) CellString(i int) string {
	return c.cellStrings()[i]
}

// cellStrings renders the whole column.
func (c *Column) cellStrings() []string {
	out := make([]string, len(c.Nulls))
	switch c.Kind {
	case KindInt, KindFloat:
		var vals []float64
		for i, v := range c.Nums {
			if !c.Nulls[i] {
				vals = append(vals, v)
			}
		}
		var formatted []string
		if c.Kind == KindFloat {
			formatted = FormatFloats(vals)
		} else {
			formatted = make([]string, len(vals))
			for i, v := range vals {
				formatted[i] = strconv.FormatFloat(v, 'f', 0, 64)
			}
		}
		j := 0
		for i := range out {
			if c.Nulls[i] {
				out[i] = "NaN"
				continue
			}
			out[i] = formatted[j]
			j++
		}
	case KindTime:
		for i := range out {
			if c.Nulls[i] {
				out[i] = "NaT"
				continue
			}
			out[i] = timeString(c.Times[i])
		}
	default:
		for i := range out {
			if c.Nulls[i] {
				out[i] = "NaN"
				continue
			}
			out[i] = c.Strs[i]
		}
	}
	return out
}

func timeString(ts time.Time) string {
	full := ts.Format("2006-01-02 15:04:05")
	if strings.HasSuffix(full, " 00:00:00") {
		return strings.TrimSuffix(full, " 00:00:00")
	}
	return full
}

// TableString renders the frame the way a dataframe prints: a numeric
// row label gutter, right-aligned cells, two-space separators.
func (f *Frame) TableString() string {
	if f.NumRows() == 0 {
		return "Empty DataFrame\nColumns: " + FormatList(f.ColumnNames()) + "\nIndex: []"
	}
	header := append([]string{""}, f.ColumnNames()...)
	cells := make([][]string, len(f.cols))
	for j, c := range f.cols {
		cells[j] = c.cellStrings()
	}
	rows := make([][]string, f.NumRows())
	for i := range rows {
		row := make([]string, 0, len(f.cols)+1)
		row = append(row, strconv.Itoa(f.index[i]))
		for j := range f.cols {
			row = append(row, cells[j][i])
		}
		rows[i] = row
	}
	return Table(header, rows)
}

// DtypesString renders the column dtypes as a name to dtype map:
// {'name': object, 'age': int64}.
func (f *Frame) DtypesString() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range f.cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "'%s': %s", c.Name, c.Kind)
	}
	b.WriteByte('}')
	return b.String()
}

// CSVString renders the frame back to CSV with every field quoted.
// Missing cells become empty fields, float cells keep a decimal point
// and the output ends with a newline.
func (f *Frame) CSVString() string {
	var b strings.Builder
	writeRecord := func(fields []string) {
		for i, v := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(v, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	writeRecord(f.ColumnNames())

	cells := make([][]string, len(f.cols))
	for j, c := range f.cols {
		cells[j] = c.csvStrings()
	}
	for i := 0; i < f.NumRows(); i++ {
		row := make([]string, len(f.cols))
		for j := range f.cols {
			row[j] = cells[j][i]
		}
		writeRecord(row)
	}
	return b.String()
}

// csvStrings renders the column for CSV output. Unlike cellStrings,
// missing cells are empty and floats carry their natural precision.
func (c *Column) csvStrings() []string {
	out := make([]string, len(c.Nulls))
	for i := range out {
		if c.Nulls[i] {
			continue
		}
		switch c.Kind {
		case KindInt:
			out[i] = strconv.FormatFloat(c.Nums[i], 'f', 0, 64)
		case KindFloat:
			s := strconv.FormatFloat(c.Nums[i], 'f', -1, 64)
			if !strings.ContainsAny(s, ".eE") {
				s += ".0"
			}
			out[i] = s
		case KindTime:
			out[i] = timeString(c.Times[i])
		default:
			out[i] = c.Strs[i]
		}
	}
	return out
}
