package finance

import (
	"strconv"
	"strings"
)

// fmtFloat renders a float without a fixed precision, the way the
// upstream quote values are usually displayed.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fmtFloatPtr renders an optional float, N/A when missing.
func fmtFloatPtr(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmtFloat(*v)
}

// fmtIntPtr renders an optional integer, N/A when missing.
func fmtIntPtr(v *int64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatInt(*v, 10)
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point number.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// commaFloat renders a float with thousand separators and the given
// number of decimals, e.g. 43250.75 => "43,250.75".
func commaFloat(v float64, decimals int) string {
	return groupThousands(strconv.FormatFloat(v, 'f', decimals, 64))
}

// commaFloatPtr renders an optional float with thousand separators,
// N/A when missing.
func commaFloatPtr(v *float64, decimals int) string {
	if v == nil {
		return "N/A"
	}
	return commaFloat(*v, decimals)
}

// commaIntPtr renders an optional integer with thousand separators,
// N/A when missing.
func commaIntPtr(v *int64) string {
	if v == nil {
		return "N/A"
	}
	return groupThousands(strconv.FormatInt(*v, 10))
}
