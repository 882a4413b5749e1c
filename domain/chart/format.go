package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValue renders a value per its declared field kind: currency as
// $X,XXX.XX, percent as X.XX%, counts as grouped integers, raw with minimal
// digits. Formatting is a function of the declaration only, never inferred
// from magnitude. NaN formats as the kind's zero.
func FormatValue(kind FieldKind, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	switch kind {
	case FieldCurrency:
		return "$" + groupThousands(v, 2)
	case FieldPercent:
		return fmt.Sprintf("%.2f%%", v)
	case FieldCount:
		return groupThousands(v, 0)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// groupThousands formats v with the given decimal places and commas between
// thousands groups, e.g. 1234567.5 with 2 decimals -> "1,234,567.50".
func groupThousands(v float64, decimals int) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
