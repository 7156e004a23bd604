package htmltable

import (
	"fmt"
	"niopendata/lib/tree"
	"strconv"
)

// Formatter renders a record value as cell text.
type Formatter interface {
	Format(v tree.Value) string
}

type FormatterFunc func(v tree.Value) string

func (f FormatterFunc) Format(v tree.Value) string {
	return f(v)
}

// StringFormatter renders every value with Stringify.
type StringFormatter struct{}

func (StringFormatter) Format(v tree.Value) string {
	return Stringify(v)
}

// PercentFormatter renders floats strictly between 0 and 1 as percentages
// with Precision decimals and everything else with Stringify.
type PercentFormatter struct {
	Precision int
}

func (p PercentFormatter) Format(v tree.Value) string {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return Stringify(v)
	}
	if f <= 0 || f >= 1 {
		return Stringify(v)
	}
	return strconv.FormatFloat(f*100, 'f', p.Precision, 64) + "%"
}

// DefaultFormatter is used when EncodeOptions.Formatter is nil.
var DefaultFormatter Formatter = PercentFormatter{Precision: 2}

// Stringify renders v the way it should read in a table cell: nil is
// blank and floats use the shortest representation that round trips.
func Stringify(v tree.Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
