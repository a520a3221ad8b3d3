package extension

import (
	"fmt"
	"time"
)

// DateFunctionName is the function the evaluator calls for date literals.
const DateFunctionName = "toDate"

// DateFormat describes how toDate parses date literals. Literals are
// normalized to use '/' as separator before parsing.
type DateFormat struct {
	Name   string
	Layout string
}

var (
	// StandardFormat is dd/MM/yyyy.
	StandardFormat = DateFormat{Name: "standard", Layout: "2/1/2006"}
	// AmericanFormat is MM/dd/yyyy.
	AmericanFormat = DateFormat{Name: "american", Layout: "1/2/2006"}
	// JapaneseFormat is yyyy/MM/dd.
	JapaneseFormat = DateFormat{Name: "japanese", Layout: "2006/1/2"}
)

var (
	// StandardDate provides toDate for dd/MM/yyyy literals.
	StandardDate Source = DateSource(StandardFormat)
	// AmericanDate provides toDate for MM/dd/yyyy literals.
	AmericanDate Source = DateSource(AmericanFormat)
	// JapaneseDate provides toDate for yyyy/MM/dd literals.
	JapaneseDate Source = DateSource(JapaneseFormat)
)

// Parse parses s in the format, at midnight UTC.
func (f DateFormat) Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(f.Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s date %q: %w", f.Name, s, err)
	}
	return t, nil
}

// DateSource returns a Source providing toDate for the given format.
func DateSource(f DateFormat) Source {
	return Funcs{FuncErr1(DateFunctionName, f.Parse)}
}
