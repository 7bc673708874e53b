package render

import (
	"fmt"
	"html/template"
)

// escapeHTML applies the same escaping text/template and html/template use
// to an interpolated {{name}} value.
func escapeHTML(s string) string {
	return template.HTMLEscapeString(s)
}

// stringify converts a resolved value to its interpolated text form.
// Mustache leaves numeric/bool formatting to the host language's default
// string conversion; fmt.Sprint matches what every Go Mustache port in the
// retrieval pack does.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
