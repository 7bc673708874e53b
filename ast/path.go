package ast

import strings "github.com/corehouse/mustache/internal/strings"

// ParsePath splits a dotted/bracketed identifier into path segments:
//
//	"user.name"        -> ["user", "name"]
//	"items[0].title"   -> ["items", "0", "title"]
//	"a['b'].c"         -> ["a", "b", "c"]
//
// This is the parse_path black box named in the parser's section on element
// construction: it never looks at a data context, it only tokenizes the
// identifier string captured from an interpolation or section tag.
func ParsePath(expr string) Path {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}

	// Fast path: no bracket indexing, just split on dots.
	if !strings.Contains(expr, "[") {
		parts := strings.Split(expr, ".")
		out := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return Path(out)
	}

	var b strings.Builder
	b.Grow(len(expr) + 8)
	i := 0
	for i < len(expr) {
		ch := expr[i]
		if ch == '[' {
			j := i + 1
			for j < len(expr) && expr[j] != ']' {
				j++
			}
			if j >= len(expr) {
				b.WriteByte(ch)
				i++
				continue
			}
			inside := strings.TrimSpace(expr[i+1 : j])
			if len(inside) >= 2 && ((inside[0] == '\'' && inside[len(inside)-1] == '\'') || (inside[0] == '"' && inside[len(inside)-1] == '"')) {
				inside = inside[1 : len(inside)-1]
			}
			if inside != "" {
				b.WriteByte('.')
				b.WriteString(inside)
			}
			i = j + 1
		} else {
			b.WriteByte(ch)
			i++
		}
	}

	parts := strings.Split(b.String(), ".")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return Path(out)
}
