package strings

import (
	stdstrings "strings"
	"testing"
)

// Prevent compiler optimizations
var (
	benchSink  string
	benchSinkB bool
)

// Benchmark our zero-alloc TrimSpace vs standard library
func BenchmarkTrimSpace(b *testing.B) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no_trim", "hello"},
		{"left_trim", "  hello"},
		{"right_trim", "hello  "},
		{"both_trim", "  hello  "},
		{"heavy_trim", "          hello world          "},
		{"mixed_whitespace", "  \t\r\nhello\r\n\t  "},
	}

	for _, tt := range tests {
		b.Run("custom/"+tt.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				benchSink = TrimSpace(tt.input)
			}
		})

		b.Run("stdlib/"+tt.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				benchSink = stdstrings.TrimSpace(tt.input)
			}
		})
	}
}

// Benchmark individual operations
func BenchmarkTrimSpaceVsStdlib(b *testing.B) {
	const input = "  hello world  "

	b.Run("custom", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			benchSink = TrimSpace(input)
		}
	})

	b.Run("stdlib", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			benchSink = stdstrings.TrimSpace(input)
		}
	})
}

// Benchmark with realistic tag-body inputs: the identifiers and delimiter
// bodies TrimSpace actually runs against in parser.parseIdentifier and
// parser.scanTag's mk closure.
func BenchmarkTrimSpaceTagBody(b *testing.B) {
	tagBodies := []string{
		"user.name",
		"  items[0].title  ",
		"\t#section\t",
		"= [ ] =",
		"  &rawValue  ",
	}

	for _, val := range tagBodies {
		b.Run("custom", func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				benchSink = TrimSpace(val)
			}
		})

		b.Run("stdlib", func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				benchSink = stdstrings.TrimSpace(val)
			}
		})
	}
}

// Benchmark function aliases overhead
func BenchmarkAliases(b *testing.B) {
	const (
		haystack = "{{#items}}{{title}}{{/items}}"
		needle   = "items"
	)

	b.Run("alias_Contains", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			benchSinkB = Contains(haystack, needle)
		}
	})

	b.Run("stdlib_Contains", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			benchSinkB = stdstrings.Contains(haystack, needle)
		}
	})

	b.Run("alias_ContainsAny", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			benchSinkB = ContainsAny(needle, " \t\n")
		}
	})

	b.Run("stdlib_ContainsAny", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			benchSinkB = stdstrings.ContainsAny(needle, " \t\n")
		}
	})
}

// Benchmark the two split aliases against the inputs they're actually
// called with: a dotted path (ast.ParsePath) and a delimiter-change tag
// body (parser.parseDelimiters).
func BenchmarkSplitAliases(b *testing.B) {
	const dottedPath = "items.0.title"
	const delimiterBody = "[ ]"

	b.Run("Split/dotted_path", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			parts := Split(dottedPath, ".")
			benchSink = parts[0]
		}
	})

	b.Run("Fields/delimiter_body", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			parts := Fields(delimiterBody)
			benchSink = parts[0]
		}
	})
}
