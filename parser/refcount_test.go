package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corehouse/mustache/ast"
)

type discardRender struct{}

func (discardRender) Render([]ast.Element) error { return nil }

// TestParseReleasesAllBufferReferences guards spec invariant #6: every
// opened ref-counted buffer's count returns to zero once Parse returns,
// including the scanner's own initial holder reference, not just the ones
// TextParts acquire.
func TestParseReleasesAllBufferReferences(t *testing.T) {
	src := "Hi {{name}}!\n{{#items}}\n  - {{.}}\n{{/items}}\n{{>footer}}\nBye."
	p := NewFromString(src, Options{})
	require.NoError(t, p.Parse(discardRender{}))
	assert.EqualValues(t, 0, p.scanner.buf.RefCount())
}

func TestParseReleasesAllBufferReferencesWhenLambdaCaptureEnabled(t *testing.T) {
	src := "{{#wrap}}Hello {{name}}{{/wrap}}"
	p := NewFromString(src, Options{Lambdas: true})
	require.NoError(t, p.Parse(discardRender{}))
	assert.EqualValues(t, 0, p.scanner.buf.RefCount())
}

func TestParseReleasesAllBufferReferencesOverStreamingReader(t *testing.T) {
	src := "Hi {{name}}!\n{{#items}}\n  - {{.}}\n{{/items}}\n{{>footer}}\nBye."
	p := NewFromReader(strings.NewReader(src), Options{Streaming: true, ReadBufferSize: 8})
	require.NoError(t, p.Parse(discardRender{}))
	assert.EqualValues(t, 0, p.scanner.buf.RefCount())
}
