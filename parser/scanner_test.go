package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeftTrimForRequiresWhitespaceOnlyPrefix(t *testing.T) {
	tr := leftTrimFor([]byte("   \nrest"))
	assert.Equal(t, AllowTrimming, tr.Kind)
	assert.Equal(t, 3, tr.Index)
	assert.True(t, tr.StandAlone)

	tr = leftTrimFor([]byte("x  \nrest"))
	assert.Equal(t, PreserveWhitespaces, tr.Kind)

	tr = leftTrimFor([]byte("no newline here"))
	assert.Equal(t, PreserveWhitespaces, tr.Kind)
}

func TestRightTrimForRequiresWhitespaceOnlySuffix(t *testing.T) {
	tr := rightTrimFor([]byte("rest\n   "), false)
	assert.Equal(t, AllowTrimming, tr.Kind)
	assert.Equal(t, 5, tr.Index)
	assert.True(t, tr.StandAlone)

	tr = rightTrimFor([]byte("rest\n   x"), false)
	assert.Equal(t, PreserveWhitespaces, tr.Kind)
}

func TestRightTrimForTemplateStartSpecialCase(t *testing.T) {
	// No newline at all: only counts as standalone when this is the very
	// first TextPart of the template and the whole run is whitespace.
	tr := rightTrimFor([]byte("   "), true)
	assert.Equal(t, AllowTrimming, tr.Kind)
	assert.Equal(t, 0, tr.Index)

	tr = rightTrimFor([]byte("   "), false)
	assert.Equal(t, PreserveWhitespaces, tr.Kind)

	tr = rightTrimFor([]byte("  x"), true)
	assert.Equal(t, PreserveWhitespaces, tr.Kind)
}

func TestScannerScansStaticTextAndTag(t *testing.T) {
	s := newScannerFromString("Hi {{name}}!")

	part, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, PartStaticText, part.Type)
	assert.Equal(t, "Hi ", string(part.Content))

	part, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, PartInterpolation, part.Type)
	assert.Equal(t, "name", string(part.Content))

	part, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, PartStaticText, part.Type)
	assert.Equal(t, "!", string(part.Content))
}

func TestScannerTripleMustacheUnderDefaultDelimitersOnly(t *testing.T) {
	s := newScannerFromString("{{{raw}}}")
	part, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, PartNoEscape, part.Type)
	assert.Equal(t, "raw", string(part.Content))
}

func TestScannerSigilDispatch(t *testing.T) {
	cases := map[string]PartType{
		"{{! c }}":    PartComment,
		"{{=[ ]=}}":   PartDelimiters,
		"{{&x}}":      PartNoEscape,
		"{{#x}}":      PartSection,
		"{{^x}}":      PartInvertedSection,
		"{{/x}}":      PartCloseSection,
		"{{>x}}":      PartPartial,
		"{{<x}}":      PartParent,
		"{{$x}}":      PartBlock,
		"{{x}}":       PartInterpolation,
	}
	for src, want := range cases {
		s := newScannerFromString(src)
		part, err := s.Next()
		require.NoError(t, err, src)
		assert.Equal(t, want, part.Type, src)
	}
}

func TestScannerStreamingAcrossBufferBoundary(t *testing.T) {
	src := "aaaaaaaaaa{{name}}bbbbbbbbbb"
	s := newScannerFromReader(strings.NewReader(src), 8)

	var got []string
	for {
		part, err := s.Next()
		if err != nil {
			break
		}
		got = append(got, string(part.Content))
	}
	assert.Equal(t, []string{"aaaaaaaaaa", "name", "bbbbbbbbbb"}, got)
}

func TestScannerBookmarkCapturesVerbatimBytesAcrossBufferSwap(t *testing.T) {
	src := "{{#s}}0123456789ABCDEFGHIJ{{/s}}"
	s := newScannerFromReader(strings.NewReader(src), 6)

	open, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, PartSection, open.Type)

	s.BeginBookmark()
	var inner []*TextPart
	for {
		part, err := s.Next()
		require.NoError(t, err)
		if part.Type == PartCloseSection {
			break
		}
		inner = append(inner, part)
	}
	raw := s.EndBookmark()

	closeLen := len("{{") + 1 + len("s") + len("}}")
	got := string(raw)
	require.True(t, len(got) >= closeLen)
	got = got[:len(got)-closeLen]
	assert.Equal(t, "0123456789ABCDEFGHIJ", got)
}
