package parser

import (
	"github.com/corehouse/mustache/ast"
	"github.com/corehouse/mustache/buffer"
)

// PartType discriminates the kind of tag (or static-text run) a TextPart
// represents.
type PartType int

const (
	PartStaticText PartType = iota
	PartComment
	PartDelimiters
	PartInterpolation
	PartNoEscape // {{&x}} or {{{x}}}
	PartSection
	PartInvertedSection
	PartCloseSection
	PartPartial
	PartParent
	PartBlock
)

// TrimKind discriminates the three trim states a side of a TextPart's
// content can be in.
type TrimKind int

const (
	PreserveWhitespaces TrimKind = iota
	Trimmed
	AllowTrimming
)

// Trim is the tagged variant attached to each side (left/right) of a
// StaticText TextPart's content.
type Trim struct {
	Kind TrimKind
	// Index is the offset within Content at which a trim would cut. For
	// RightTrim it is the offset of the first byte of the trailing
	// whitespace span (the cut keeps Content[:Index]). For LeftTrim it is
	// the offset of the line's own newline (the cut keeps
	// Content[Index+1:]) -- see DESIGN.md for why the two conventions
	// differ by exactly one byte, and how trimLeft's paired-index fixup
	// accounts for it.
	Index int
	// StandAlone is true when the whitespace span this Trim describes
	// reaches a line boundary on its own, independent of what any
	// adjacent node resolves to.
	StandAlone bool
}

// TextPart is the atomic unit the scanner emits.
type TextPart struct {
	buf     *buffer.RefCountedSlice
	Content []byte // view into buf's bytes (or a freshly materialized bookmark slice)

	Type   PartType
	Source ast.Position

	LeftTrim  Trim
	RightTrim Trim

	// Indentation is the whitespace immediately preceding a standalone tag,
	// recorded as a side effect of a successful right-trim.
	Indentation []byte

	// IsStandAlone is not set by the parser; the trimming walk records a
	// tag's standalone status on Node.IsStandAlone instead.
	IsStandAlone bool

	// RawLen is the total number of source bytes a tag TextPart consumed,
	// including both delimiters. The parser does not read it: closeTagLen
	// computes a close tag's length from the delimiters and identifier.
	// Zero for StaticText, where Content's own length already serves that
	// purpose.
	RawLen int
}

// Release drops this TextPart's reference on its backing buffer. Safe to
// call on a part with no buffer (bookmark-materialized inner text, or a
// zero-value TextPart).
func (p *TextPart) Release() error {
	if p == nil || p.buf == nil {
		return nil
	}
	return p.buf.Release()
}

// trimLeft cuts Content at LeftTrim.Index+1, recording the removed byte
// count against the paired RightTrim.Index (a suffix cut never needs this,
// only a prefix cut does -- see trimRight).
func (p *TextPart) trimLeft() {
	if p.LeftTrim.Kind != AllowTrimming {
		return
	}
	removed := p.LeftTrim.Index + 1
	p.Content = p.Content[removed:]
	p.LeftTrim = Trim{Kind: Trimmed}
	if p.RightTrim.Kind == AllowTrimming {
		p.RightTrim.Index -= removed
	}
}

// trimRight cuts Content at RightTrim.Index, recording the removed span as
// Indentation (cleared if the span was empty).
func (p *TextPart) trimRight() {
	if p.RightTrim.Kind != AllowTrimming {
		return
	}
	idx := p.RightTrim.Index
	removed := p.Content[idx:]
	p.Content = p.Content[:idx]
	p.RightTrim = Trim{Kind: Trimmed}
	if len(removed) > 0 {
		p.Indentation = removed
	} else {
		p.Indentation = nil
	}
}

// canBeStandAlone reports whether a tag of this type may itself stand alone
// on a line (any non-interpolation tag). Only types that actually become
// Node entries in the parse tree are listed here -- Comment, Delimiters and
// CloseSection are discarded by the parser before a Node would ever be
// built for them, so they never need to answer this question.
func (t PartType) canBeStandAlone() bool {
	switch t {
	case PartSection, PartInvertedSection, PartPartial, PartParent, PartBlock:
		return true
	default:
		return false
	}
}
