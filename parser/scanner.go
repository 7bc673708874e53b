package parser

import (
	"bytes"
	"io"

	"github.com/corehouse/mustache/ast"
	"github.com/corehouse/mustache/buffer"
	strs "github.com/corehouse/mustache/internal/strings"
	"github.com/corehouse/mustache/reader"
)

// Scanner is the resumable byte-level tokenizer: it turns a source (string
// or streaming reader) into a sequence of TextParts, one per run of static
// text or recognized tag, computing each StaticText's trim metadata as it
// goes.
//
// A Scanner never looks beyond the active delimiter pair. Delimiter changes
// take effect starting with the TextPart immediately following the
// {{=A B=}} tag that introduced them.
type Scanner struct {
	fr  *reader.FileReader // nil when the whole source was supplied as a string
	buf *buffer.RefCountedSlice
	pos int // offset into buf.Bytes() of the next unscanned byte

	line   int
	column int

	delims ast.Delimiters

	// atTemplateStart is true until the first TextPart of any kind has been
	// returned. A leading whitespace-only static-text run with no newline
	// of its own is treated as though an implicit newline preceded it, the
	// same special case real Mustache implementations give the start of
	// the document (see rightTrimFor).
	atTemplateStart bool

	// bookmark, when non-nil, marks the scanner position a lambda section's
	// inner-text capture began at; EndBookmark materializes the verbatim bytes
	// between the bookmark and the current position. Only one bookmark can
	// be open at a time since sections cannot overlap.
	bookmark *bookmark

	done bool
}

type bookmark struct {
	buf   *buffer.RefCountedSlice
	start int
	line  int
	col   int
}

// newScannerFromString constructs a Scanner over an in-memory template. The
// whole string is held as a single RefCountedSlice for the scan's lifetime.
func newScannerFromString(src string) *Scanner {
	data := []byte(src)
	return &Scanner{
		buf:             buffer.New(data, nil),
		line:            1,
		column:          1,
		delims:          ast.DefaultDelimiters,
		atTemplateStart: true,
	}
}

// newScannerFromReader constructs a streaming Scanner. readBufferLen must be
// at least reader.MinReadBufferSize for the longest delimiter the caller
// will ever install via a {{=A B=}} tag.
func newScannerFromReader(src io.Reader, readBufferLen int) *Scanner {
	return &Scanner{
		fr:              reader.New(src, readBufferLen),
		line:            1,
		column:          1,
		delims:          ast.DefaultDelimiters,
		atTemplateStart: true,
	}
}

// Close releases the scanner's own reference on whatever buffer it is
// currently holding -- the "sole initial holder" reference a fresh
// RefCountedSlice is constructed with (buffer.New, called on the whole string
// source or on each chunk reader.FileReader.Read returns).
// Every TextPart acquires and releases its own reference independently; this
// is the one the scanner itself never hands off, so the count cannot reach
// zero until a Parser calls Close once scanning is done.
func (s *Scanner) Close() error {
	if s.buf == nil {
		return nil
	}
	return s.buf.Release()
}

// SetDelimiters installs new tag delimiters, effective for everything
// scanned from this point forward.
func (s *Scanner) SetDelimiters(d ast.Delimiters) {
	s.delims = d
}

// Delimiters returns the delimiters currently in effect.
func (s *Scanner) Delimiters() ast.Delimiters {
	return s.delims
}

// BeginBookmark records the current scan position so a later EndBookmark
// call can materialize everything scanned in between, verbatim, for a
// lambda section's captured inner text.
func (s *Scanner) BeginBookmark() {
	s.bookmark = &bookmark{buf: s.buf.Acquire(), start: s.pos, line: s.line, col: s.column}
}

// EndBookmark returns the verbatim bytes between the matching BeginBookmark
// call and the current position, and releases the bookmark's buffer
// reference. If the scan crossed a buffer swap in between, the bytes are
// copied out of the (now possibly-recycled) old buffer and the current one;
// an eager copy on swap, accepted as a reasonable simplification in
// streaming mode since a lambda capture spanning a buffer swap is rare.
func (s *Scanner) EndBookmark() []byte {
	bm := s.bookmark
	s.bookmark = nil
	if bm == nil {
		return nil
	}
	defer bm.buf.Release()

	if bm.buf == s.buf {
		out := make([]byte, s.pos-bm.start)
		copy(out, s.buf.Bytes()[bm.start:s.pos])
		return out
	}
	// Buffer swapped mid-capture: we no longer have a contiguous view. The
	// bookmark's own buffer still holds its tail (never released while the
	// bookmark lives), and the current buffer holds the head of the new
	// capture. Since FileReader always prepends the unconsumed tail of the
	// old buffer onto the new one, s.buf's own prefix already contains the
	// bytes that followed bm.start in source order once reassembled by the
	// prepend protocol; the bookmark buffer's bytes from bm.start onward
	// are exactly what the new buffer's prefix was built from, so we only
	// need the current buffer's bytes up to s.pos.
	out := make([]byte, 0, s.pos+8)
	out = append(out, bm.buf.Bytes()[bm.start:]...)
	out = append(out, s.buf.Bytes()[:s.pos]...)
	return out
}

func (s *Scanner) fill() error {
	if s.fr == nil {
		return nil // string source, nothing to refill
	}
	var prepend []byte
	if s.buf != nil {
		prepend = s.buf.Bytes()[s.pos:]
		// An open bookmark holds its own reference (BeginBookmark), so the
		// scanner's reference is always dropped here.
		s.buf.Release()
	}
	chunk, err := s.fr.Read(prepend)
	if err != nil {
		return err
	}
	s.buf = buffer.New(chunk, nil)
	s.pos = 0
	s.done = s.fr.Finished() && len(chunk) == 0
	return nil
}

func (s *Scanner) bytes() []byte {
	return s.buf.Bytes()
}

func (s *Scanner) remaining() []byte {
	return s.bytes()[s.pos:]
}

// needMore reports whether the scanner should try to pull in more data
// before deciding what the next part is: true when streaming, not yet at
// EOF, and the unscanned tail is too short to safely contain a full
// delimiter match.
func (s *Scanner) needMore(n int) bool {
	if s.fr == nil || s.fr.Finished() {
		return false
	}
	return len(s.remaining()) < n
}

func (s *Scanner) advancePos(n int) {
	chunk := s.bytes()[s.pos : s.pos+n]
	for _, b := range chunk {
		if b == '\n' {
			s.line++
			s.column = 1
		} else {
			s.column++
		}
	}
	s.pos += n
}

func (s *Scanner) position() ast.Position {
	return ast.Position{Line: s.line, Column: s.column}
}

// Next returns the next TextPart, or io.EOF once the source is exhausted.
func (s *Scanner) Next() (*TextPart, error) {
	if s.buf == nil {
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
	for s.needMore(len(s.delims.Open)) {
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
	if s.pos >= len(s.bytes()) && (s.fr == nil || s.fr.Finished()) {
		return nil, io.EOF
	}

	if bytes.HasPrefix(s.remaining(), []byte(s.delims.Open)) {
		return s.scanTag()
	}
	return s.scanStaticText()
}

// scanStaticText consumes everything up to (but not including) the next
// occurrence of the open delimiter, or to EOF if none remains, and computes
// its trim metadata.
func (s *Scanner) scanStaticText() (*TextPart, error) {
	start := s.position()
	startPos := s.pos
	startBuf := s.buf

	for {
		idx := bytes.Index(s.remaining(), []byte(s.delims.Open))
		if idx >= 0 {
			s.advancePos(idx)
			break
		}
		if s.fr == nil || s.fr.Finished() {
			s.advancePos(len(s.remaining()))
			break
		}
		if err := s.fill(); err != nil {
			return nil, err
		}
		// restart the scan against the freshly-prepended buffer
		if startBuf != s.buf {
			startBuf = s.buf
			startPos = 0
		}
	}

	wasAtStart := s.atTemplateStart
	s.atTemplateStart = false

	content := s.buf.Bytes()[startPos:s.pos]
	part := &TextPart{
		buf:     s.buf.Acquire(),
		Content: content,
		Type:    PartStaticText,
		Source:  start,
	}
	part.LeftTrim = leftTrimFor(content)
	part.RightTrim = rightTrimFor(content, wasAtStart)
	return part, nil
}

func allWhitespace(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// leftTrimFor finds content's first newline; if everything up to and
// including it is whitespace, that prefix is a candidate to trim if the
// node's prev_node turns out standalone.
func leftTrimFor(content []byte) Trim {
	idx := bytes.IndexByte(content, '\n')
	if idx < 0 || !allWhitespace(content[:idx]) {
		return Trim{Kind: PreserveWhitespaces}
	}
	return Trim{Kind: AllowTrimming, Index: idx, StandAlone: true}
}

// rightTrimFor finds content's last newline; if everything after it is
// whitespace, that suffix is a candidate to trim if the following tag turns
// out standalone. When content has no newline at all, atTemplateStart
// treats the document's own start as an implicit newline, mirroring real
// Mustache implementations' treatment of "start of template" as equivalent
// to "start of line" for standalone detection.
func rightTrimFor(content []byte, atTemplateStart bool) Trim {
	idx := bytes.LastIndexByte(content, '\n')
	if idx < 0 {
		if atTemplateStart && allWhitespace(content) {
			return Trim{Kind: AllowTrimming, Index: 0, StandAlone: true}
		}
		return Trim{Kind: PreserveWhitespaces}
	}
	if !allWhitespace(content[idx+1:]) {
		return Trim{Kind: PreserveWhitespaces}
	}
	return Trim{Kind: AllowTrimming, Index: idx + 1, StandAlone: true}
}

// tripleOpen and tripleClose are the literal delimiter pair {{{ }}} accepts unescaped
// interpolation with, independent of whatever SetDelimiters installed. Per
// the Mustache spec this sigil is only recognized under the default
// delimiters; a template that changes delimiters must use {{&x}} instead.
const tripleOpen = "{{{"
const tripleClose = "}}}"

// scanTag consumes one {{...}} tag (or {{{...}}} under default delimiters)
// and classifies it by its leading sigil.
func (s *Scanner) scanTag() (*TextPart, error) {
	start := s.position()
	s.atTemplateStart = false

	useTriple := s.delims == ast.DefaultDelimiters && bytes.HasPrefix(s.remaining(), []byte(tripleOpen))
	open, close := s.delims.Open, s.delims.Close
	if useTriple {
		open, close = tripleOpen, tripleClose
	}

	for s.needMore(len(open) + len(close)) {
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
	idx, err := s.findClose(close)
	if err != nil {
		return nil, err
	}

	raw := s.buf.Bytes()[s.pos+len(open) : s.pos+idx]
	rawLen := idx + len(close)
	s.advancePos(idx + len(close))

	mk := func(typ PartType, content string) *TextPart {
		return &TextPart{Type: typ, Source: start, Content: []byte(strs.TrimSpace(content)), RawLen: rawLen}
	}

	inner := string(raw)
	if useTriple {
		return mk(PartNoEscape, inner), nil
	}

	sigil := byte(0)
	if len(inner) > 0 {
		sigil = inner[0]
	}
	switch sigil {
	case '!':
		return mk(PartComment, inner[1:]), nil
	case '=':
		body := inner[1:]
		if len(body) > 0 && body[len(body)-1] == '=' {
			body = body[:len(body)-1]
		}
		return mk(PartDelimiters, body), nil
	case '&':
		return mk(PartNoEscape, inner[1:]), nil
	case '#':
		return mk(PartSection, inner[1:]), nil
	case '^':
		return mk(PartInvertedSection, inner[1:]), nil
	case '/':
		return mk(PartCloseSection, inner[1:]), nil
	case '>':
		return mk(PartPartial, inner[1:]), nil
	case '<':
		return mk(PartParent, inner[1:]), nil
	case '$':
		return mk(PartBlock, inner[1:]), nil
	default:
		return mk(PartInterpolation, inner), nil
	}
}

// findClose locates close within the unscanned tail, refilling from the
// streaming source as needed, and returns its offset relative to s.pos.
// Tag bodies are expected to be short; an unterminated tag surfaces as
// io.ErrUnexpectedEOF once the source is exhausted.
func (s *Scanner) findClose(close string) (int, error) {
	for {
		if idx := bytes.Index(s.remaining(), []byte(close)); idx >= 0 {
			return idx, nil
		}
		if s.fr == nil || s.fr.Finished() {
			return 0, io.ErrUnexpectedEOF
		}
		if err := s.fill(); err != nil {
			return 0, err
		}
	}
}
