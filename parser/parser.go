package parser

import (
	"errors"
	"io"

	"github.com/corehouse/mustache/ast"
	strs "github.com/corehouse/mustache/internal/strings"
	"github.com/corehouse/mustache/reader"
)

// Render is the external sink a Parser delivers elements to. A Parser never
// builds a full tree for the caller; it calls Render exactly once in
// full-AST mode, or multiple times (each self-contained with respect to
// section nesting) in streaming mode.
type Render interface {
	Render(elements []ast.Element) error
}

// Options configures a Parser.
type Options struct {
	// Lambdas enables verbatim inner-text capture on Section nodes, for a
	// renderer that wants to hand raw template text to a lambda. Nested
	// sections inside a lambda-capturing section do not get their own
	// capture (only one bookmark can be open on the scanner at a time);
	// their InnerText is left nil.
	Lambdas bool
	// Delimiters overrides the starting tag delimiters. The zero value
	// selects ast.DefaultDelimiters.
	Delimiters ast.Delimiters
	// ReadBufferSize sets the chunk size for NewFromReader sources. The
	// zero value selects a size derived from the longest delimiter in use.
	ReadBufferSize int
	// Streaming cuts output into multiple Render calls at root-level
	// standalone boundaries instead of a single call at end-of-template.
	Streaming bool
}

// Parser drives a Scanner, building one parse Level per nesting depth and
// resolving standalone-tag trimming as it goes.
type Parser struct {
	scanner *Scanner
	opts    Options
	lastErr *ast.ParseError

	bookmarkDepth int
}

// NewFromString constructs a Parser over an in-memory template.
func NewFromString(src string, opts Options) *Parser {
	delims := opts.Delimiters
	if delims.Open == "" {
		delims = ast.DefaultDelimiters
	}
	s := newScannerFromString(src)
	s.SetDelimiters(delims)
	return &Parser{scanner: s, opts: opts}
}

// NewFromReader constructs a streaming Parser.
func NewFromReader(src io.Reader, opts Options) *Parser {
	delims := opts.Delimiters
	if delims.Open == "" {
		delims = ast.DefaultDelimiters
	}
	bufLen := opts.ReadBufferSize
	if bufLen <= 0 {
		maxDelim := len(delims.Open)
		if len(delims.Close) > maxDelim {
			maxDelim = len(delims.Close)
		}
		bufLen = reader.MinReadBufferSize(maxDelim)
	}
	s := newScannerFromReader(src, bufLen)
	s.SetDelimiters(delims)
	return &Parser{scanner: s, opts: opts}
}

// LastError returns the structured error from the most recent failed Parse
// call, or nil if the last call succeeded (or none has run yet).
func (p *Parser) LastError() *ast.ParseError {
	return p.lastErr
}

// Parse scans the whole template and delivers its elements to render.
func (p *Parser) Parse(render Render) error {
	p.lastErr = nil
	defer p.scanner.Close()

	root := newRootLevel()
	root.delims = p.scanner.Delimiters()

	if err := p.parseLevel(root, render); err != nil {
		var pe *ast.ParseError
		if errors.As(err, &pe) {
			p.lastErr = pe
		}
		return err
	}

	p.finalizeTrailing(root)

	elements := produceNodes(root.list, p.opts.Lambdas)
	if len(elements) > 0 || !p.opts.Streaming {
		if err := render.Render(elements); err != nil {
			return err
		}
	}
	return nil
}

// finalizeTrailing runs trim_last against whatever StaticText node is last
// in the root level's list, against the tag nodes (if any) that follow it.
func (p *Parser) finalizeTrailing(root *Level) {
	lastStaticIdx := -1
	for i, n := range root.list {
		if n.Type == BlockStaticText {
			lastStaticIdx = i
		}
	}
	if lastStaticIdx < 0 {
		return
	}
	trimLast(root.list[lastStaticIdx], root.list[lastStaticIdx+1:])
	if root.list[lastStaticIdx].empty() {
		root.list[lastStaticIdx].Part.Release()
		root.list = append(root.list[:lastStaticIdx], root.list[lastStaticIdx+1:]...)
	}
}

// parseLevel consumes TextParts until the level's own close tag is found
// (for a non-root level) or the source is exhausted (root level only; EOF
// inside a non-root level is an unclosed-section error).
func (p *Parser) parseLevel(level *Level, render Render) error {
	for {
		part, err := p.scanner.Next()
		if err != nil {
			if err == io.EOF {
				if level.opener != nil {
					return ast.At(ast.ErrUnexpectedEOF, level.opener.Part.Source, "unclosed "+level.opener.Identifier)
				}
				return nil
			}
			if err == io.ErrUnexpectedEOF {
				return ast.At(ast.ErrUnexpectedEOF, p.scanner.position(), "unterminated tag")
			}
			return err
		}

		switch part.Type {
		case PartStaticText:
			p.addStaticText(level, part)
			if p.opts.Streaming && level.opener == nil {
				p.maybeFlush(level, render)
			}

		case PartComment:
			part.Release()

		case PartDelimiters:
			d, perr := parseDelimiters(part)
			if perr != nil {
				return perr
			}
			level.delims = d
			p.scanner.SetDelimiters(d)
			part.Release()

		case PartCloseSection:
			ident := string(part.Content)
			part.Release()
			if level.opener == nil {
				return ast.At(ast.ErrUnexpectedCloseSection, part.Source, ident)
			}
			if ident != level.opener.Identifier {
				return ast.At(ast.ErrClosingTagMismatch, part.Source, "expected "+level.opener.Identifier+", got "+ident)
			}
			return nil

		case PartInterpolation, PartNoEscape:
			ident, ierr := parseIdentifier(part)
			if ierr != nil {
				return ierr
			}
			node := &Node{Type: blockTypeFor(part.Type), Part: part, Identifier: ident}
			level.addNode(node)

		case PartSection, PartInvertedSection, PartPartial, PartParent, PartBlock:
			if err := p.parseContainer(level, part, render); err != nil {
				return err
			}

		default:
			return ast.At(ast.ErrInvalidIdentifier, part.Source, "unrecognized tag")
		}
	}
}

func (p *Parser) addStaticText(level *Level, part *TextPart) {
	node := &Node{Type: BlockStaticText, Part: part}
	level.addNode(node)
	trimStandAlone(node)
	if node.empty() {
		level.removeLast()
		node.Part.Release()
	}
}

// parseContainer handles Section, InvertedSection, Partial, Parent and
// Block tags. Only Section/InvertedSection/Parent/Block open a child level;
// Partial is always a leaf.
func (p *Parser) parseContainer(level *Level, part *TextPart, render Render) error {
	ident, err := parseIdentifier(part)
	if err != nil {
		return err
	}

	node := &Node{Type: blockTypeFor(part.Type), Part: part, Identifier: ident, Delimiters: p.scanner.Delimiters()}
	level.addNode(node)

	if part.Type == PartPartial {
		return nil
	}

	capturing := p.opts.Lambdas && part.Type == PartSection && p.bookmarkDepth == 0
	if capturing {
		p.scanner.BeginBookmark()
		p.bookmarkDepth++
	}

	child := newLevel(level, node)
	savedDelims := level.delims
	err = p.parseLevel(child, render)

	if capturing {
		p.bookmarkDepth--
		raw := p.scanner.EndBookmark()
		if closeLen, ok := closeTagLen(child); ok && closeLen <= len(raw) {
			node.InnerText = raw[:len(raw)-closeLen]
		}
	}
	if err != nil {
		return err
	}

	child.endLevel()
	level.delims = savedDelims
	p.scanner.SetDelimiters(savedDelims)

	if p.opts.Streaming && level.opener == nil {
		p.maybeFlush(level, render)
	}
	return nil
}

// closeTagLen is a small accommodation for capturing a lambda section's
// inner text: the scanner has already consumed the matching close tag by
// the time parseLevel returns, so its raw length must be subtracted back
// off the bookmark capture.
func closeTagLen(child *Level) (int, bool) {
	if child.opener == nil {
		return 0, false
	}
	d := child.delims
	return len(d.Open) + 1 + len(child.opener.Identifier) + len(d.Close), true
}

func blockTypeFor(t PartType) BlockType {
	switch t {
	case PartInterpolation:
		return BlockInterpolation
	case PartNoEscape:
		return BlockNoEscape
	case PartSection:
		return BlockSection
	case PartInvertedSection:
		return BlockInvertedSection
	case PartPartial:
		return BlockPartial
	case PartParent:
		return BlockParent
	case PartBlock:
		return BlockBlock
	default:
		return BlockStaticText
	}
}

func parseIdentifier(part *TextPart) (string, error) {
	ident := strs.TrimSpace(string(part.Content))
	if ident == "" {
		return "", ast.At(ast.ErrInvalidIdentifier, part.Source, "empty identifier")
	}
	if strs.ContainsAny(ident, " \t\n") {
		return "", ast.At(ast.ErrInvalidIdentifier, part.Source, ident)
	}
	return ident, nil
}

func parseDelimiters(part *TextPart) (ast.Delimiters, error) {
	fields := strs.Fields(string(part.Content))
	if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
		return ast.Delimiters{}, ast.At(ast.ErrInvalidDelimiters, part.Source, string(part.Content))
	}
	return ast.Delimiters{Open: fields[0], Close: fields[1]}, nil
}

// maybeFlush implements render-streaming mode: whenever a root-level
// StaticText node's own left-trim just succeeded, every node strictly
// before it is known-final (nothing later can still reach back and change
// it), so it is safe to render and discard everything except that node
// itself, which may yet have its right side trimmed by what follows.
func (p *Parser) maybeFlush(level *Level, render Render) {
	if len(level.list) < 2 {
		return
	}
	last := level.list[len(level.list)-1]
	if last.Type != BlockStaticText || last.Part.LeftTrim.Kind != Trimmed {
		return
	}
	batch := produceNodes(level.list[:len(level.list)-1], p.opts.Lambdas)
	level.list = []*Node{last}
	if len(batch) == 0 {
		return
	}
	_ = render.Render(batch)
}

// produceNodes converts a flat sibling list into the Element sequence a
// Render sink expects, recursing into container children immediately after
// their own element so ChildrenCount is contiguous.
func produceNodes(nodes []*Node, lambdas bool) []ast.Element {
	var out []ast.Element
	for _, n := range nodes {
		out = append(out, createElement(n, lambdas)...)
	}
	return out
}

func createElement(n *Node, lambdas bool) []ast.Element {
	switch n.Type {
	case BlockStaticText:
		content := append([]byte(nil), n.content()...)
		n.Part.Release()
		if len(content) == 0 {
			return nil
		}
		return []ast.Element{ast.StaticText{Content: content}}

	case BlockInterpolation:
		return []ast.Element{ast.Interpolation{Path: ast.ParsePath(n.Identifier)}}

	case BlockNoEscape:
		return []ast.Element{ast.UnescapedInterpolation{Path: ast.ParsePath(n.Identifier)}}

	case BlockSection:
		children := produceNodes(n.Children, lambdas)
		elem := ast.Section{
			Path:          ast.ParsePath(n.Identifier),
			ChildrenCount: len(children),
			Delimiters:    n.Delimiters,
		}
		if lambdas {
			elem.InnerText = n.InnerText
		}
		out := make([]ast.Element, 0, 1+len(children))
		return append(append(out, elem), children...)

	case BlockInvertedSection:
		children := produceNodes(n.Children, lambdas)
		elem := ast.InvertedSection{Path: ast.ParsePath(n.Identifier), ChildrenCount: len(children)}
		return append([]ast.Element{elem}, children...)

	case BlockPartial:
		return []ast.Element{ast.Partial{Key: n.Identifier, Indentation: n.Indentation}}

	case BlockParent:
		children := produceNodes(n.Children, lambdas)
		elem := ast.Parent{Key: n.Identifier, ChildrenCount: len(children), Indentation: n.Indentation}
		return append([]ast.Element{elem}, children...)

	case BlockBlock:
		children := produceNodes(n.Children, lambdas)
		elem := ast.Block{Key: n.Identifier, ChildrenCount: len(children)}
		return append([]ast.Element{elem}, children...)

	default:
		return nil
	}
}
