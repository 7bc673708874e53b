package parser

import "github.com/corehouse/mustache/ast"

// BlockType discriminates the kind of parse-tree node. Comments, delimiter
// changes and close-section tags never become Nodes -- the parser consumes
// them directly and never adds them to a level, so the trimming walk passes
// over them.
type BlockType int

const (
	BlockStaticText BlockType = iota
	BlockInterpolation
	BlockNoEscape
	BlockSection
	BlockInvertedSection
	BlockPartial
	BlockParent
	BlockBlock
)

// canBeStandAlone reports whether a node of this type may occupy a line by
// itself for the purposes of the trimming walk. Interpolations never can;
// every other tag type can, since none of them produce inline output that
// would keep their line from being whitespace-only.
func (t BlockType) canBeStandAlone() bool {
	switch t {
	case BlockSection, BlockInvertedSection, BlockPartial, BlockParent, BlockBlock:
		return true
	default:
		return false
	}
}

// Node is one entry in a parse level's sibling list. Children is populated
// only for the four nesting block types, once their matching close tag is
// reached. Prev is a non-owning back-link used solely by the standalone-tag
// trimming walk -- it follows source order across level (nesting depth)
// boundaries, unlike Children which is strict tree containment.
type Node struct {
	Type BlockType
	Part *TextPart

	Identifier string // parsed path/key for types that carry one
	Delimiters ast.Delimiters

	InnerText []byte // verbatim source between open/close tags, for lambda sections

	Children []*Node
	Prev     *Node

	IsStandAlone bool
	// Indentation is the whitespace a standalone resolution trimmed from a
	// neighboring static-text node's edge, surfaced here for tag types that
	// carry it forward (Partial, Parent).
	Indentation []byte
}

// content exposes the node's StaticText payload, or nil for tag nodes.
func (n *Node) content() []byte {
	if n.Type != BlockStaticText || n.Part == nil {
		return nil
	}
	return n.Part.Content
}

// empty reports whether a StaticText node has trimmed down to nothing.
func (n *Node) empty() bool {
	return n.Type == BlockStaticText && len(n.content()) == 0
}
