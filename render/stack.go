// Package render is a reference consumer of the parser's element stream: it
// maintains the section-nesting context stack, resolves interpolation paths
// against arbitrary Go values, escapes HTML, and loads partials from an
// fs.FS.
package render

import "github.com/corehouse/mustache/ast"

// Stack is the context-value scope stack section/inverted-section nesting
// pushes onto. Dotted-path resolution only ever walks up the stack for a
// path's first segment; every following segment resolves strictly inside
// whatever that first lookup found.
type Stack struct {
	frames []any
}

// NewStack creates a context stack seeded with the root data value.
func NewStack(root any) *Stack {
	return &Stack{frames: []any{root}}
}

// Push enters a new section scope.
func (s *Stack) Push(v any) {
	s.frames = append(s.frames, v)
}

// Pop leaves the innermost section scope. The root frame is never popped.
func (s *Stack) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth reports the current stack depth, including the root frame.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Top returns the innermost frame's value.
func (s *Stack) Top() any {
	return s.frames[len(s.frames)-1]
}

// Resolve looks up path against the stack: the empty path resolves to the
// innermost frame itself (the Mustache "." reference); otherwise the first
// segment is searched from the innermost frame outward, and the remaining
// segments resolve strictly inside whatever frame satisfied it.
func (s *Stack) Resolve(path ast.Path) (any, bool) {
	if len(path) == 0 {
		return s.Top(), true
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := lookup(s.frames[i], path[0]); ok {
			cur := v
			for _, seg := range path[1:] {
				cur, ok = lookup(cur, seg)
				if !ok {
					return nil, false
				}
			}
			return cur, true
		}
	}
	return nil, false
}
