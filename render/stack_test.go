package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corehouse/mustache/ast"
)

func TestStackResolveEmptyPathIsDot(t *testing.T) {
	s := NewStack("root")
	v, ok := s.Resolve(ast.Path{})
	assert.True(t, ok)
	assert.Equal(t, "root", v)
}

func TestStackResolveWalksOuterFramesForFirstSegment(t *testing.T) {
	s := NewStack(map[string]any{"name": "outer", "kept": "visible"})
	s.Push(map[string]any{"name": "inner"})

	v, ok := s.Resolve(ast.Path{"name"})
	assert.True(t, ok)
	assert.Equal(t, "inner", v)

	v, ok = s.Resolve(ast.Path{"kept"})
	assert.True(t, ok)
	assert.Equal(t, "visible", v)
}

// Once a path's first segment resolves in some frame, the remaining
// segments resolve strictly inside that frame's value -- they never
// separately search outward again, even if an outer frame would have
// satisfied them.
func TestStackResolveDoesNotFallBackForInnerSegments(t *testing.T) {
	s := NewStack(map[string]any{"user": map[string]any{"name": "root-user"}})
	s.Push(map[string]any{"user": map[string]any{"id": 7}})

	_, ok := s.Resolve(ast.Path{"user", "name"})
	assert.False(t, ok)

	v, ok := s.Resolve(ast.Path{"user", "id"})
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestStackPopNeverDropsRootFrame(t *testing.T) {
	s := NewStack("root")
	s.Pop()
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, "root", s.Top())
}
