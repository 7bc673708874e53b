package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type resolveFixture struct {
	Name    string
	Friends []string
}

func TestLookupMap(t *testing.T) {
	v, ok := lookup(map[string]any{"a": 1}, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = lookup(map[string]any{"a": 1}, "b")
	assert.False(t, ok)
}

func TestLookupStructFieldIsCaseInsensitive(t *testing.T) {
	f := resolveFixture{Name: "Ada"}
	v, ok := lookup(f, "name")
	assert.True(t, ok)
	assert.Equal(t, "Ada", v)

	v, ok = lookup(&f, "Name")
	assert.True(t, ok)
	assert.Equal(t, "Ada", v)
}

func TestLookupSliceIndex(t *testing.T) {
	f := resolveFixture{Friends: []string{"a", "b", "c"}}
	v, ok := lookup(f.Friends, "1")
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = lookup(f.Friends, "9")
	assert.False(t, ok)

	_, ok = lookup(f.Friends, "not-a-number")
	assert.False(t, ok)
}

func TestLookupNilPointerFails(t *testing.T) {
	var p *resolveFixture
	_, ok := lookup(p, "Name")
	assert.False(t, ok)
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(false))
	assert.False(t, truthy(""))
	assert.False(t, truthy([]string{}))
	assert.False(t, truthy(map[string]any{}))
	assert.True(t, truthy(true))
	assert.True(t, truthy("x"))
	assert.True(t, truthy([]string{"x"}))
	assert.True(t, truthy(0))
}

func TestAsListDistinguishesFromScalars(t *testing.T) {
	_, ok := asList("not a list")
	assert.False(t, ok)

	items, ok := asList([]any{1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2, 3}, items)
}

func TestAsLambda(t *testing.T) {
	_, ok := asLambda("not a lambda")
	assert.False(t, ok)

	fn, ok := asLambda(func(s string) string { return s + "!" })
	assert.True(t, ok)
	assert.Equal(t, "hi!", fn("hi"))
}
