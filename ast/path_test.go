package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corehouse/mustache/ast"
)

func TestParsePath(t *testing.T) {
	cases := []struct {
		in   string
		want ast.Path
	}{
		{"name", ast.Path{"name"}},
		{"user.name", ast.Path{"user", "name"}},
		{"items[0].title", ast.Path{"items", "0", "title"}},
		{"a['b'].c", ast.Path{"a", "b", "c"}},
		{"  spaced . path ", ast.Path{"spaced", "path"}},
		{"", nil},
	}
	for _, c := range cases {
		got := ast.ParsePath(c.in)
		assert.Equal(t, c.want, got, "ParsePath(%q)", c.in)
	}
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "a.b.c", ast.Path{"a", "b", "c"}.String())
	assert.Equal(t, "", ast.Path(nil).String())
}
