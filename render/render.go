package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/corehouse/mustache/ast"
	"github.com/corehouse/mustache/parser"
)

// Options configures a Renderer's collaborators.
type Options struct {
	// Partials resolves {{>name}}/{{<name}} tags. Rendering a template that
	// contains one with Partials unset is an error.
	Partials PartialLoader
}

// Renderer is a parser.Render sink that interprets the element stream
// against a live data context, writing the rendered result to out.
type Renderer struct {
	out   io.Writer
	stack *Stack
	opts  Options

	// blockOverrides, set only while rendering a Parent's base template, maps
	// a {{$name}} block's key to the Parent's own override content. Only one
	// level is tracked: a block nested inside a conditional section of the
	// base template sees the same override map, but a Parent nested inside
	// another Parent's override body does not inherit it -- each Parent call
	// installs (and restores) its own map.
	blockOverrides map[string][]ast.Element
}

// New constructs a Renderer writing to out against root as the top context.
func New(out io.Writer, root any, opts Options) *Renderer {
	return &Renderer{out: out, stack: NewStack(root), opts: opts}
}

// render adapts a plain func([]ast.Element) error to parser.Render.
type render func([]ast.Element) error

func (f render) Render(elements []ast.Element) error { return f(elements) }

// Render implements parser.Render. A Parser may call this once (full-AST
// mode) or multiple times (streaming mode); either way every call's slice is
// self-contained with respect to section/parent/block nesting.
func (r *Renderer) Render(elements []ast.Element) error {
	return r.renderSlice(elements)
}

func (r *Renderer) write(b []byte) error {
	_, err := r.out.Write(b)
	return err
}

func (r *Renderer) writeString(s string) error {
	_, err := io.WriteString(r.out, s)
	return err
}

func (r *Renderer) renderSlice(elements []ast.Element) error {
	i := 0
	for i < len(elements) {
		n, err := r.renderAt(elements, i)
		if err != nil {
			return err
		}
		i += n
	}
	return nil
}

// elementSpan reports how many consecutive slots in a flat element slice an
// element occupies: itself plus every transitive descendant already
// flattened in after it.
func elementSpan(e ast.Element) int {
	switch v := e.(type) {
	case ast.Section:
		return 1 + v.ChildrenCount
	case ast.InvertedSection:
		return 1 + v.ChildrenCount
	case ast.Parent:
		return 1 + v.ChildrenCount
	case ast.Block:
		return 1 + v.ChildrenCount
	default:
		return 1
	}
}

func (r *Renderer) renderAt(elements []ast.Element, i int) (int, error) {
	switch e := elements[i].(type) {
	case ast.StaticText:
		return 1, r.write(e.Content)

	case ast.Interpolation:
		v, _ := r.stack.Resolve(e.Path)
		return 1, r.writeString(escapeHTML(stringify(v)))

	case ast.UnescapedInterpolation:
		v, _ := r.stack.Resolve(e.Path)
		return 1, r.writeString(stringify(v))

	case ast.Section:
		children := elements[i+1 : i+1+e.ChildrenCount]
		return 1 + e.ChildrenCount, r.renderSection(e, children)

	case ast.InvertedSection:
		children := elements[i+1 : i+1+e.ChildrenCount]
		v, ok := r.stack.Resolve(e.Path)
		if ok && truthy(v) {
			return 1 + e.ChildrenCount, nil
		}
		return 1 + e.ChildrenCount, r.renderSlice(children)

	case ast.Partial:
		return 1, r.renderPartial(e.Key, e.Indentation)

	case ast.Parent:
		children := elements[i+1 : i+1+e.ChildrenCount]
		return 1 + e.ChildrenCount, r.renderParent(e, children)

	case ast.Block:
		children := elements[i+1 : i+1+e.ChildrenCount]
		if ov, ok := r.blockOverrides[e.Key]; ok {
			children = ov
		}
		return 1 + e.ChildrenCount, r.renderSlice(children)

	default:
		return 1, nil
	}
}

func (r *Renderer) renderSection(e ast.Section, children []ast.Element) error {
	v, ok := r.stack.Resolve(e.Path)
	if !ok || !truthy(v) {
		return nil
	}

	if fn, isLambda := asLambda(v); isLambda {
		return r.renderTemplateString(fn(string(e.InnerText)))
	}

	if list, isList := asList(v); isList {
		for _, item := range list {
			r.stack.Push(item)
			err := r.renderSlice(children)
			r.stack.Pop()
			if err != nil {
				return err
			}
		}
		return nil
	}

	r.stack.Push(v)
	err := r.renderSlice(children)
	r.stack.Pop()
	return err
}

// renderTemplateString parses src as a template under default delimiters
// and streams its output through this renderer's current context. Used for
// both lambda-produced replacement text and plain (unindented) partials.
func (r *Renderer) renderTemplateString(src string) error {
	p := parser.NewFromString(src, parser.Options{})
	return p.Parse(render(r.renderSlice))
}

func (r *Renderer) renderPartial(key string, indentation []byte) error {
	if r.opts.Partials == nil {
		return fmt.Errorf("render: no partial loader configured for %q", key)
	}
	src, err := r.opts.Partials.Load(key)
	if err != nil {
		return err
	}
	if len(indentation) == 0 {
		return r.renderTemplateString(src)
	}

	var buf bytes.Buffer
	sub := &Renderer{out: &buf, stack: r.stack, opts: r.opts, blockOverrides: r.blockOverrides}
	if err := sub.renderTemplateString(src); err != nil {
		return err
	}
	return r.write(indentLines(buf.Bytes(), indentation))
}

func (r *Renderer) renderParent(e ast.Parent, children []ast.Element) error {
	if r.opts.Partials == nil {
		return fmt.Errorf("render: no partial loader configured for %q", e.Key)
	}
	overrides := buildBlockOverrides(children)
	src, err := r.opts.Partials.Load(e.Key)
	if err != nil {
		return err
	}

	if len(e.Indentation) == 0 {
		saved := r.blockOverrides
		r.blockOverrides = overrides
		err := r.renderTemplateString(src)
		r.blockOverrides = saved
		return err
	}

	var buf bytes.Buffer
	sub := &Renderer{out: &buf, stack: r.stack, opts: r.opts, blockOverrides: overrides}
	if err := sub.renderTemplateString(src); err != nil {
		return err
	}
	return r.write(indentLines(buf.Bytes(), e.Indentation))
}

// buildBlockOverrides collects a Parent's own top-level {{$name}} children
// into a key -> override-body map consumed while rendering the Parent's
// base template.
func buildBlockOverrides(children []ast.Element) map[string][]ast.Element {
	overrides := make(map[string][]ast.Element)
	i := 0
	for i < len(children) {
		span := elementSpan(children[i])
		if b, ok := children[i].(ast.Block); ok {
			overrides[b.Key] = children[i+1 : i+span]
		}
		i += span
	}
	return overrides
}

// indentLines prefixes every non-empty-tail line of content with indent,
// reproducing a standalone {{>partial}}/{{<parent}} tag's recorded
// Indentation in the partial's rendered output.
func indentLines(content, indent []byte) []byte {
	if len(content) == 0 {
		return content
	}
	lines := bytes.Split(content, []byte("\n"))
	var out bytes.Buffer
	for idx, line := range lines {
		if idx > 0 {
			out.WriteByte('\n')
		}
		if idx == len(lines)-1 && len(line) == 0 {
			continue
		}
		out.Write(indent)
		out.Write(line)
	}
	return out.Bytes()
}
