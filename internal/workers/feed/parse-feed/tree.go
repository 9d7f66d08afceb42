// internal/workers/feed/parse-feed/tree.go
package parsefeed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

var (
	ErrUnexpectedStructure = errors.New("UNEXPECTED_STRUCTURE")
	ErrNotNumeric          = errors.New("NOT_NUMERIC")
)

// Node is one element of a parsed feed. Attributes and child elements are
// both addressable by case-insensitive name.
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Node

	// content holds text runs (string) and children (*Node) in document order.
	content []interface{}
}

// ParseTree decodes payload into a tree and returns its root element.
// Decoding is lenient: bare ampersands, HTML entities and unclosed void
// tags such as <br> inside job bodies are accepted. Truncated documents
// are still rejected.
func ParseTree(payload []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(payload))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("decode xml: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
				parent.content = append(parent.content, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				cur := stack[len(stack)-1]
				cur.content = append(cur.content, string(t))
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("decode xml: empty document")
	}
	return root, nil
}

// Child returns the first child element named name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child element named name. A single element
// and a repeated element both come back as a list.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if strings.EqualFold(c.Name, name) {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the value of attribute name.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

// IsLeaf reports whether n carries no child elements.
func (n *Node) IsLeaf() bool {
	return n != nil && len(n.Children) == 0
}

// Text returns the trimmed character data directly under n.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range n.content {
		if s, ok := part.(string); ok {
			b.WriteString(s)
		}
	}
	return strings.TrimSpace(b.String())
}

// Markup returns n's inner content with child elements rendered back to XML.
// Leaf nodes return their text unchanged.
func (n *Node) Markup() string {
	if n == nil {
		return ""
	}
	if n.IsLeaf() {
		return n.Text()
	}
	var b strings.Builder
	n.writeInner(&b)
	return strings.TrimSpace(b.String())
}

func (n *Node) writeInner(b *strings.Builder) {
	for _, part := range n.content {
		switch p := part.(type) {
		case string:
			b.WriteString(textEscaper.Replace(p))
		case *Node:
			b.WriteString("<" + p.Name)
			for _, a := range p.Attrs {
				b.WriteString(" " + a.Name.Local + `="`)
				b.WriteString(attrEscaper.Replace(a.Value))
				b.WriteString(`"`)
			}
			b.WriteString(">")
			p.writeInner(b)
			b.WriteString("</" + p.Name + ">")
		}
	}
}

// Value returns the coerced scalar under n: bool for true/false, int64 or
// float64 for numbers, otherwise the trimmed string.
func (n *Node) Value() interface{} {
	return Coerce(n.Text())
}

// Coerce converts a scalar string to bool, int64 or float64 when it reads as
// one, and returns it unchanged otherwise.
func Coerce(s string) interface{} {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "":
		return ""
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// field returns the first non-empty scalar among the named attributes and
// child elements of n. A named child holding elements is a structure error.
func (n *Node) field(names ...string) (string, error) {
	for _, name := range names {
		if v, ok := n.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
		c := n.Child(name)
		if c == nil {
			continue
		}
		if !c.IsLeaf() {
			return "", fmt.Errorf("%w: %s holds elements", ErrUnexpectedStructure, c.Name)
		}
		if v := c.Text(); v != "" {
			return v, nil
		}
	}
	return "", nil
}

// number returns the first present numeric field. ok is false when none of
// the names is present; a present non-numeric value is an error.
func (n *Node) number(names ...string) (float64, bool, error) {
	raw, err := n.field(names...)
	if err != nil || raw == "" {
		return 0, false, err
	}
	switch v := Coerce(raw).(type) {
	case int64:
		return float64(v), true, nil
	case float64:
		return v, true, nil
	}
	return 0, false, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
}
