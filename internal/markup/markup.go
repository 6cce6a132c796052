package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Match selects element nodes by tag name and class tokens.
// An empty Tag matches any element; every class in Classes must be present.
type Match struct {
	Tag     string
	Classes []string
}

// Tag returns a Match for elements named tag.
func Tag(tag string, classes ...string) Match {
	return Match{Tag: tag, Classes: classes}
}

// selector renders the match as a CSS selector
func (m Match) selector() string {
	var b strings.Builder
	if m.Tag == "" {
		b.WriteString("*")
	} else {
		b.WriteString(m.Tag)
	}
	for _, class := range m.Classes {
		class = strings.TrimSpace(class)
		if class == "" {
			continue
		}
		b.WriteString(".")
		b.WriteString(class)
	}
	return b.String()
}

// Node is a tagged element in a markup tree
type Node interface {
	// First returns the first descendant matching m, in document order
	First(m Match) (Node, bool)
	// All returns every descendant matching m, in document order
	All(m Match) []Node
	// Children returns the immediate children matching m, in document order
	Children(m Match) []Node
	// Attr returns the value of the named attribute
	Attr(name string) (string, bool)
	// Text returns the combined text content of the node and its descendants
	Text() string
}

// Parse reads HTML from r and returns the document root
func Parse(r io.Reader) (Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return FromSelection(goquery.NewDocumentFromNode(root).Selection), nil
}

// FromSelection wraps an existing goquery selection. Only the first node of the
// selection is used.
func FromSelection(sel *goquery.Selection) Node {
	return &selectionNode{sel: sel.First()}
}

type selectionNode struct {
	sel *goquery.Selection
}

func (n *selectionNode) First(m Match) (Node, bool) {
	found := n.sel.Find(m.selector()).First()
	if found.Length() == 0 {
		return nil, false
	}
	return &selectionNode{sel: found}, true
}

func (n *selectionNode) All(m Match) []Node {
	return wrap(n.sel.Find(m.selector()))
}

func (n *selectionNode) Children(m Match) []Node {
	return wrap(n.sel.ChildrenFiltered(m.selector()))
}

func (n *selectionNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *selectionNode) Text() string {
	return n.sel.Text()
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &selectionNode{sel: s})
	})
	return nodes
}
