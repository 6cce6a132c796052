package scraper

import (
	"os"
	"strings"
	"testing"

	"github.com/pfrederiksen/dp-headlines/internal/headline"
	"github.com/pfrederiksen/dp-headlines/internal/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractHTML(t *testing.T, html string) ([]headline.Record, bool) {
	t.Helper()
	root, err := markup.Parse(strings.NewReader(html))
	require.NoError(t, err)
	return Extract(root)
}

func TestExtract_Fixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/homepage.html")
	require.NoError(t, err, "failed to load test fixture")

	records, found := extractHTML(t, string(data))

	require.True(t, found)
	assert.Equal(t, []headline.Record{
		{Title: "Penn releases budget", Link: "https://www.thedp.com/article/2026/10/penn-budget"},
		{Title: "Quakers win homecoming", Link: "/article/2026/10/football-win"},
	}, records)
}

func TestExtract_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantFound bool
		want      []headline.Record
	}{
		{
			name:      "no rows",
			html:      `<html><body><p>nothing here</p></body></html>`,
			wantFound: false,
		},
		{
			name: "rows without featured heading",
			html: `
				<div class="row"><div><h3>News</h3></div></div>
				<div class="row"><div><h3>Sports</h3></div></div>`,
			wantFound: false,
		},
		{
			name:      "heading text must match exactly",
			html:      `<div class="row"><div><h3> Featured </h3><div><div><a class="frontpage-link standard-link" href="/a">A</a></div></div></div></div>`,
			wantFound: false,
		},
		{
			name:      "heading is lowercase",
			html:      `<div class="row"><div><h3>featured</h3></div></div>`,
			wantFound: false,
		},
		{
			name:      "row without inner div",
			html:      `<div class="row"><h3>Featured</h3></div>`,
			wantFound: false,
		},
		{
			name: "two valid children and one wrapper",
			html: `
				<div class="row"><div><h3>Featured</h3>
					<div>
						<div><a class="frontpage-link standard-link" href="/a">A</a></div>
						<div><span>wrapper</span></div>
						<div><a class="standard-link frontpage-link" href="/b">B</a></div>
					</div>
				</div></div>`,
			wantFound: true,
			want:      []headline.Record{{Title: "A", Link: "/a"}, {Title: "B", Link: "/b"}},
		},
		{
			name:      "featured row without article container",
			html:      `<div class="row"><div><h3>Featured</h3></div></div>`,
			wantFound: true,
			want:      []headline.Record{},
		},
		{
			name: "link without href is skipped",
			html: `
				<div class="row"><div><h3>Featured</h3>
					<div>
						<div><a class="frontpage-link standard-link">No href</a></div>
						<div><a class="frontpage-link standard-link" href="/ok">OK</a></div>
					</div>
				</div></div>`,
			wantFound: true,
			want:      []headline.Record{{Title: "OK", Link: "/ok"}},
		},
		{
			name: "link with empty text is skipped",
			html: `
				<div class="row"><div><h3>Featured</h3>
					<div>
						<div><a class="frontpage-link standard-link" href="/empty"></a></div>
					</div>
				</div></div>`,
			wantFound: true,
			want:      []headline.Record{},
		},
		{
			name: "only immediate children are articles",
			html: `
				<div class="row"><div><h3>Featured</h3>
					<div>
						<div><div><a class="frontpage-link standard-link" href="/nested">Nested</a></div></div>
					</div>
				</div></div>`,
			wantFound: true,
			want:      []headline.Record{{Title: "Nested", Link: "/nested"}},
		},
		{
			name: "first featured row wins",
			html: `
				<div class="row"><div><h3>Featured</h3><div>
					<div><a class="frontpage-link standard-link" href="/first">First</a></div>
				</div></div></div>
				<div class="row"><div><h3>Featured</h3><div>
					<div><a class="frontpage-link standard-link" href="/second">Second</a></div>
				</div></div></div>`,
			wantFound: true,
			want:      []headline.Record{{Title: "First", Link: "/first"}},
		},
		{
			name:      "html entities are decoded",
			html:      `<div class="row"><div><h3>Featured</h3><div><div><a class="frontpage-link standard-link" href="/a?x=1&amp;y=2">Penn &amp; Drexel</a></div></div></div></div>`,
			wantFound: true,
			want:      []headline.Record{{Title: "Penn & Drexel", Link: "/a?x=1&y=2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, found := extractHTML(t, tt.html)

			assert.Equal(t, tt.wantFound, found)
			if !tt.wantFound {
				assert.Nil(t, records)
				return
			}
			assert.Equal(t, tt.want, records)
		})
	}
}

// fakeNode is a hand-built tree used to exercise Extract through the Node interface only
type fakeNode struct {
	tag      string
	classes  []string
	attrs    map[string]string
	text     string
	children []*fakeNode
}

func (n *fakeNode) matches(m markup.Match) bool {
	if m.Tag != "" && m.Tag != n.tag {
		return false
	}
	for _, want := range m.Classes {
		found := false
		for _, c := range n.classes {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (n *fakeNode) descendants() []*fakeNode {
	var out []*fakeNode
	for _, c := range n.children {
		out = append(out, c)
		out = append(out, c.descendants()...)
	}
	return out
}

func (n *fakeNode) First(m markup.Match) (markup.Node, bool) {
	all := n.All(m)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

func (n *fakeNode) All(m markup.Match) []markup.Node {
	var out []markup.Node
	for _, d := range n.descendants() {
		if d.matches(m) {
			out = append(out, d)
		}
	}
	return out
}

func (n *fakeNode) Children(m markup.Match) []markup.Node {
	var out []markup.Node
	for _, c := range n.children {
		if c.matches(m) {
			out = append(out, c)
		}
	}
	return out
}

func (n *fakeNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *fakeNode) Text() string {
	var b strings.Builder
	b.WriteString(n.text)
	for _, c := range n.children {
		b.WriteString(c.Text())
	}
	return b.String()
}

func div(classes []string, children ...*fakeNode) *fakeNode {
	return &fakeNode{tag: "div", classes: classes, children: children}
}

func link(title, href string) *fakeNode {
	return &fakeNode{
		tag:     "a",
		classes: []string{"frontpage-link", "standard-link"},
		attrs:   map[string]string{"href": href},
		text:    title,
	}
}

func TestExtract_FakeTree(t *testing.T) {
	root := div(nil,
		div([]string{"row"},
			div(nil,
				&fakeNode{tag: "h3", text: "Featured"},
				div(nil,
					div(nil, link("A", "/a")),
					div(nil),
					div(nil, link("B", "/b")),
				),
			),
		),
	)

	records, found := Extract(root)

	require.True(t, found)
	assert.Equal(t, []headline.Record{{Title: "A", Link: "/a"}, {Title: "B", Link: "/b"}}, records)
}
