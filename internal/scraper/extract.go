package scraper

import (
	"strings"

	"github.com/pfrederiksen/dp-headlines/internal/headline"
	"github.com/pfrederiksen/dp-headlines/internal/markup"
)

// FeaturedHeading is the exact heading text that marks the featured row
const FeaturedHeading = "Featured"

var (
	rowMatch     = markup.Tag("div", "row")
	divMatch     = markup.Tag("div")
	headingMatch = markup.Tag("h3")
	linkMatch    = markup.Tag("a", "frontpage-link", "standard-link")
)

// Extract returns the featured headlines under root in document order.
// The boolean is false when no featured row exists; the slice is then nil.
//
// The layout assumed here is: div.row > div > h3 "Featured" for the label, and
// div.row > div > div > div* for the articles, each holding one
// a.frontpage-link.standard-link. Missing pieces below the row yield fewer
// (possibly zero) headlines rather than an error.
func Extract(root markup.Node) ([]headline.Record, bool) {
	row, ok := featuredRow(root)
	if !ok {
		return nil, false
	}

	records := make([]headline.Record, 0)

	container, ok := row.First(divMatch)
	if !ok {
		return records, true
	}
	container, ok = container.First(divMatch)
	if !ok {
		return records, true
	}

	for _, article := range container.Children(divMatch) {
		if rec, ok := recordFrom(article); ok {
			records = append(records, rec)
		}
	}

	return records, true
}

// featuredRow returns the first row labeled "Featured"; later matches are ignored
func featuredRow(root markup.Node) (markup.Node, bool) {
	for _, row := range root.All(rowMatch) {
		if isFeatured(row) {
			return row, true
		}
	}
	return nil, false
}

func isFeatured(row markup.Node) bool {
	inner, ok := row.First(divMatch)
	if !ok {
		return false
	}
	heading, ok := inner.First(headingMatch)
	if !ok {
		return false
	}
	return heading.Text() == FeaturedHeading
}

// recordFrom pulls the headline link out of one article container.
// Layout wrappers without the link are skipped.
func recordFrom(article markup.Node) (headline.Record, bool) {
	link, ok := article.First(linkMatch)
	if !ok {
		return headline.Record{}, false
	}
	href, ok := link.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return headline.Record{}, false
	}
	title := link.Text()
	if strings.TrimSpace(title) == "" {
		return headline.Record{}, false
	}
	return headline.Record{Title: title, Link: href}, true
}
