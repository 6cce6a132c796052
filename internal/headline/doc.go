// Package headline provides the types recorded for each scrape of The Daily Pennsylvanian.
//
// A Record is one featured headline (title and link, as they appear in the page markup).
// A Snapshot groups the records captured for a single calendar date, keyed by a
// YYYY-MM-DD string produced by DateKey.
package headline
