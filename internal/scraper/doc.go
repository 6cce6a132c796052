// Package scraper provides HTTP fetching and featured-headline extraction for
// The Daily Pennsylvanian homepage.
//
// The scraper fetches the homepage, locates the row whose heading reads "Featured",
// and extracts the title and link of each featured article in document order. A page
// without a featured row is not an error: Extract reports it as not found so the caller
// can skip recording for that run.
package scraper
