// Package cli implements the command-line interface for dp-headlines.
//
// The root command runs a scrape: it prepares the data directory, loads the headline
// history, fetches The Daily Pennsylvanian homepage, records today's featured headlines
// and saves the history. A failed fetch is logged and the run still exits 0 so a
// scheduled job does not crash-loop; a corrupt or unwritable store exits non-zero.
// The show, chart and serve commands read the history without modifying it.
package cli
