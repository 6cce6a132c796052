package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/dp-headlines/internal/headline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	StorePath     string               `json:"store_path"`
	Snapshots     []*headline.Snapshot `json:"snapshots"`
	DateCount     int                  `json:"date_count"`
	HeadlineCount int                  `json:"headline_count"`
}

// NewOutputResult builds a result with counts filled in
func NewOutputResult(storePath string, snaps []*headline.Snapshot) *OutputResult {
	total := 0
	for _, snap := range snaps {
		total += len(snap.Headlines)
	}
	return &OutputResult{
		GeneratedAt:   time.Now().UTC(),
		StorePath:     storePath,
		Snapshots:     snaps,
		DateCount:     len(snaps),
		HeadlineCount: total,
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.DateCount == 0 {
		fmt.Fprintln(w, "No headlines recorded.")
		return nil
	}

	for _, snap := range result.Snapshots {
		fmt.Fprintf(w, "\n%s (%d headlines):\n", snap.Date, len(snap.Headlines))
		for _, h := range snap.Headlines {
			fmt.Fprintf(w, "  %s\n", h.Title)
			if verbose {
				fmt.Fprintf(w, "       Link: %s\n", h.Link)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d headlines across %d days\n", result.HeadlineCount, result.DateCount)
	return nil
}
