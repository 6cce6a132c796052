package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pfrederiksen/dp-headlines/internal/headline"
)

// rawSnapshot mirrors headline.Snapshot with pointer fields so absent keys can be told
// apart from zero values
type rawSnapshot struct {
	Date      *string        `json:"date"`
	Headlines *[]rawHeadline `json:"headlines"`
}

type rawHeadline struct {
	Title *string `json:"title"`
	Link  *string `json:"link"`
}

// entry is one decoded key/value pair, kept in file order
type entry struct {
	key   string
	value json.RawMessage
}

// decodeEntries reads a top-level JSON object preserving key order.
// A repeated key keeps its first position and its last value.
func decodeEntries(path string, data []byte) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, &CorruptError{Path: path, Reason: "invalid JSON", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &CorruptError{Path: path, Reason: fmt.Sprintf("top level must be an object, got %s", describeToken(tok))}
	}

	var entries []entry
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &CorruptError{Path: path, Reason: "invalid JSON", Err: err}
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &CorruptError{Path: path, Reason: "invalid object key"}
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, &CorruptError{Path: path, Key: key, Reason: "invalid JSON", Err: err}
		}

		if i, seen := index[key]; seen {
			entries[i].value = value
			continue
		}
		index[key] = len(entries)
		entries = append(entries, entry{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, &CorruptError{Path: path, Reason: "invalid JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &CorruptError{Path: path, Reason: "trailing data after top-level object"}
	}

	return entries, nil
}

// validateSnapshot checks one entry against the snapshot schema
func validateSnapshot(path string, e entry) (*headline.Snapshot, error) {
	corrupt := func(reason string, err error) error {
		return &CorruptError{Path: path, Key: e.key, Reason: reason, Err: err}
	}

	trimmed := bytes.TrimSpace(e.value)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, corrupt("snapshot must be an object", nil)
	}

	var raw rawSnapshot
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, corrupt("invalid snapshot", err)
	}
	if raw.Date == nil {
		return nil, corrupt("missing date", nil)
	}
	if *raw.Date == "" {
		return nil, corrupt("empty date", nil)
	}
	if *raw.Date != e.key {
		return nil, corrupt(fmt.Sprintf("date %q does not match key", *raw.Date), nil)
	}
	if raw.Headlines == nil {
		return nil, corrupt("missing headlines", nil)
	}

	headlines := make([]headline.Record, 0, len(*raw.Headlines))
	for i, h := range *raw.Headlines {
		if h.Title == nil || h.Link == nil {
			return nil, corrupt(fmt.Sprintf("headline %d is missing title or link", i), nil)
		}
		headlines = append(headlines, headline.Record{Title: *h.Title, Link: *h.Link})
	}

	return &headline.Snapshot{Date: *raw.Date, Headlines: headlines}, nil
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "array"
		}
		return string(v)
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
