// Package storage provides JSON-based persistence for daily headline snapshots.
//
// An EventStore is a single JSON file mapping YYYY-MM-DD date keys to snapshots.
// A missing file loads as an empty store; a file that exists but does not match the
// expected shape fails with a CorruptError and is never overwritten by this package.
// Saves rewrite the whole file through a temporary file and rename, and keep the date
// order of the file as loaded with new dates appended.
package storage
