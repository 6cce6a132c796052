// Package markup provides a narrow, read-only view over a parsed HTML tree.
//
// Extraction code depends on the Node interface only. Parse builds a Node from raw
// markup using golang.org/x/net/html for tokenizing and goquery for selection.
package markup
