// Package techdocs looks up technical documentation symbols: the framework
// API entries (UIKit, SwiftUI, AppKit) paired with design guidelines in
// unified search. Two backends exist: a static searcher over the bundled
// symbol list, and an optional Qdrant-backed vector searcher.
package techdocs

import (
	"context"
	"errors"
)

// Symbol is one technical documentation record.
type Symbol struct {
	Title       string   `json:"title"`
	Path        string   `json:"path"`
	URL         string   `json:"url"`
	Framework   string   `json:"framework"`
	SymbolKind  string   `json:"symbolKind"`
	Platforms   []string `json:"platforms"`
	Description string   `json:"description"`
	Relevance   float64  `json:"relevanceScore"`
}

// Searcher answers symbol queries, optionally scoped to one framework.
// Callers treat the result as an opaque ranked list.
type Searcher interface {
	SearchSymbols(ctx context.Context, query, framework string, limit int) ([]Symbol, error)
}

var (
	ErrUnreachable       = errors.New("technical documentation store unreachable")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
