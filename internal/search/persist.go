package search

import (
	"errors"
	"sort"
	"time"
)

// IndexVersion tags generated index files so loaders can detect drift.
const IndexVersion = "1.0.0"

// IndexFile is the durable search index artifact written by the offline
// generation step and loaded at startup. The entry positions preserve
// ingestion order, which the ranking relies on for stable tie-breaking.
type IndexFile struct {
	Metadata      IndexMetadata          `json:"metadata"`
	KeywordIndex  map[string]*IndexEntry `json:"keywordIndex"`
	Capabilities  Capabilities           `json:"capabilities"`
	SemanticIndex map[string][]float32   `json:"semanticIndex,omitempty"`
}

// IndexMetadata describes one generated index.
type IndexMetadata struct {
	Version       string    `json:"version"`
	GeneratedAt   time.Time `json:"generatedAt"`
	TotalSections int       `json:"totalSections"`
	IndexType     string    `json:"indexType"`
}

// Capabilities advertises what the loaded index supports.
type Capabilities struct {
	KeywordSearch       bool `json:"keywordSearch"`
	SemanticSearch      bool `json:"semanticSearch"`
	CrossPlatformSearch bool `json:"crossPlatformSearch"`
}

// GenerateIndex snapshots the current index into its serializable form.
// Vectors ride in the semantic index group so the keyword index stays
// readable and diffable.
func (ix *Indexer) GenerateIndex() *IndexFile {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	file := &IndexFile{
		Metadata: IndexMetadata{
			Version:       IndexVersion,
			GeneratedAt:   time.Now().UTC(),
			TotalSections: len(ix.entries),
			IndexType:     "keyword",
		},
		KeywordIndex: make(map[string]*IndexEntry, len(ix.entries)),
		Capabilities: Capabilities{
			KeywordSearch:       true,
			SemanticSearch:      ix.scorer.Semantic(),
			CrossPlatformSearch: true,
		},
	}

	for _, e := range ix.entries {
		rec := *e
		rec.Vector = nil
		file.KeywordIndex[e.ID] = &rec
		if len(e.Vector) > 0 {
			if file.SemanticIndex == nil {
				file.SemanticIndex = map[string][]float32{}
			}
			file.SemanticIndex[e.ID] = e.Vector
		}
	}
	if file.SemanticIndex != nil {
		file.Metadata.IndexType = "hybrid"
	}
	return file
}

// LoadIndex replaces the index contents with a previously generated file.
// Entries are restored in their original ingestion order.
func (ix *Indexer) LoadIndex(file *IndexFile) error {
	if file == nil {
		return errors.New("load index: nil index file")
	}
	if file.KeywordIndex == nil {
		return errors.New("load index: missing keyword index group")
	}

	entries := make([]*IndexEntry, 0, len(file.KeywordIndex))
	for id, e := range file.KeywordIndex {
		if e == nil {
			continue
		}
		rec := *e
		if rec.ID == "" {
			rec.ID = id
		}
		if vec, ok := file.SemanticIndex[rec.ID]; ok {
			rec.Vector = vec
		}
		entries = append(entries, &rec)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })

	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		e.Position = i
		byID[e.ID] = i
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = entries
	ix.byID = byID
	return nil
}
