// Package static persists the generated content tree: section records as
// JSON files under design/<platform>/, technical symbol files under
// technical/, and the serialized search index. It is the primary content
// source the server loads at startup.
package static

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/search"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/techdocs"
)

const (
	designDir    = "design"
	technicalDir = "technical"
	indexFile    = "search-index.json"
	symbolsFile  = "symbols.json"
)

// ErrNoIndex reports a missing persisted search index.
var ErrNoIndex = errors.New("search index file not found")

// Store reads and writes the content directory.
type Store struct {
	root string
	log  *slog.Logger
}

// NewStore roots a store at dir. The directory may not exist yet; writes
// create it.
func NewStore(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{root: dir, log: log}
}

// Root returns the content directory path.
func (s *Store) Root() string {
	return s.root
}

// SaveSection writes one section under design/<platform>/<id>.json.
func (s *Store) SaveSection(sec *hig.Section) error {
	if err := sec.Validate(); err != nil {
		return fmt.Errorf("save section: %w", err)
	}

	dir := filepath.Join(s.root, designDir, string(sec.Platform))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(sec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal section %s: %w", sec.ID, err)
	}

	path := filepath.Join(dir, sec.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadSections reads every section file under design/. Unreadable or
// invalid files are logged and skipped so one bad file never blocks
// startup. A missing design directory yields an empty corpus.
func (s *Store) LoadSections() ([]*hig.Section, error) {
	root := filepath.Join(s.root, designDir)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return []*hig.Section{}, nil
	}

	var sections []*hig.Section
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable section file", "path", path, "error", err)
			return nil
		}

		var sec hig.Section
		if err := json.Unmarshal(data, &sec); err != nil {
			s.log.Warn("skipping malformed section file", "path", path, "error", err)
			return nil
		}
		if err := sec.Validate(); err != nil {
			s.log.Warn("skipping invalid section file", "path", path, "error", err)
			return nil
		}

		sections = append(sections, &sec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	// Walk order is platform-dir order; make the corpus order stable by URL.
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].URL < sections[j].URL
	})
	return sections, nil
}

// HasContent reports whether any section files exist.
func (s *Store) HasContent() bool {
	sections, err := s.LoadSections()
	return err == nil && len(sections) > 0
}

// SaveIndex writes the serialized search index.
func (s *Store) SaveIndex(file *search.IndexFile) error {
	if file == nil {
		return errors.New("save index: nil index file")
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.root, err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	path := filepath.Join(s.root, indexFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadIndex reads the serialized search index. Returns ErrNoIndex when the
// file doesn't exist so callers can rebuild instead.
func (s *Store) LoadIndex() (*search.IndexFile, error) {
	path := filepath.Join(s.root, indexFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoIndex
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file search.IndexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &file, nil
}

// SaveSymbols writes the technical symbol catalog.
func (s *Store) SaveSymbols(symbols []techdocs.Symbol) error {
	dir := filepath.Join(s.root, technicalDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(symbols, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal symbols: %w", err)
	}

	path := filepath.Join(dir, symbolsFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadSymbols reads every symbol file under technical/ and concatenates
// them. Malformed files are logged and skipped; a missing directory yields
// an empty catalog.
func (s *Store) LoadSymbols() ([]techdocs.Symbol, error) {
	dir := filepath.Join(s.root, technicalDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []techdocs.Symbol{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var symbols []techdocs.Symbol
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable symbol file", "path", path, "error", err)
			continue
		}
		var batch []techdocs.Symbol
		if err := json.Unmarshal(data, &batch); err != nil {
			s.log.Warn("skipping malformed symbol file", "path", path, "error", err)
			continue
		}
		symbols = append(symbols, batch...)
	}
	if symbols == nil {
		symbols = []techdocs.Symbol{}
	}
	return symbols, nil
}
