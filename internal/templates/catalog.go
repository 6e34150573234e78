// Package templates serves the static contract template catalogue.
package templates

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// CategoryAll matches every template.
const CategoryAll = "All"

// Categories lists the filter choices in display order.
var Categories = []string{CategoryAll, "Business", "Employment", "Real Estate", "Services", "Legal"}

var (
	ErrNotFound       = errors.New("template not found")
	ErrInvalidCatalog = errors.New("invalid template catalog")
)

// Entry is one downloadable template.
type Entry struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`
	FileType    string `yaml:"fileType" json:"fileType"`
	FileName    string `yaml:"fileName" json:"fileName"`
	FilePath    string `yaml:"filePath" json:"filePath"`
	Popular     bool   `yaml:"popular" json:"popular"`
	Downloads   int    `yaml:"downloads" json:"downloads"`
	// Source is the plain-text body the file is rendered from, relative to
	// the catalog file.
	Source string `yaml:"source" json:"-"`
}

// Catalog is an immutable, ordered set of entries.
type Catalog struct {
	entries []Entry
	byID    map[string]int
	baseDir string

	mu        sync.Mutex
	downloads map[string]int
}

type catalogFile struct {
	Templates []Entry `yaml:"templates"`
}

// LoadCatalogFile reads a YAML catalog. Sources resolve against its directory.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	cat, err := LoadCatalog(f)
	if err != nil {
		return nil, err
	}
	cat.baseDir = filepath.Dir(path)
	return cat, nil
}

// LoadCatalog decodes and validates a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return NewCatalog(file.Templates)
}

// NewCatalog validates entries and indexes them by ID.
func NewCatalog(entries []Entry) (*Catalog, error) {
	cat := &Catalog{byID: make(map[string]int, len(entries)), downloads: map[string]int{}}
	for i, e := range entries {
		e.ID = strings.TrimSpace(e.ID)
		e.FileType = strings.ToUpper(strings.TrimSpace(e.FileType))
		if e.ID == "" || strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("%w: entry %d needs an id and a title", ErrInvalidCatalog, i)
		}
		if _, dup := cat.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, e.ID)
		}
		if !knownCategory(e.Category) {
			return nil, fmt.Errorf("%w: %s: unknown category %q", ErrInvalidCatalog, e.ID, e.Category)
		}
		if e.FileType != "PDF" && e.FileType != "DOCX" {
			return nil, fmt.Errorf("%w: %s: file type must be PDF or DOCX", ErrInvalidCatalog, e.ID)
		}
		if strings.TrimSpace(e.FilePath) == "" || strings.TrimSpace(e.FileName) == "" {
			return nil, fmt.Errorf("%w: %s: fileName and filePath are required", ErrInvalidCatalog, e.ID)
		}
		cat.byID[e.ID] = len(cat.entries)
		cat.entries = append(cat.entries, e)
	}
	return cat, nil
}

func knownCategory(c string) bool {
	for _, known := range Categories[1:] {
		if c == known {
			return true
		}
	}
	return false
}

// All returns every entry in catalog order.
func (c *Catalog) All() []Entry {
	return c.Search("", CategoryAll)
}

// Search returns entries whose title or description contains query (case
// insensitive) within category. An empty category or "All" matches any.
func (c *Catalog) Search(query, category string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if category != "" && category != CategoryAll && e.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Title), q) && !strings.Contains(strings.ToLower(e.Description), q) {
			continue
		}
		out = append(out, c.withDownloads(e))
	}
	return out
}

// Get looks an entry up by ID.
func (c *Catalog) Get(id string) (Entry, error) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return c.withDownloads(c.entries[i]), nil
}

// Popular returns the entries flagged popular, most downloaded first.
func (c *Catalog) Popular() []Entry {
	var out []Entry
	for _, e := range c.All() {
		if e.Popular {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Downloads > out[j].Downloads })
	return out
}

// RecordDownload bumps the in-process download count of id.
func (c *Catalog) RecordDownload(id string) {
	c.mu.Lock()
	c.downloads[id]++
	c.mu.Unlock()
}

func (c *Catalog) withDownloads(e Entry) Entry {
	c.mu.Lock()
	e.Downloads += c.downloads[e.ID]
	c.mu.Unlock()
	return e
}

// SourcePath resolves an entry's text source on disk.
func (c *Catalog) SourcePath(e Entry) string {
	if filepath.IsAbs(e.Source) {
		return e.Source
	}
	return filepath.Join(c.baseDir, filepath.FromSlash(e.Source))
}
