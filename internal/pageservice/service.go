// Package pageservice coordinates workspace storage, the page index, and the
// block converter for the transport layers.
package pageservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/checksum"
	"github.com/starford/quire/internal/frontmatter"
	"github.com/starford/quire/internal/htmlimport"
	"github.com/starford/quire/internal/index"
	"github.com/starford/quire/internal/preview"
	"github.com/starford/quire/internal/storage"
)

// PageDetail is the full representation of a page.
type PageDetail struct {
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Checksum    string         `json:"checksum"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Backlinks   []string       `json:"backlinks"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// PageListItem is a lightweight item in a list response.
type PageListItem struct {
	Path       string    `json:"path"`
	Title      string    `json:"title"`
	Checksum   string    `json:"checksum"`
	Tags       []string  `json:"tags"`
	BlockCount int       `json:"block_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Service coordinates storage and index operations.
type Service struct {
	store    storage.Provider
	db       index.PageIndex
	renderer *preview.Renderer
	importer *htmlimport.Importer
}

// NewService creates a page service. A nil renderer or importer gets the
// package defaults.
func NewService(store storage.Provider, db index.PageIndex, renderer *preview.Renderer, importer *htmlimport.Importer) *Service {
	if renderer == nil {
		renderer = preview.New(preview.Options{Sanitize: true})
	}
	if importer == nil {
		importer = htmlimport.New()
	}
	return &Service{store: store, db: db, renderer: renderer, importer: importer}
}

// ValidatePath rejects empty paths and paths that do not name a page.
func ValidatePath(path string) error {
	switch {
	case strings.TrimSpace(path) == "":
		return fmt.Errorf("%w: path is required", apperr.ErrInvalid)
	case !storage.IsPage(path):
		return fmt.Errorf("%w: %s is not a .md page", apperr.ErrInvalid, path)
	}
	return nil
}

// GetPage reads a page from storage and enriches it with backlinks.
func (s *Service) GetPage(_ context.Context, path string) (*PageDetail, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	return s.buildPageDetail(path, data)
}

// CreatePage writes a new page and indexes it.
func (s *Service) CreatePage(_ context.Context, path string, content []byte) (*PageDetail, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.write(path, content); err != nil {
		return nil, err
	}
	return s.buildPageDetail(path, content)
}

// UpdatePage writes updated content. A non-empty ifMatch must equal the
// current checksum.
func (s *Service) UpdatePage(_ context.Context, path string, content []byte, ifMatch string) (*PageDetail, error) {
	existing, err := s.read(path)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.write(path, content); err != nil {
		return nil, err
	}
	return s.buildPageDetail(path, content)
}

// DeletePage removes a page from storage and index.
func (s *Service) DeletePage(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeletePage(path)
}

// MovePage renames a page within the workspace and moves its index entry.
// The destination must not exist.
func (s *Service) MovePage(_ context.Context, from, to string) (*PageDetail, error) {
	if err := ValidatePath(to); err != nil {
		return nil, err
	}
	data, err := s.read(from)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Read(to); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Move(from, to); err != nil {
		return nil, fmt.Errorf("pageservice: move %s: %w", from, err)
	}
	if err := s.db.DeletePage(from); err != nil {
		return nil, fmt.Errorf("pageservice: unindex %s: %w", from, err)
	}
	if err := index.IndexPage(s.db, to, data); err != nil {
		return nil, fmt.Errorf("pageservice: index %s: %w", to, err)
	}
	return s.buildPageDetail(to, data)
}

// ListPages returns paginated pages with an optional tag filter.
func (s *Service) ListPages(_ context.Context, limit, offset int, tag, sort string) ([]PageListItem, int, error) {
	rows, total, err := s.db.ListPages(limit, offset, tag, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]PageListItem, len(rows))
	for i, r := range rows {
		items[i] = PageListItem{
			Path:       r.Path,
			Title:      r.Title,
			Checksum:   r.Checksum,
			Tags:       nonNilSlice(r.Tags),
			BlockCount: r.BlockCount,
			UpdatedAt:  r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Graph returns all nodes and links for graph visualization.
func (s *Service) Graph(_ context.Context) ([]index.GraphNode, []index.GraphLink, error) {
	return s.db.Graph()
}

// Backlinks returns all page paths that link to the given target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	bl, err := s.db.Backlinks(target)
	return nonNilSlice(bl), err
}

func (s *Service) read(path string) ([]byte, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// write stores content and reindexes it so reads through the index see the
// change before the watcher does.
func (s *Service) write(path string, content []byte) error {
	if err := s.store.Write(path, content); err != nil {
		return err
	}
	if err := index.IndexPage(s.db, path, content); err != nil {
		return fmt.Errorf("pageservice: index %s: %w", path, err)
	}
	return nil
}

// buildPageDetail constructs a PageDetail from raw data without re-reading the file.
func (s *Service) buildPageDetail(path string, data []byte) (*PageDetail, error) {
	page := frontmatter.Parse(data)
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return nil, err
	}
	return &PageDetail{
		Path:        path,
		Title:       page.Title,
		Content:     string(data),
		Checksum:    checksum.Sum(data),
		Tags:        nonNilSlice(page.Tags),
		Frontmatter: page.Fields,
		Backlinks:   nonNilSlice(bl),
		UpdatedAt:   time.Now(),
	}, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
