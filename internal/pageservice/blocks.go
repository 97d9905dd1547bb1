package pageservice

import (
	"context"
	"errors"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/blocks"
	"github.com/starford/quire/internal/checksum"
	"github.com/starford/quire/internal/frontmatter"
)

// PageBlocks is a page body as a block document plus the checksum of the
// file it was read from.
type PageBlocks struct {
	Path     string          `json:"path"`
	Checksum string          `json:"checksum"`
	Document blocks.Document `json:"document"`
}

// Blocks converts the body of a page, frontmatter excluded, into a block document.
func (s *Service) Blocks(_ context.Context, path string) (*PageBlocks, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	page := frontmatter.Parse(data)
	return &PageBlocks{
		Path:     path,
		Checksum: checksum.Sum(data),
		Document: blocks.FromMarkdown(page.Body),
	}, nil
}

// SaveBlocks replaces the body of a page with the Markdown form of doc and
// keeps the existing frontmatter. A missing page is created unless ifMatch is
// set, in which case the save conflicts.
func (s *Service) SaveBlocks(_ context.Context, path string, doc *blocks.Document, ifMatch string) (*PageDetail, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	var header string
	existing, err := s.read(path)
	switch {
	case err == nil:
		if ifMatch != "" && ifMatch != checksum.Sum(existing) {
			return nil, apperr.ErrConflict
		}
		header = frontmatter.Parse(existing).Header
	case errors.Is(err, apperr.ErrNotFound):
		if ifMatch != "" {
			return nil, apperr.ErrConflict
		}
	default:
		return nil, err
	}

	content := frontmatter.Join(header, blocks.ToMarkdown(doc))
	if err := s.write(path, content); err != nil {
		return nil, err
	}
	return s.buildPageDetail(path, content)
}

// Preview renders a page body to sanitized HTML.
func (s *Service) Preview(_ context.Context, path string) (string, error) {
	data, err := s.read(path)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(frontmatter.Parse(data).Body)
}

// PreviewDocument renders an unsaved block document.
func (s *Service) PreviewDocument(doc *blocks.Document) (string, error) {
	return s.renderer.RenderDocument(doc)
}

// ImportHTML converts an HTML fragment into a block document. Relative links
// resolve against baseURL when it is set.
func (s *Service) ImportHTML(html, baseURL string) (blocks.Document, error) {
	return s.importer.ToBlocks(html, baseURL)
}
