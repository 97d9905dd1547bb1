// Package storage provides access to the workspace directory of Markdown pages.
package storage

import "github.com/starford/quire/internal/models"

// Provider is the workspace file interface. Paths are relative to the
// workspace root and use forward slashes.
type Provider interface {
	List(dir string) ([]models.PageMetadata, error)
	Read(path string) ([]byte, error)
	// Write replaces the file atomically, creating parent directories.
	Write(path string, content []byte) error
	Delete(path string) error
	Move(oldPath, newPath string) error
}

var _ Provider = (*FS)(nil)
