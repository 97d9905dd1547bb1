package index

import (
	"log/slog"

	"github.com/starford/quire/internal/blocks"
	"github.com/starford/quire/internal/checksum"
	"github.com/starford/quire/internal/frontmatter"
	"github.com/starford/quire/internal/storage"
)

// Sync walks the workspace and brings the index up to date:
//   - new/changed pages are parsed and upserted
//   - pages removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexPage(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeletePage(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexPage parses data and upserts it. The block count is the number of
// editor blocks the body converts to.
func IndexPage(db PageIndex, path string, data []byte) error {
	page := frontmatter.Parse(data)
	doc := blocks.FromMarkdown(page.Body)

	row := PageRow{
		Path:       path,
		Title:      page.Title,
		Checksum:   checksum.Sum(data),
		Tags:       page.Tags,
		BlockCount: len(doc.Blocks),
	}
	return db.UpsertPage(row, page.Body, page.Links)
}
