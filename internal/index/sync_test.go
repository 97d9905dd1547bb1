package index

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/quire/internal/storage"
)

func TestSync_IndexesAndRemovesStale(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	db := testDB(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	page := "---\ntitle: Plan\ntags: [work]\n---\n# Plan\n\n- one\n- two\n\nSee [[other]].\n"
	_ = os.WriteFile(filepath.Join(dir, "plan.md"), []byte(page), 0o644)
	_ = db.UpsertPage(PageRow{Path: "gone.md", Checksum: "stale"}, "", nil)

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	row, err := db.GetPage("plan.md")
	if err != nil || row == nil {
		t.Fatalf("GetPage: %v, %v", row, err)
	}
	if row.Title != "Plan" || row.BlockCount != 3 {
		t.Errorf("row = %+v, want title Plan and 3 blocks", row)
	}
	if bl, _ := db.Backlinks("other.md"); len(bl) != 1 || bl[0] != "plan.md" {
		t.Errorf("backlinks = %v", bl)
	}
	if cs, _ := db.GetChecksum("gone.md"); cs != "" {
		t.Error("stale entry not removed")
	}
}
