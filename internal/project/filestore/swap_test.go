package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/lumenedit/internal/project/vfs"
)

func TestFileStore_SwapLockRejectsConcurrentOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	osfs := vfs.NewOSFS()
	storeA := NewFileStoreWithOptions(osfs, WithSwapFiles(""))
	storeB := NewFileStoreWithOptions(osfs, WithSwapFiles(""))

	ctx := context.Background()
	if _, err := storeA.Open(ctx, path); err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	if _, err := storeB.Open(ctx, path); err == nil {
		t.Fatal("expected second Open to fail with the file already locked")
	}

	if err := storeA.Close(ctx, path, false); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := storeB.Open(ctx, path); err != nil {
		t.Fatalf("Open after release should succeed, got: %v", err)
	}
}
