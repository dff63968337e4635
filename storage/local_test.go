package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalProviderSaveOpenRemove(t *testing.T) {
	dir := t.TempDir()
	p := NewLocalProvider(dir)
	ctx := context.Background()
	content := []byte("not really audio")

	location, err := p.Save(ctx, bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(location) != dir {
		t.Errorf("location %q not under %q", location, dir)
	}
	if !strings.HasSuffix(location, ".mp3") {
		t.Errorf("location %q missing .mp3 extension", location)
	}

	blob, err := p.Open(ctx, location)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(blob)
	blob.Close()
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("read back %q, want %q", got, content)
	}

	if err := p.Remove(ctx, location); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(location); !os.IsNotExist(err) {
		t.Errorf("file still present after Remove, stat err = %v", err)
	}
}

func TestLocalProviderUniqueLocations(t *testing.T) {
	dir := t.TempDir()
	p := NewLocalProvider(dir)
	ctx := context.Background()

	a, err := p.Save(ctx, strings.NewReader("a"), 1)
	if err != nil {
		t.Fatalf("Save a: %v", err)
	}
	b, err := p.Save(ctx, strings.NewReader("b"), 1)
	if err != nil {
		t.Fatalf("Save b: %v", err)
	}
	if a == b {
		t.Errorf("two saves returned the same location %q", a)
	}
}

func TestLocalProviderMissingDirSurfacesOnSave(t *testing.T) {
	p := NewLocalProvider(filepath.Join(t.TempDir(), "does-not-exist"))

	if _, err := p.Save(context.Background(), strings.NewReader("x"), 1); err == nil {
		t.Fatal("Save into a missing directory succeeded, want error")
	}
}

func TestLocalProviderOpenMissing(t *testing.T) {
	p := NewLocalProvider(t.TempDir())

	if _, err := p.Open(context.Background(), filepath.Join(t.TempDir(), "gone.mp3")); err == nil {
		t.Fatal("Open of a missing file succeeded, want error")
	}
}
