package config

import (
	"os"
	"testing"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "8123")
	t.Setenv("STORE_PATH", "/tmp/library.json")
	t.Setenv("UPLOAD_DIR", "/tmp/blobs")
	t.Setenv("WATCH_STORE", "true")
	t.Setenv("STORAGE_DRIVER", "minio")

	cfg := Load()
	if cfg.Port != "8123" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8123")
	}
	if cfg.StorePath != "/tmp/library.json" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.UploadDir != "/tmp/blobs" {
		t.Errorf("UploadDir = %q", cfg.UploadDir)
	}
	if !cfg.WatchStore {
		t.Error("WatchStore = false, want true")
	}
	if cfg.StorageDriver != "minio" {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_PATH", "UPLOAD_DIR", "WATCH_STORE", "STORAGE_DRIVER"} {
		// t.Setenv registers the restore, Unsetenv clears the value.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want default %q", cfg.Port, "3000")
	}
	if cfg.StorePath != "music.json" {
		t.Errorf("StorePath = %q, want default %q", cfg.StorePath, "music.json")
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q, want default %q", cfg.UploadDir, "uploads")
	}
	if cfg.WatchStore {
		t.Error("WatchStore = true, want default false")
	}
	if cfg.StorageDriver != "local" {
		t.Errorf("StorageDriver = %q, want default %q", cfg.StorageDriver, "local")
	}
}
