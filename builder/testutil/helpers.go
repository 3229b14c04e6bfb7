package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// Filesystem creates an in-memory filesystem for testing.
func Filesystem() afero.Fs {
	return afero.NewMemMapFs()
}

// FilesystemWithContent creates an in-memory filesystem pre-populated with
// the given files.
func FilesystemWithContent(files map[string]string) afero.Fs {
	fsys := Filesystem()
	for path, content := range files {
		if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
			panic(err)
		}
		if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	return fsys
}

// AssertFileExists checks if a file exists in the filesystem.
func AssertFileExists(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if !exists {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist.
func AssertFileNotExists(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if exists {
		t.Errorf("Expected file to not exist: %s", path)
	}
}
