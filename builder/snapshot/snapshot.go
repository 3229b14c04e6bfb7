// Package snapshot captures the previous build's gzip sizes and resets the
// output directory for the next pass.
//
// Ordering matters: Read must complete before Reset runs, otherwise the
// snapshot would always be empty and every asset would report as new.
package snapshot

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/bundlecheck/bundlecheck/builder/assetpath"
	"github.com/bundlecheck/bundlecheck/builder/models"
	"github.com/bundlecheck/bundlecheck/builder/utils"
)

// measuredExtensions are the asset types whose sizes feed the diff report.
var measuredExtensions = map[string]bool{
	".js":  true,
	".css": true,
}

// Measured reports whether name is an asset whose size belongs in the report.
func Measured(name string) bool {
	return measuredExtensions[strings.ToLower(filepath.Ext(name))]
}

// Read walks the previous build output under root and records the gzip size
// of every script and stylesheet, keyed by canonical identity. A missing
// root means a first build and yields an empty snapshot. An unreadable file
// is fatal: the output directory is corrupted before any build work started.
func Read(fsys afero.Fs, root string) (models.SizeSnapshot, error) {
	snap := make(models.SizeSnapshot)

	exists, err := afero.DirExists(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output directory %s: %w", root, err)
	}
	if !exists {
		return snap, nil
	}

	err = afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !Measured(path) {
			return nil
		}

		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read previous asset %s: %w", path, err)
		}
		size, err := utils.GzipSize(data)
		if err != nil {
			return fmt.Errorf("failed to measure %s: %w", path, err)
		}

		snap[assetpath.Canonical(root, path)] = size
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s: %w", root, err)
	}

	return snap, nil
}

// Reset removes everything under root while keeping the directory node
// itself, so a process whose working directory sits inside it stays valid.
// A missing root is created.
func Reset(fsys afero.Fs, root string) error {
	exists, err := afero.DirExists(fsys, root)
	if err != nil {
		return fmt.Errorf("failed to stat output directory %s: %w", root, err)
	}
	if !exists {
		if err := fsys.MkdirAll(root, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", root, err)
		}
		return nil
	}

	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("failed to read output directory %s: %w", root, err)
	}
	for _, entry := range entries {
		if err := fsys.RemoveAll(filepath.Join(root, entry.Name())); err != nil {
			return fmt.Errorf("failed to clear %s: %w", entry.Name(), err)
		}
	}
	return nil
}
