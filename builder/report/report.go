// Package report computes and renders the size-diff report of a build.
//
// The work is split into two passes: Compute produces a plain structured
// report from disk state and the size snapshot; Render applies terminal
// styling and column alignment. Nothing in Compute knows about styling.
package report

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/bundlecheck/bundlecheck/builder/assetpath"
	"github.com/bundlecheck/bundlecheck/builder/models"
	"github.com/bundlecheck/bundlecheck/builder/snapshot"
	"github.com/bundlecheck/bundlecheck/builder/utils"
)

// SizeThreshold separates a small size increase from one worth shouting
// about.
const SizeThreshold = 50 * 1024

// Line is one asset's entry in the plain report.
type Line struct {
	Asset models.AssetRecord
	Diff  models.SizeDiff
}

// Compute builds the report for the emitted assets: gzip size per script
// and stylesheet, delta against the snapshot, sorted by current size in
// strictly descending order. The sort is stable, so equal sizes keep the
// bundler's emit order.
func Compute(fsys afero.Fs, root string, assets []string, prev models.SizeSnapshot) ([]Line, error) {
	lines := make([]Line, 0, len(assets))

	for _, name := range assets {
		if !snapshot.Measured(name) {
			continue
		}

		data, err := afero.ReadFile(fsys, filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			return nil, fmt.Errorf("failed to read emitted asset %s: %w", name, err)
		}
		size, err := utils.GzipSize(data)
		if err != nil {
			return nil, fmt.Errorf("failed to measure %s: %w", name, err)
		}

		key := assetpath.Canonical("", name)
		prevSize, hasPrev := prev.Lookup(key)

		lines = append(lines, Line{
			Asset: models.AssetRecord{Key: key, Path: name, GzipSize: size},
			Diff:  ClassifyDelta(size, prevSize, hasPrev),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Asset.GzipSize > lines[j].Asset.GzipSize
	})

	return lines, nil
}

// ClassifyDelta labels the size change of one asset against its previous
// size. An asset with no previous value gets no label: absence of data is
// not a regression.
func ClassifyDelta(current, previous int64, hasPrev bool) models.SizeDiff {
	if !hasPrev {
		return models.SizeDiff{Kind: models.DiffNone}
	}

	delta := current - previous
	diff := models.SizeDiff{Delta: delta, HasPrev: true}

	switch {
	case delta >= SizeThreshold:
		diff.Kind = models.DiffLargeIncrease
	case delta > 0:
		diff.Kind = models.DiffSmallIncrease
	case delta < 0:
		diff.Kind = models.DiffDecrease
	default:
		diff.Kind = models.DiffNone
	}
	return diff
}
