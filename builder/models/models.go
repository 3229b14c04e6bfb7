// defines the data structures shared across the build pipeline
package models

// AssetRecord is one emitted script or stylesheet asset.
type AssetRecord struct {
	// Key is the hash-insensitive identity of the asset, stable across
	// builds: "/static/js/main.82be8.js" and "/static/js/main.f00ba.js"
	// carry the same Key.
	Key string

	// Path is the asset's location relative to the output root, as emitted.
	Path string

	// GzipSize is the byte length of the asset's contents after gzip
	// compression. Never negative.
	GzipSize int64
}

// SizeSnapshot maps canonical keys to the previous build's gzip sizes.
// It is captured once per invocation, before the output directory is
// reset, and only read afterwards.
type SizeSnapshot map[string]int64

// Lookup returns the previous gzip size for key. The second return value
// distinguishes "absent" from a genuine zero-byte asset.
func (s SizeSnapshot) Lookup(key string) (int64, bool) {
	size, ok := s[key]
	return size, ok
}

// DiffKind classifies a size delta against the previous build.
type DiffKind int

const (
	// DiffNone covers both an unchanged size and a missing previous value.
	DiffNone DiffKind = iota
	DiffSmallIncrease
	DiffLargeIncrease
	DiffDecrease
)

// SizeDiff is the computed delta of one asset against the snapshot.
type SizeDiff struct {
	Kind  DiffKind
	Delta int64

	// HasPrev is false when the asset was absent from the snapshot
	// (new or renamed). Kept separate from Kind so a later rendering
	// change can flag new assets without touching the classifier.
	HasPrev bool
}
