// Package assetpath derives hash-insensitive identities for emitted assets.
//
// Bundlers embed a content hash in output filenames ("main.82be8.js") so
// browsers can cache aggressively. To compare an asset across two builds the
// hash segment has to be elided, otherwise every build looks like a rename.
package assetpath

import (
	"path"
	"path/filepath"
	"strings"
)

// Canonical returns the canonical key of an emitted asset: the path with the
// root prefix removed and the hash segment elided.
//
//	Canonical("build", "build/static/js/main.82be8.js") == "/static/js/main.js"
//
// The filename is treated as dot-separated components: everything up to the
// second-to-last dot is the name (greedy), the second-to-last component is
// the hash, the last is the extension (minimal). A filename with fewer than
// three components carries no hash and is returned unchanged, root-relative.
// The result is independent of the hash's length and character set.
func Canonical(root, p string) string {
	rel := rootRelative(root, p)

	dir, file := path.Split(rel)
	parts := strings.Split(file, ".")
	if len(parts) < 3 {
		return rel
	}

	name := strings.Join(parts[:len(parts)-2], ".")
	ext := parts[len(parts)-1]
	return dir + name + "." + ext
}

// rootRelative normalizes p to a slash-separated path relative to root,
// with a leading slash.
func rootRelative(root, p string) string {
	p = filepath.ToSlash(p)
	root = strings.TrimSuffix(filepath.ToSlash(root), "/")

	rel := p
	if root != "" && strings.HasPrefix(p, root+"/") {
		rel = p[len(root):]
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return rel
}
