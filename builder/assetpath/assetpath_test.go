package assetpath

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		path     string
		expected string
	}{
		{
			name:     "hashed js asset",
			root:     "build",
			path:     "build/static/js/main.82be8.js",
			expected: "/static/js/main.js",
		},
		{
			name:     "hashed css asset",
			root:     "build",
			path:     "build/static/css/theme.0f9ab3.css",
			expected: "/static/css/theme.css",
		},
		{
			name:     "no hash segment returned unchanged",
			root:     "build",
			path:     "build/static/js/main.js",
			expected: "/static/js/main.js",
		},
		{
			name:     "dots before the hash keep the full name",
			root:     "build",
			path:     "build/static/js/jquery.min.82be8.js",
			expected: "/static/js/jquery.min.js",
		},
		{
			name:     "empty root",
			root:     "",
			path:     "static/js/app.c0ffee.js",
			expected: "/static/js/app.js",
		},
		{
			name:     "root with trailing slash",
			root:     "build/",
			path:     "build/a.deadbeef.css",
			expected: "/a.css",
		},
		{
			name:     "file directly under root without hash",
			root:     "build",
			path:     "build/vendor.js",
			expected: "/vendor.js",
		},
		{
			name:     "root prefix only strips at a separator boundary",
			root:     "build",
			path:     "builder/vendor.js",
			expected: "/builder/vendor.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonical(tt.root, tt.path)
			if got != tt.expected {
				t.Errorf("Canonical(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.expected)
			}
		})
	}
}

func TestCanonical_HashInsensitive(t *testing.T) {
	// The key must be invariant under substitution of the hash token,
	// whatever its length or charset.
	hashes := []string{"82be8", "f00ba", "deadbeefcafe", "X9", "4e71050e3c59b9891d7d4fa74cb6f0f8"}

	var first string
	for i, h := range hashes {
		key := Canonical("build", "build/static/js/main."+h+".js")
		if i == 0 {
			first = key
			continue
		}
		if key != first {
			t.Errorf("hash %q produced key %q, want %q", h, key, first)
		}
	}

	if first != "/static/js/main.js" {
		t.Errorf("canonical key = %q, want %q", first, "/static/js/main.js")
	}
}

func TestCanonical_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		got := Canonical("build", "build/static/js/main.82be8.js")
		if got != "/static/js/main.js" {
			t.Fatalf("run %d: got %q", i, got)
		}
	}
}
