package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/bundlecheck/bundlecheck/builder/models"
	"github.com/bundlecheck/bundlecheck/builder/testutil"
	"github.com/bundlecheck/bundlecheck/builder/utils"
)

func TestClassifyDelta(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous int64
		hasPrev  bool
		expected models.DiffKind
	}{
		{
			name:     "one byte below threshold is small",
			current:  1000 + SizeThreshold - 1,
			previous: 1000,
			hasPrev:  true,
			expected: models.DiffSmallIncrease,
		},
		{
			name:     "exactly at threshold is large",
			current:  1000 + SizeThreshold,
			previous: 1000,
			hasPrev:  true,
			expected: models.DiffLargeIncrease,
		},
		{
			name:     "one byte increase is small",
			current:  1001,
			previous: 1000,
			hasPrev:  true,
			expected: models.DiffSmallIncrease,
		},
		{
			name:     "zero delta is unlabeled",
			current:  1000,
			previous: 1000,
			hasPrev:  true,
			expected: models.DiffNone,
		},
		{
			name:     "one byte decrease",
			current:  999,
			previous: 1000,
			hasPrev:  true,
			expected: models.DiffDecrease,
		},
		{
			name:     "no previous value is unlabeled",
			current:  52000,
			previous: 0,
			hasPrev:  false,
			expected: models.DiffNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := ClassifyDelta(tt.current, tt.previous, tt.hasPrev)
			if diff.Kind != tt.expected {
				t.Errorf("ClassifyDelta(%d, %d, %v) = %v, want %v",
					tt.current, tt.previous, tt.hasPrev, diff.Kind, tt.expected)
			}
			if tt.hasPrev && diff.Delta != tt.current-tt.previous {
				t.Errorf("Delta = %d, want %d", diff.Delta, tt.current-tt.previous)
			}
			if diff.HasPrev != tt.hasPrev {
				t.Errorf("HasPrev = %v, want %v", diff.HasPrev, tt.hasPrev)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	// Varied content so gzip cannot collapse it below the stylesheet's size.
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&sb, "const v%d = %d;\n", i, i*7919)
	}
	big := sb.String()
	small := "let a = 1"

	fsys := testutil.FilesystemWithContent(map[string]string{
		"build/static/js/main.82be8.js":     big,
		"build/static/css/theme.f00ba.css":  small,
		"build/static/js/main.82be8.js.map": "{}",
		"build/index.html":                  "<html></html>",
	})

	assets := []string{
		"static/js/main.82be8.js",
		"static/js/main.82be8.js.map",
		"static/css/theme.f00ba.css",
		"index.html",
	}

	prevSize, err := utils.GzipSize([]byte(small))
	if err != nil {
		t.Fatalf("GzipSize() error: %v", err)
	}
	prev := models.SizeSnapshot{"/static/css/theme.css": prevSize}

	lines, err := Compute(fsys, "build", assets, prev)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (maps and html excluded): %+v", len(lines), lines)
	}

	// Descending by gzip size: the big JS file first.
	if lines[0].Asset.Key != "/static/js/main.js" {
		t.Errorf("first line key = %q, want %q", lines[0].Asset.Key, "/static/js/main.js")
	}
	if lines[0].Asset.GzipSize <= lines[1].Asset.GzipSize {
		t.Errorf("lines not sorted descending: %d then %d", lines[0].Asset.GzipSize, lines[1].Asset.GzipSize)
	}

	// New asset: no previous value, no label.
	if lines[0].Diff.Kind != models.DiffNone || lines[0].Diff.HasPrev {
		t.Errorf("new asset diff = %+v, want unlabeled without previous", lines[0].Diff)
	}

	// Unchanged asset: previous value present, zero delta, no label.
	css := lines[1]
	if css.Asset.Key != "/static/css/theme.css" {
		t.Fatalf("second line key = %q", css.Asset.Key)
	}
	if !css.Diff.HasPrev || css.Diff.Delta != 0 || css.Diff.Kind != models.DiffNone {
		t.Errorf("unchanged asset diff = %+v", css.Diff)
	}
}

func TestCompute_StableSort(t *testing.T) {
	// Equal-sized assets keep their original relative order; both precede
	// the smaller one.
	same := "identical content"
	fsys := testutil.FilesystemWithContent(map[string]string{
		"build/zz.first.aaaa.js":  same,
		"build/aa.second.bbbb.js": same,
		"build/tiny.cccc.css":     "x",
	})

	lines, err := Compute(fsys, "build", []string{
		"zz.first.aaaa.js",
		"aa.second.bbbb.js",
		"tiny.cccc.css",
	}, models.SizeSnapshot{})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0].Asset.Key != "/zz.first.js" || lines[1].Asset.Key != "/aa.second.js" {
		t.Errorf("equal sizes reordered: %q then %q", lines[0].Asset.Key, lines[1].Asset.Key)
	}
	if lines[2].Asset.Key != "/tiny.css" {
		t.Errorf("last line = %q, want the smallest asset", lines[2].Asset.Key)
	}
}

func TestCompute_MissingAssetFatal(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := Compute(fsys, "build", []string{"static/js/gone.js"}, models.SizeSnapshot{})
	if err == nil {
		t.Fatal("Compute() should fail when an emitted asset cannot be read")
	}
}

func TestEndToEndLabels(t *testing.T) {
	tests := []struct {
		name     string
		previous int64
		hasPrev  bool
		current  int64
		expected models.DiffKind
	}{
		{
			name:     "regression past threshold",
			previous: 1000,
			hasPrev:  true,
			current:  52000,
			expected: models.DiffLargeIncrease,
		},
		{
			name:     "modest growth",
			previous: 1000,
			hasPrev:  true,
			current:  1040,
			expected: models.DiffSmallIncrease,
		},
		{
			name:     "absent from snapshot",
			hasPrev:  false,
			current:  1040,
			expected: models.DiffNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := ClassifyDelta(tt.current, tt.previous, tt.hasPrev)
			if diff.Kind != tt.expected {
				t.Errorf("kind = %v, want %v", diff.Kind, tt.expected)
			}
		})
	}
}
