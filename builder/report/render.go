package report

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bundlecheck/bundlecheck/builder/models"
	"github.com/bundlecheck/bundlecheck/builder/utils"
)

// Renderer prints a computed report with terminal styling and a vertically
// aligned size column.
type Renderer struct {
	Out   io.Writer
	Style utils.Style
}

// Print writes one row per asset: padded size label, dimmed folder, cyan
// filename. Padding is computed on the style-stripped label widths so
// escape sequences never skew the column.
func (r *Renderer) Print(root string, lines []Line) {
	fmt.Fprintln(r.Out, "File sizes after gzip:")
	fmt.Fprintln(r.Out)

	labels := make([]string, len(lines))
	width := 0
	for i, line := range lines {
		labels[i] = r.sizeLabel(line)
		if n := utils.VisibleLen(labels[i]); n > width {
			width = n
		}
	}

	for i, line := range lines {
		pad := strings.Repeat(" ", width-utils.VisibleLen(labels[i]))
		folder, name := path.Split(path.Join(root, line.Asset.Path))
		fmt.Fprintf(r.Out, "  %s%s  %s%s\n", labels[i], pad, r.Style.Dim(folder), r.Style.Cyan(name))
	}
}

// sizeLabel renders "1.24 KB" plus a parenthesized, colored delta when the
// asset changed size against the snapshot.
func (r *Renderer) sizeLabel(line Line) string {
	label := utils.HumanSize(line.Asset.GzipSize)

	var delta string
	switch line.Diff.Kind {
	case models.DiffLargeIncrease:
		delta = r.Style.Red("+" + utils.HumanSize(line.Diff.Delta))
	case models.DiffSmallIncrease:
		delta = r.Style.Yellow("+" + utils.HumanSize(line.Diff.Delta))
	case models.DiffDecrease:
		delta = r.Style.Green("-" + utils.HumanSize(-line.Diff.Delta))
	default:
		return label
	}

	return label + " (" + delta + ")"
}
