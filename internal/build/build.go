// Package build runs one complete bundling pass: snapshot the previous
// output, reset it, drive the bundler, classify, and report size diffs.
package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/bundlecheck/bundlecheck/builder/config"
	"github.com/bundlecheck/bundlecheck/builder/engine"
	"github.com/bundlecheck/bundlecheck/builder/metrics"
	"github.com/bundlecheck/bundlecheck/builder/models"
	"github.com/bundlecheck/bundlecheck/builder/report"
	"github.com/bundlecheck/bundlecheck/builder/snapshot"
	"github.com/bundlecheck/bundlecheck/builder/utils"
)

// Options carries the per-invocation collaborators resolved by the CLI.
type Options struct {
	Cfg    *config.Config
	Fs     afero.Fs
	Out    io.Writer
	Logger *slog.Logger
	Style  utils.Style
}

// Run executes one pass and returns the process exit code. No os.Exit
// happens below the cmd layer; the caller performs the actual termination.
func Run(opts Options) int {
	code, err := Pass(context.Background(), opts)
	if err != nil {
		opts.Logger.Error("Build aborted", "error", err)
		return 1
	}
	return code
}

// Pass executes snapshot, reset, bundle, classify and report, in that
// order. The snapshot is captured strictly before the reset; reversing the
// two would always yield an empty snapshot and destroy diffing.
//
// A non-nil error is an environment failure (unreadable previous output,
// reset failure) and is fatal even under watch mode. The int carries the
// classifier's exit code: 0 on success, 1 on any build failure.
func Pass(ctx context.Context, opts Options) (int, error) {
	cfg := opts.Cfg
	m := metrics.NewBuildMetrics()

	snapStart := time.Now()
	snap, err := snapshot.Read(opts.Fs, cfg.OutputDir)
	if err != nil {
		return 1, err
	}
	if err := snapshot.Reset(opts.Fs, cfg.OutputDir); err != nil {
		return 1, err
	}
	m.SnapshotTime = time.Since(snapStart)
	opts.Logger.Debug("Snapshot captured", "assets", len(snap))

	bundleStart := time.Now()
	eng := engine.New(opts.Fs, opts.Fs, cfg, opts.Logger)
	stats, runErr := eng.Run(ctx)
	m.BundleTime = time.Since(bundleStart)

	outcome := engine.Classify(stats, runErr)
	return handle(outcome, snap, m, opts), nil
}

func handle(outcome engine.Outcome, snap models.SizeSnapshot, m *metrics.BuildMetrics, opts Options) int {
	out, style, cfg := opts.Out, opts.Style, opts.Cfg

	switch outcome.Kind {
	case engine.OutcomeInvocationError:
		fmt.Fprintln(out, style.Red("Failed to compile."))
		fmt.Fprintln(out)
		fmt.Fprintln(out, outcome.Err)
		return 1

	case engine.OutcomeCompileErrors:
		fmt.Fprintln(out, style.Red("Failed to compile."))
		fmt.Fprintln(out)
		for _, msg := range outcome.Errors {
			fmt.Fprintln(out, msg.String())
			fmt.Fprintln(out)
		}
		return 1
	}

	if warning := cfg.PendingWarning(); warning != "" {
		fmt.Fprintln(out, style.Yellow(warning))
		fmt.Fprintln(out)
	}

	reportStart := time.Now()
	lines, err := report.Compute(opts.Fs, cfg.OutputDir, outcome.Assets, snap)
	if err != nil {
		opts.Logger.Error("Failed to compute size report", "error", err)
		return 1
	}
	m.ReportTime = time.Since(reportStart)

	for _, line := range lines {
		m.AddAsset(line.Asset.GzipSize)
	}
	m.RecordEnd()

	fmt.Fprintln(out, style.Green("Compiled successfully."))
	fmt.Fprintln(out)
	r := &report.Renderer{Out: out, Style: style}
	r.Print(cfg.OutputDir, lines)
	fmt.Fprintln(out)

	if cfg.Analyze {
		printAnalysis(outcome, lines, opts)
	}

	opts.Logger.Debug("Pass finished", "summary", m.String())
	return 0
}

// printAnalysis surfaces per-asset content digests and the metafile
// location for external bundle analyzers.
func printAnalysis(outcome engine.Outcome, lines []report.Line, opts Options) {
	fmt.Fprintln(opts.Out, "Asset digests (blake3):")
	for _, line := range lines {
		path := filepath.Join(opts.Cfg.OutputDir, filepath.FromSlash(line.Asset.Path))
		data, err := afero.ReadFile(opts.Fs, path)
		if err != nil {
			opts.Logger.Warn("Failed to digest asset", "path", path, "error", err)
			continue
		}
		fmt.Fprintf(opts.Out, "  %s  %s\n", utils.ContentDigest(data)[:16], line.Asset.Path)
	}
	if outcome.Metafile != "" {
		fmt.Fprintf(opts.Out, "Bundle metafile written to %s. Feed it to a bundle analyzer for a module breakdown.\n", outcome.Metafile)
	}
	fmt.Fprintln(opts.Out)
}
