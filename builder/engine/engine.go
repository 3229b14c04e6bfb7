// Package engine drives esbuild over the configured entry points and
// classifies the result of each pass.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"

	"github.com/bundlecheck/bundlecheck/builder/config"
)

// MetafileName is written into the output root after every successful pass
// so external analyzers can inspect module composition.
const MetafileName = ".bundlecheck.meta.json"

// Stats is the result of one bundler invocation that ran to completion.
type Stats struct {
	// Assets are the emitted file paths relative to the output root.
	Assets []string

	// Errors is the ordered list of compile errors, empty on success.
	Errors []Message

	// Metafile is the path of the emitted metafile, "" when none was written.
	Metafile string
}

// Message is one compile-time diagnostic.
type Message struct {
	Text     string
	Location string
}

// String renders the diagnostic, falling back to the location when the
// bundler supplied no message text.
func (m Message) String() string {
	if m.Text == "" {
		if m.Location != "" {
			return "Error in " + m.Location
		}
		return "Unknown build error"
	}
	if m.Location != "" {
		return m.Location + ": " + m.Text
	}
	return m.Text
}

// Engine bundles the configured sources into the output root. Output files
// are written through the destination filesystem rather than by esbuild
// itself, so the write path stays testable and respects the caller's fs.
type Engine struct {
	sourceFs afero.Fs
	destFs   afero.Fs
	cfg      *config.Config
	logger   *slog.Logger
}

func New(sourceFs, destFs afero.Fs, cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		sourceFs: sourceFs,
		destFs:   destFs,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run performs one bundling pass. A non-nil error means the bundler itself
// could not run (entry scan or output write failure); compile errors are
// reported through Stats.Errors instead.
func (e *Engine) Run(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jsEntries, cssEntries, err := e.entryPoints()
	if err != nil {
		return nil, fmt.Errorf("failed to scan for entry points: %w", err)
	}
	if len(jsEntries)+len(cssEntries) == 0 {
		e.logger.Warn("No entry points found", "sourceDir", e.cfg.SourceDir)
		return &Stats{}, nil
	}
	e.logger.Debug("Bundling", "js", len(jsEntries), "css", len(cssEntries))

	stats := &Stats{}
	meta := newMetafile()

	// CSS is bundled (for @import and fonts); JS entries are compiled
	// standalone to avoid wrapping self-contained libraries.
	if err := e.process(cssEntries, true, stats, meta); err != nil {
		return nil, err
	}
	if err := e.process(jsEntries, false, stats, meta); err != nil {
		return nil, err
	}

	if len(stats.Errors) == 0 {
		path, err := e.writeMetafile(meta)
		if err != nil {
			return nil, err
		}
		stats.Metafile = path
	}

	return stats, nil
}

// entryPoints returns the configured entries split by type, scanning the
// source directory when no explicit list is configured.
func (e *Engine) entryPoints() (js, css []string, err error) {
	split := func(path string) {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".js":
			js = append(js, path)
		case ".css":
			css = append(css, path)
		}
	}

	if len(e.cfg.EntryPoints) > 0 {
		for _, p := range e.cfg.EntryPoints {
			split(p)
		}
		return js, css, nil
	}

	exists, err := afero.DirExists(e.sourceFs, e.cfg.SourceDir)
	if err != nil || !exists {
		return nil, nil, err
	}

	err = afero.Walk(e.sourceFs, e.cfg.SourceDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			split(path)
		}
		return nil
	})
	return js, css, err
}

func (e *Engine) process(entryPoints []string, bundle bool, stats *Stats, meta *metafile) error {
	if len(entryPoints) == 0 {
		return nil
	}

	buildOptions := api.BuildOptions{
		EntryPoints:       entryPoints,
		Bundle:            bundle,
		Write:             false,
		Outdir:            e.cfg.OutputDir,
		Outbase:           e.cfg.SourceDir,
		MinifyWhitespace:  e.cfg.Minify,
		MinifyIdentifiers: e.cfg.Minify,
		MinifySyntax:      e.cfg.Minify,
		Sourcemap:         api.SourceMapExternal,
		Metafile:          true,
		Loader: map[string]api.Loader{
			".woff2": api.LoaderFile,
			".woff":  api.LoaderFile,
			".ttf":   api.LoaderFile,
			".png":   api.LoaderFile,
			".webp":  api.LoaderFile,
			".svg":   api.LoaderFile,
		},
	}

	if e.cfg.Minify {
		buildOptions.EntryNames = "[dir]/[name].[hash]"
		buildOptions.AssetNames = "assets/[name].[hash]"
	}

	result := api.Build(buildOptions)
	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			stats.Errors = append(stats.Errors, fromAPIMessage(msg))
		}
		return nil
	}

	absOut, err := filepath.Abs(e.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	for _, outFile := range result.OutputFiles {
		rel, err := filepath.Rel(absOut, outFile.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("bundler emitted %s outside the output root", outFile.Path)
		}

		dest := filepath.Join(e.cfg.OutputDir, rel)
		if err := e.destFs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
		}
		if err := afero.WriteFile(e.destFs, dest, outFile.Contents, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}

		stats.Assets = append(stats.Assets, filepath.ToSlash(rel))
	}

	if err := meta.merge(result.Metafile); err != nil {
		return fmt.Errorf("failed to parse metafile: %w", err)
	}
	return nil
}

func (e *Engine) writeMetafile(meta *metafile) (string, error) {
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode metafile: %w", err)
	}

	path := filepath.Join(e.cfg.OutputDir, MetafileName)
	if err := afero.WriteFile(e.destFs, path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write metafile: %w", err)
	}
	return path, nil
}

func fromAPIMessage(msg api.Message) Message {
	m := Message{Text: msg.Text}
	if msg.Location != nil {
		m.Location = fmt.Sprintf("%s:%d:%d", msg.Location.File, msg.Location.Line, msg.Location.Column)
	}
	return m
}

// metafile accumulates esbuild metafiles across the CSS and JS passes.
type metafile struct {
	Inputs  map[string]json.RawMessage `json:"inputs"`
	Outputs map[string]json.RawMessage `json:"outputs"`
}

func newMetafile() *metafile {
	return &metafile{
		Inputs:  make(map[string]json.RawMessage),
		Outputs: make(map[string]json.RawMessage),
	}
}

func (m *metafile) merge(raw string) error {
	if raw == "" {
		return nil
	}
	var part metafile
	if err := json.Unmarshal([]byte(raw), &part); err != nil {
		return err
	}
	for k, v := range part.Inputs {
		m.Inputs[k] = v
	}
	for k, v := range part.Outputs {
		m.Outputs[k] = v
	}
	return nil
}
