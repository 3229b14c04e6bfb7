package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bundlecheck/bundlecheck/builder/config"
	"github.com/bundlecheck/bundlecheck/builder/utils"
	"github.com/bundlecheck/bundlecheck/internal/build"
	"github.com/bundlecheck/bundlecheck/internal/watch"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		debug      bool
		watchMode  bool
		outputPath string
		analyze    bool
	)

	code := 0

	cmd := &cobra.Command{
		Use:   "bundlecheck",
		Short: "Bundle sources and report gzip size changes against the previous build",
		Long: `bundlecheck drives a bundling pass over the configured entry points and
prints, after each pass, how the gzip-compressed size of every emitted
script and stylesheet changed relative to the previous build.

Examples:
  bundlecheck
  bundlecheck -w
  bundlecheck -o dist --analyze`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			code = execute(debug, watchMode, outputPath, analyze)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Create a development bundle and log diagnostics")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Rebuild on a fixed interval until stopped")
	cmd.Flags().StringVarP(&outputPath, "output-path", "o", "", "Output directory (default from bundlecheck.yaml)")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Print asset digests and the metafile location after a successful build")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return code
}

func execute(debug, watchMode bool, outputPath string, analyze bool) int {
	cfg, err := config.Load(config.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		return 1
	}

	cfg.Debug = debug
	cfg.Watch = watchMode
	cfg.Analyze = analyze
	if outputPath != "" {
		cfg.OutputDir = outputPath
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if debug {
		fmt.Println("🔨 Creating a development bundle...")
	} else {
		fmt.Println("🔨 Creating an optimized production bundle...")
	}

	opts := build.Options{
		Cfg:    cfg,
		Fs:     afero.NewOsFs(),
		Out:    os.Stdout,
		Logger: logger,
		Style:  utils.Style{Enabled: true},
	}

	if watchMode {
		r := watch.New(opts)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sig
			r.Stop()
		}()

		if err := r.Run(context.Background()); err != nil {
			logger.Error("Watch aborted", "error", err)
			return 1
		}
		return 0
	}

	return build.Run(opts)
}
