package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/clausetree/internal/config"
	"github.com/dgallion1/clausetree/internal/doctree"
	"github.com/dgallion1/clausetree/internal/outline"
	"github.com/dgallion1/clausetree/internal/parser"
	"github.com/spf13/cobra"
)

var (
	profilePath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "clausetree",
	Short: "Rebuild the clause outline of regulations and standards",
	Long: `clausetree reads a regulation or standard (PDF, DOCX, HTML, Markdown or
plain text), recovers its numbered clause hierarchy and prints it as JSON.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profilePath, "profile", "p", os.Getenv("PROFILE_PATH"), "YAML outline profile (default: built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log reconstruction details to stderr")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// reconstructFile parses a document and rebuilds its outline.
func reconstructFile(path string) (*doctree.Document, error) {
	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return nil, err
	}

	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	log := newLogger()
	log.Debug("parsed document", "file", path, "lines", len(src.Lines), "tables", len(src.Tables))

	doc, err := outline.New(profile, outline.WithLogger(log)).Reconstruct(src.Lines, src.Tables)
	if err != nil {
		return nil, fmt.Errorf("reconstruct %s: %w", path, err)
	}
	return doc, nil
}
