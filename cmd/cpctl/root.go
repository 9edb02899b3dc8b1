package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yl3im/hyrps/codeplug"
	"github.com/yl3im/hyrps/codeplug/printer"
	"github.com/yl3im/hyrps/internal/image"
	"github.com/yl3im/hyrps/internal/logger"
	"github.com/yl3im/hyrps/internal/mmfile"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	outFormat string
	logFile   string

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "cpctl",
	Short: "Inspect and rewrite radio codeplug images",
	Long: `cpctl decodes the codeplug image of a DMR radio: its section directory,
contacts, channels, zones, scan and roam lists. It can verify every cross
reference and re-encode the image in place.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		closer, err := logger.Init(logger.Options{
			Enabled: !quiet || logFile != "",
			File:    logFile,
			Level:   level,
			Stderr:  stderr,
		})
		if err != nil {
			return err
		}
		closeLog = closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format (same as --format json)")
	rootCmd.PersistentFlags().StringVar(&outFormat, "format", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file instead of stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printerOptions maps the output flags onto printer options.
func printerOptions() (printer.Options, error) {
	if jsonOut {
		return printer.Options{Format: printer.FormatJSON}, nil
	}
	f, err := printer.ParseFormat(outFormat)
	if err != nil {
		return printer.Options{}, err
	}
	return printer.Options{Format: f}, nil
}

// structured reports whether output should be machine readable.
func structured() bool {
	return jsonOut || outFormat == string(printer.FormatJSON)
}

// open loads and decodes the image at path.
func open(path string) (*codeplug.Codeplug, *image.Buffer, error) {
	printVerbose("Loading image: %s\n", path)
	img, err := mmfile.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	cp, err := codeplug.Read(img)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cp, img, nil
}
