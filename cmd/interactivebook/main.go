// Package main is the entry point for the Interactivebook CLI.
// Interactivebook reads and edits language-learning lessons written in
// Markdown with embedded exercise components.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mogikan/Interactivebook/internal/config"
	"github.com/Mogikan/Interactivebook/internal/data"
	"github.com/Mogikan/Interactivebook/internal/logging"
	"github.com/Mogikan/Interactivebook/internal/preview"
)

var (
	version   = "0.1.0"
	cfgPath   string
	dbPath    string
	verbose   bool
	log       *logging.Logger
	logLevel  = logging.LevelInfo
	appConfig *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "interactivebook",
		Short: "Interactivebook - interactive course reader and exercise editor",
		Long: `Interactivebook reads and edits lessons written in Markdown with embedded
exercise components (Quiz, Ordering, Matching, FillBlanks, InlineBlanks,
Grouping, Media, Dialogue, InteractiveMedia).

Edit a lesson:        interactivebook edit lessons/intro.mdx
Read the course:      interactivebook read /intro/greetings
List exercises:       interactivebook extract lessons/intro.mdx
Configuration:        interactivebook config show`,
		PersistentPreRunE: initLogging,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), "")
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.interactivebook/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "state database path (default ~/.interactivebook/interactivebook.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Interactivebook v%s\n", version)
		},
	})

	// Terminal UI
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(readCmd())

	// Lesson tools
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(fmtCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(checkCmd())

	// State
	rootCmd.AddCommand(progressCmd())
	rootCmd.AddCommand(draftCmd())
	rootCmd.AddCommand(courseCmd())
	rootCmd.AddCommand(configCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// LOGGING INITIALIZATION
// ═══════════════════════════════════════════════════════════════════════════════

func initLogging(cmd *cobra.Command, args []string) error {
	cfg := readConfig()

	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create log directory: %v\n", err)
	}

	// One log file per session
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFile := filepath.Join(logDir, fmt.Sprintf("interactivebook_%s.log", timestamp))

	var lc *logging.Config
	if verbose {
		lc = logging.VerboseConfig()
	} else {
		lc = logging.DefaultConfig()
		lc.Level = logging.ParseLevel(cfg.Logging.Level)
	}
	lc.FilePath = logFile
	logLevel = lc.Level

	log = logging.New(lc)
	logging.SetGlobal(log)

	// Library packages log through zerolog into the same file.
	zw := logFileWriter()
	if verbose {
		zw = io.MultiWriter(os.Stderr, zw)
	}
	logging.ConfigureZerolog(zw, logLevel)

	log.Debug("Session started - logging to %s", logFile)
	log.Debug("Config path: %s", getConfigPath())
	if dbPath != "" {
		log.Debug("DB path override: %s", dbPath)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// SHARED HELPERS
// ═══════════════════════════════════════════════════════════════════════════════

// readConfig loads the config file without validating it, falling back to
// defaults when it cannot be read.
func readConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	cfg, err := config.LoadFromPath(getConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.Default()
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	appConfig = cfg
	return cfg
}

// loadConfig returns the validated configuration.
func loadConfig() (*config.Config, error) {
	cfg := readConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", getConfigPath(), err)
	}
	return cfg, nil
}

func getConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultPath()
}

func openStore(cfg *config.Config) (*data.Store, func(), error) {
	log.Debug("Opening state database %s", cfg.Storage.DBPath)
	store, err := data.Open(cfg.Storage.DBPath)
	if err != nil {
		log.Error("Failed to open database: %v", err)
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	cleanup := func() {
		log.Debug("Closing database connection...")
		store.Close()
	}
	return store, cleanup, nil
}

func newCompiler(cfg *config.Config, showHints bool) (*preview.GlamourCompiler, error) {
	return preview.NewGlamourCompiler(preview.Options{
		Style:     cfg.Preview.Style,
		WordWrap:  cfg.Preview.WordWrap,
		ShowHints: showHints,
	})
}

// logFileWriter returns the session log file, or io.Discard without one.
func logFileWriter() io.Writer {
	if f := log.File(); f != nil {
		return f
	}
	return io.Discard
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
