package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/CTAG07/Mimus/pkg/corpus"
	"github.com/CTAG07/Mimus/pkg/markov"
)

var (
	cfgPath      string
	logLevelFlag string

	// Populated by rootCmd's PersistentPreRunE before any command runs.
	cfg    *Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mimus [file]",
	Short: "Markov chain text generator",
	Long: `Mimus builds an order-N Markov chain from source text and generates
similar text by walking the transition table.

Sources can be files, standard input, or named corpora stored in a local
SQLite library. Running mimus without a subcommand generates directly,
as if mimus generate had been called.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if logLevelFlag != "" {
			level = logLevelFlag
		}
		// Generated text goes to stdout, so logs go to stderr.
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(level)}))
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the config file (created with defaults if missing)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn or error (overrides the config)")
}

// positiveFlag resolves a flag that must be a positive integer, falling back
// to the configured value when the flag was not set.
func positiveFlag(cmd *cobra.Command, name string, value, fallback int) (int, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %d", name, value)
	}
	return value, nil
}

// readSource resolves the source text for a command: a stored corpus when
// corpusName is set, the file argument, or standard input when neither is
// given ("-" also selects standard input).
func readSource(cmd *cobra.Command, args []string, corpusName string) (string, error) {
	if corpusName != "" {
		if len(args) > 0 {
			return "", errors.New("cannot combine --corpus with a file argument")
		}
		store, cleanup, err := openStore()
		if err != nil {
			return "", err
		}
		defer cleanup()
		return store.Get(cmd.Context(), corpusName)
	}

	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read source file: %w", err)
		}
		return string(data), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "reading source text from terminal; finish with ctrl-d")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read standard input: %w", err)
	}
	return string(data), nil
}

// buildTable runs the full build pipeline over the source text. A prune
// above 0 drops transitions observed that many times or fewer before the
// table is frozen.
func buildTable(source string, order int, cyclic bool, prune int) (*markov.Table, error) {
	b, err := markov.NewBuilder(order, markov.WithCyclic(cyclic))
	if err != nil {
		return nil, err
	}
	b.SetLogger(logger)
	if err := b.Consume(markov.Tokenize(source)); err != nil {
		return nil, err
	}
	if prune > 0 {
		if _, err := b.Prune(prune); err != nil {
			return nil, err
		}
	}
	return b.Freeze()
}

// openStore opens the corpus database at the configured path and prepares
// the store. The returned cleanup releases both.
func openStore() (*corpus.Store, func(), error) {
	db, err := initDB(cfg.CorpusDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open corpus database: %w", err)
	}
	if err := corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	store.SetLogger(logger)
	cleanup := func() {
		store.Close()
		_ = db.Close()
	}
	return store, cleanup, nil
}
