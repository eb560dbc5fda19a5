package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	storePath  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "flashcards [file]",
		Short: "Study kanji vocabulary from an Excel or CSV file",
		Long: "Imports a spreadsheet (.xlsx, .xls) or CSV with the columns\n" +
			"kanji, phonetic, meaning, example and shows the rows as flashcards.\n" +
			"The last imported deck is kept and restored on the next start.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return runTUI(opts, file)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&opts.storePath, "store", "", "deck store file (overrides config)")

	root.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the saved deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd, opts)
		},
	})

	return root
}

func setup(opts *options) (*Config, Store, *zap.Logger, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if opts.storePath != "" {
		cfg.StorePath = opts.storePath
	}

	logger, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create logger: %w", err)
	}

	store, err := OpenBoltStore(cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", zap.String("path", cfg.StorePath), zap.Error(err))
		logger.Sync()
		return nil, nil, nil, err
	}

	return cfg, store, logger, nil
}

func runTUI(opts *options, file string) error {
	cfg, store, logger, err := setup(opts)
	if err != nil {
		return err
	}
	defer store.Close()
	defer logger.Sync()

	logger.Info("Starting...", zap.String("store", cfg.StorePath))

	p := tea.NewProgram(initialModel(cfg, store, logger, file), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}

func runClear(cmd *cobra.Command, opts *options) error {
	cfg, store, logger, err := setup(opts)
	if err != nil {
		return err
	}
	defer store.Close()
	defer logger.Sync()

	if err := store.Clear(deckKey); err != nil {
		logger.Error("failed to clear deck", zap.Error(err))
		return err
	}
	logger.Info("deck cleared from command line", zap.String("store", cfg.StorePath))
	cmd.Println("Saved deck removed.")
	return nil
}
