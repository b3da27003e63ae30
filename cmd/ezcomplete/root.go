package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhath/ezcomplete/internal/config"
	"github.com/nhath/ezcomplete/internal/logging"
	"github.com/nhath/ezcomplete/internal/ui"
)

const debugLogPath = "debug.log"

// newRootCmd builds the command tree. Running the root command opens the
// terminal page.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ezcomplete",
		Short:         "Country autocomplete in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runPage,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default is the XDG config path)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("origin", "", "Base URL lookups resolve against")
	rootCmd.PersistentFlags().String("endpoint", "", "Lookup endpoint template, the query is appended")
	rootCmd.Flags().String("selector", "", "Selector of the input to attach to")

	rootCmd.AddCommand(newServeCmd(), newLookupCmd())
	return rootCmd
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.ConfigPath(); err != nil {
			return nil, fmt.Errorf("locate config: %w", err)
		}
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	for name, dst := range map[string]*string{
		"origin":   &cfg.Origin,
		"endpoint": &cfg.Endpoint,
		"selector": &cfg.Selector,
	} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	return cfg, nil
}

func debugEnabled(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug
}

func runPage(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the program, so logs only go to a file
	logger := logging.Discard()
	if debugEnabled(cmd) {
		var closeLog func() error
		logger, closeLog, err = openDebugLog()
		if err != nil {
			return err
		}
		defer closeLog()
	}

	page := ui.NewPage(cfg, ui.WithLogger(logger))
	p := tea.NewProgram(page,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	page.Bind(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run page: %w", err)
	}
	return nil
}

func openDebugLog() (*log.Logger, func() error, error) {
	logger, f, err := logging.ToFile(debugLogPath, "ezcomplete")
	if err != nil {
		return nil, nil, fmt.Errorf("could not open debug log: %w", err)
	}
	return logger, f.Close, nil
}
