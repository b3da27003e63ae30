package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/logging"
	"github.com/nhath/ezcomplete/internal/ui/components/table"
	"github.com/nhath/ezcomplete/internal/ui/highlight"
)

func newLookupCmd() *cobra.Command {
	lookupCmd := &cobra.Command{
		Use:   "lookup QUERY",
		Short: "Run one lookup and print the matches",
		Args:  cobra.ExactArgs(1),
		RunE:  runLookup,
	}

	lookupCmd.Flags().Bool("raw", false, "Print the response body as highlighted JSON")
	return lookupCmd
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fetcher, err := autocomplete.NewHTTPFetcher(autocomplete.HTTPFetcherConfig{
		Origin: cfg.Origin,
		Logger: logging.Stderr("lookup", debugEnabled(cmd)),
	})
	if err != nil {
		return err
	}

	query := args[0]
	matches, body, err := fetcher.Get(cmd.Context(), cfg.Endpoint+autocomplete.EncodeQuery(query))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		fmt.Fprintln(out, highlight.JSON(body, highlight.DefaultStyle))
		return nil
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	fmt.Fprintln(out, table.FromNames(names).View())
	fmt.Fprintln(out, table.Summary(query, len(matches)))
	return nil
}
