package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	tableOrder   int
	tableCyclic  bool
	tableCorpus  string
	tableFormat  string
	tableSummary bool
	tablePrune   int
)

var tableCmd = &cobra.Command{
	Use:   "table [file]",
	Short: "Print the transition table for a source",
	Long: `Table builds the transition table for the source text and prints it as
YAML or JSON. With --summary only the table statistics are printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTable,
}

func init() {
	tableCmd.Flags().IntVarP(&tableOrder, "order", "n", 0, "order of the Markov chain (default from config)")
	tableCmd.Flags().BoolVarP(&tableCyclic, "cyclic", "c", false, "read the source as a cyclic sequence")
	tableCmd.Flags().StringVar(&tableCorpus, "corpus", "", "build from a stored corpus instead of a file")
	tableCmd.Flags().StringVar(&tableFormat, "format", "yaml", "output format, yaml or json")
	tableCmd.Flags().BoolVar(&tableSummary, "summary", false, "print table statistics instead of the full table")
	tableCmd.Flags().IntVar(&tablePrune, "prune", 0, "drop transitions observed this many times or fewer before freezing (0 disables)")
	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	order, err := positiveFlag(cmd, "order", tableOrder, cfg.DefaultOrder)
	if err != nil {
		return err
	}
	source, err := readSource(cmd, args, tableCorpus)
	if err != nil {
		return err
	}
	table, err := buildTable(source, order, tableCyclic, tablePrune)
	if err != nil {
		return err
	}

	var payload any
	if tableSummary {
		payload = table.Stats()
	} else {
		payload = table.Snapshot()
	}

	switch tableFormat {
	case "yaml":
		data, err := yaml.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal table: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("unknown format %q, want yaml or json", tableFormat)
	}
}
