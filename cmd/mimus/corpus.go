package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage stored corpora",
	Long: `Corpus manages the named source texts kept in the corpus database.
Stored corpora can be used by the generate, table and serve commands
through their --corpus flag.`,
}

var corpusAddCmd = &cobra.Command{
	Use:   "add <name> [file]",
	Short: "Store a source text under a name",
	Long: `Add stores the source text under the given name, replacing any corpus
already stored with that name. The text is read from the file argument,
or from standard input when none is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCorpusAdd,
}

var corpusLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored corpora",
	Args:  cobra.NoArgs,
	RunE:  runCorpusLs,
}

var corpusShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the stored text of a corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpusShow,
}

var corpusRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a stored corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpusRm,
}

func init() {
	corpusCmd.AddCommand(corpusAddCmd)
	corpusCmd.AddCommand(corpusLsCmd)
	corpusCmd.AddCommand(corpusShowCmd)
	corpusCmd.AddCommand(corpusRmCmd)
	rootCmd.AddCommand(corpusCmd)
}

func runCorpusAdd(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args[1:], "")
	if err != nil {
		return err
	}
	store, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := store.Save(cmd.Context(), args[0], source)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored %q (%d tokens)\n", info.Name, info.TokenCount)
	return nil
}

func runCorpusLs(cmd *cobra.Command, _ []string) error {
	store, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	infos, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "no corpora stored")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(out, "%-24s %8d tokens  %s\n", info.Name, info.TokenCount, info.AddedAt.Format(time.RFC3339))
	}
	corpora, tokens, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d corpora, %d tokens total\n", corpora, tokens)
	return nil
}

func runCorpusShow(cmd *cobra.Command, args []string) error {
	store, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	content, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
	return err
}

func runCorpusRm(cmd *cobra.Command, args []string) error {
	store, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", args[0])
	return nil
}
