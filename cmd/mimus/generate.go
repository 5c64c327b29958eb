package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/CTAG07/Mimus/pkg/markov"
)

var (
	genOrder       int
	genLength      int
	genStart       string
	genCyclic      bool
	genSeed        uint64
	genCorpus      string
	genOutput      string
	genWrap        int
	genTemperature float64
	genTopK        int
	genPrune       int
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate text from a source",
	Long: `Generate builds a transition table from the source text, walks it from a
random (or chosen) starting context, and prints the generated text wrapped
to the configured width.

The source is read from the file argument, from a stored corpus with
--corpus, or from standard input when neither is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)

	// Running mimus without a subcommand behaves like mimus generate.
	addGenerateFlags(rootCmd)
	rootCmd.Args = cobra.MaximumNArgs(1)
	rootCmd.RunE = runGenerate
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&genOrder, "order", "n", 0, "order of the Markov chain (default from config)")
	cmd.Flags().IntVarP(&genLength, "length", "l", 0, "length of the produced text in words (default from config)")
	cmd.Flags().StringVarP(&genStart, "initial", "i", "", "initial words of the generated text")
	cmd.Flags().BoolVarP(&genCyclic, "cyclic", "c", false, "read the source as a cyclic sequence")
	cmd.Flags().Uint64Var(&genSeed, "seed", 0, "seed for the random source (0 seeds randomly)")
	cmd.Flags().StringVar(&genCorpus, "corpus", "", "generate from a stored corpus instead of a file")
	cmd.Flags().StringVarP(&genOutput, "output", "o", "", "write the text to a file instead of stdout")
	cmd.Flags().IntVar(&genWrap, "wrap", 0, "wrap width in columns (default from config, non-positive disables)")
	cmd.Flags().Float64VarP(&genTemperature, "temperature", "t", 1, "sampling temperature (above 1 flattens, below 1 sharpens, 0 always takes the most probable)")
	cmd.Flags().IntVar(&genTopK, "top-k", 0, "restrict each draw to the k most probable successors (0 disables)")
	cmd.Flags().IntVar(&genPrune, "prune", 0, "drop transitions observed this many times or fewer before freezing (0 disables)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	order, err := positiveFlag(cmd, "order", genOrder, cfg.DefaultOrder)
	if err != nil {
		return err
	}
	length, err := positiveFlag(cmd, "length", genLength, cfg.DefaultLength)
	if err != nil {
		return err
	}
	width := cfg.WrapWidth
	if cmd.Flags().Changed("wrap") {
		width = genWrap
	}

	source, err := readSource(cmd, args, genCorpus)
	if err != nil {
		return err
	}
	table, err := buildTable(source, order, genCyclic, genPrune)
	if err != nil {
		return err
	}

	g := markov.NewGenerator(table)
	g.SetLogger(logger)
	if genSeed != 0 {
		g.SetRand(rand.New(rand.NewPCG(genSeed, genSeed)))
	}

	text, err := g.Text(
		markov.WithLength(length),
		markov.WithStart(genStart),
		markov.WithTemperature(genTemperature),
		markov.WithTopK(genTopK),
	)
	if err != nil {
		return err
	}

	rendered := strings.Join(wrapText(text, width), "\n") + "\n"
	if genOutput != "" {
		if err := atomic.WriteFile(genOutput, strings.NewReader(rendered)); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("output written", "path", genOutput, "tokens", length)
		return nil
	}
	_, err = io.WriteString(cmd.OutOrStdout(), rendered)
	return err
}
