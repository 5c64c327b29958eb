package markov

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// DefaultLength is the number of sampling steps taken when WithLength is
// not supplied.
const DefaultLength = 30

// GenerateOption configures a single generation run.
type GenerateOption func(*generateOptions)

type generateOptions struct {
	length      int
	start       string
	temperature float64
	topK        int
}

func defaultGenerateOptions() generateOptions {
	return generateOptions{length: DefaultLength, temperature: 1}
}

// WithLength sets how many sampling steps the run performs. The output
// contains length tokens, plus for orders above 1 the extra tokens that
// seed the run. Must be at least 1.
func WithLength(length int) GenerateOption {
	return func(o *generateOptions) { o.length = length }
}

// WithStart makes the run begin from the given text instead of a randomly
// chosen context. The text is tokenized with Tokenize and must match a
// context of the table exactly, or the run fails with ErrUnknownContext.
// An empty string leaves the start random.
func WithStart(text string) GenerateOption {
	return func(o *generateOptions) { o.start = text }
}

// Generator produces token sequences by walking a frozen Table.
//
// A Generator is cheap to create and not safe for concurrent use; give each
// goroutine its own.
type Generator struct {
	table  *Table
	rng    *rand.Rand
	logger *slog.Logger
}

// NewGenerator returns a Generator over the given table with a random
// source seeded from the shared generator. Use SetRand for reproducible
// runs.
func NewGenerator(table *Table) *Generator {
	return &Generator{
		table:  table,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger replaces the generator's logger. The default discards all
// output.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// SetRand replaces the generator's random source. Two generators over the
// same table with identically seeded sources produce identical runs.
func (g *Generator) SetRand(rng *rand.Rand) {
	if rng != nil {
		g.rng = rng
	}
}

// Generate walks the table and returns the visited tokens. The walk begins
// at the context chosen per WithStart (random when unset), emits that
// context's tokens, then samples length-1 successors, sliding the context
// window forward after each draw.
func (g *Generator) Generate(opts ...GenerateOption) ([]string, error) {
	options := defaultGenerateOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.length < 1 {
		return nil, fmt.Errorf("generation length must be at least 1, got %d", options.length)
	}

	current, err := g.startContext(options.start)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, options.length+g.table.Order()-1)
	out = append(out, current.Tokens()...)
	for i := 0; i < options.length-1; i++ {
		next, err := g.step(current, &options)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		current = current.Shift(next)
	}

	g.logger.Debug("generation finished",
		slog.Int("steps", options.length),
		slog.Int("tokens", len(out)))
	return out, nil
}

// Text is Generate with the tokens joined by single spaces.
func (g *Generator) Text(opts ...GenerateOption) (string, error) {
	tokens, err := g.Generate(opts...)
	if err != nil {
		return "", err
	}
	return strings.Join(tokens, " "), nil
}

// step samples a successor for the current context.
func (g *Generator) step(current Context, o *generateOptions) (string, error) {
	dist, ok := g.table.Lookup(current)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMalformedTable, current)
	}
	return g.draw(dist, o)
}

// startContext resolves where the walk begins. An empty start picks a
// uniformly random context; otherwise the tokenized start text must equal
// an existing context.
func (g *Generator) startContext(start string) (Context, error) {
	if start == "" {
		return g.table.contexts[g.rng.IntN(len(g.table.contexts))], nil
	}
	c := ContextOf(Tokenize(start))
	if _, ok := g.table.Lookup(c); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownContext, start)
	}
	return c, nil
}
