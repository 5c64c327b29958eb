package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// BuilderOption configures a Builder at construction time.
type BuilderOption func(*Builder)

// WithCyclic controls how the trailing context window is closed out. When
// cyclic is true the source is treated as a ring and the last context gains
// a transition back to the first token of the source. When false (the
// default) the last context, if it was never observed mid-source, gains a
// single transition to the final token so a walk can never run off the end
// of the table.
func WithCyclic(cyclic bool) BuilderOption {
	return func(b *Builder) { b.cyclic = cyclic }
}

// Builder accumulates transition counts from a token sequence and freezes
// them into an immutable Table. It is a one-shot pipeline: exactly one
// Consume call followed by exactly one Freeze call.
type Builder struct {
	order    int
	cyclic   bool
	counts   map[Context]map[string]float64
	consumed bool
	frozen   bool
	logger   *slog.Logger
}

// NewBuilder returns a Builder for chains of the given order. The order is
// the number of consecutive tokens forming a context and must be at least 1.
func NewBuilder(order int, opts ...BuilderOption) (*Builder, error) {
	if order < 1 {
		return nil, fmt.Errorf("chain order must be at least 1, got %d", order)
	}
	b := &Builder{
		order:  order,
		counts: make(map[Context]map[string]float64),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// SetLogger replaces the builder's logger. The default discards all output.
func (b *Builder) SetLogger(logger *slog.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// Order returns the chain order the builder was created with.
func (b *Builder) Order() int { return b.order }

// Consume tallies every context-to-successor transition in the token
// sequence: each run of Order consecutive tokens is a context and the token
// after it the observed successor.
//
// A single-token source is special-cased into one context carrying a
// self-transition, whatever the order, so such a source still yields a
// usable table. Any longer source must contain at least Order+1 tokens so
// one full window plus its successor exists; otherwise Consume reports
// ErrInsufficientData.
func (b *Builder) Consume(tokens []string) error {
	switch {
	case b.frozen:
		return errors.New("builder is already frozen")
	case b.consumed:
		return errors.New("builder has already consumed a source")
	}

	switch {
	case len(tokens) == 0:
		return ErrEmptyInput
	case len(tokens) == 1:
		b.counts[ContextOf(tokens)] = map[string]float64{tokens[0]: 1}
		b.consumed = true
		return nil
	case len(tokens) <= b.order:
		return fmt.Errorf("%w: have %d tokens, need at least %d for order %d",
			ErrInsufficientData, len(tokens), b.order+1, b.order)
	}

	for i := 0; i+b.order < len(tokens); i++ {
		b.add(ContextOf(tokens[i:i+b.order]), tokens[i+b.order])
	}

	// Close out the trailing window so every context a walk can reach has
	// a row to continue from.
	last := ContextOf(tokens[len(tokens)-b.order:])
	if b.cyclic {
		b.add(last, tokens[0])
	} else if _, seen := b.counts[last]; !seen {
		// Only a tail context never observed mid-source gets the synthetic
		// transition; one that already has counts keeps them untouched.
		b.counts[last] = map[string]float64{tokens[len(tokens)-1]: 1}
	}

	b.consumed = true
	b.logger.Debug("source consumed",
		slog.Int("tokens", len(tokens)),
		slog.Int("contexts", len(b.counts)))
	return nil
}

func (b *Builder) add(c Context, next string) {
	row := b.counts[c]
	if row == nil {
		row = make(map[string]float64)
		b.counts[c] = row
	}
	row[next]++
}

// Freeze normalizes the accumulated counts into probabilities and returns
// the finished Table. Every row is divided by its total so it sums to 1,
// and its entries are sorted by token, which pins down iteration order for
// dumps and seeded sampling. The builder is spent afterwards; a second
// Freeze is an error rather than a silent renormalization.
func (b *Builder) Freeze() (*Table, error) {
	switch {
	case b.frozen:
		return nil, errors.New("builder is already frozen")
	case !b.consumed:
		return nil, errors.New("builder has not consumed a source")
	}
	b.frozen = true

	rows := make(map[Context]Distribution, len(b.counts))
	contexts := make([]Context, 0, len(b.counts))
	for c, row := range b.counts {
		var total float64
		for _, n := range row {
			total += n
		}
		entries := make([]WeightedToken, 0, len(row))
		for tok, n := range row {
			entries = append(entries, WeightedToken{Token: tok, Weight: n / total})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Token < entries[j].Token })
		rows[c] = newDistribution(entries)
		contexts = append(contexts, c)
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })
	b.counts = nil

	t := &Table{order: b.order, contexts: contexts, rows: rows}
	b.logger.Info("table frozen",
		slog.Int("order", t.order),
		slog.Int("contexts", t.Len()))
	return t, nil
}
