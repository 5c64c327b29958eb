package markov

import "errors"

// Errors returned by the build and generation phases. All of them are
// terminal: no operation in this package retries or degrades after
// reporting one. Callers should match with errors.Is, since the returned
// errors usually carry extra context via wrapping.
var (
	// ErrEmptyInput is returned by Consume when the source text contains
	// no tokens at all.
	ErrEmptyInput = errors.New("source text contains no tokens")

	// ErrInsufficientData is returned by Consume when the source has more
	// than one token but not enough of them to form a single context
	// window plus a successor.
	ErrInsufficientData = errors.New("not enough tokens for the chain order")

	// ErrUnknownContext is returned by Generate and Stream when the
	// requested starting text does not appear as a context in the table.
	ErrUnknownContext = errors.New("starting context not found in table")

	// ErrMalformedTable is returned when a generation step lands on a
	// context with no row in the table. Order-1 tables never produce it,
	// since every token they emit is itself a context key; at higher
	// orders a walk can slide into a window the source never contained.
	ErrMalformedTable = errors.New("context has no transitions in table")

	// ErrDistributionExhausted is returned when a weighted draw walks off
	// the end of a distribution without selecting a token. A frozen table
	// cannot trigger it; it guards against NaN or negative weights in
	// hand-built tables.
	ErrDistributionExhausted = errors.New("weighted draw exhausted distribution")
)
