package markov

import "strings"

// Tokenize splits source text into tokens on Unicode whitespace. This is
// the entire tokenization contract: tokens keep their case and punctuation,
// and consecutive whitespace of any kind counts as a single separator.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Context is an ordered window of N tokens used as a lookup key in a Table,
// stored as the tokens joined by single spaces. The same representation is
// used for every chain order, including order 1.
type Context string

// ContextOf builds a Context from a token window.
func ContextOf(tokens []string) Context {
	return Context(strings.Join(tokens, " "))
}

// Tokens returns the individual tokens of the context.
func (c Context) Tokens() []string {
	return strings.Fields(string(c))
}

// Shift slides the window forward by one token: the oldest token is dropped
// and next is appended. A single-token context is replaced entirely.
func (c Context) Shift(next string) Context {
	if i := strings.IndexByte(string(c), ' '); i >= 0 {
		return Context(string(c)[i+1:] + " " + next)
	}
	return Context(next)
}
