/*
Package markov implements an order-N Markov chain over whitespace-delimited
text tokens, split into a build phase and a generation phase.

A Builder consumes a token sequence once and counts, for every run of N
consecutive tokens (the context), how often each token follows it. Rare
transitions can be trimmed with Prune before Freeze converts the raw
counts into an immutable Table whose rows are probability Distributions
summing to 1. A Generator walks a Table from a starting context,
repeatedly sampling the next token from the current context's
Distribution and sliding the context window forward; WithTemperature and
WithTopK reshape each draw without touching the table.

Basic usage:

	b, err := markov.NewBuilder(2)
	if err != nil { ... }
	if err := b.Consume(markov.Tokenize(source)); err != nil { ... }
	table, err := b.Freeze()
	if err != nil { ... }

	g := markov.NewGenerator(table)
	text, err := g.Text(markov.WithLength(30))

Tokens are opaque strings and never contain whitespace; no case folding or
punctuation handling is applied. Sampling is driven by a math/rand/v2
source that can be replaced via (*Generator).SetRand, so runs are
reproducible under a seeded PCG. Tables are safe for concurrent readers
once frozen; Builder and Generator instances are not safe for concurrent
use.
*/
package markov
