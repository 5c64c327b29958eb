package markov

import (
	"fmt"
	"sort"
)

// WeightedToken pairs a token with its probability weight within a
// Distribution.
type WeightedToken struct {
	Token  string
	Weight float64
}

// Distribution is one row of a Table: the weighted set of tokens observed
// to follow a context. Entries are sorted by token, and for tables produced
// by Freeze the weights sum to 1. The zero value is an empty distribution.
type Distribution struct {
	entries []WeightedToken
	total   float64
}

func newDistribution(entries []WeightedToken) Distribution {
	var total float64
	for _, e := range entries {
		total += e.Weight
	}
	return Distribution{entries: entries, total: total}
}

// Len returns the number of distinct successor tokens.
func (d Distribution) Len() int { return len(d.entries) }

// Total returns the sum of all weights.
func (d Distribution) Total() float64 { return d.total }

// Entries returns a copy of the weighted tokens in ascending token order.
func (d Distribution) Entries() []WeightedToken {
	out := make([]WeightedToken, len(d.entries))
	copy(out, d.entries)
	return out
}

// Probability returns the weight of the given token, or 0 when the token
// is not in the distribution.
func (d Distribution) Probability(token string) float64 {
	i := sort.Search(len(d.entries), func(i int) bool { return d.entries[i].Token >= token })
	if i < len(d.entries) && d.entries[i].Token == token {
		return d.entries[i].Weight
	}
	return 0
}

// pick returns the token whose cumulative weight span contains r: entries
// are walked in order and the first whose running total reaches r wins, so
// a draw landing exactly on a boundary resolves to the earlier token.
// r must lie in [0, Total()).
func (d Distribution) pick(r float64) (string, error) {
	upto := 0.0
	for _, e := range d.entries {
		if upto+e.Weight >= r {
			return e.Token, nil
		}
		upto += e.Weight
	}
	return "", fmt.Errorf("%w: no entry reached %v", ErrDistributionExhausted, r)
}

// Table is a frozen transition table: for every context observed in the
// source, the probability distribution over its successors. Tables are
// immutable and safe for concurrent readers.
type Table struct {
	order    int
	contexts []Context // ascending
	rows     map[Context]Distribution
}

// Order returns the chain order, the number of tokens per context.
func (t *Table) Order() int { return t.order }

// Len returns the number of contexts in the table.
func (t *Table) Len() int { return len(t.rows) }

// Lookup returns the distribution for a context and whether it exists.
func (t *Table) Lookup(c Context) (Distribution, bool) {
	d, ok := t.rows[c]
	return d, ok
}

// Contexts returns every context in the table in ascending order.
func (t *Table) Contexts() []Context {
	out := make([]Context, len(t.contexts))
	copy(out, t.contexts)
	return out
}

// Snapshot renders the table as plain nested maps, context to successor to
// weight, for serialization or inspection. The result is fully detached
// from the table.
func (t *Table) Snapshot() map[string]map[string]float64 {
	snap := make(map[string]map[string]float64, len(t.rows))
	for c, d := range t.rows {
		row := make(map[string]float64, len(d.entries))
		for _, e := range d.entries {
			row[e.Token] = e.Weight
		}
		snap[string(c)] = row
	}
	return snap
}

// TableStats summarizes the shape of a Table.
type TableStats struct {
	Order       int `json:"order" yaml:"order"`
	Contexts    int `json:"contexts" yaml:"contexts"`
	Transitions int `json:"transitions" yaml:"transitions"`
	Vocabulary  int `json:"vocabulary" yaml:"vocabulary"`
}

// Stats counts the table's contexts, transition edges and distinct tokens.
// Vocabulary covers tokens appearing inside contexts as well as successors.
func (t *Table) Stats() TableStats {
	vocab := make(map[string]struct{})
	transitions := 0
	for c, d := range t.rows {
		transitions += len(d.entries)
		for _, tok := range c.Tokens() {
			vocab[tok] = struct{}{}
		}
		for _, e := range d.entries {
			vocab[e.Token] = struct{}{}
		}
	}
	return TableStats{
		Order:       t.order,
		Contexts:    len(t.rows),
		Transitions: transitions,
		Vocabulary:  len(vocab),
	}
}
