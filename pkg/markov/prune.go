package markov

import (
	"errors"
	"fmt"
	"log/slog"
)

// Prune removes every transition observed minCount times or fewer from the
// accumulated counts, dropping any context left without successors. It runs
// between Consume and Freeze, so the surviving counts normalize over what
// remains. Useful for trimming rare, often noisy transitions out of large
// sources before generation.
//
// Pruning can remove the only row a tail context had; a walk reaching that
// context afterwards fails with ErrMalformedTable like any other dead end.
// A minCount below 1 removes nothing. Pruning away the entire table is an
// error, and the counts are left untouched.
//
// Prune reports how many transitions were removed.
func (b *Builder) Prune(minCount int) (int, error) {
	switch {
	case b.frozen:
		return 0, errors.New("builder is already frozen")
	case !b.consumed:
		return 0, errors.New("builder has not consumed a source")
	}
	if minCount < 1 {
		return 0, nil
	}

	threshold := float64(minCount)
	surviving := 0
	for _, row := range b.counts {
		for _, n := range row {
			if n > threshold {
				surviving++
			}
		}
	}
	if surviving == 0 {
		return 0, fmt.Errorf("pruning transitions with count <= %d would empty the table", minCount)
	}

	removed := 0
	for c, row := range b.counts {
		for tok, n := range row {
			if n <= threshold {
				delete(row, tok)
				removed++
			}
		}
		if len(row) == 0 {
			delete(b.counts, c)
		}
	}

	b.logger.Info("transitions pruned",
		slog.Int("min_count", minCount),
		slog.Int("removed", removed),
		slog.Int("contexts", len(b.counts)))
	return removed, nil
}
