package markov

import (
	"fmt"
	"math"
	"sort"
)

// WithTemperature adjusts the randomness of each draw. A value of 1 is the
// plain weighted draw. Values above 1 flatten the distribution, giving rare
// successors a better chance; values between 0 and 1 sharpen it toward the
// frequent ones. Zero or below removes the randomness entirely and always
// selects the most probable successor.
func WithTemperature(t float64) GenerateOption {
	return func(o *generateOptions) { o.temperature = t }
}

// WithTopK restricts each draw to the k most probable successors of the
// current context. When entries tie on the cut boundary, the ones earlier
// in token order survive. Values below 1 disable the restriction.
func WithTopK(k int) GenerateOption {
	return func(o *generateOptions) { o.topK = k }
}

// draw samples one successor from the distribution under the run's sampling
// options. With default options it is a single uniform draw resolved by the
// cumulative scan in pick; top-K and temperature reshape a copy of the
// distribution first and never touch the table's own weights.
func (g *Generator) draw(d Distribution, o *generateOptions) (string, error) {
	if o.topK > 0 && o.topK < d.Len() {
		d = d.restrict(o.topK)
	}
	switch {
	case o.temperature == 1:
		return d.pick(g.rng.Float64() * d.total)
	case o.temperature <= 0:
		return d.mostProbable()
	default:
		d = d.temper(o.temperature)
		return d.pick(g.rng.Float64() * d.total)
	}
}

// restrict returns a copy of the distribution holding only its k heaviest
// entries, back in token order. Weights are not rescaled; pick works
// against the smaller total.
func (d Distribution) restrict(k int) Distribution {
	entries := d.Entries()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Weight > entries[j].Weight })
	entries = entries[:k]
	sort.Slice(entries, func(i, j int) bool { return entries[i].Token < entries[j].Token })
	return newDistribution(entries)
}

// temper rescales a copy of the weights through a softmax over log-weights
// divided by the temperature. Relative order is preserved; only the
// contrast between heavy and light entries changes.
func (d Distribution) temper(t float64) Distribution {
	entries := d.Entries()
	logs := make([]float64, len(entries))
	maxLog := math.Inf(-1)
	for i, e := range entries {
		logs[i] = math.Log(e.Weight) / t
		if logs[i] > maxLog {
			maxLog = logs[i]
		}
	}
	// Shift by the maximum before exponentiating so low temperatures cannot
	// underflow every weight to zero.
	for i := range entries {
		entries[i].Weight = math.Exp(logs[i] - maxLog)
	}
	return newDistribution(entries)
}

// mostProbable returns the heaviest token, resolving ties toward the token
// earlier in the distribution's order.
func (d Distribution) mostProbable() (string, error) {
	if d.Len() == 0 {
		return "", fmt.Errorf("%w: empty distribution", ErrDistributionExhausted)
	}
	best := 0
	for i, e := range d.entries {
		if e.Weight > d.entries[best].Weight {
			best = i
		}
	}
	return d.entries[best].Token, nil
}
