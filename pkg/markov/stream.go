package markov

import (
	"context"
	"fmt"
	"log/slog"
)

// Stream runs a generation like Generate but delivers tokens over a channel
// as they are drawn. The channel is unbuffered and is closed when the run
// completes, the context is cancelled, or a sampling step fails; a step
// failure is logged rather than returned since the walk has already begun.
// Problems with the options or the starting context are reported
// synchronously, before any token is sent.
func (g *Generator) Stream(ctx context.Context, opts ...GenerateOption) (<-chan string, error) {
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

	out := make(chan string)
	go func() {
		defer close(out)
		for _, tok := range current.Tokens() {
			select {
			case out <- tok:
			case <-ctx.Done():
				return
			}
		}
		for i := 0; i < options.length-1; i++ {
			next, err := g.step(current, &options)
			if err != nil {
				g.logger.ErrorContext(ctx, "token stream aborted",
					slog.Int("step", i),
					slog.Any("error", err))
				return
			}
			select {
			case out <- next:
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "token stream cancelled",
					slog.Int("step", i))
				return
			}
			current = current.Shift(next)
		}
	}()
	return out, nil
}
