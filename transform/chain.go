package transform

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Run passes text through the processors sequentially, each one receiving the
// previous one's output. The from label tags the text's origin in errors and
// logs. A processor failure aborts the chain.
func Run(ctx context.Context, log *zap.Logger, text, from string, procs []Processor) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if from == "" {
		from = "unknown"
	}
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("processing '%s' aborted: %w", from, err)
		}
		out, err := p.Process(ctx, text, from)
		if err != nil {
			return "", fmt.Errorf("processor '%s' failed on '%s': %w", p.Name(), from, err)
		}
		log.Debug("Processor applied", zap.String("processor", p.Name()), zap.String("from", from), zap.Int("in", len(text)), zap.Int("out", len(out)))
		text = out
	}
	return text, nil
}
