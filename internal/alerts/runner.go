package alerts

import (
	"context"
	"time"
)

// Run drives the engine with a single periodic timer until ctx is
// cancelled. Each tick is a full synchronous scan, so ticks never overlap:
// the next one is consumed only after the previous scan returns. An
// in-flight tick always finishes before shutdown completes.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info().Dur("interval", e.interval).Msg("alert engine started")

	// Evaluate once immediately instead of waiting a full interval.
	if err := e.Tick(ctx, time.Now()); err != nil {
		e.logger.Error().Err(err).Msg("tick failed")
	}

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("alert engine stopped")
			return nil
		case now := <-ticker.C:
			if err := e.Tick(ctx, now); err != nil {
				e.logger.Error().Err(err).Msg("tick failed")
			}
		}
	}
}
