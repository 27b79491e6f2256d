package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/sethvargo/go-retry"
)

// Pinger is the part of *sql.DB that [WaitForDB] needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// WaitForDB pings db every interval until it answers or timeout passes.
// A zero timeout means a single attempt.
func WaitForDB(ctx context.Context, db Pinger, timeout, interval time.Duration) error {
	log := logger.FromContext(ctx)

	if timeout <= 0 {
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrDatabaseUnavailable, err)
		}
		return nil
	}
	if interval <= 0 {
		interval = time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	attempt := 0
	err := retry.Do(ctx, retry.NewConstant(interval), func(ctx context.Context) error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			log.Warn().Err(err).
				Str("func", "WaitForDB").
				Int("attempt", attempt).
				Msg("database unavailable, waiting")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseUnavailable, err)
	}

	log.Debug().Str("func", "WaitForDB").Int("attempts", attempt).Msg("database available")
	return nil
}
