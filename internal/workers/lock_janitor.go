package workers

import (
	"context"
	"time"

	"log/slog"
)

type LockLister interface {
	Held(ctx context.Context) ([]string, error)
}

// LockJanitor periodically reports ingest locks still held. Locks expire on
// their own TTL; the sweep exists so a wedged batch shows up in the logs
// before operators go looking.
type LockJanitor struct {
	locks    LockLister
	logger   *slog.Logger
	interval time.Duration
}

func NewLockJanitor(locks LockLister, logger *slog.Logger, interval time.Duration) *LockJanitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LockJanitor{
		locks:    locks,
		logger:   logger,
		interval: interval,
	}
}

func (j *LockJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			held, err := j.locks.Held(ctx)
			if err != nil {
				j.logger.Error("lock sweep failed", slog.Any("error", err))
				continue
			}
			if len(held) > 0 {
				j.logger.Warn("ingest locks held",
					slog.Int("count", len(held)),
					slog.Any("keys", held),
				)
			}
		}
	}
}
