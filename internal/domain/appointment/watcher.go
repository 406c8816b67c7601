package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Watcher keeps the appointment list approximately fresh by re-fetching on
// a fixed interval. Failures are logged and left alone; the next tick is
// the retry. It is not coordinated with user-triggered refreshes — the
// store's sequence numbers decide which response commits.
type Watcher struct {
	svc      *Service
	interval time.Duration
	log      zerolog.Logger
}

func NewWatcher(svc *Service, interval time.Duration, log zerolog.Logger) *Watcher {
	return &Watcher{svc: svc, interval: interval, log: log}
}

// Run performs an initial load and then refreshes every interval until the
// context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	if err := w.svc.Load(ctx); err != nil {
		w.log.Warn().Err(err).Msg("initial appointment load failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.svc.Load(ctx); err != nil {
				w.log.Warn().Err(err).Msg("appointment refresh failed")
			}
		}
	}
}
