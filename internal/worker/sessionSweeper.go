package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/vcollage/internal/service"
)

// SessionSweeper periodically drops idle collage sessions so their decoded
// images do not outlive the client that created them
type SessionSweeper struct {
	collageService service.CollageService
	interval       time.Duration
}

func NewSessionSweeper(collageService service.CollageService, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		collageService: collageService,
		interval:       interval,
	}
}

// Start blocks until ctx is done
func (w *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithField("interval", w.interval).Info("session sweeper started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("session sweeper stopped")
			return
		case now := <-ticker.C:
			w.sweep(now)
		}
	}
}

func (w *SessionSweeper) sweep(now time.Time) int {
	expired := w.collageService.ExpireSessions(now)
	if expired > 0 {
		logrus.Infof("expired %d idle sessions", expired)
	}
	return expired
}
