package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/shelfscout/shelfscout/internal/logger"
	"github.com/shelfscout/shelfscout/internal/session"
)

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessions := do.MustInvoke[*session.Manager](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionCleanupJob{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(job.done)
		runSessionCleanup(ctx, sessions, sessionSweepInterval, log)
	}()

	log.Info("Session cleanup job started", "interval", sessionSweepInterval)

	return job, nil
}

func runSessionCleanup(ctx context.Context, sessions *session.Manager, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if count := sessions.Sweep(); count > 0 {
				log.Info("Session cleanup completed", "expired", count, "remaining", sessions.Count())
			}
		case <-ctx.Done():
			return
		}
	}
}
