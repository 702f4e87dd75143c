// internal/app/system/workers/purgesweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/boubskouk/dossiervault/internal/app/lifecycle"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// SystemActor is the actor recorded on audit entries written by background
// sweeps, where no human user initiated the event.
const SystemActor = "system"

// PurgeSweep is a background worker that permanently deletes soft-deleted
// dossiers whose recovery window has elapsed.
type PurgeSweep struct {
	lifecycle *lifecycle.Manager
	log       *zap.Logger
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewPurgeSweep creates a new purge sweep worker.
//
// Parameters:
//   - manager: the dossier lifecycle manager
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 hour)
func NewPurgeSweep(manager *lifecycle.Manager, logger *zap.Logger, interval time.Duration) *PurgeSweep {
	return &PurgeSweep{
		lifecycle: manager,
		log:       logger,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *PurgeSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("purge sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *PurgeSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("purge sweep worker stopped")
}

func (w *PurgeSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *PurgeSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Sweep())
	defer cancel()

	count, err := w.lifecycle.PurgeExpired(ctx, SystemActor)
	if err != nil {
		w.log.Error("purge sweep failed", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("purged expired dossiers", zap.Int("count", count))
	}
}
