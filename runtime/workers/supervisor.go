package workers

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// maxBackoffShift caps the restart delay at restartInterval * 2^maxBackoffShift.
const maxBackoffShift = 5

// Supervisor keeps the relay's long running workers alive. A worker that fails or panics is
// restarted with an exponential delay starting at restartInterval. A worker returning nil is
// done for good.
type Supervisor struct {
	log             *slog.Logger
	restartInterval time.Duration
	workers         []contract.Worker

	mu       sync.Mutex
	stop     context.CancelFunc
	stopped  bool
	restarts map[string]int
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{log: log, restartInterval: restartInterval, restarts: map[string]int{}}
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Run starts every worker and returns once all of them have exited.
func (s *Supervisor) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.stop = cancel
	if s.stopped {
		cancel()
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, worker := range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.supervise(ctx, worker)
		}()
	}
	wg.Wait()
}

// Stop ends Run. Calling it before Run makes Run return immediately.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.stop != nil {
		s.stop()
	}
}

// Restarts reports how many times the named worker has been restarted.
func (s *Supervisor) Restarts(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts[name]
}

func (s *Supervisor) supervise(ctx context.Context, worker contract.Worker) {
	name := contract.GetWorkerName(worker)
	failures := 0

	for ctx.Err() == nil {
		started := time.Now()
		err := s.runOnce(ctx, worker)
		switch {
		case err == nil:
			s.log.Info(fmt.Sprintf("Worker finished : %s", name))
			return
		case ctx.Err() != nil:
			s.log.Info("Worker stopped", "name", name)
			return
		}

		// A worker that stayed up past the longest delay starts over from the first one.
		if time.Since(started) > s.delay(maxBackoffShift) {
			failures = 0
		}
		wait := s.delay(failures)
		failures++

		s.mu.Lock()
		s.restarts[name]++
		s.mu.Unlock()

		s.log.Warn("Worker failed, restarting", "name", name, "in", wait, "error", err)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
	s.log.Info(fmt.Sprintf("Stopping : %s", name))
}

func (s *Supervisor) runOnce(ctx context.Context, worker contract.Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Worker panicked", "name", contract.GetWorkerName(worker), "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
		}
	}()
	return worker.Run(ctx)
}

func (s *Supervisor) delay(failures int) time.Duration {
	return s.restartInterval << min(failures, maxBackoffShift)
}
