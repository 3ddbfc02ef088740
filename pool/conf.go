package pool

import (

	"github.com/utkarsh5026/batchpool/internal/cpu"
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring a Pool.
type Option func(*config)

type config struct {
	workerCount     int
	pinWorkers      bool
	strictAffinity  bool
	rateLimiter     *rate.Limiter
	beforeTaskStart func(index int)
	onTaskEnd       func(index int, err error)

	// workerSetup runs on each worker goroutine before it reports ready.
	// A non-nil error aborts Init.
	workerSetup func(workerID int) (release func(), err error)
}

// DefaultWorkerCount returns the worker count used when WithWorkerCount is
// not given: one less than numCPU, since the goroutine calling EndTasks
// occupies a CPU of its own, and never below zero.
func DefaultWorkerCount(numCPU int) int {
	return max(numCPU-1, 0)
}

// WithWorkerCount sets the number of worker goroutines.
// Zero is valid and makes EndTasks run every task on the calling goroutine.
// Negative values are ignored.
func WithWorkerCount(count int) Option {
	return func(cfg *config) {
		if count >= 0 {
			cfg.workerCount = count
		}
	}
}

// WithCPUAffinity locks every worker to its own OS thread and pins that
// thread to a CPU core (worker i goes to core i mod NumCPU).
//
// If strict is true, a worker that cannot be pinned makes Init fail and no
// worker is left running. If strict is false, pinning failures are ignored
// and the worker simply keeps its locked thread.
func WithCPUAffinity(strict bool) Option {
	return func(cfg *config) {
		cfg.pinWorkers = true
		cfg.strictAffinity = strict
	}
}

// WithDispatchRate limits how fast workers start tasks, across the whole
// pool. perSecond is the sustained rate and burst the number of tasks that
// may start back to back. Both must be positive, otherwise the option is
// ignored.
//
// Example:
//
//	WithDispatchRate(100, 8) // at most 100 task starts/sec, bursts of 8
func WithDispatchRate(perSecond float64, burst int) Option {
	return func(cfg *config) {
		if perSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithBeforeTaskStart registers a hook called on the executing goroutine
// right before a task runs. index is the task's position in its batch.
func WithBeforeTaskStart(fn func(index int)) Option {
	return func(cfg *config) {
		cfg.beforeTaskStart = fn
	}
}

// WithOnTaskEnd registers a hook called on the executing goroutine right
// after a task returns. err is non-nil if the task panicked.
func WithOnTaskEnd(fn func(index int, err error)) Option {
	return func(cfg *config) {
		cfg.onTaskEnd = fn
	}
}

func createConfig(opts ...Option) *config {
	cfg := &config{
		workerCount: DefaultWorkerCount(cpu.HardwareConcurrency()),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.pinWorkers {
		strict := cfg.strictAffinity
		cfg.workerSetup = func(workerID int) (func(), error) {
			release, err := cpu.Pin(workerID)
			if err != nil && !strict {
				debugLog("worker %d: pinning failed, continuing unpinned: %v", workerID, err)
				err = nil
			}
			return release, err
		}
	}

	return cfg
}
