package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/utkarsh5026/batchpool/internal/queue"
	"github.com/utkarsh5026/batchpool/internal/semaphore"
	"golang.org/x/sync/errgroup"
)

// Pool runs batches of independent tasks on a fixed set of worker
// goroutines. The worker count is chosen at construction and never changes.
//
// A Pool is driven by a single coordinating goroutine: BeginTasks, AddTask
// and EndTasks for one batch must not be called from several goroutines at
// once. Workers, on the other hand, run the tasks of a batch concurrently.
type Pool struct {
	conf *config

	mu        sync.Mutex
	cond      *sync.Cond // signalled when a task is added or the pool stops
	state     State
	sealed    bool // EndTasks has started for the open batch
	stopping  bool
	batchErrs []error

	tasks *queue.Batch[Task]
	done  *semaphore.Semaphore

	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{} // closed when every worker has returned

	live     atomic.Int32
	batches  atomic.Uint64
	tasksRun atomic.Uint64
	panics   atomic.Uint64
}

// New creates an uninitialized pool. No goroutine is started until Init.
//
// Default configuration:
//   - workerCount: DefaultWorkerCount(runtime.NumCPU())
//   - no CPU affinity, no dispatch rate limit, no hooks
//
// Example:
//
//	p := pool.New(pool.WithWorkerCount(7))
//	if err := p.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Terminate()
func New(opts ...Option) *Pool {
	cfg := createConfig(opts...)
	p := &Pool{
		conf:  cfg,
		tasks: queue.NewBatch[Task](0),
		done:  semaphore.New(0),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Init starts the pool's workers.
//
// Either every worker starts or none is left running: if a worker fails its
// setup (for example strict CPU pinning is refused), the workers already
// started are stopped and joined, the pool stays uninitialized and the setup
// error is returned.
//
// Returns:
//   - ErrAlreadyInitialized if Init already succeeded
//   - ErrTerminated if the pool has been terminated
//   - the first worker setup error, if any
func (p *Pool) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateUninitialized:
	case StateTerminated:
		return ErrTerminated
	default:
		return ErrAlreadyInitialized
	}

	n := p.conf.workerCount
	p.stopping = false
	p.ctx, p.cancel = context.WithCancel(context.Background())

	var g errgroup.Group
	ready := make(chan error, n)
	for i := range n {
		g.Go(func() error {
			return p.worker(i, ready)
		})
	}

	var startErr error
	for range n {
		if err := <-ready; err != nil && startErr == nil {
			startErr = err
		}
	}

	if startErr != nil {
		p.stopping = true
		p.cond.Broadcast()

		// workers need the lock to observe stopping
		p.mu.Unlock()
		_ = g.Wait()
		p.mu.Lock()

		p.cancel()
		p.stopping = false
		debugLog("init failed, %d workers unwound: %v", n, startErr)
		return startErr
	}

	exited := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(exited)
	}()

	p.exited = exited
	p.state = StateIdle
	debugLog("init: %d workers", n)
	return nil
}

// BeginTasks opens a new batch, discarding whatever the previous batch held.
//
// Returns:
//   - ErrNotInitialized / ErrTerminated if the pool cannot run work
//   - ErrBatchInProgress if the previous batch has not been ended
func (p *Pool) BeginTasks() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := checkUsable(p.state); err != nil {
		return err
	}
	if p.state == StateBatch {
		return ErrBatchInProgress
	}

	p.tasks.Clear()
	p.done.Reset(0)
	p.batchErrs = nil
	p.sealed = false
	p.state = StateBatch
	debugLog("batch begin")
	return nil
}

// AddTask appends a task to the open batch and wakes one idle worker, which
// may start running it before EndTasks is called.
//
// Returns:
//   - ErrNilTask if t is nil
//   - ErrNoBatch if no batch is open or EndTasks has already started
func (p *Pool) AddTask(t Task) error {
	if t == nil {
		return ErrNilTask
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := checkUsable(p.state); err != nil {
		return err
	}
	if p.state != StateBatch || p.sealed {
		return ErrNoBatch
	}

	p.tasks.Add(t)
	p.cond.Signal()
	return nil
}

// AddFunc is shorthand for AddTask(TaskFunc(fn)).
func (p *Pool) AddFunc(fn func()) error {
	if fn == nil {
		return ErrNilTask
	}
	return p.AddTask(TaskFunc(fn))
}

// EndTasks closes the open batch and blocks until every task in it has run.
// After it returns, all writes made by the batch's tasks are visible to the
// caller. A batch with no tasks returns immediately.
//
// With zero workers the calling goroutine runs the tasks itself.
//
// Returns:
//   - ErrNoBatch if no batch is open
//   - an error joining every recovered panic (each wraps ErrTaskPanicked
//     or, for a panicking hook, ErrHookPanicked)
func (p *Pool) EndTasks() error {
	p.mu.Lock()
	if err := checkUsable(p.state); err != nil {
		p.mu.Unlock()
		return err
	}
	if p.state != StateBatch || p.sealed {
		p.mu.Unlock()
		return ErrNoBatch
	}
	p.sealed = true
	n := p.tasks.Len()
	p.mu.Unlock()
	defer p.closeBatch()

	if p.conf.workerCount == 0 {
		for {
			t, index, ok := p.tasks.Claim()
			if !ok {
				break
			}
			p.execute(t, index)
		}
	}

	for range n {
		p.done.Wait()
	}

	p.mu.Lock()
	errs := p.batchErrs
	p.batchErrs = nil
	p.mu.Unlock()

	p.batches.Add(1)
	debugLog("batch end: %d tasks, %d errors", n, len(errs))
	return errors.Join(errs...)
}

// closeBatch returns a sealed batch to the idle state. It runs even if
// EndTasks unwinds, so the pool never stays stuck in StateBatch.
func (p *Pool) closeBatch() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.batchErrs = nil
	p.tasks.Clear()
	p.sealed = false
	p.state = StateIdle
}

// Terminate stops every worker and waits for them to exit. A terminated
// pool cannot be initialized again.
//
// Returns:
//   - ErrNotInitialized if Init never succeeded
//   - ErrTerminated if Terminate was already called
//   - ErrBatchInProgress if a batch is open
func (p *Pool) Terminate() error {
	p.mu.Lock()
	switch p.state {
	case StateUninitialized:
		p.mu.Unlock()
		return ErrNotInitialized
	case StateTerminated:
		p.mu.Unlock()
		return ErrTerminated
	case StateBatch:
		p.mu.Unlock()
		return ErrBatchInProgress
	}

	p.state = StateTerminated
	p.stopping = true
	p.cond.Broadcast()
	exited := p.exited
	p.mu.Unlock()

	p.cancel()
	<-exited
	debugLog("terminated")
	return nil
}

// NumWorkers returns the fixed number of workers the pool runs with.
func (p *Pool) NumWorkers() int {
	return p.conf.workerCount
}

// State returns the pool's current lifecycle state.
func (p *Pool) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:     p.conf.workerCount,
		LiveWorkers: int(p.live.Load()),
		State:       p.State(),
		Batches:     p.batches.Load(),
		Tasks:       p.tasksRun.Load(),
		Panics:      p.panics.Load(),
	}
}
