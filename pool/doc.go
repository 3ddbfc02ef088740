// Package pool provides a fixed-size pool of worker goroutines that runs
// batches of independent tasks and waits for each batch as a unit.
//
// The primary type is Pool. Workers are spawned once by Init and stay parked
// until a batch gives them work, so the spawn cost is paid once per pool
// rather than once per task. A batch is defined between BeginTasks and
// EndTasks; EndTasks is a barrier that returns only after every task of the
// batch has run exactly once.
//
// # Basic Usage
//
//	p := pool.New()
//	if err := p.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Terminate()
//
//	_ = p.BeginTasks()
//	for _, r := range pool.Partition(len(values), 64) {
//	    _ = p.AddFunc(func() { permute(values[r.Start:r.End]) })
//	}
//	if err := p.EndTasks(); err != nil {
//	    log.Fatal(err)
//	}
//	// every element of values has been permuted here
//
// # Tasks
//
// A Task is anything with a Run method. TaskFunc adapts a plain closure and
// Bind attaches a kernel to caller-owned context data:
//
//	type chunk struct {
//	    values     []Vec4i
//	    start, end int
//	}
//	_ = p.AddTask(pool.Bind(permuteChunk, &chunk{values: v, start: 0, end: 1024}))
//
// The pool never copies or frees the context. Tasks in a batch run in no
// particular order and concurrently with each other, so callers must make
// sure no two tasks of the same batch write the same memory. Splitting an
// array into disjoint [start, end) ranges with Partition is the expected
// discipline. Work that depends on the result of other work belongs in a
// later batch.
//
// # Parallel For
//
// ParallelFor wraps the whole BeginTasks/AddTask/EndTasks cycle for the
// common case of a range split into chunks:
//
//	err := p.ParallelFor(len(values), 64, func(r pool.Range) {
//	    for i := r.Start; i < r.End; i++ {
//	        values[i] = transform(values[i])
//	    }
//	})
//
// # Lifecycle
//
// A pool moves through Uninitialized, Idle, Batch and Terminated. Calling an
// operation in the wrong state is a programming error and is reported with
// one of the package's sentinel errors (ErrAlreadyInitialized, ErrNoBatch,
// ErrBatchInProgress, ...), never silently ignored.
//
// # Worker Count
//
// By default a pool has DefaultWorkerCount(runtime.NumCPU()) workers, one
// less than the number of logical CPUs because the calling goroutine is busy
// waiting in EndTasks. On a single-CPU machine that is zero workers: the pool
// then runs every task on the goroutine that calls EndTasks.
//
// # Configuration Options
//
//   - WithWorkerCount(n): Set the number of workers (0 runs batches inline)
//   - WithCPUAffinity(strict): Lock each worker to an OS thread pinned to a core
//   - WithDispatchRate(perSecond, burst): Throttle how fast workers start tasks
//   - WithBeforeTaskStart(fn), WithOnTaskEnd(fn): Per-task hooks
//
// # Error Handling
//
// A task that panics does not take its worker down. The panic is recovered,
// converted into an error wrapping ErrTaskPanicked with a stack trace, and
// returned from EndTasks once the rest of the batch has finished. Hooks get
// the same treatment and report ErrHookPanicked; the task itself still runs.
//
// The pool offers no cancellation: a batch always runs to completion.
package pool
