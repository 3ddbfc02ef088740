package pool

// Task is one unit of work submitted to a batch.
type Task interface {
	Run()
}

// TaskFunc adapts an ordinary function to the Task interface.
type TaskFunc func()

// Run calls f.
func (f TaskFunc) Run() { f() }

// Bind returns a Task that calls fn with ctx.
//
// ctx is typically a pointer to caller-owned data describing the slice of
// work, e.g. a [start, end) range over a shared buffer. It must stay valid
// until EndTasks returns; the pool only ever passes it back to fn.
func Bind[C any](fn func(C), ctx C) Task {
	return &boundTask[C]{fn: fn, ctx: ctx}
}

type boundTask[C any] struct {
	fn  func(C)
	ctx C
}

func (b *boundTask[C]) Run() { b.fn(b.ctx) }

// State is the lifecycle state of a Pool.
type State int32

const (
	// StateUninitialized is a pool that has not been through Init yet.
	StateUninitialized State = iota
	// StateIdle is an initialized pool with no open batch.
	StateIdle
	// StateBatch is a pool between BeginTasks and the return of EndTasks.
	StateBatch
	// StateTerminated is a pool whose workers have been stopped.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateBatch:
		return "batch"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time snapshot of a pool's counters.
type Stats struct {
	Workers     int    // configured worker count
	LiveWorkers int    // worker goroutines currently running
	State       State  // lifecycle state
	Batches     uint64 // batches completed by EndTasks
	Tasks       uint64 // tasks executed, including ones that panicked
	Panics      uint64 // tasks that panicked
}
