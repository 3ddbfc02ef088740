package semaphore

import "sync"

// Semaphore is a blocking counting semaphore built on a mutex and a
// condition variable. The zero value is not usable; call New.
//
// The pool uses it as a completion barrier: the count starts at zero for a
// batch, every finished task adds a permit with Notify, and the coordinator
// takes one permit per submitted task with Wait.
type Semaphore struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

// New creates a semaphore holding n permits.
func New(n int) *Semaphore {
	s := &Semaphore{count: max(n, 0)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Reset sets the number of available permits to n and wakes every waiter.
// Negative values are treated as zero.
func (s *Semaphore) Reset(n int) {
	s.mu.Lock()
	s.count = max(n, 0)
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Notify releases one permit and wakes a single waiter.
func (s *Semaphore) Notify() {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	s.cond.Signal()
}

// Wait blocks until a permit is available and takes it.
// A Wait with no matching Notify blocks forever.
func (s *Semaphore) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.count == 0 {
		s.cond.Wait()
	}
	s.count--
}

// Count returns the number of permits currently available.
func (s *Semaphore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
