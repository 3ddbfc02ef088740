package pool

import (
	"fmt"
	"runtime"
	"testing"
	"time"
)

// workerCounts returns the pool sizes every behavioural test runs against.
// Zero exercises the inline path, one a single worker, the rest real
// parallelism.
func workerCounts() []int {
	return []int{0, 1, 4, DefaultWorkerCount(runtime.NumCPU()) + 1}
}

// runWorkerCountTest runs testFunc once per worker count with an
// initialized pool that is terminated when the subtest ends.
func runWorkerCountTest(t *testing.T, testFunc func(t *testing.T, p *Pool), opts ...Option) {
	for _, n := range workerCounts() {
		t.Run(fmt.Sprintf("workers=%d", n), func(t *testing.T) {
			p := New(append([]Option{WithWorkerCount(n)}, opts...)...)
			if err := p.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			t.Cleanup(func() {
				if p.State() == StateIdle {
					_ = p.Terminate()
				}
			})
			testFunc(t, p)
		})
	}
}

// endWithin calls EndTasks and fails the test if it does not return in time.
func endWithin(t *testing.T, p *Pool, d time.Duration) error {
	t.Helper()

	errc := make(chan error, 1)
	go func() {
		errc <- p.EndTasks()
	}()

	select {
	case err := <-errc:
		return err
	case <-time.After(d):
		t.Fatalf("EndTasks did not return within %v", d)
		return nil
	}
}
