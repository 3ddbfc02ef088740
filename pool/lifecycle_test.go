package pool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_Init(t *testing.T) {
	t.Run("successful init", func(t *testing.T) {
		p := New(WithWorkerCount(3))
		if err := p.Init(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer p.Terminate()

		if p.State() != StateIdle {
			t.Errorf("state after Init = %v, want idle", p.State())
		}
	})

	t.Run("double init fails", func(t *testing.T) {
		p := New(WithWorkerCount(2))
		if err := p.Init(); err != nil {
			t.Fatalf("first init failed: %v", err)
		}
		defer p.Terminate()

		err := p.Init()
		if !errors.Is(err, ErrAlreadyInitialized) {
			t.Errorf("expected ErrAlreadyInitialized, got %v", err)
		}
		if got := p.Stats().LiveWorkers; got != 2 {
			t.Errorf("second Init changed live workers to %d", got)
		}
	})

	t.Run("init after terminate fails", func(t *testing.T) {
		p := New(WithWorkerCount(1))
		if err := p.Init(); err != nil {
			t.Fatalf("init failed: %v", err)
		}
		if err := p.Terminate(); err != nil {
			t.Fatalf("terminate failed: %v", err)
		}

		if err := p.Init(); !errors.Is(err, ErrTerminated) {
			t.Errorf("expected ErrTerminated, got %v", err)
		}
	})
}

func TestPool_InitFailureLeavesNoWorkers(t *testing.T) {
	setupErr := errors.New("cannot pin worker")

	p := New(WithWorkerCount(6))
	var released atomic.Int32
	p.conf.workerSetup = func(id int) (func(), error) {
		release := func() { released.Add(1) }
		if id == 4 {
			return release, setupErr
		}
		return release, nil
	}

	err := p.Init()
	if !errors.Is(err, setupErr) {
		t.Fatalf("expected setup error, got %v", err)
	}

	if p.State() != StateUninitialized {
		t.Errorf("state after failed Init = %v, want uninitialized", p.State())
	}
	if got := p.Stats().LiveWorkers; got != 0 {
		t.Errorf("expected no live workers after failed Init, got %d", got)
	}
	if got := released.Load(); got != 6 {
		t.Errorf("expected all 6 workers to release their setup, got %d", got)
	}
	if err := p.BeginTasks(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized after failed Init, got %v", err)
	}
}

func TestPool_InitRetryAfterFailure(t *testing.T) {
	p := New(WithWorkerCount(2))

	var fail atomic.Bool
	fail.Store(true)
	p.conf.workerSetup = func(id int) (func(), error) {
		if fail.Load() {
			return nil, errors.New("transient")
		}
		return nil, nil
	}

	if err := p.Init(); err == nil {
		t.Fatal("expected first Init to fail")
	}

	fail.Store(false)
	if err := p.Init(); err != nil {
		t.Fatalf("retry Init failed: %v", err)
	}
	defer p.Terminate()

	var ran atomic.Int32
	if err := p.ParallelFor(8, 8, func(Range) { ran.Add(1) }); err != nil {
		t.Fatalf("ParallelFor: %v", err)
	}
	if ran.Load() != 8 {
		t.Errorf("expected 8 tasks, ran %d", ran.Load())
	}
}

func TestPool_Terminate(t *testing.T) {
	t.Run("successful terminate", func(t *testing.T) {
		runWorkerCountTest(t, func(t *testing.T, p *Pool) {
			if err := p.Terminate(); err != nil {
				t.Fatalf("terminate failed: %v", err)
			}
			if p.State() != StateTerminated {
				t.Errorf("state = %v, want terminated", p.State())
			}
			if got := p.Stats().LiveWorkers; got != 0 {
				t.Errorf("expected workers to be joined, %d still live", got)
			}
		})
	})

	t.Run("terminate without init fails", func(t *testing.T) {
		p := New(WithWorkerCount(2))
		if err := p.Terminate(); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("expected ErrNotInitialized, got %v", err)
		}
	})

	t.Run("double terminate fails", func(t *testing.T) {
		p := New(WithWorkerCount(2))
		if err := p.Init(); err != nil {
			t.Fatalf("init failed: %v", err)
		}
		if err := p.Terminate(); err != nil {
			t.Fatalf("first terminate failed: %v", err)
		}
		if err := p.Terminate(); !errors.Is(err, ErrTerminated) {
			t.Errorf("expected ErrTerminated, got %v", err)
		}
	})

	t.Run("terminate during batch fails", func(t *testing.T) {
		p := New(WithWorkerCount(2))
		if err := p.Init(); err != nil {
			t.Fatalf("init failed: %v", err)
		}
		defer p.Terminate()

		if err := p.BeginTasks(); err != nil {
			t.Fatalf("BeginTasks: %v", err)
		}
		if err := p.Terminate(); !errors.Is(err, ErrBatchInProgress) {
			t.Errorf("expected ErrBatchInProgress, got %v", err)
		}
		if err := p.EndTasks(); err != nil {
			t.Fatalf("EndTasks: %v", err)
		}
	})

	t.Run("terminate returns promptly with idle workers", func(t *testing.T) {
		p := New(WithWorkerCount(16))
		if err := p.Init(); err != nil {
			t.Fatalf("init failed: %v", err)
		}

		done := make(chan error, 1)
		go func() { done <- p.Terminate() }()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("terminate failed: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Terminate did not join idle workers")
		}
	})
}

func TestPool_BatchWindow(t *testing.T) {
	t.Run("begin before init fails", func(t *testing.T) {
		p := New(WithWorkerCount(1))
		if err := p.BeginTasks(); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("expected ErrNotInitialized, got %v", err)
		}
	})

	t.Run("add before begin fails", func(t *testing.T) {
		runWorkerCountTest(t, func(t *testing.T, p *Pool) {
			if err := p.AddFunc(func() {}); !errors.Is(err, ErrNoBatch) {
				t.Errorf("expected ErrNoBatch, got %v", err)
			}
		})
	})

	t.Run("add after end fails", func(t *testing.T) {
		runWorkerCountTest(t, func(t *testing.T, p *Pool) {
			if err := p.BeginTasks(); err != nil {
				t.Fatalf("BeginTasks: %v", err)
			}
			if err := p.EndTasks(); err != nil {
				t.Fatalf("EndTasks: %v", err)
			}
			if err := p.AddFunc(func() {}); !errors.Is(err, ErrNoBatch) {
				t.Errorf("expected ErrNoBatch, got %v", err)
			}
		})
	})

	t.Run("end without begin fails", func(t *testing.T) {
		runWorkerCountTest(t, func(t *testing.T, p *Pool) {
			if err := p.EndTasks(); !errors.Is(err, ErrNoBatch) {
				t.Errorf("expected ErrNoBatch, got %v", err)
			}
		})
	})

	t.Run("begin twice fails", func(t *testing.T) {
		runWorkerCountTest(t, func(t *testing.T, p *Pool) {
			if err := p.BeginTasks(); err != nil {
				t.Fatalf("BeginTasks: %v", err)
			}
			if err := p.BeginTasks(); !errors.Is(err, ErrBatchInProgress) {
				t.Errorf("expected ErrBatchInProgress, got %v", err)
			}
			if err := p.EndTasks(); err != nil {
				t.Fatalf("EndTasks: %v", err)
			}
		})
	})

	t.Run("nil task rejected", func(t *testing.T) {
		runWorkerCountTest(t, func(t *testing.T, p *Pool) {
			if err := p.BeginTasks(); err != nil {
				t.Fatalf("BeginTasks: %v", err)
			}
			if err := p.AddTask(nil); !errors.Is(err, ErrNilTask) {
				t.Errorf("expected ErrNilTask, got %v", err)
			}
			if err := p.AddFunc(nil); !errors.Is(err, ErrNilTask) {
				t.Errorf("expected ErrNilTask from AddFunc, got %v", err)
			}
			if err := p.EndTasks(); err != nil {
				t.Fatalf("EndTasks: %v", err)
			}
		})
	})

	t.Run("operations after terminate fail", func(t *testing.T) {
		p := New(WithWorkerCount(1))
		if err := p.Init(); err != nil {
			t.Fatalf("Init: %v", err)
		}
		if err := p.Terminate(); err != nil {
			t.Fatalf("Terminate: %v", err)
		}

		if err := p.BeginTasks(); !errors.Is(err, ErrTerminated) {
			t.Errorf("BeginTasks: expected ErrTerminated, got %v", err)
		}
		if err := p.AddFunc(func() {}); !errors.Is(err, ErrTerminated) {
			t.Errorf("AddFunc: expected ErrTerminated, got %v", err)
		}
		if err := p.EndTasks(); !errors.Is(err, ErrTerminated) {
			t.Errorf("EndTasks: expected ErrTerminated, got %v", err)
		}
	})
}

func TestPool_BeginDiscardsPreviousBatch(t *testing.T) {
	runWorkerCountTest(t, func(t *testing.T, p *Pool) {
		var first, second atomic.Int32

		if err := p.ParallelFor(10, 10, func(Range) { first.Add(1) }); err != nil {
			t.Fatalf("first batch: %v", err)
		}
		if err := p.ParallelFor(3, 3, func(Range) { second.Add(1) }); err != nil {
			t.Fatalf("second batch: %v", err)
		}

		if first.Load() != 10 || second.Load() != 3 {
			t.Errorf("expected 10 and 3 tasks, got %d and %d", first.Load(), second.Load())
		}
	})
}
