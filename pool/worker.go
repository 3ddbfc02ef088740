package pool

import "errors"

// worker is the loop run by each pool goroutine. It reports on ready once
// its setup is done, then claims and runs tasks until the pool stops.
// A worker never leaves in the middle of a batch: stopping is only
// requested while the pool is idle or while Init is unwinding.
func (p *Pool) worker(id int, ready chan<- error) error {
	if p.conf.workerSetup != nil {
		release, err := p.conf.workerSetup(id)
		if release != nil {
			defer release()
		}
		if err != nil {
			ready <- err
			return err
		}
	}

	p.live.Add(1)
	defer p.live.Add(-1)
	ready <- nil

	debugLog("worker %d: started", id)
	for {
		t, index, ok := p.next()
		if !ok {
			debugLog("worker %d: stopping", id)
			return nil
		}
		p.execute(t, index)
	}
}

// next blocks until a task is pending or the pool is stopping.
func (p *Pool) next() (Task, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if p.stopping {
			return nil, -1, false
		}
		if t, index, ok := p.tasks.Claim(); ok {
			return t, index, true
		}
		p.cond.Wait()
	}
}

// execute runs one claimed task with hooks, rate limiting and panic
// recovery, then releases one completion permit. Panics from the task or
// from either hook are collected for EndTasks.
func (p *Pool) execute(t Task, index int) {
	defer p.done.Notify()

	if p.conf.rateLimiter != nil {
		// Wait only fails once the pool context is cancelled, which never
		// happens while a batch is open.
		_ = p.conf.rateLimiter.Wait(p.ctx)
	}

	var errs []error
	if p.conf.beforeTaskStart != nil {
		if herr := runHook(index, func() { p.conf.beforeTaskStart(index) }); herr != nil {
			errs = append(errs, herr)
		}
	}

	err := runWithRecovery(t, index)
	p.tasksRun.Add(1)
	if err != nil {
		p.panics.Add(1)
		errs = append(errs, err)
	}

	if p.conf.onTaskEnd != nil {
		if herr := runHook(index, func() { p.conf.onTaskEnd(index, err) }); herr != nil {
			errs = append(errs, herr)
		}
	}

	if len(errs) == 0 {
		return
	}
	debugLog("task %d: %v", index, errors.Join(errs...))

	p.mu.Lock()
	p.batchErrs = append(p.batchErrs, errs...)
	p.mu.Unlock()
}
