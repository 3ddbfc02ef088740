//go:build linux

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(core int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)

	// 0 = calling thread
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return fmt.Errorf("pin to core %d: %w", core, err)
	}
	return nil
}

// Pin locks the calling goroutine to its OS thread and binds that thread to
// the core derived from workerID. The returned release function unlocks the
// thread and must be called when the worker exits, even if err is non-nil.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	release = runtime.UnlockOSThread

	return release, pinToCore(coreFor(workerID, runtime.NumCPU()))
}
