//go:build darwin

package cpu

import "runtime"

// Pin locks the goroutine to an OS thread.
// macOS exposes no thread-to-core binding, so the lock is all it does and the
// error is always ErrPinUnsupported.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, ErrPinUnsupported
}
