//go:build !linux && !darwin && !windows

package cpu

import "runtime"

// Pin locks the goroutine to an OS thread; core binding is unavailable here.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, ErrPinUnsupported
}
