//go:build windows

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

var setThreadAffinityMask = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetThreadAffinityMask")

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(core int) error {
	handle := uintptr(windows.CurrentThread())

	// bit N = CPU N, within the thread's processor group
	mask := uintptr(1) << uint(maskCore(core))

	prevMask, _, err := setThreadAffinityMask.Call(handle, mask)
	if prevMask == 0 {
		return fmt.Errorf("pin to core %d: %w", core, err)
	}
	return nil
}

// Pin locks the calling goroutine to its OS thread and binds that thread to
// the core derived from workerID. The returned release function must be
// called when the worker exits.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	release = runtime.UnlockOSThread

	return release, pinToCore(coreFor(workerID, runtime.NumCPU()))
}
