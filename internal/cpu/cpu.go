package cpu

import (
	"errors"
	"runtime"
)

// ErrPinUnsupported is returned by Pin on platforms without per-thread
// affinity control.
var ErrPinUnsupported = errors.New("cpu pinning not supported on this platform")

// HardwareConcurrency returns the number of logical CPUs usable by the process.
func HardwareConcurrency() int {
	return runtime.NumCPU()
}

// coreFor maps a worker id onto a valid core index.
func coreFor(workerID, numCPU int) int {
	if numCPU <= 0 {
		return 0
	}
	if workerID < 0 {
		workerID = -workerID
	}
	return workerID % numCPU
}

// maskBits is the width of a thread affinity mask on 64-bit Windows.
// A single mask cannot address cores outside the first processor group.
const maskBits = 64

// maskCore folds a core index into the range a single affinity mask covers.
func maskCore(core int) int {
	return core % maskBits
}
