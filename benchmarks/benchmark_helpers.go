package benchmarks

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/utkarsh5026/batchpool/pool"
)

// poolConfig names a pool configuration under benchmark.
type poolConfig struct {
	name string
	opts []pool.Option
}

// getPoolConfigs returns the pool shapes every benchmark is run against.
func getPoolConfigs() []poolConfig {
	ncpu := runtime.NumCPU()
	return []poolConfig{
		{name: "Inline", opts: []pool.Option{pool.WithWorkerCount(0)}},
		{name: "Default", opts: nil},
		{name: fmt.Sprintf("Workers=%d", ncpu), opts: []pool.Option{pool.WithWorkerCount(ncpu)}},
		{name: "Pinned", opts: []pool.Option{pool.WithCPUAffinity(false)}},
	}
}

// runPoolBenchmark runs benchFunc once per configuration with an
// initialized pool shared by all b.N iterations.
func runPoolBenchmark(b *testing.B, benchFunc func(b *testing.B, p *pool.Pool)) {
	for _, cfg := range getPoolConfigs() {
		b.Run(cfg.name, func(b *testing.B) {
			p := pool.New(cfg.opts...)
			if err := p.Init(); err != nil {
				b.Fatalf("Init: %v", err)
			}
			defer p.Terminate()

			benchFunc(b, p)
		})
	}
}

// cpuBoundRange burns iterations per index of r and returns a checksum so
// the compiler cannot drop the loop.
func cpuBoundRange(r pool.Range, iterations int) int {
	result := 0
	for i := r.Start; i < r.End; i++ {
		for j := 0; j < iterations; j++ {
			result += i * j
		}
	}
	return result
}

// permuteRange swaps the first and third component of every tuple in r.
func permuteRange(values [][4]int32, r pool.Range) {
	for i := r.Start; i < r.End; i++ {
		values[i][0], values[i][2] = values[i][2], values[i][0]
	}
}
