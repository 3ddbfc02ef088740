package benchmarks

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/utkarsh5026/batchpool/pool"
)

var sink atomic.Int64

// BenchmarkPermute compares the pool with a goroutine per chunk on the
// tuple permutation kernel.
func BenchmarkPermute(b *testing.B) {
	const elements = 1 << 20

	for _, tasks := range []int{8, 64, 512} {
		values := make([][4]int32, elements)
		ranges := pool.Partition(elements, tasks)

		b.Run(fmt.Sprintf("tasks=%d/Goroutines", tasks), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				var wg sync.WaitGroup
				for _, r := range ranges {
					wg.Add(1)
					go func() {
						defer wg.Done()
						permuteRange(values, r)
					}()
				}
				wg.Wait()
			}
		})

		b.Run(fmt.Sprintf("tasks=%d/Pool", tasks), func(b *testing.B) {
			runPoolBenchmark(b, func(b *testing.B, p *pool.Pool) {
				b.ReportAllocs()
				for b.Loop() {
					_ = p.BeginTasks()
					for _, r := range ranges {
						_ = p.AddTask(pool.Bind(func(r pool.Range) { permuteRange(values, r) }, r))
					}
					if err := p.EndTasks(); err != nil {
						b.Fatal(err)
					}
				}
			})
		})
	}
}

// BenchmarkParallelFor measures the ParallelFor wrapper on CPU-bound chunks.
func BenchmarkParallelFor(b *testing.B) {
	const n = 4096

	for _, iterations := range []int{10, 1000} {
		b.Run(fmt.Sprintf("work=%d", iterations), func(b *testing.B) {
			runPoolBenchmark(b, func(b *testing.B, p *pool.Pool) {
				for b.Loop() {
					err := p.ParallelFor(n, 64, func(r pool.Range) {
						sink.Add(int64(cpuBoundRange(r, iterations)))
					})
					if err != nil {
						b.Fatal(err)
					}
				}
			})
		})
	}
}

// BenchmarkEmptyBatch measures the fixed cost of one batch round trip.
func BenchmarkEmptyBatch(b *testing.B) {
	runPoolBenchmark(b, func(b *testing.B, p *pool.Pool) {
		for b.Loop() {
			_ = p.BeginTasks()
			if err := p.EndTasks(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkBatchOverhead measures per-task dispatch cost with no-op tasks.
func BenchmarkBatchOverhead(b *testing.B) {
	noop := pool.TaskFunc(func() {})

	for _, tasks := range []int{1, 16, 256} {
		b.Run(fmt.Sprintf("tasks=%d", tasks), func(b *testing.B) {
			runPoolBenchmark(b, func(b *testing.B, p *pool.Pool) {
				b.ReportAllocs()
				for b.Loop() {
					_ = p.BeginTasks()
					for range tasks {
						_ = p.AddTask(noop)
					}
					if err := p.EndTasks(); err != nil {
						b.Fatal(err)
					}
				}
			})
		})
	}
}
