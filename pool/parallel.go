package pool

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return max(r.End-r.Start, 0)
}

// Partition splits [0, n) into at most parts contiguous, disjoint ranges of
// ceil(n/parts) indices each (the last one may be shorter). Empty ranges are
// never produced, so fewer than parts ranges come back when n < parts.
// parts <= 0 is treated as 1; n <= 0 yields no ranges.
func Partition(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	parts = min(max(parts, 1), n)

	size := (n + parts - 1) / parts
	ranges := make([]Range, 0, parts)
	for start := 0; start < n; start += size {
		ranges = append(ranges, Range{Start: start, End: min(start+size, n)})
	}
	return ranges
}

// ParallelFor runs fn over [0, n) split into at most parts ranges, one task
// per range, as a single batch. It returns after every range has been
// processed.
//
// Parameters:
//   - n: number of indices
//   - parts: number of chunks to split the indices into
//   - fn: kernel applied to each chunk; chunks are disjoint
//
// Example:
//
//	err := p.ParallelFor(len(points), 64, func(r pool.Range) {
//	    for i := r.Start; i < r.End; i++ {
//	        points[i].X, points[i].Z = points[i].Z, points[i].X
//	    }
//	})
func (p *Pool) ParallelFor(n, parts int, fn func(r Range)) error {
	if fn == nil {
		return ErrNilTask
	}
	if err := p.BeginTasks(); err != nil {
		return err
	}

	for _, r := range Partition(n, parts) {
		if err := p.AddTask(Bind(fn, r)); err != nil {
			// only reachable through concurrent misuse; close the batch anyway
			_ = p.EndTasks()
			return err
		}
	}
	return p.EndTasks()
}
