package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool sizing. Conversions spawn a LibreOffice process each, so the pool
// stays small.
const (
	MinPoolSize = 2
	MaxPoolSize = 4
	HardLimit   = 16
	cpuDivisor  = 2
)

// ResolvePoolSize honours an explicit worker count up to HardLimit and
// otherwise derives one from GOMAXPROCS.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return min(workers, HardLimit)
	}

	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// Pool bounds render tasks across every batch in the process.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

func NewPool(workers int) *Pool {
	size := ResolvePoolSize(workers)
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

func (p *Pool) Size() int {
	return p.size
}

// Do runs fn once a slot is free.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn()
}
