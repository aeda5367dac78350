// Package parallel splits element loops of the CPU kernels across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Workers  int // Maximum number of goroutines per loop; 1 or less runs sequentially.
	MinChunk int // Minimum elements per goroutine to avoid overhead.
}

// DefaultConfig uses every available CPU for loops of at least 16k elements.
func DefaultConfig() Config {
	return Config{
		Workers:  runtime.GOMAXPROCS(0),
		MinChunk: 1 << 14,
	}
}

// Sequential is the configuration that never starts goroutines.
func Sequential() Config {
	return Config{Workers: 1}
}

// chunkSize returns the number of elements per chunk for a loop over n elements,
// or n when the loop should not be split.
func (c Config) chunkSize(n int) int {
	if c.Workers <= 1 || n < 2*c.MinChunk {
		return n
	}
	return max((n+c.Workers-1)/c.Workers, c.MinChunk)
}

// Chunks calls fn on disjoint ranges [start, end) that together cover [0, n).
// Ranges may run concurrently, so fn must only write to its own range. A panic in
// fn is re-raised in the calling goroutine once every range has finished.
func Chunks(n int, cfg Config, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	size := cfg.chunkSize(n)
	if size >= n {
		fn(0, n)
		return
	}

	var (
		wg        sync.WaitGroup
		once      sync.Once
		recovered any
	)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() { recovered = r })
				}
			}()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
	if recovered != nil {
		panic(recovered)
	}
}

// For executes f(i) for i in [0, n), splitting the range per cfg.
func For(n int, cfg Config, f func(i int)) {
	Chunks(n, cfg, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	})
}
