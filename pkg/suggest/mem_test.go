//go:build test

package suggest

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var memQueries = []string{
	"hullo", "wrold", "cta", "carr", "helo", "wrod", "kat", "hepl", "swrod", "chrat",
}

func memVocabulary() map[string]int {
	vocab := make(map[string]int)
	for i, w := range []string{
		"hello", "help", "helmet", "yellow", "fellow", "hollow", "world", "word",
		"sword", "cat", "bat", "cap", "cart", "chart", "heart", "earth",
	} {
		vocab[w] = 100 - i
	}
	return vocab
}

func TestMemoryStableAcrossQueries(t *testing.T) {
	for _, strategy := range Strategies() {
		t.Run(strategy, func(t *testing.T) {
			m, err := New(strategy, memVocabulary(), 5)
			if err != nil {
				t.Fatalf("matcher init failed: %v", err)
			}
			runMemoryTest(t, m, 1, 2000)
		})
	}
}

func TestMemoryStableConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 2, iterationsPerWorker: 500},
		{workers: 8, iterationsPerWorker: 125},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", cfg.workers, cfg.iterationsPerWorker), func(t *testing.T) {
			m, err := New(StrategyLocked, memVocabulary(), 5)
			if err != nil {
				t.Fatalf("matcher init failed: %v", err)
			}
			runMemoryTest(t, m, cfg.workers, cfg.iterationsPerWorker)
		})
	}
}

// runMemoryTest checks that transient query paths are released: heap and
// goroutine counts must settle back near the baseline.
func runMemoryTest(t *testing.T, m IMatcher, workers, iterations int) {
	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				for _, q := range memQueries {
					if _, err := m.Similar(q); err != nil {
						t.Errorf("query %q: %v", q, err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)

	totalOps := workers * iterations * len(memQueries)
	memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	memPerOp := float64(memDelta) / float64(totalOps)
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines

	t.Logf("strategy=%s ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		m.Name(), totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 100 {
		t.Errorf("memory grows with queries: %.2f bytes per op", memPerOp)
	}
	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}
