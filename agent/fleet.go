package agent

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultStagger spaces out fleet launches so a cold start does not fire
// every first tick at once.
const DefaultStagger = 300 * time.Millisecond

// Fleet runs a set of trading loops and stops them together.
type Fleet struct {
	Stagger time.Duration

	mu     sync.Mutex
	loops  []*Loop
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewFleet(loops ...*Loop) *Fleet {
	return &Fleet{Stagger: DefaultStagger, loops: loops}
}

// Add registers another loop. Loops added after Start are not launched
// until the next Start.
func (f *Fleet) Add(l *Loop) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loops = append(f.loops, l)
}

// Start launches every loop with staggered first ticks. Calling Start on a
// running fleet is a no-op.
func (f *Fleet) Start(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		return
	}

	ctx, f.cancel = context.WithCancel(ctx)
	log.Printf("🚀 launching %d trading agents", len(f.loops))

	for i, l := range f.loops {
		delay := time.Duration(i) * f.Stagger
		f.wg.Add(1)
		go func(l *Loop, delay time.Duration) {
			defer f.wg.Done()
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			l.Run(ctx)
		}(l, delay)
	}
}

// Stop cancels every loop and waits for them to exit.
func (f *Fleet) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	f.wg.Wait()
	log.Println("🛑 fleet stopped")
}
