package sim

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/ledger"
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New(ledger.Options{Seed: 1})

	roster := []core.Agent{
		{ID: "a1", Name: "Claude", Personality: core.Conservative, Balance: decimal.NewFromInt(50000)},
		{ID: "a2", Name: "GPT-4", Personality: core.Aggressive, Balance: decimal.NewFromInt(50000)},
		{ID: "a3", Name: "Gemini", Personality: core.Whale, Balance: decimal.NewFromInt(80000)},
		{ID: "a4", Name: "Grok", Personality: core.Random, Balance: decimal.NewFromInt(30000)},
	}
	for _, a := range roster {
		l.AddAgent(a)
	}
	return l
}

func TestSchedulerProducesActivity(t *testing.T) {
	l := newTestLedger(t)
	s := NewScheduler(l, 1)

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return l.TokenCount() > 0
	}, 3*time.Second, 50*time.Millisecond, "initial burst should create tokens")

	require.Eventually(t, func() bool {
		return len(l.Trades()) > l.TokenCount()
	}, 5*time.Second, 50*time.Millisecond, "generators should trade beyond seed buys")
}

func TestSchedulerStopHaltsAllGenerators(t *testing.T) {
	l := newTestLedger(t)
	s := NewScheduler(l, 2)

	s.Start(context.Background())
	time.Sleep(1200 * time.Millisecond)
	s.Stop()

	trades := len(l.Trades())
	tokens := l.TokenCount()
	assert.Greater(t, tokens, 0)

	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, trades, len(l.Trades()), "no trades after stop")
	assert.Equal(t, tokens, l.TokenCount(), "no launches after stop")
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	l := newTestLedger(t)
	s := NewScheduler(l, 3)

	s.Start(context.Background())
	assert.True(t, s.Running())
	s.Start(context.Background())
	s.Stop()
	assert.False(t, s.Running())

	// stop again is a no-op
	s.Stop()
}

func TestSchedulerRestarts(t *testing.T) {
	l := newTestLedger(t)
	s := NewScheduler(l, 4)

	s.Start(context.Background())
	time.Sleep(300 * time.Millisecond)
	s.Stop()

	s.Start(context.Background())
	assert.True(t, s.Running())
	s.Stop()
}
