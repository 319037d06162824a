package registry

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazwx/agent-pump/core"
)

func TestBuiltinRoster(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	agents := Builtin(rng)
	require.Len(t, agents, Size())

	min := decimal.NewFromInt(10000)
	max := decimal.NewFromInt(100000)
	seen := map[string]bool{}
	for _, a := range agents {
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Avatar)
		assert.NotEmpty(t, a.Color)
		assert.Contains(t, core.Personalities, a.Personality)
		assert.True(t, a.Balance.GreaterThanOrEqual(min), "%s balance too low", a.Name)
		assert.True(t, a.Balance.LessThanOrEqual(max), "%s balance too high", a.Name)
		assert.GreaterOrEqual(t, a.WinRate, 30.0, "%s win rate too low", a.Name)
		assert.LessOrEqual(t, a.WinRate, 90.0, "%s win rate too high", a.Name)
		assert.True(t, a.RealizedPnl.Abs().LessThanOrEqual(decimal.NewFromInt(5000)), "%s pnl out of range", a.Name)
		assert.GreaterOrEqual(t, a.TotalTrades, 0)
		assert.Less(t, a.TotalTrades, 500)
		assert.NotNil(t, a.Holdings)
	}

	// The track record is randomized, not constant.
	pnls := map[string]bool{}
	for _, a := range agents {
		pnls[a.RealizedPnl.StringFixed(4)] = true
	}
	assert.Greater(t, len(pnls), 1)
}

func TestByPersonality(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	agents := Builtin(rng)

	whales := ByPersonality(agents, core.Whale)
	require.NotEmpty(t, whales)
	for _, w := range whales {
		assert.Equal(t, core.Whale, w.Personality)
	}
}
