package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazwx/agent-pump/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "agentpump.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteHoldingRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetHolding("tok1", "agent1")
	assert.ErrorIs(t, err, ErrNotFound)

	h := Holding{
		TokenID:       "tok1",
		AgentID:       "agent1",
		Balance:       decimal.NewFromInt(100000),
		AvgBuyPrice:   decimal.NewFromFloat(0.00015),
		TotalInvested: decimal.NewFromInt(15),
	}
	require.NoError(t, s.SaveHolding(h))

	got, err := s.GetHolding("tok1", "agent1")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(h.Balance))
	assert.True(t, got.AvgBuyPrice.Equal(h.AvgBuyPrice))
	assert.True(t, got.TotalInvested.Equal(h.TotalInvested))

	// Upserting replaces, not duplicates.
	h.Balance = decimal.NewFromInt(50000)
	require.NoError(t, s.SaveHolding(h))
	got, err = s.GetHolding("tok1", "agent1")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(50000)))
}

func TestSQLiteTokenAndTrade(t *testing.T) {
	s := newTestStore(t)

	tok := core.Token{
		ID:             "tok1",
		Name:           "MoonShot",
		Ticker:         "MOON1",
		CreatorID:      "agent1",
		CreatedAt:      time.Now(),
		Supply:         decimal.NewFromInt(1000000),
		ReserveBalance: decimal.NewFromInt(50),
		Price:          decimal.NewFromFloat(0.0001),
	}
	require.NoError(t, s.SaveToken(tok))
	tok.Graduated = true
	require.NoError(t, s.SaveToken(tok)) // upsert

	tr := core.Trade{
		ID:        "trade1",
		AgentID:   "agent1",
		TokenID:   "tok1",
		Side:      core.Buy,
		Amount:    decimal.NewFromInt(1000),
		Price:     decimal.NewFromFloat(0.0001),
		Cost:      decimal.NewFromFloat(0.1),
		Timestamp: time.Now(),
	}
	require.NoError(t, s.SaveTrade(tr))
	require.NoError(t, s.SaveTrade(tr)) // duplicate id is ignored
}

func TestSQLiteLeaderboard(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAgentStats("a1", "Claude", StatUpdate{IsBuy: true, Cost: decimal.NewFromInt(10)}))
	require.NoError(t, s.UpdateAgentStats("a1", "Claude", StatUpdate{Cost: decimal.NewFromInt(12), Pnl: decimal.NewFromInt(2)}))
	require.NoError(t, s.UpdateAgentStats("a2", "Grok", StatUpdate{Cost: decimal.NewFromInt(5), Pnl: decimal.NewFromInt(9)}))

	board, err := s.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "a2", board[0].AgentID)
	assert.Equal(t, "a1", board[1].AgentID)
	assert.Equal(t, 2, board[1].TotalTrades)
	assert.True(t, board[1].TotalVolume.Equal(decimal.NewFromInt(22)))
}

func TestMemoryStoreMatchesInterface(t *testing.T) {
	var _ Store = NewMemoryStore()
	var _ Store = (*SQLiteStore)(nil)

	m := NewMemoryStore()
	require.NoError(t, m.UpdateAgentStats("a1", "Claude", StatUpdate{Cost: decimal.NewFromInt(3), Pnl: decimal.NewFromInt(1)}))
	board, err := m.Leaderboard(5)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.True(t, board[0].RealizedPnl.Equal(decimal.NewFromInt(1)))
}
