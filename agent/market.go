// Package agent runs autonomous trading loops. Each loop senses the market,
// asks its decision provider for a move and executes it, forever, until its
// context is cancelled.
package agent

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/ledger"
)

// Market is the venue an agent trades on. The in-process ledger and the
// on-chain contract both satisfy it.
type Market interface {
	Balance(ctx context.Context, agentID string) (decimal.Decimal, error)
	Snapshot(ctx context.Context, agentID string) (core.DecisionContext, error)
	CreateToken(ctx context.Context, agentID string, info core.TokenInfo) (core.Token, error)
	Trade(ctx context.Context, agentID, tokenID string, side core.TradeSide, amount decimal.Decimal) (core.Trade, bool)
}

// LedgerMarket adapts the in-memory ledger to the Market interface.
type LedgerMarket struct {
	L *ledger.Ledger
}

func NewLedgerMarket(l *ledger.Ledger) *LedgerMarket {
	return &LedgerMarket{L: l}
}

func (m *LedgerMarket) Balance(_ context.Context, agentID string) (decimal.Decimal, error) {
	a, ok := m.L.Agent(agentID)
	if !ok {
		return decimal.Zero, ledger.ErrUnknownAgent
	}
	return a.Balance, nil
}

func (m *LedgerMarket) Snapshot(_ context.Context, agentID string) (core.DecisionContext, error) {
	return m.L.Snapshot(agentID)
}

func (m *LedgerMarket) CreateToken(_ context.Context, agentID string, info core.TokenInfo) (core.Token, error) {
	return m.L.CreateToken(agentID, info)
}

func (m *LedgerMarket) Trade(_ context.Context, agentID, tokenID string, side core.TradeSide, amount decimal.Decimal) (core.Trade, bool) {
	return m.L.ExecuteTrade(agentID, tokenID, side, amount)
}
