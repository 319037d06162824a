// Package storage persists tokens, trades, holdings and agent stats after
// each applied ledger mutation. The ledger only depends on the Store
// interface; simulation runs use the in-memory stand-in, live runs sqlite.
package storage

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/core"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Holding is one agent's persisted position in one token.
type Holding struct {
	TokenID       string
	AgentID       string
	Balance       decimal.Decimal
	AvgBuyPrice   decimal.Decimal
	TotalInvested decimal.Decimal
}

// StatUpdate describes how one applied trade moves an agent's stats.
type StatUpdate struct {
	IsBuy bool
	Cost  decimal.Decimal
	Pnl   decimal.Decimal // zero for buys
}

// AgentStats is the persisted aggregate view of one agent.
type AgentStats struct {
	AgentID     string
	Name        string
	TotalTrades int
	TotalVolume decimal.Decimal
	RealizedPnl decimal.Decimal
	LastActive  int64
}

// Store is the persistence collaborator consumed by the ledger.
type Store interface {
	SaveToken(t core.Token) error
	SaveTrade(tr core.Trade) error
	SaveHolding(h Holding) error
	GetHolding(tokenID, agentID string) (Holding, error)
	UpdateAgentStats(agentID, name string, upd StatUpdate) error
	Leaderboard(limit int) ([]AgentStats, error)
	Close() error
}
