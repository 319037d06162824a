package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade.
type TradeSide string

const (
	Buy  TradeSide = "buy"
	Sell TradeSide = "sell"
)

// Trade is an immutable record of one applied ledger mutation.
// Cost is the currency paid (buy) or received (sell).
type Trade struct {
	ID        string          `json:"id"`
	AgentID   string          `json:"agentId"`
	TokenID   string          `json:"tokenId"`
	Side      TradeSide       `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Timestamp time.Time       `json:"timestamp"`
	TxHash    string          `json:"txHash,omitempty"`
}
