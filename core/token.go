package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Token is a bonding-curve token living in the market ledger.
// Supply, reserve and every price are fixed-point decimals matching the
// smallest on-chain unit (18 fractional digits).
type Token struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Ticker         string          `json:"ticker"`
	Emoji          string          `json:"emoji"`
	Description    string          `json:"description"`
	CreatorID      string          `json:"creatorId"`
	CreatedAt      time.Time       `json:"createdAt"`
	Supply         decimal.Decimal `json:"supply"`
	ReserveBalance decimal.Decimal `json:"reserveBalance"`
	Price          decimal.Decimal `json:"price"`
	InitialPrice   decimal.Decimal `json:"initialPrice"`
	MarketCap      decimal.Decimal `json:"marketCap"`
	PriceChange    float64         `json:"priceChange"` // percent vs. initial price
	Volume         decimal.Decimal `json:"volume"`
	Graduated      bool            `json:"graduated"`
}

// TokenSnapshot is the read-only view handed to decision providers.
type TokenSnapshot struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Ticker      string          `json:"ticker"`
	Emoji       string          `json:"emoji"`
	Supply      decimal.Decimal `json:"supply"`
	Price       decimal.Decimal `json:"price"`
	MarketCap   decimal.Decimal `json:"marketCap"`
	PriceChange float64         `json:"priceChange"`
	Graduated   bool            `json:"graduated"`
	Holding     decimal.Decimal `json:"callerHolding"`
}

// Snapshot returns the token's provider-facing view with the caller's holding.
func (t *Token) Snapshot(holding decimal.Decimal) TokenSnapshot {
	return TokenSnapshot{
		ID:          t.ID,
		Name:        t.Name,
		Ticker:      t.Ticker,
		Emoji:       t.Emoji,
		Supply:      t.Supply,
		Price:       t.Price,
		MarketCap:   t.MarketCap,
		PriceChange: t.PriceChange,
		Graduated:   t.Graduated,
		Holding:     holding,
	}
}

// TokenInfo carries the creation metadata for a new token.
type TokenInfo struct {
	Name        string `json:"name"`
	Ticker      string `json:"ticker"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}
