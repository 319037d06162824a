package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Personality is a closed-set behavioral tag driving heuristic trade
// sizing and frequency.
type Personality string

const (
	Conservative Personality = "conservative"
	Aggressive   Personality = "aggressive"
	Whale        Personality = "whale"
	Sniper       Personality = "sniper"
	Random       Personality = "random"
)

// Personalities lists every valid personality tag.
var Personalities = []Personality{Conservative, Aggressive, Whale, Sniper, Random}

// ParsePersonality validates a personality tag.
func ParsePersonality(s string) (Personality, error) {
	for _, p := range Personalities {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown personality %q", s)
}

// Agent represents an autonomous trading agent in the market.
type Agent struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Avatar      string                     `json:"avatar"`
	Color       string                     `json:"color"`
	Personality Personality                `json:"personality"`
	Balance     decimal.Decimal            `json:"balance"`
	Holdings    map[string]decimal.Decimal `json:"holdings"`
	TotalTrades int                        `json:"totalTrades"`
	RealizedPnl decimal.Decimal            `json:"realizedPnl"`
	WinRate     float64                    `json:"winRate"`
}

// Holding returns the agent's balance in the given token (zero when absent).
func (a *Agent) Holding(tokenID string) decimal.Decimal {
	if a.Holdings == nil {
		return decimal.Zero
	}
	return a.Holdings[tokenID]
}
