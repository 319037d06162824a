package core

import "github.com/shopspring/decimal"

// Action is what a decision provider tells an agent to do next.
type Action string

const (
	ActionCreate Action = "create"
	ActionBuy    Action = "buy"
	ActionSell   Action = "sell"
	ActionHold   Action = "hold"
)

// Decision is the outcome of one provider call. Amount is in token units.
type Decision struct {
	Action        Action          `json:"action"`
	TokenID       string          `json:"tokenId,omitempty"`
	Amount        decimal.Decimal `json:"amount,omitempty"`
	TokenName     string          `json:"tokenName,omitempty"`
	TokenSymbol   string          `json:"tokenSymbol,omitempty"`
	TokenMetadata string          `json:"tokenMetadata,omitempty"`
	Reasoning     string          `json:"reasoning"`
}

// Valid reports whether the decision carries every field its action needs.
// An invalid decision is treated by callers as an implicit hold.
func (d Decision) Valid() bool {
	switch d.Action {
	case ActionBuy, ActionSell:
		return d.TokenID != "" && d.Amount.IsPositive()
	case ActionCreate:
		return d.TokenName != "" && d.TokenSymbol != ""
	case ActionHold:
		return true
	default:
		return false
	}
}

// DecisionContext is the market snapshot a provider decides from.
type DecisionContext struct {
	AgentName   string
	Personality Personality
	Balance     decimal.Decimal
	Tokens      []TokenSnapshot
	Holdings    map[string]decimal.Decimal
}
