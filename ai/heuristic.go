package ai

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/core"
)

// Heuristic is a personality-driven provider that needs no network. It is
// also the safety net behind every model-backed provider.
type Heuristic struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeuristic returns a heuristic provider seeded for reproducible runs.
func NewHeuristic(seed int64) *Heuristic {
	return &Heuristic{rng: rand.New(rand.NewSource(seed))}
}

// Decide samples an action from the market snapshot. An empty market leans
// heavily toward launching a token so simulations bootstrap themselves.
func (h *Heuristic) Decide(_ context.Context, dc core.DecisionContext) (core.Decision, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(dc.Tokens) == 0 {
		if h.rng.Float64() < 0.7 {
			return h.createDecision(), nil
		}
		return core.Decision{Action: core.ActionHold, Reasoning: "empty market, waiting"}, nil
	}

	// Uniform roll over the four actions; personality shows up in sizing,
	// not in the action choice.
	switch h.rng.Intn(4) {
	case 0:
		return h.createDecision(), nil
	case 1:
		tok := dc.Tokens[h.rng.Intn(len(dc.Tokens))]
		spend := TradeAmount(dc.Personality, dc.Balance, h.rng)
		if spend.GreaterThan(dc.Balance) {
			spend = dc.Balance
		}
		if !spend.IsPositive() || !tok.Price.IsPositive() {
			return core.Decision{Action: core.ActionHold, Reasoning: "insufficient balance"}, nil
		}
		amount := spend.Div(tok.Price)
		return core.Decision{
			Action:    core.ActionBuy,
			TokenID:   tok.ID,
			Amount:    amount,
			Reasoning: fmt.Sprintf("%s entry on %s at %s", dc.Personality, tok.Ticker, tok.Price.StringFixed(8)),
		}, nil
	case 2:
		tok, held := h.pickHolding(dc)
		if !held {
			return core.Decision{Action: core.ActionHold, Reasoning: "nothing to sell"}, nil
		}
		balance := dc.Holdings[tok.ID]
		frac := decimal.NewFromFloat(0.2 + h.rng.Float64()*0.6)
		return core.Decision{
			Action:    core.ActionSell,
			TokenID:   tok.ID,
			Amount:    balance.Mul(frac),
			Reasoning: fmt.Sprintf("taking profit on %s", tok.Ticker),
		}, nil
	default:
		return core.Decision{Action: core.ActionHold, Reasoning: "watching the market"}, nil
	}
}

func (h *Heuristic) createDecision() core.Decision {
	info := RandomTokenInfo(h.rng)
	return core.Decision{
		Action:        core.ActionCreate,
		TokenName:     info.Name,
		TokenSymbol:   info.Ticker,
		TokenMetadata: info.Emoji + " " + info.Description,
		Reasoning:     "launching " + info.Name,
	}
}

func (h *Heuristic) pickHolding(dc core.DecisionContext) (core.TokenSnapshot, bool) {
	var held []core.TokenSnapshot
	for _, tok := range dc.Tokens {
		if bal, ok := dc.Holdings[tok.ID]; ok && bal.IsPositive() {
			held = append(held, tok)
		}
	}
	if len(held) == 0 {
		return core.TokenSnapshot{}, false
	}
	return held[h.rng.Intn(len(held))], true
}

// TradeVerdict is the outcome of a personality check against one token.
type TradeVerdict struct {
	Should bool
	Side   core.TradeSide
}

var sniperEntryPrice = decimal.NewFromFloat(0.0001)

// ShouldTrade decides whether a personality would act on a token given its
// spot price and 24h price change. Same rng can be shared across calls as
// long as the caller serializes access.
func ShouldTrade(p core.Personality, price decimal.Decimal, priceChange float64, rng *rand.Rand) TradeVerdict {
	roll := rng.Float64()

	switch p {
	case core.Aggressive:
		if priceChange > 5 && roll > 0.2 {
			return TradeVerdict{Should: true, Side: core.Buy}
		}
		if priceChange < -3 && roll > 0.3 {
			return TradeVerdict{Should: true, Side: core.Sell}
		}
		return TradeVerdict{Should: roll > 0.4, Side: sideFromRoll(roll)}

	case core.Conservative:
		if priceChange < -15 && roll > 0.3 {
			return TradeVerdict{Should: true, Side: core.Buy}
		}
		if priceChange > 30 && roll > 0.4 {
			return TradeVerdict{Should: true, Side: core.Sell}
		}
		side := core.Sell
		if roll > 0.4 {
			side = core.Buy
		}
		return TradeVerdict{Should: roll > 0.75, Side: side}

	case core.Whale:
		if roll > 0.7 {
			return TradeVerdict{Should: true, Side: sideFromRoll(roll)}
		}
		return TradeVerdict{Should: false, Side: core.Buy}

	case core.Sniper:
		if price.LessThan(sniperEntryPrice) && roll > 0.2 {
			return TradeVerdict{Should: true, Side: core.Buy}
		}
		if priceChange > 20 && roll > 0.3 {
			return TradeVerdict{Should: true, Side: core.Sell}
		}
		return TradeVerdict{Should: roll > 0.6, Side: core.Buy}

	default:
		return TradeVerdict{Should: roll > 0.35, Side: sideFromRoll(roll)}
	}
}

// TradeAmount sizes a trade in quote currency as a personality-scaled slice
// of the agent's balance.
func TradeAmount(p core.Personality, balance decimal.Decimal, rng *rand.Rand) decimal.Decimal {
	base := balance.Mul(decimal.NewFromFloat(0.1))

	var mult float64
	switch p {
	case core.Whale:
		mult = 3 + rng.Float64()*5
	case core.Sniper:
		mult = 0.5 + rng.Float64()
	case core.Aggressive:
		mult = 1.5 + rng.Float64()*2.5
	case core.Conservative:
		mult = 0.3 + rng.Float64()*0.7
	default:
		mult = 0.5 + rng.Float64()*2
	}
	return base.Mul(decimal.NewFromFloat(mult))
}

func sideFromRoll(roll float64) core.TradeSide {
	if roll > 0.5 {
		return core.Buy
	}
	return core.Sell
}
