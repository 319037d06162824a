package agent

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/ai"
	"github.com/ayazwx/agent-pump/core"
)

// DefaultInterval is the base pause between ticks; DefaultJitter is added
// on top of it, uniformly random, so a fleet never ticks in lockstep.
const (
	DefaultInterval = 10 * time.Second
	DefaultJitter   = 5 * time.Second
)

// minTickBalance is the cash floor below which a tick is skipped entirely.
var minTickBalance = decimal.NewFromFloat(0.01)

// Loop drives one agent: sense, decide, execute, sleep.
type Loop struct {
	ID          string
	Name        string
	Personality core.Personality

	Market   Market
	Provider ai.Provider

	Interval time.Duration
	Jitter   time.Duration

	rng *rand.Rand
}

// NewLoop wires a trading loop for a registered agent.
func NewLoop(a core.Agent, m Market, p ai.Provider) *Loop {
	return &Loop{
		ID:          a.ID,
		Name:        a.Name,
		Personality: a.Personality,
		Market:      m,
		Provider:    p,
		Interval:    DefaultInterval,
		Jitter:      DefaultJitter,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run ticks until ctx is cancelled. Tick errors are logged and the loop
// keeps going; cancellation is only observed at sleep boundaries.
func (l *Loop) Run(ctx context.Context) {
	log.Printf("🤖 %s starting... (%s)", l.Name, l.Personality)

	for {
		if err := l.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				log.Printf("🛑 %s stopped", l.Name)
				return
			}
			log.Printf("❌ %s tick failed: %v", l.Name, err)
		}

		sleep := l.Interval
		if l.Jitter > 0 {
			sleep += time.Duration(l.rng.Int63n(int64(l.Jitter)))
		}
		select {
		case <-ctx.Done():
			log.Printf("🛑 %s stopped", l.Name)
			return
		case <-time.After(sleep):
		}
	}
}

// Tick performs one sense-decide-execute cycle.
func (l *Loop) Tick(ctx context.Context) error {
	balance, err := l.Market.Balance(ctx, l.ID)
	if err != nil {
		return err
	}
	if balance.LessThan(minTickBalance) {
		log.Printf("⚠️ %s: low balance, skipping", l.Name)
		return nil
	}

	dc, err := l.Market.Snapshot(ctx, l.ID)
	if err != nil {
		return err
	}
	// on-chain snapshots carry no identity
	if dc.AgentName == "" {
		dc.AgentName = l.Name
		dc.Personality = l.Personality
	}

	decision, err := l.Provider.Decide(ctx, dc)
	if err != nil {
		return err
	}
	if !decision.Valid() {
		log.Printf("⚠️ %s: invalid decision %+v, holding", l.Name, decision)
		decision = core.Decision{Action: core.ActionHold}
	}

	log.Printf("🧠 %s decided: %s - %s", l.Name, decision.Action, decision.Reasoning)
	l.execute(ctx, decision)
	return nil
}

func (l *Loop) execute(ctx context.Context, d core.Decision) {
	switch d.Action {
	case core.ActionCreate:
		info := tokenInfoFromDecision(d)
		tok, err := l.Market.CreateToken(ctx, l.ID, info)
		if err != nil {
			log.Printf("❌ %s create failed: %v", l.Name, err)
			return
		}
		log.Printf("🚀 %s created %s (%s)", l.Name, tok.Name, tok.Ticker)

	case core.ActionBuy:
		if tr, ok := l.Market.Trade(ctx, l.ID, d.TokenID, core.Buy, d.Amount); ok {
			log.Printf("💰 %s bought %s for %s", l.Name, tr.Amount.StringFixed(2), tr.Cost.StringFixed(4))
		}

	case core.ActionSell:
		if tr, ok := l.Market.Trade(ctx, l.ID, d.TokenID, core.Sell, d.Amount); ok {
			log.Printf("📤 %s sold %s for %s", l.Name, tr.Amount.StringFixed(2), tr.Cost.StringFixed(4))
		}

	case core.ActionHold:
	}
}

// tokenInfoFromDecision maps a create decision onto token info. Metadata
// may be a JSON object with emoji/description keys or free text.
func tokenInfoFromDecision(d core.Decision) core.TokenInfo {
	info := core.TokenInfo{
		Name:   d.TokenName,
		Ticker: strings.ToUpper(d.TokenSymbol),
		Emoji:  "🚀",
	}

	meta := strings.TrimSpace(d.TokenMetadata)
	if meta == "" {
		return info
	}

	var parsed struct {
		Emoji       string `json:"emoji"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(meta), &parsed); err == nil && (parsed.Emoji != "" || parsed.Description != "") {
		if parsed.Emoji != "" {
			info.Emoji = parsed.Emoji
		}
		info.Description = parsed.Description
		return info
	}

	// free text: a leading emoji becomes the icon, the rest the description
	if r := []rune(meta); len(r) > 0 && r[0] > 0x2000 {
		info.Emoji = string(r[0])
		info.Description = strings.TrimSpace(string(r[1:]))
	} else {
		info.Description = meta
	}
	return info
}
