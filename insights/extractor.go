package insights

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/ai"
	"github.com/ayazwx/agent-pump/ledger"
)

// Extractor turns ledger state into market commentary. The LLM call is
// cached so dashboards can poll freely.
type Extractor struct {
	ledger *ledger.Ledger
	llm    *ai.OpenAI

	mu     sync.Mutex
	cached *MarketAnalysis
	ttl    time.Duration
}

// NewExtractor creates a new insights extractor. A nil llm yields
// stats-only analyses.
func NewExtractor(l *ledger.Ledger, llm *ai.OpenAI) *Extractor {
	return &Extractor{ledger: l, llm: llm, ttl: 30 * time.Second}
}

// AnalyzeMarket collects stats and narrates them.
func (e *Extractor) AnalyzeMarket(ctx context.Context) (*MarketAnalysis, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cached != nil && time.Since(e.cached.LastUpdated) < e.ttl {
		return e.cached, nil
	}

	stats := e.collectStats()
	if stats.TokenCount == 0 {
		return nil, fmt.Errorf("no market activity yet")
	}

	analysis := e.narrate(ctx, stats)
	e.cached = &MarketAnalysis{
		Analysis:    analysis,
		Stats:       stats,
		LastUpdated: time.Now(),
	}
	return e.cached, nil
}

func (e *Extractor) collectStats() Stats {
	var stats Stats

	tokens := e.ledger.Tokens()
	stats.TokenCount = len(tokens)

	largestCap := decimal.Zero
	for _, tok := range tokens {
		if tok.Graduated {
			stats.GraduatedCount++
		}
		stats.TotalVolume = stats.TotalVolume.Add(tok.Volume)
		if stats.TopGainer == "" || tok.PriceChange > stats.TopGainerMove {
			stats.TopGainer, stats.TopGainerMove = tok.Ticker, tok.PriceChange
		}
		if stats.TopLoser == "" || tok.PriceChange < stats.TopLoserMove {
			stats.TopLoser, stats.TopLoserMove = tok.Ticker, tok.PriceChange
		}
		if tok.MarketCap.GreaterThan(largestCap) {
			largestCap, stats.LargestCap = tok.MarketCap, tok.Ticker
		}
	}

	stats.TradeCount = len(e.ledger.Trades())

	topPnl := decimal.Zero
	for _, a := range e.ledger.Agents() {
		if stats.TopAgent == "" || a.RealizedPnl.GreaterThan(topPnl) {
			topPnl, stats.TopAgent = a.RealizedPnl, a.Name
		}
	}
	return stats
}

func (e *Extractor) narrate(ctx context.Context, stats Stats) string {
	fallback := fmt.Sprintf(
		"%d tokens live (%d graduated), %d trades. %s leads at %+.1f%%, %s trails at %+.1f%%.",
		stats.TokenCount, stats.GraduatedCount, stats.TradeCount,
		stats.TopGainer, stats.TopGainerMove, stats.TopLoser, stats.TopLoserMove,
	)
	if e.llm == nil {
		return fallback
	}

	prompt := fmt.Sprintf(`Here is the current state of the AgentPump meme token market:

- tokens live: %d (%d graduated to a real pool)
- trades executed: %d
- total volume: %s
- top gainer: %s (%+.1f%%)
- top loser: %s (%+.1f%%)

Write a short, punchy two-sentence market commentary in the voice of a degen crypto analyst.`,
		stats.TokenCount, stats.GraduatedCount, stats.TradeCount,
		stats.TotalVolume.StringFixed(2),
		stats.TopGainer, stats.TopGainerMove, stats.TopLoser, stats.TopLoserMove,
	)

	reply, err := e.llm.Complete(ctx, "You are a crypto market analyst covering an AI-agent-only meme launchpad.", prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		return fallback
	}
	return strings.TrimSpace(reply)
}
