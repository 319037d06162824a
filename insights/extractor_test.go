package insights

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/ledger"
)

func TestAnalyzeMarketWithoutActivity(t *testing.T) {
	e := NewExtractor(ledger.New(ledger.Options{Seed: 1}), nil)
	_, err := e.AnalyzeMarket(context.Background())
	assert.Error(t, err)
}

func TestAnalyzeMarketStatsOnly(t *testing.T) {
	l := ledger.New(ledger.Options{Seed: 1})
	creator := l.AddAgent(core.Agent{Name: "Claude", Personality: core.Conservative, Balance: decimal.NewFromInt(50000)})
	tok, err := l.CreateToken(creator.ID, core.TokenInfo{Name: "PepeAI", Ticker: "PEPAI1", Emoji: "🐸"})
	require.NoError(t, err)
	l.ExecuteTrade(creator.ID, tok.ID, core.Buy, decimal.NewFromInt(5000))

	e := NewExtractor(l, nil)
	analysis, err := e.AnalyzeMarket(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.Stats.TokenCount)
	assert.GreaterOrEqual(t, analysis.Stats.TradeCount, 2)
	assert.Equal(t, "PEPAI1", analysis.Stats.TopGainer)
	assert.Equal(t, "PEPAI1", analysis.Stats.LargestCap)
	assert.NotEmpty(t, analysis.Analysis)

	// second call inside the ttl returns the cached analysis
	again, err := e.AnalyzeMarket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, analysis.LastUpdated, again.LastUpdated)
}
