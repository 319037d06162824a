package ai

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazwx/agent-pump/core"
)

func emptyContext() core.DecisionContext {
	return core.DecisionContext{
		AgentName:   "Claude",
		Personality: core.Conservative,
		Balance:     decimal.NewFromInt(50000),
		Holdings:    map[string]decimal.Decimal{},
	}
}

func marketContext() core.DecisionContext {
	dc := emptyContext()
	dc.Tokens = []core.TokenSnapshot{
		{
			ID:          "tok-1",
			Name:        "PepeAI",
			Ticker:      "PEPAI1",
			Emoji:       "🐸",
			Price:       decimal.NewFromFloat(0.00015),
			MarketCap:   decimal.NewFromInt(150),
			PriceChange: 12.5,
		},
		{
			ID:          "tok-2",
			Name:        "MoonDAO",
			Ticker:      "MOODAO2",
			Emoji:       "🌙",
			Price:       decimal.NewFromFloat(0.00009),
			MarketCap:   decimal.NewFromInt(90),
			PriceChange: -8.0,
		},
	}
	dc.Holdings["tok-1"] = decimal.NewFromInt(1000)
	return dc
}

func TestHeuristicBootstrapsEmptyMarket(t *testing.T) {
	h := NewHeuristic(1)

	creates := 0
	for i := 0; i < 1000; i++ {
		d, err := h.Decide(context.Background(), emptyContext())
		require.NoError(t, err)
		require.True(t, d.Valid())
		switch d.Action {
		case core.ActionCreate:
			creates++
			assert.NotEmpty(t, d.TokenName)
			assert.NotEmpty(t, d.TokenSymbol)
		case core.ActionHold:
		default:
			t.Fatalf("unexpected action %q on empty market", d.Action)
		}
	}
	assert.InDelta(t, 700, creates, 60, "empty market should lean toward creating")
}

func TestHeuristicDecisionsAreAlwaysValid(t *testing.T) {
	h := NewHeuristic(42)
	dc := marketContext()

	for i := 0; i < 500; i++ {
		d, err := h.Decide(context.Background(), dc)
		require.NoError(t, err)
		assert.True(t, d.Valid(), "decision %+v must be valid", d)
		if d.Action == core.ActionSell {
			assert.Equal(t, "tok-1", d.TokenID, "can only sell what is held")
		}
	}
}

func TestHeuristicSamplesActionsUniformly(t *testing.T) {
	h := NewHeuristic(11)
	dc := marketContext()

	counts := map[core.Action]int{}
	for i := 0; i < 10000; i++ {
		d, err := h.Decide(context.Background(), dc)
		require.NoError(t, err)
		counts[d.Action]++
	}
	for _, a := range []core.Action{core.ActionCreate, core.ActionBuy, core.ActionSell, core.ActionHold} {
		assert.InDelta(t, 2500, counts[a], 250, "action %s", a)
	}
}

func TestShouldTradeSniperBuysCheapTokens(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cheap := decimal.NewFromFloat(0.00005)

	buys := 0
	for i := 0; i < 1000; i++ {
		v := ShouldTrade(core.Sniper, cheap, 0, rng)
		if v.Should && v.Side == core.Buy {
			buys++
		}
	}
	// below the entry price a sniper fires whenever roll > 0.2
	assert.Greater(t, buys, 700)
}

func TestShouldTradeWhaleSitsOutMostTicks(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	price := decimal.NewFromFloat(0.001)

	acted := 0
	for i := 0; i < 1000; i++ {
		if ShouldTrade(core.Whale, price, 0, rng).Should {
			acted++
		}
	}
	assert.InDelta(t, 300, acted, 60)
}

func TestTradeAmountScalesWithPersonality(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	balance := decimal.NewFromInt(10000)

	for i := 0; i < 200; i++ {
		whale := TradeAmount(core.Whale, balance, rng)
		assert.True(t, whale.GreaterThanOrEqual(decimal.NewFromInt(3000)), "whale spends at least 3x base")
		assert.True(t, whale.LessThanOrEqual(decimal.NewFromInt(8000)))

		cons := TradeAmount(core.Conservative, balance, rng)
		assert.True(t, cons.GreaterThanOrEqual(decimal.NewFromInt(300)))
		assert.True(t, cons.LessThanOrEqual(decimal.NewFromInt(1000)))
	}
}

func TestRandomTokenInfoTickersAreUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		info := RandomTokenInfo(rng)
		assert.False(t, seen[info.Ticker], "duplicate ticker %s", info.Ticker)
		seen[info.Ticker] = true
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.Emoji)
		assert.NotEmpty(t, info.Description)
	}
}

func TestParseDecisionPlainJSON(t *testing.T) {
	d, err := ParseDecision(`{"action":"buy","tokenId":"tok-1","amount":1234.5,"reasoning":"dip entry"}`)
	require.NoError(t, err)
	assert.Equal(t, core.ActionBuy, d.Action)
	assert.Equal(t, "tok-1", d.TokenID)
	assert.True(t, d.Amount.Equal(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "dip entry", d.Reasoning)
	assert.True(t, d.Valid())
}

func TestParseDecisionFencedAndChatty(t *testing.T) {
	reply := "Sure! Here is my move:\n```json\n" +
		`{"action":"create","tokenName":"GigaPump","tokenSymbol":"GIGPUM9","tokenMetadata":"🚀 to the moon","reasoning":"empty {market}"}` +
		"\n```\nGood luck!"
	d, err := ParseDecision(reply)
	require.NoError(t, err)
	assert.Equal(t, core.ActionCreate, d.Action)
	assert.Equal(t, "GigaPump", d.TokenName)
	assert.Equal(t, "GIGPUM9", d.TokenSymbol)
	assert.Equal(t, "empty {market}", d.Reasoning)
}

func TestParseDecisionNumericTokenID(t *testing.T) {
	d, err := ParseDecision(`{"action":"sell","tokenId":3,"amount":"500"}`)
	require.NoError(t, err)
	assert.Equal(t, "3", d.TokenID)
	assert.True(t, d.Amount.Equal(decimal.NewFromInt(500)))
}

func TestParseDecisionMissingActionHolds(t *testing.T) {
	d, err := ParseDecision(`{"reasoning":"I am confused"}`)
	require.NoError(t, err)
	assert.Equal(t, core.ActionHold, d.Action)
}

func TestParseDecisionNoJSONErrors(t *testing.T) {
	_, err := ParseDecision("I would buy the frog one, probably.")
	assert.Error(t, err)

	_, err = ParseDecision(`{"action":"buy"`)
	assert.Error(t, err)
}

func TestExtractJSONSkipsBracesInStrings(t *testing.T) {
	raw, ok := extractJSON(`noise {"a":"hello } world","b":{"c":1}} trailing`)
	require.True(t, ok)
	assert.Equal(t, `{"a":"hello } world","b":{"c":1}}`, raw)
}

type failingProvider struct{}

func (failingProvider) Decide(context.Context, core.DecisionContext) (core.Decision, error) {
	return core.Decision{}, fmt.Errorf("api unreachable")
}

type scriptedProvider struct{ d core.Decision }

func (s scriptedProvider) Decide(context.Context, core.DecisionContext) (core.Decision, error) {
	return s.d, nil
}

func TestFallbackPassesThroughOnSuccess(t *testing.T) {
	want := core.Decision{Action: core.ActionHold, Reasoning: "steady"}
	f := NewFallback(scriptedProvider{d: want}, nil)

	got, err := f.Decide(context.Background(), marketContext())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFallbackAbsorbsProviderErrors(t *testing.T) {
	f := NewFallback(failingProvider{}, NewHeuristic(5))

	d, err := f.Decide(context.Background(), marketContext())
	require.NoError(t, err)
	assert.True(t, d.Valid())
	assert.True(t, strings.HasPrefix(d.Reasoning, "fallback after provider error:"), "got %q", d.Reasoning)
}
