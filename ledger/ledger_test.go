package ledger

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/curve"
)

func newTestLedger(t *testing.T, opts Options) *Ledger {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	l := New(opts)
	l.AddAgent(core.Agent{
		ID:          "alice",
		Name:        "Claude",
		Personality: core.Conservative,
		Balance:     decimal.NewFromInt(100000),
	})
	l.AddAgent(core.Agent{
		ID:          "bob",
		Name:        "Grok",
		Personality: core.Random,
		Balance:     decimal.NewFromInt(5),
	})
	return l
}

func mustCreate(t *testing.T, l *Ledger, creator string) core.Token {
	t.Helper()
	tok, err := l.CreateToken(creator, core.TokenInfo{
		Name: "MoonShot", Ticker: "MOON", Emoji: "🚀", Description: "to the moon",
	})
	require.NoError(t, err)
	return tok
}

func TestCreateTokenSeedsState(t *testing.T) {
	l := newTestLedger(t, Options{})
	tok := mustCreate(t, l, "alice")

	assert.True(t, tok.Supply.Equal(seedSupply))
	wantReserve := seedSupply.Mul(curve.BasePrice).Mul(decimal.NewFromFloat(0.5))
	assert.True(t, tok.ReserveBalance.Equal(wantReserve))
	assert.True(t, tok.Price.Equal(curve.BasePrice))
	assert.True(t, tok.InitialPrice.Equal(curve.BasePrice))
	assert.False(t, tok.Graduated)

	// Creator gets the documented 10% starter allocation.
	alice, ok := l.Agent("alice")
	require.True(t, ok)
	assert.True(t, alice.Holding(tok.ID).Equal(seedAllocation))

	// The launch shows up as a synthetic seed buy.
	trades := l.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, core.Buy, trades[0].Side)
	assert.True(t, trades[0].Amount.Equal(seedAllocation))
	assert.NotEmpty(t, trades[0].TxHash)
}

func TestCreatorCanSellOnlyStarterAllocation(t *testing.T) {
	l := newTestLedger(t, Options{})
	tok := mustCreate(t, l, "alice")

	// A sell request far beyond the allocation clamps down to it.
	trade, ok := l.ExecuteTrade("alice", tok.ID, core.Sell, seedSupply)
	require.True(t, ok)
	assert.True(t, trade.Amount.Equal(seedAllocation))

	// Nothing left: the next sell is a silent no-op.
	before, _ := l.Token(tok.ID)
	_, ok = l.ExecuteTrade("alice", tok.ID, core.Sell, decimal.NewFromInt(1))
	assert.False(t, ok)
	after, _ := l.Token(tok.ID)
	assert.Equal(t, before, after)
}

func TestBuyUpdatesSupplyReserveAndPrice(t *testing.T) {
	l := newTestLedger(t, Options{})
	tok := mustCreate(t, l, "alice")
	amount := decimal.NewFromInt(10000)

	before, _ := l.Token(tok.ID)
	aliceBefore, _ := l.Agent("alice")

	trade, ok := l.ExecuteTrade("alice", tok.ID, core.Buy, amount)
	require.True(t, ok)
	require.True(t, trade.Cost.IsPositive())

	after, _ := l.Token(tok.ID)
	assert.True(t, after.Supply.Equal(before.Supply.Add(amount)))
	assert.True(t, after.ReserveBalance.Equal(before.ReserveBalance.Add(trade.Cost)))
	assert.True(t, after.Price.GreaterThan(before.Price))
	assert.True(t, after.MarketCap.Equal(curve.MarketCap(after.Supply, after.Price)))

	alice, _ := l.Agent("alice")
	assert.True(t, alice.Balance.Equal(aliceBefore.Balance.Sub(trade.Cost)))
	assert.True(t, alice.Holding(tok.ID).Equal(aliceBefore.Holding(tok.ID).Add(amount)))
	assert.Equal(t, aliceBefore.TotalTrades+1, alice.TotalTrades)
}

func TestUnaffordableBuyIsNoOp(t *testing.T) {
	// Scenario: an agent whose balance cannot cover the computed cost
	// leaves the ledger untouched, with no trade record.
	l := newTestLedger(t, Options{})
	tok := mustCreate(t, l, "alice")

	tokenBefore, _ := l.Token(tok.ID)
	bobBefore, _ := l.Agent("bob")
	tradesBefore := len(l.Trades())

	// bob holds 5; buying half a million tokens costs far more.
	_, ok := l.ExecuteTrade("bob", tok.ID, core.Buy, decimal.NewFromInt(500000))
	assert.False(t, ok)

	tokenAfter, _ := l.Token(tok.ID)
	bobAfter, _ := l.Agent("bob")
	assert.Equal(t, tokenBefore, tokenAfter)
	assert.Equal(t, bobBefore, bobAfter)
	assert.Len(t, l.Trades(), tradesBefore)
}

func TestTenSequentialBuys(t *testing.T) {
	l := newTestLedger(t, Options{})
	tok := mustCreate(t, l, "alice")
	amount := decimal.NewFromInt(1000)

	logBefore := len(l.Trades())
	lastPrice := curve.BasePrice
	for i := 0; i < 10; i++ {
		trade, ok := l.ExecuteTrade("alice", tok.ID, core.Buy, amount)
		require.True(t, ok, "buy %d must apply", i)
		assert.True(t, trade.Price.GreaterThan(lastPrice),
			"buy %d: price %s must exceed %s", i, trade.Price, lastPrice)
		lastPrice = trade.Price
	}

	trades := l.Trades()
	require.Len(t, trades, logBefore+10)
	for i := 1; i < 10; i++ {
		a, b := trades[logBefore+i-1], trades[logBefore+i]
		assert.True(t, b.Price.GreaterThan(a.Price), "log must be in application order")
	}
}

func TestGraduationHappensInsideTheCrossingBuy(t *testing.T) {
	l := newTestLedger(t, Options{})
	l.AddAgent(core.Agent{
		ID: "whale", Name: "Tsunami", Personality: core.Whale,
		Balance: decimal.NewFromInt(1000000),
	})
	tok := mustCreate(t, l, "alice")

	// One oversized buy pushes the market cap across the threshold; the
	// same mutation must flip the graduated flag.
	_, ok := l.ExecuteTrade("whale", tok.ID, core.Buy, decimal.NewFromInt(10000000))
	require.True(t, ok)

	after, _ := l.Token(tok.ID)
	require.True(t, curve.IsGraduated(after.MarketCap), "test setup must cross the threshold")
	assert.True(t, after.Graduated)

	// Graduated tokens no longer trade here, in either direction.
	_, ok = l.ExecuteTrade("whale", tok.ID, core.Buy, decimal.NewFromInt(1))
	assert.False(t, ok)
	_, ok = l.ExecuteTrade("whale", tok.ID, core.Sell, decimal.NewFromInt(1))
	assert.False(t, ok)

	final, _ := l.Token(tok.ID)
	assert.True(t, final.Graduated, "graduation is one-way")
}

func TestTradeLogEvictsOldestFirst(t *testing.T) {
	l := newTestLedger(t, Options{TradeLogCap: 5})
	tok := mustCreate(t, l, "alice")

	var ids []string
	for i := 0; i < 8; i++ {
		trade, ok := l.ExecuteTrade("alice", tok.ID, core.Buy, decimal.NewFromInt(10))
		require.True(t, ok)
		ids = append(ids, trade.ID)
	}

	trades := l.Trades()
	require.Len(t, trades, 5)
	// The seed trade and the three earliest buys fell off the front.
	for i, tr := range trades {
		assert.Equal(t, ids[3+i], tr.ID)
	}
}

func TestTokenCapIsShared(t *testing.T) {
	l := newTestLedger(t, Options{TokenCap: 3})
	for i := 0; i < 3; i++ {
		_, err := l.CreateToken("alice", core.TokenInfo{
			Name: "Tok", Ticker: fmt.Sprintf("TOK%d", i),
		})
		require.NoError(t, err)
	}
	_, err := l.CreateToken("bob", core.TokenInfo{Name: "Over", Ticker: "OVER"})
	assert.ErrorIs(t, err, ErrTokenCap)
	assert.Equal(t, 3, l.TokenCount())
}

func TestDuplicateTickerGetsSuffixed(t *testing.T) {
	l := newTestLedger(t, Options{})
	first := mustCreate(t, l, "alice")
	second := mustCreate(t, l, "bob")
	assert.Equal(t, "MOON", first.Ticker)
	assert.NotEqual(t, first.Ticker, second.Ticker)
}

func TestDuplicateTickerNeverSpinsForever(t *testing.T) {
	// 150 identical tickers overflow the two-digit suffix space; the uuid
	// fallback must still hand out unique tickers without looping.
	l := newTestLedger(t, Options{})

	seen := map[string]bool{}
	for i := 0; i < 150; i++ {
		tok, err := l.CreateToken("alice", core.TokenInfo{Name: "Dup", Ticker: "DUP"})
		require.NoError(t, err)
		assert.False(t, seen[tok.Ticker], "duplicate ticker %s", tok.Ticker)
		seen[tok.Ticker] = true
	}
}

func TestSnapshotCarriesHoldings(t *testing.T) {
	l := newTestLedger(t, Options{})
	tok := mustCreate(t, l, "alice")

	dc, err := l.Snapshot("alice")
	require.NoError(t, err)
	assert.Equal(t, "Claude", dc.AgentName)
	assert.Equal(t, core.Conservative, dc.Personality)
	require.Len(t, dc.Tokens, 1)
	assert.True(t, dc.Tokens[0].Holding.Equal(seedAllocation))
	assert.True(t, dc.Holdings[tok.ID].Equal(seedAllocation))

	_, err = l.Snapshot("nobody")
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestSellNeverLeavesNegativeState(t *testing.T) {
	l := newTestLedger(t, Options{})
	tok := mustCreate(t, l, "alice")

	// Sell the full allocation, then verify every invariant still holds.
	_, ok := l.ExecuteTrade("alice", tok.ID, core.Sell, seedAllocation)
	require.True(t, ok)

	after, _ := l.Token(tok.ID)
	alice, _ := l.Agent("alice")
	assert.False(t, after.Supply.IsNegative())
	assert.False(t, after.ReserveBalance.IsNegative())
	assert.False(t, alice.Balance.IsNegative())
	assert.False(t, alice.Holding(tok.ID).IsNegative())
}
