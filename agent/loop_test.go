package agent

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazwx/agent-pump/ai"
	"github.com/ayazwx/agent-pump/core"
)

type stubMarket struct {
	mu       sync.Mutex
	balance  decimal.Decimal
	snapshot core.DecisionContext

	created []core.TokenInfo
	trades  []core.Trade
	decides int
}

func (m *stubMarket) Balance(context.Context, string) (decimal.Decimal, error) {
	return m.balance, nil
}

func (m *stubMarket) Snapshot(context.Context, string) (core.DecisionContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decides++
	return m.snapshot, nil
}

func (m *stubMarket) CreateToken(_ context.Context, agentID string, info core.TokenInfo) (core.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, info)
	return core.Token{ID: "tok-new", Name: info.Name, Ticker: info.Ticker, CreatorID: agentID}, nil
}

func (m *stubMarket) Trade(_ context.Context, agentID, tokenID string, side core.TradeSide, amount decimal.Decimal) (core.Trade, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr := core.Trade{AgentID: agentID, TokenID: tokenID, Side: side, Amount: amount}
	m.trades = append(m.trades, tr)
	return tr, true
}

type scripted struct{ d core.Decision }

func (s scripted) Decide(context.Context, core.DecisionContext) (core.Decision, error) {
	return s.d, nil
}

func newTestLoop(m Market, p ai.Provider) *Loop {
	a := core.Agent{ID: "agent-1", Name: "Claude", Personality: core.Conservative}
	l := NewLoop(a, m, p)
	l.Interval = time.Millisecond
	l.Jitter = 0
	return l
}

func TestTickExecutesBuy(t *testing.T) {
	m := &stubMarket{balance: decimal.NewFromInt(1000)}
	p := scripted{d: core.Decision{Action: core.ActionBuy, TokenID: "tok-1", Amount: decimal.NewFromInt(50)}}

	require.NoError(t, newTestLoop(m, p).Tick(context.Background()))

	require.Len(t, m.trades, 1)
	assert.Equal(t, core.Buy, m.trades[0].Side)
	assert.Equal(t, "tok-1", m.trades[0].TokenID)
	assert.True(t, m.trades[0].Amount.Equal(decimal.NewFromInt(50)))
}

func TestTickSkipsOnLowBalance(t *testing.T) {
	m := &stubMarket{balance: decimal.NewFromFloat(0.001)}
	p := scripted{d: core.Decision{Action: core.ActionBuy, TokenID: "tok-1", Amount: decimal.NewFromInt(50)}}

	require.NoError(t, newTestLoop(m, p).Tick(context.Background()))

	assert.Zero(t, m.decides, "snapshot should not be taken on a skipped tick")
	assert.Empty(t, m.trades)
}

func TestTickTreatsInvalidDecisionAsHold(t *testing.T) {
	m := &stubMarket{balance: decimal.NewFromInt(1000)}
	p := scripted{d: core.Decision{Action: core.ActionBuy}} // no token, no amount

	require.NoError(t, newTestLoop(m, p).Tick(context.Background()))
	assert.Empty(t, m.trades)
	assert.Empty(t, m.created)
}

func TestTickCreatesTokenFromDecision(t *testing.T) {
	m := &stubMarket{balance: decimal.NewFromInt(1000)}
	p := scripted{d: core.Decision{
		Action:        core.ActionCreate,
		TokenName:     "PepeAI",
		TokenSymbol:   "pepai1",
		TokenMetadata: `{"emoji":"🐸","description":"the frog awakens"}`,
	}}

	require.NoError(t, newTestLoop(m, p).Tick(context.Background()))

	require.Len(t, m.created, 1)
	assert.Equal(t, "PepeAI", m.created[0].Name)
	assert.Equal(t, "PEPAI1", m.created[0].Ticker)
	assert.Equal(t, "🐸", m.created[0].Emoji)
	assert.Equal(t, "the frog awakens", m.created[0].Description)
}

func TestTokenInfoFromFreeTextMetadata(t *testing.T) {
	info := tokenInfoFromDecision(core.Decision{
		Action:        core.ActionCreate,
		TokenName:     "MoonDAO",
		TokenSymbol:   "MOODAO",
		TokenMetadata: "🌙 to the moon and beyond",
	})
	assert.Equal(t, "🌙", info.Emoji)
	assert.Equal(t, "to the moon and beyond", info.Description)

	plain := tokenInfoFromDecision(core.Decision{
		Action:        core.ActionCreate,
		TokenName:     "AlgoBot",
		TokenSymbol:   "ALGBOT",
		TokenMetadata: "pure alpha",
	})
	assert.Equal(t, "🚀", plain.Emoji)
	assert.Equal(t, "pure alpha", plain.Description)
}

func TestFleetStopsAllLoops(t *testing.T) {
	m := &stubMarket{balance: decimal.NewFromInt(1000)}
	p := scripted{d: core.Decision{Action: core.ActionHold}}

	fleet := NewFleet(newTestLoop(m, p), newTestLoop(m, p))
	fleet.Stagger = 0

	fleet.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	fleet.Stop()

	m.mu.Lock()
	ticked := m.decides
	m.mu.Unlock()
	assert.Greater(t, ticked, 0, "loops should have ticked before stop")

	time.Sleep(10 * time.Millisecond)
	m.mu.Lock()
	after := m.decides
	m.mu.Unlock()
	assert.Equal(t, ticked, after, "no ticks after stop")
}
