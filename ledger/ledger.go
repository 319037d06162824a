// Package ledger holds the authoritative in-memory market state: tokens,
// agents and the trade log. Every mutation is applied under one mutex so
// that createToken/executeTrade are all-or-nothing no matter how many
// generator or agent goroutines share the ledger.
package ledger

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/curve"
	"github.com/ayazwx/agent-pump/storage"
)

const (
	// DefaultTradeLogCap bounds the trade log; oldest entries are evicted
	// first once the cap is exceeded.
	DefaultTradeLogCap = 500
	// DefaultTokenCap is the shared cap on the number of tokens all
	// creation paths observe.
	DefaultTokenCap = 200
)

// Seed constants for token creation.
var (
	seedSupply     = decimal.NewFromInt(1000000)
	seedAllocation = decimal.NewFromInt(100000) // 10% of seed supply to the creator
	reserveScale   = decimal.NewFromFloat(0.5)
)

var (
	// ErrTokenCap is returned when the global token cap has been reached.
	ErrTokenCap = errors.New("ledger: token cap reached")
	// ErrUnknownAgent is returned for operations naming an unregistered agent.
	ErrUnknownAgent = errors.New("ledger: unknown agent")
	// ErrTickerExhausted is returned when no unique variant of a requested
	// ticker could be found.
	ErrTickerExhausted = errors.New("ledger: ticker space exhausted")
)

// EventSink receives a callback after every applied mutation. Implementations
// must not call back into the ledger from the callback.
type EventSink interface {
	TokenCreated(core.Token)
	TradeExecuted(core.Trade, core.Token)
	TokenGraduated(core.Token)
	AgentRegistered(core.Agent)
}

// Options tunes a new ledger. Zero values take the documented defaults;
// Events and Store are optional collaborators.
type Options struct {
	TradeLogCap int
	TokenCap    int
	Seed        int64
	Events      EventSink
	Store       storage.Store
}

// Ledger is the single shared mutable resource of the simulation.
type Ledger struct {
	mu      sync.Mutex
	tokens  map[string]*core.Token
	order   []string // token ids in creation order
	tickers map[string]bool
	agents  map[string]*core.Agent
	trades  []core.Trade
	rng     *rand.Rand

	tradeCap int
	tokenCap int
	events   EventSink
	store    storage.Store
}

// New creates an empty ledger.
func New(opts Options) *Ledger {
	if opts.TradeLogCap == 0 {
		opts.TradeLogCap = DefaultTradeLogCap
	}
	if opts.TokenCap == 0 {
		opts.TokenCap = DefaultTokenCap
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Ledger{
		tokens:   make(map[string]*core.Token),
		tickers:  make(map[string]bool),
		agents:   make(map[string]*core.Agent),
		rng:      rand.New(rand.NewSource(opts.Seed)),
		tradeCap: opts.TradeLogCap,
		tokenCap: opts.TokenCap,
		events:   opts.Events,
		store:    opts.Store,
	}
}

// AddAgent registers an agent with the market and returns it with its
// assigned id.
func (l *Ledger) AddAgent(a core.Agent) core.Agent {
	l.mu.Lock()
	defer l.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if existing, ok := l.agents[a.ID]; ok {
		return copyAgent(existing)
	}
	if a.Holdings == nil {
		a.Holdings = make(map[string]decimal.Decimal)
	}
	l.agents[a.ID] = &a

	if l.events != nil {
		l.events.AgentRegistered(copyAgent(&a))
	}
	return copyAgent(&a)
}

// CreateToken mints a new bonding-curve token. The creator receives a
// starter holding of 10% of the seed supply, recorded as a synthetic seed
// buy so the trade feed shows the launch.
func (l *Ledger) CreateToken(creatorID string, info core.TokenInfo) (core.Token, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	creator, ok := l.agents[creatorID]
	if !ok {
		return core.Token{}, ErrUnknownAgent
	}
	if len(l.tokens) >= l.tokenCap {
		return core.Token{}, ErrTokenCap
	}

	ticker, err := l.uniqueTicker(info.Ticker)
	if err != nil {
		return core.Token{}, err
	}

	now := time.Now()
	price := curve.BasePrice
	token := &core.Token{
		ID:             uuid.New().String(),
		Name:           info.Name,
		Ticker:         ticker,
		Emoji:          info.Emoji,
		Description:    info.Description,
		CreatorID:      creatorID,
		CreatedAt:      now,
		Supply:         seedSupply,
		ReserveBalance: seedSupply.Mul(curve.BasePrice).Mul(reserveScale),
		Price:          price,
		InitialPrice:   price,
		MarketCap:      curve.MarketCap(seedSupply, price),
		Volume:         decimal.Zero,
	}
	l.tokens[token.ID] = token
	l.tickers[ticker] = true
	l.order = append(l.order, token.ID)

	creator.Holdings[token.ID] = creator.Holding(token.ID).Add(seedAllocation)

	trade := core.Trade{
		ID:        uuid.New().String(),
		AgentID:   creatorID,
		TokenID:   token.ID,
		Side:      core.Buy,
		Amount:    seedAllocation,
		Price:     price,
		Cost:      seedAllocation.Mul(price),
		Timestamp: now,
		TxHash:    l.randomTxHash(),
	}
	l.appendTrade(trade)

	l.persistToken(*token)
	l.persistTrade(trade)
	l.persistHolding(token.ID, creator)

	if l.events != nil {
		l.events.TokenCreated(*token)
		l.events.TradeExecuted(trade, *token)
	}
	return *token, nil
}

// ExecuteTrade applies a buy or sell as one indivisible transition.
// Rejected trades (graduated token, unaffordable buy, nothing to sell)
// are silent no-ops: no state change, no trade record, ok=false.
func (l *Ledger) ExecuteTrade(agentID, tokenID string, side core.TradeSide, amount decimal.Decimal) (core.Trade, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	token, ok := l.tokens[tokenID]
	if !ok || token.Graduated || !amount.IsPositive() {
		return core.Trade{}, false
	}
	agent, ok := l.agents[agentID]
	if !ok {
		return core.Trade{}, false
	}

	switch side {
	case core.Buy:
		return l.applyBuy(agent, token, amount)
	case core.Sell:
		return l.applySell(agent, token, amount)
	default:
		return core.Trade{}, false
	}
}

func (l *Ledger) applyBuy(agent *core.Agent, token *core.Token, amount decimal.Decimal) (core.Trade, bool) {
	if token.Supply.IsZero() {
		return core.Trade{}, false
	}
	quote, err := curve.Buy(token.Supply, token.ReserveBalance, amount)
	if err != nil {
		return core.Trade{}, false
	}
	if quote.Cost.GreaterThan(agent.Balance) {
		return core.Trade{}, false // no partial fills
	}

	wasGoodBuy := token.PriceChange < 0

	token.Supply = token.Supply.Add(amount)
	token.ReserveBalance = token.ReserveBalance.Add(quote.Cost)
	token.Price = quote.NewPrice
	token.MarketCap = curve.MarketCap(token.Supply, token.Price)
	token.PriceChange = priceChange(token.Price, token.InitialPrice)
	token.Volume = token.Volume.Add(quote.Cost)

	graduatedNow := false
	if !token.Graduated && curve.IsGraduated(token.MarketCap) {
		token.Graduated = true
		graduatedNow = true
	}

	agent.Balance = agent.Balance.Sub(quote.Cost)
	agent.Holdings[token.ID] = agent.Holding(token.ID).Add(amount)
	agent.TotalTrades++

	// Crude scorekeeping: buying into a dip counts as a good entry.
	var pnlDelta decimal.Decimal
	if wasGoodBuy {
		pnlDelta = quote.Cost.Mul(decimal.NewFromFloat(0.05))
		agent.WinRate = clampRate(agent.WinRate + l.rng.Float64()*0.5)
	} else {
		pnlDelta = quote.Cost.Mul(decimal.NewFromFloat(0.02)).Neg()
		agent.WinRate = clampRate(agent.WinRate - l.rng.Float64()*0.3)
	}
	agent.RealizedPnl = agent.RealizedPnl.Add(pnlDelta)

	trade := core.Trade{
		ID:        uuid.New().String(),
		AgentID:   agent.ID,
		TokenID:   token.ID,
		Side:      core.Buy,
		Amount:    amount,
		Price:     quote.NewPrice,
		Cost:      quote.Cost,
		Timestamp: time.Now(),
		TxHash:    l.randomTxHash(),
	}
	l.appendTrade(trade)

	l.persistToken(*token)
	l.persistTrade(trade)
	l.persistHolding(token.ID, agent)
	l.persistStats(agent, storage.StatUpdate{IsBuy: true, Cost: quote.Cost})

	if l.events != nil {
		l.events.TradeExecuted(trade, *token)
		if graduatedNow {
			l.events.TokenGraduated(*token)
		}
	}
	return trade, true
}

func (l *Ledger) applySell(agent *core.Agent, token *core.Token, requested decimal.Decimal) (core.Trade, bool) {
	amount := requested
	if held := agent.Holding(token.ID); amount.GreaterThan(held) {
		amount = held
	}
	if !amount.IsPositive() {
		return core.Trade{}, false
	}

	quote, err := curve.Sell(token.Supply, token.ReserveBalance, amount)
	if err != nil {
		// Unreachable given the holdings clamp, guarded anyway.
		log.Printf("ledger: sell of %s on %s rejected: %v", amount, token.Ticker, err)
		return core.Trade{}, false
	}

	token.Supply = token.Supply.Sub(amount)
	token.ReserveBalance = token.ReserveBalance.Sub(quote.Revenue)
	if token.ReserveBalance.IsNegative() {
		token.ReserveBalance = decimal.Zero
	}
	token.Price = quote.NewPrice
	token.MarketCap = curve.MarketCap(token.Supply, token.Price)
	token.PriceChange = priceChange(token.Price, token.InitialPrice)
	token.Volume = token.Volume.Add(quote.Revenue)

	agent.Balance = agent.Balance.Add(quote.Revenue)
	agent.Holdings[token.ID] = agent.Holding(token.ID).Sub(amount)
	agent.TotalTrades++

	// Simplified cost basis, as the display layer only needs a trend.
	costBasis := amount.Mul(curve.BasePrice.Mul(decimal.NewFromFloat(1.5)))
	profit := quote.Revenue.Sub(costBasis)
	agent.RealizedPnl = agent.RealizedPnl.Add(profit)
	if profit.IsPositive() {
		agent.WinRate = clampRate(agent.WinRate + l.rng.Float64()*0.8)
	} else {
		agent.WinRate = clampRate(agent.WinRate - l.rng.Float64()*0.5)
	}

	trade := core.Trade{
		ID:        uuid.New().String(),
		AgentID:   agent.ID,
		TokenID:   token.ID,
		Side:      core.Sell,
		Amount:    amount,
		Price:     quote.NewPrice,
		Cost:      quote.Revenue,
		Timestamp: time.Now(),
		TxHash:    l.randomTxHash(),
	}
	l.appendTrade(trade)

	l.persistToken(*token)
	l.persistTrade(trade)
	l.persistHolding(token.ID, agent)
	l.persistStats(agent, storage.StatUpdate{Cost: quote.Revenue, Pnl: profit})

	if l.events != nil {
		l.events.TradeExecuted(trade, *token)
	}
	return trade, true
}

// uniqueTicker tries short numeric suffixes first, then uuid fragments,
// giving up after a fixed number of attempts so the mutex is never held in
// an unbounded loop.
func (l *Ledger) uniqueTicker(base string) (string, error) {
	ticker := base
	for attempt := 0; l.tickers[ticker]; attempt++ {
		switch {
		case attempt < 10:
			ticker = fmt.Sprintf("%s%d", base, l.rng.Intn(100))
		case attempt < 20:
			ticker = fmt.Sprintf("%s-%s", base, uuid.New().String()[:4])
		default:
			return "", ErrTickerExhausted
		}
	}
	return ticker, nil
}

func priceChange(price, initial decimal.Decimal) float64 {
	if initial.IsZero() {
		return 0
	}
	change, _ := price.Sub(initial).Div(initial).Mul(decimal.NewFromInt(100)).Float64()
	return change
}

func clampRate(r float64) float64 {
	if r < 1 {
		return 1
	}
	if r > 99 {
		return 99
	}
	return r
}

// appendTrade keeps the trade log in application order, evicting the
// oldest entries past the cap.
func (l *Ledger) appendTrade(t core.Trade) {
	l.trades = append(l.trades, t)
	if len(l.trades) > l.tradeCap {
		l.trades = l.trades[len(l.trades)-l.tradeCap:]
	}
}

func (l *Ledger) randomTxHash() string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 64)
	for i := range b {
		b[i] = hexDigits[l.rng.Intn(len(hexDigits))]
	}
	return "0x" + string(b)
}
