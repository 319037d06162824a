package chain

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/storage"
)

// Market adapts the contract client to the trading loop's market
// interface. Each registered agent maps to its own funded wallet.
// With a store attached, every confirmed transaction is mirrored into
// local persistence so leaderboards and cost basis survive restarts.
type Market struct {
	client *Client
	store  storage.Store

	mu      sync.RWMutex
	wallets map[string]*Wallet
	names   map[string]string
}

func NewMarket(client *Client) *Market {
	return &Market{
		client:  client,
		wallets: make(map[string]*Wallet),
		names:   make(map[string]string),
	}
}

// SetStore attaches the persistence collaborator. Nil leaves the market
// ephemeral.
func (m *Market) SetStore(s storage.Store) {
	m.store = s
}

// RegisterWallet binds an agent id to a signing wallet.
func (m *Market) RegisterWallet(agentID, name string, w *Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[agentID] = w
	m.names[agentID] = name
}

func (m *Market) agentName(agentID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.names[agentID]
}

func (m *Market) wallet(agentID string) (*Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wallets[agentID]
	if !ok {
		return nil, fmt.Errorf("no wallet for agent %s", agentID)
	}
	return w, nil
}

func (m *Market) Balance(ctx context.Context, agentID string) (decimal.Decimal, error) {
	w, err := m.wallet(agentID)
	if err != nil {
		return decimal.Zero, err
	}
	return m.client.NativeBalance(ctx, w.Address)
}

// Snapshot reads every token and the agent's positions off the chain. The
// contract has no price history, so PriceChange is reported as zero.
func (m *Market) Snapshot(ctx context.Context, agentID string) (core.DecisionContext, error) {
	w, err := m.wallet(agentID)
	if err != nil {
		return core.DecisionContext{}, err
	}

	balance, err := m.client.NativeBalance(ctx, w.Address)
	if err != nil {
		return core.DecisionContext{}, err
	}

	count, err := m.client.TokenCount(ctx)
	if err != nil {
		return core.DecisionContext{}, err
	}

	dc := core.DecisionContext{
		Balance:  balance,
		Holdings: make(map[string]decimal.Decimal),
	}
	for i := int64(0); i < count; i++ {
		state, err := m.client.GetToken(ctx, i)
		if err != nil {
			continue // token may not exist yet
		}
		id := strconv.FormatInt(i, 10)
		dc.Tokens = append(dc.Tokens, core.TokenSnapshot{
			ID:        id,
			Name:      state.Name,
			Ticker:    state.Symbol,
			Price:     state.Price,
			MarketCap: state.MarketCap,
			Supply:    state.Supply,
			Graduated: state.Graduated,
		})

		held, err := m.client.GetAgentBalance(ctx, i, w.Address)
		if err == nil && held.IsPositive() {
			dc.Holdings[id] = held
		}
	}
	return dc, nil
}

func (m *Market) CreateToken(ctx context.Context, agentID string, info core.TokenInfo) (core.Token, error) {
	w, err := m.wallet(agentID)
	if err != nil {
		return core.Token{}, err
	}

	metadata := info.Emoji
	if info.Description != "" {
		metadata += " " + info.Description
	}
	receipt, err := m.client.CreateToken(ctx, w, info.Name, info.Ticker, metadata)
	if err != nil {
		return core.Token{}, err
	}
	log.Printf("✅ created %s on-chain, tx %s", info.Name, receipt.TxHash)

	token := core.Token{
		Name:      info.Name,
		Ticker:    info.Ticker,
		Emoji:     info.Emoji,
		CreatorID: agentID,
		CreatedAt: time.Now(),
	}
	// The contract assigns the id; recover it from the TokenCreated log.
	for _, lg := range receipt.Logs {
		if len(lg.Topics) > 1 && lg.Topics[0] == m.client.abi.Events["TokenCreated"].ID {
			token.ID = strconv.FormatInt(topicInt64(lg.Topics[1]), 10)
		}
	}

	if m.store != nil {
		if err := m.store.SaveToken(token); err != nil {
			log.Printf("⚠️ persist token %s: %v", token.Name, err)
		}
	}
	return token, nil
}

// Trade executes a buy or sell on-chain. Failures are logged and reported
// as a no-op so the loop carries on, mirroring the in-memory market.
func (m *Market) Trade(ctx context.Context, agentID, tokenID string, side core.TradeSide, amount decimal.Decimal) (core.Trade, bool) {
	w, err := m.wallet(agentID)
	if err != nil {
		log.Printf("❌ trade: %v", err)
		return core.Trade{}, false
	}
	id, err := strconv.ParseInt(tokenID, 10, 64)
	if err != nil {
		log.Printf("❌ trade: bad token id %q", tokenID)
		return core.Trade{}, false
	}
	if !amount.IsPositive() {
		return core.Trade{}, false
	}

	var cost decimal.Decimal
	switch side {
	case core.Buy:
		value, err := m.client.GetBuyPrice(ctx, id, amount)
		if err != nil {
			log.Printf("❌ buy quote: %v", err)
			return core.Trade{}, false
		}
		if _, err := m.client.Buy(ctx, w, id, amount, value); err != nil {
			log.Printf("❌ buy: %v", err)
			return core.Trade{}, false
		}
		cost = weiToDecimal(value)

	case core.Sell:
		held, err := m.client.GetAgentBalance(ctx, id, w.Address)
		if err != nil {
			log.Printf("❌ holding lookup: %v", err)
			return core.Trade{}, false
		}
		if amount.GreaterThan(held) {
			amount = held
		}
		if !amount.IsPositive() {
			return core.Trade{}, false
		}
		ret, err := m.client.GetSellPrice(ctx, id, amount)
		if err != nil {
			log.Printf("❌ sell quote: %v", err)
			return core.Trade{}, false
		}
		if _, err := m.client.Sell(ctx, w, id, amount); err != nil {
			log.Printf("❌ sell: %v", err)
			return core.Trade{}, false
		}
		cost = weiToDecimal(ret)
	}

	trade := core.Trade{
		AgentID:   agentID,
		TokenID:   tokenID,
		Side:      side,
		Amount:    amount,
		Cost:      cost,
		Timestamp: time.Now(),
	}
	if amount.IsPositive() {
		trade.Price = cost.Div(amount)
	}
	m.persistTrade(trade)
	return trade, true
}

// persistTrade mirrors a confirmed trade into the store, carrying the
// average buy price forward so sells realize pnl against a cost basis.
func (m *Market) persistTrade(trade core.Trade) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveTrade(trade); err != nil {
		log.Printf("⚠️ persist trade: %v", err)
	}

	h, err := m.store.GetHolding(trade.TokenID, trade.AgentID)
	if err != nil {
		h = storage.Holding{TokenID: trade.TokenID, AgentID: trade.AgentID}
	}

	upd := storage.StatUpdate{Cost: trade.Cost}
	if trade.Side == core.Buy {
		upd.IsBuy = true
		h.Balance = h.Balance.Add(trade.Amount)
		h.TotalInvested = h.TotalInvested.Add(trade.Cost)
		if h.Balance.IsPositive() {
			h.AvgBuyPrice = h.TotalInvested.Div(h.Balance)
		}
	} else {
		costBasis := h.AvgBuyPrice.Mul(trade.Amount)
		upd.Pnl = trade.Cost.Sub(costBasis)
		h.Balance = h.Balance.Sub(trade.Amount)
		if h.Balance.IsNegative() {
			h.Balance = decimal.Zero
		}
		h.TotalInvested = h.TotalInvested.Sub(costBasis)
		if h.TotalInvested.IsNegative() {
			h.TotalInvested = decimal.Zero
		}
	}

	if err := m.store.SaveHolding(h); err != nil {
		log.Printf("⚠️ persist holding: %v", err)
	}
	if err := m.store.UpdateAgentStats(trade.AgentID, m.agentName(trade.AgentID), upd); err != nil {
		log.Printf("⚠️ persist stats: %v", err)
	}
}
