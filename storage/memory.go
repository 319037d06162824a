package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/core"
)

// MemoryStore is the in-memory Store used by simulation mode and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	tokens   map[string]core.Token
	trades   []core.Trade
	holdings map[string]Holding // keyed by tokenID+"/"+agentID
	stats    map[string]AgentStats
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens:   make(map[string]core.Token),
		holdings: make(map[string]Holding),
		stats:    make(map[string]AgentStats),
	}
}

func holdingKey(tokenID, agentID string) string { return tokenID + "/" + agentID }

func (s *MemoryStore) SaveToken(t core.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.ID] = t
	return nil
}

func (s *MemoryStore) SaveTrade(tr core.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, tr)
	return nil
}

func (s *MemoryStore) SaveHolding(h Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings[holdingKey(h.TokenID, h.AgentID)] = h
	return nil
}

func (s *MemoryStore) GetHolding(tokenID, agentID string) (Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holdings[holdingKey(tokenID, agentID)]
	if !ok {
		return Holding{}, ErrNotFound
	}
	return h, nil
}

func (s *MemoryStore) UpdateAgentStats(agentID, name string, upd StatUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[agentID]
	if !ok {
		st = AgentStats{AgentID: agentID, Name: name, TotalVolume: decimal.Zero, RealizedPnl: decimal.Zero}
	}
	st.TotalTrades++
	st.TotalVolume = st.TotalVolume.Add(upd.Cost)
	st.RealizedPnl = st.RealizedPnl.Add(upd.Pnl)
	st.LastActive = time.Now().UnixMilli()
	s.stats[agentID] = st
	return nil
}

func (s *MemoryStore) Leaderboard(limit int) ([]AgentStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AgentStats, 0, len(s.stats))
	for _, st := range s.stats {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RealizedPnl.GreaterThan(out[j].RealizedPnl)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// TradeCount reports how many trades have been persisted. Test helper.
func (s *MemoryStore) TradeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trades)
}
