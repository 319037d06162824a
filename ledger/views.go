package ledger

import (
	"log"

	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/storage"
)

// Tokens returns every token, newest first.
func (l *Ledger) Tokens() []core.Token {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]core.Token, 0, len(l.order))
	for i := len(l.order) - 1; i >= 0; i-- {
		out = append(out, *l.tokens[l.order[i]])
	}
	return out
}

// Token returns one token by id.
func (l *Ledger) Token(id string) (core.Token, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.tokens[id]
	if !ok {
		return core.Token{}, false
	}
	return *t, true
}

// TokenCount reports how many tokens exist.
func (l *Ledger) TokenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tokens)
}

// Agents returns a copy of every registered agent.
func (l *Ledger) Agents() []core.Agent {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]core.Agent, 0, len(l.agents))
	for _, a := range l.agents {
		out = append(out, copyAgent(a))
	}
	return out
}

// Agent returns one agent by id.
func (l *Ledger) Agent(id string) (core.Agent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.agents[id]
	if !ok {
		return core.Agent{}, false
	}
	return copyAgent(a), true
}

// Trades returns the bounded trade log in application order.
func (l *Ledger) Trades() []core.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Snapshot assembles the decision context one agent senses from the ledger.
func (l *Ledger) Snapshot(agentID string) (core.DecisionContext, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	agent, ok := l.agents[agentID]
	if !ok {
		return core.DecisionContext{}, ErrUnknownAgent
	}

	dc := core.DecisionContext{
		AgentName:   agent.Name,
		Personality: agent.Personality,
		Balance:     agent.Balance,
		Holdings:    make(map[string]decimal.Decimal, len(agent.Holdings)),
	}
	for id, amount := range agent.Holdings {
		dc.Holdings[id] = amount
	}
	for _, id := range l.order {
		t := l.tokens[id]
		dc.Tokens = append(dc.Tokens, t.Snapshot(agent.Holding(id)))
	}
	return dc, nil
}

func copyAgent(a *core.Agent) core.Agent {
	cp := *a
	cp.Holdings = make(map[string]decimal.Decimal, len(a.Holdings))
	for id, amount := range a.Holdings {
		cp.Holdings[id] = amount
	}
	return cp
}

// Persistence hooks. Store failures are logged, never surfaced: the ledger
// stays authoritative and the collaborator catches up on the next write.

func (l *Ledger) persistToken(t core.Token) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveToken(t); err != nil {
		log.Printf("ledger: persist token %s: %v", t.Ticker, err)
	}
}

func (l *Ledger) persistTrade(t core.Trade) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveTrade(t); err != nil {
		log.Printf("ledger: persist trade %s: %v", t.ID, err)
	}
}

func (l *Ledger) persistHolding(tokenID string, agent *core.Agent) {
	if l.store == nil {
		return
	}
	h := storage.Holding{
		TokenID: tokenID,
		AgentID: agent.ID,
		Balance: agent.Holding(tokenID),
	}
	if err := l.store.SaveHolding(h); err != nil {
		log.Printf("ledger: persist holding %s/%s: %v", tokenID, agent.ID, err)
	}
}

func (l *Ledger) persistStats(agent *core.Agent, upd storage.StatUpdate) {
	if l.store == nil {
		return
	}
	if err := l.store.UpdateAgentStats(agent.ID, agent.Name, upd); err != nil {
		log.Printf("ledger: persist stats for %s: %v", agent.Name, err)
	}
}
