// Package sim drives the autonomous market: parallel generator goroutines
// fire trades, launches and coordinated pump/dump bursts against the ledger
// until the scheduler is stopped.
package sim

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/ai"
	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/ledger"
)

// InitialBurstTokens is how many tokens are launched right after start so
// the market is never empty.
const InitialBurstTokens = 10

// Scheduler owns the generator goroutines. Start and Stop are safe to call
// from HTTP handlers.
type Scheduler struct {
	ledger *ledger.Ledger
	seed   int64

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(l *ledger.Ledger, seed int64) *Scheduler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Scheduler{ledger: l, seed: seed}
}

// Running reports whether generators are live.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Start launches every generator. A running scheduler is left alone.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	log.Println("▶️ simulation started")

	gens := []func(context.Context, *rand.Rand){
		s.initialBurst,
		s.fastTrades,
		s.mediumTrades,
		s.sellPressure,
		s.whaleTrades,
		s.creator(1*time.Second, 2*time.Second),
		s.creator(2*time.Second, 4*time.Second),
		s.creator(5*time.Second, 10*time.Second),
		s.pumpDump,
		s.megaPump,
		s.dumpEvent,
	}
	for i, gen := range gens {
		rng := rand.New(rand.NewSource(s.seed + int64(i)))
		s.wg.Add(1)
		go func(gen func(context.Context, *rand.Rand), rng *rand.Rand) {
			defer s.wg.Done()
			gen(ctx, rng)
		}(gen, rng)
	}
}

// Stop cancels every generator and waits for in-flight bursts to drain. No
// trade lands after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	log.Println("⏸️ simulation stopped")
}

// initialBurst launches tokens back to back so charts have something to
// show immediately.
func (s *Scheduler) initialBurst(ctx context.Context, rng *rand.Rand) {
	for i := 0; i < InitialBurstTokens; i++ {
		if !sleep(ctx, 200*time.Millisecond) {
			return
		}
		agent, ok := s.randomAgent(rng)
		if !ok {
			return
		}
		if _, err := s.ledger.CreateToken(agent.ID, ai.RandomTokenInfo(rng)); err != nil {
			return
		}
	}
}

// fastTrades fires bursts of three trade attempts on a short cadence.
func (s *Scheduler) fastTrades(ctx context.Context, rng *rand.Rand) {
	s.every(ctx, rng, 150*time.Millisecond, 300*time.Millisecond, func() {
		for i := 0; i < 3; i++ {
			s.randomTrade(rng, 1)
		}
	})
}

func (s *Scheduler) mediumTrades(ctx context.Context, rng *rand.Rand) {
	s.every(ctx, rng, 300*time.Millisecond, 600*time.Millisecond, func() {
		for i := 0; i < 2; i++ {
			s.randomTrade(rng, 1)
		}
	})
}

// sellPressure makes holders take profit so prices breathe both ways.
func (s *Scheduler) sellPressure(ctx context.Context, rng *rand.Rand) {
	s.every(ctx, rng, 200*time.Millisecond, 500*time.Millisecond, func() {
		agent, tokenID, ok := s.randomHolder(rng)
		if !ok {
			return
		}
		tok, ok := s.ledger.Token(tokenID)
		if !ok || tok.Graduated {
			return
		}
		frac := decimal.NewFromFloat(0.1 + rng.Float64()*0.4)
		s.ledger.ExecuteTrade(agent.ID, tokenID, core.Sell, agent.Holdings[tokenID].Mul(frac))
	})
}

// whaleTrades lets whale personalities move markets with doubled size.
func (s *Scheduler) whaleTrades(ctx context.Context, rng *rand.Rand) {
	s.every(ctx, rng, 1*time.Second, 2*time.Second, func() {
		whales := s.agentsByPersonality(core.Whale)
		if len(whales) == 0 {
			return
		}
		whale := whales[rng.Intn(len(whales))]
		tok, ok := s.randomToken(rng)
		if !ok || tok.Graduated {
			return
		}
		v := ai.ShouldTrade(whale.Personality, tok.Price, tok.PriceChange, rng)
		if !v.Should {
			return
		}
		amount := ai.TradeAmount(whale.Personality, whale.Balance, rng).Mul(decimal.NewFromInt(2))
		s.ledger.ExecuteTrade(whale.ID, tok.ID, v.Side, amount)
	})
}

// creator returns a token launch generator on the given cadence. The ledger
// enforces the shared token cap.
func (s *Scheduler) creator(min, max time.Duration) func(context.Context, *rand.Rand) {
	return func(ctx context.Context, rng *rand.Rand) {
		s.every(ctx, rng, min, max, func() {
			agent, ok := s.randomAgent(rng)
			if !ok {
				return
			}
			s.ledger.CreateToken(agent.ID, ai.RandomTokenInfo(rng))
		})
	}
}

// pumpDump runs coordinated manipulation bursts, 65% pumps.
func (s *Scheduler) pumpDump(ctx context.Context, rng *rand.Rand) {
	s.every(ctx, rng, 2*time.Second, 5*time.Second, func() {
		tok, ok := s.randomToken(rng)
		if !ok || tok.Graduated {
			return
		}
		side := core.Buy
		if rng.Float64() <= 0.35 {
			side = core.Sell
		}
		n := 5 + rng.Intn(11)
		s.burst(ctx, rng, tok.ID, side, n, 30*time.Millisecond, 2, 3)
	})
}

// megaPump piles 20-30 rapid buys onto a low market cap token.
func (s *Scheduler) megaPump(ctx context.Context, rng *rand.Rand) {
	s.every(ctx, rng, 8*time.Second, 15*time.Second, func() {
		tokens := s.ledger.Tokens()
		if len(tokens) == 0 {
			return
		}
		sort.Slice(tokens, func(i, j int) bool {
			return tokens[i].MarketCap.LessThan(tokens[j].MarketCap)
		})
		pool := len(tokens)
		if pool > 10 {
			pool = 10
		}
		tok := tokens[rng.Intn(pool)]
		if tok.Graduated {
			return
		}
		n := 20 + rng.Intn(11)
		s.burst(ctx, rng, tok.ID, core.Buy, n, 20*time.Millisecond, 3, 5)
	})
}

// dumpEvent sells off a token that already pumped more than 50%.
func (s *Scheduler) dumpEvent(ctx context.Context, rng *rand.Rand) {
	s.every(ctx, rng, 12*time.Second, 20*time.Second, func() {
		var pumped []core.Token
		for _, tok := range s.ledger.Tokens() {
			if tok.PriceChange > 50 && !tok.Graduated {
				pumped = append(pumped, tok)
			}
		}
		if len(pumped) == 0 {
			return
		}
		tok := pumped[rng.Intn(len(pumped))]
		n := 10 + rng.Intn(11)
		s.burst(ctx, rng, tok.ID, core.Sell, n, 25*time.Millisecond, 2, 3)
	})
}

// burst staggers n scaled trades on one token, checking ctx between steps
// so Stop cuts a burst short.
func (s *Scheduler) burst(ctx context.Context, rng *rand.Rand, tokenID string, side core.TradeSide, n int, gap time.Duration, multBase, multSpan float64) {
	for i := 0; i < n; i++ {
		if i > 0 && !sleep(ctx, gap) {
			return
		}
		agent, ok := s.randomAgent(rng)
		if !ok {
			return
		}
		mult := decimal.NewFromFloat(multBase + rng.Float64()*multSpan)
		amount := ai.TradeAmount(agent.Personality, agent.Balance, rng).Mul(mult)
		s.ledger.ExecuteTrade(agent.ID, tokenID, side, amount)
	}
}

// every runs fn on a jittered cadence until ctx is done.
func (s *Scheduler) every(ctx context.Context, rng *rand.Rand, min, max time.Duration, fn func()) {
	for {
		d := min + time.Duration(rng.Int63n(int64(max-min)))
		if !sleep(ctx, d) {
			return
		}
		fn()
	}
}

// randomTrade lets a random agent consider a random token, mult scales the
// resulting size.
func (s *Scheduler) randomTrade(rng *rand.Rand, mult float64) {
	agent, ok := s.randomAgent(rng)
	if !ok {
		return
	}
	tok, ok := s.randomToken(rng)
	if !ok || tok.Graduated {
		return
	}
	v := ai.ShouldTrade(agent.Personality, tok.Price, tok.PriceChange, rng)
	if !v.Should {
		return
	}
	amount := ai.TradeAmount(agent.Personality, agent.Balance, rng)
	if mult != 1 {
		amount = amount.Mul(decimal.NewFromFloat(mult))
	}
	s.ledger.ExecuteTrade(agent.ID, tok.ID, v.Side, amount)
}

func (s *Scheduler) randomAgent(rng *rand.Rand) (core.Agent, bool) {
	agents := s.ledger.Agents()
	if len(agents) == 0 {
		return core.Agent{}, false
	}
	return agents[rng.Intn(len(agents))], true
}

func (s *Scheduler) randomToken(rng *rand.Rand) (core.Token, bool) {
	tokens := s.ledger.Tokens()
	if len(tokens) == 0 {
		return core.Token{}, false
	}
	return tokens[rng.Intn(len(tokens))], true
}

func (s *Scheduler) randomHolder(rng *rand.Rand) (core.Agent, string, bool) {
	agents := s.ledger.Agents()
	rng.Shuffle(len(agents), func(i, j int) { agents[i], agents[j] = agents[j], agents[i] })

	for _, a := range agents {
		var owned []string
		for id, bal := range a.Holdings {
			if bal.IsPositive() {
				owned = append(owned, id)
			}
		}
		if len(owned) > 0 {
			return a, owned[rng.Intn(len(owned))], true
		}
	}
	return core.Agent{}, "", false
}

func (s *Scheduler) agentsByPersonality(p core.Personality) []core.Agent {
	var out []core.Agent
	for _, a := range s.ledger.Agents() {
		if a.Personality == p {
			out = append(out, a)
		}
	}
	return out
}

// sleep waits for d or cancellation, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
