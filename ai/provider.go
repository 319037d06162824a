// Package ai produces trade decisions for agents. A decision provider is a
// pluggable strategy: the model-backed variant asks an LLM, the heuristic
// variant is a pure function of personality and market snapshot. The
// fallback decorator keeps provider failures away from the agent loop.
package ai

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ayazwx/agent-pump/core"
)

// Provider turns a market snapshot into a trade decision. Implementations
// are stateless across calls.
type Provider interface {
	Decide(ctx context.Context, dc core.DecisionContext) (core.Decision, error)
}

// DefaultDecideTimeout bounds every model-backed decision call.
const DefaultDecideTimeout = 20 * time.Second

// Fallback decorates a primary provider with a heuristic safety net: any
// error from the primary (network, timeout, unparseable reply) is converted
// into a heuristic decision instead of surfacing to the caller.
type Fallback struct {
	Primary Provider
	Backup  Provider
	Timeout time.Duration
}

// NewFallback wraps primary with the given backup. A nil backup gets a
// fresh heuristic provider.
func NewFallback(primary, backup Provider) *Fallback {
	if backup == nil {
		backup = NewHeuristic(time.Now().UnixNano())
	}
	return &Fallback{Primary: primary, Backup: backup, Timeout: DefaultDecideTimeout}
}

// Decide never returns an error: the backup heuristic always answers.
func (f *Fallback) Decide(ctx context.Context, dc core.DecisionContext) (core.Decision, error) {
	cctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	d, err := f.Primary.Decide(cctx, dc)
	if err == nil {
		return d, nil
	}
	log.Printf("⚠️ %s: provider failed (%v), using heuristic", dc.AgentName, err)

	d, berr := f.Backup.Decide(ctx, dc)
	if berr != nil {
		return core.Decision{Action: core.ActionHold, Reasoning: "provider and fallback both failed"}, nil
	}
	d.Reasoning = fmt.Sprintf("fallback after provider error: %s", d.Reasoning)
	return d, nil
}
