package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ayazwx/agent-pump/core"
)

// LLMConfig holds configuration for model-backed decisions.
type LLMConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// DefaultLLMConfig returns standard LLM configuration.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:       openai.GPT3Dot5Turbo,
		MaxTokens:   512,
		Temperature: 0.9,
	}
}

// chatClient is the slice of the OpenAI client the provider needs, kept
// small so tests can script completions.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI asks a chat model for the next move and parses the JSON reply.
type OpenAI struct {
	client    chatClient
	cfg       LLMConfig
	sentiment *Sentiment
}

// NewOpenAI builds a model-backed provider. An empty apiKey yields a
// provider whose calls always fail, which the fallback decorator absorbs.
func NewOpenAI(apiKey string, cfg LLMConfig) *OpenAI {
	var c chatClient
	if apiKey != "" {
		c = openai.NewClient(apiKey)
	}
	return &OpenAI{client: c, cfg: cfg, sentiment: NewSentiment()}
}

// decisionWire mirrors the JSON shape the prompt asks for. TokenID is
// declared any because models sometimes emit numeric ids.
type decisionWire struct {
	Action    string `json:"action"`
	TokenID   any    `json:"tokenId"`
	Amount    any    `json:"amount"`
	Name      string `json:"tokenName"`
	Symbol    string `json:"tokenSymbol"`
	Metadata  string `json:"tokenMetadata"`
	Reasoning string `json:"reasoning"`
}

func (o *OpenAI) Decide(ctx context.Context, dc core.DecisionContext) (core.Decision, error) {
	if o.client == nil {
		return core.Decision{}, fmt.Errorf("openai client not initialized")
	}

	prompt := buildPrompt(dc)
	if extra := o.sentiment.MarketContext(); extra != "" {
		prompt += "\n\nRecent market sentiment:\n" + extra
	}

	reply, err := o.Complete(ctx, "You are an autonomous trading agent on a meme token launchpad. Reply with a single JSON object and nothing else.", prompt)
	if err != nil {
		return core.Decision{}, err
	}
	return ParseDecision(reply)
}

// Complete sends one system+user exchange and returns the raw reply. Both
// the decision path and the market commentary use it.
func (o *OpenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	if o.client == nil {
		return "", fmt.Errorf("openai client not initialized")
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ParseDecision extracts the first JSON object from a model reply and maps
// it onto a decision. Replies wrapped in prose or markdown fences still
// parse as long as a balanced object is in there somewhere.
func ParseDecision(reply string) (core.Decision, error) {
	raw, ok := extractJSON(reply)
	if !ok {
		return core.Decision{}, fmt.Errorf("no JSON object in model reply")
	}

	var w decisionWire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return core.Decision{}, fmt.Errorf("decode decision: %w", err)
	}

	action := core.Action(strings.ToLower(strings.TrimSpace(w.Action)))
	if action == "" {
		return core.Decision{Action: core.ActionHold, Reasoning: "model gave no action"}, nil
	}

	d := core.Decision{
		Action:        action,
		TokenID:       stringify(w.TokenID),
		TokenName:     w.Name,
		TokenSymbol:   w.Symbol,
		TokenMetadata: w.Metadata,
		Reasoning:     w.Reasoning,
	}
	if amt, ok := toDecimal(w.Amount); ok {
		d.Amount = amt
	}
	return d, nil
}

func buildPrompt(dc core.DecisionContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s trader with %s in cash.\n\n", dc.AgentName, dc.Personality, dc.Balance.StringFixed(2))
	b.WriteString("Market:\n")
	if len(dc.Tokens) == 0 {
		b.WriteString("  (no tokens exist yet)\n")
	}
	for _, tok := range dc.Tokens {
		fmt.Fprintf(&b, "  %s %s (%s): price %s, market cap %s, 24h %+.1f%%",
			tok.Emoji, tok.Name, tok.Ticker, tok.Price.StringFixed(8), tok.MarketCap.StringFixed(2), tok.PriceChange)
		if hold, ok := dc.Holdings[tok.ID]; ok && hold.IsPositive() {
			fmt.Fprintf(&b, ", you hold %s (id %s)", hold.StringFixed(2), tok.ID)
		} else {
			fmt.Fprintf(&b, " (id %s)", tok.ID)
		}
		if tok.Graduated {
			b.WriteString(" [graduated]")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, `
Based on your %s personality:
- conservative: Prefer established tokens, small positions, avoid new launches
- aggressive: Take big positions, early entries, chase momentum
- whale: Large buys to move markets
- sniper: Quick in-and-out on new tokens
- random: Unpredictable behavior

Decide your next action. Respond in JSON format only:
{
  "action": "buy" | "sell" | "hold" | "create",
  "tokenId": "string" (for buy/sell),
  "amount": number (in tokens, e.g. 1000),
  "tokenName": "string" (for create),
  "tokenSymbol": "string" (for create),
  "tokenMetadata": "emoji + description" (for create),
  "reasoning": "brief explanation"
}

Never spend more than your cash balance.`, dc.Personality)
	return b.String()
}

// extractJSON returns the first balanced {...} in s, skipping braces inside
// JSON strings.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return decimal.NewFromFloat(t).String()
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
