// Package registry holds the built-in agent roster. Every simulation run
// starts from these personalities; live runs pick a subset and attach
// wallets and AI providers to them.
package registry

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/core"
)

type entry struct {
	name        string
	avatar      string
	personality core.Personality
}

var roster = []entry{
	{"Claude", "🧠", core.Conservative},
	{"GPT-4", "🤖", core.Aggressive},
	{"Gemini", "💎", core.Whale},
	{"Llama", "🦙", core.Random},
	{"Mistral", "🌪️", core.Sniper},
	{"DeepSeek", "🔍", core.Aggressive},
	{"Qwen", "🐉", core.Conservative},
	{"Grok", "👽", core.Random},
	{"Falcon", "🦅", core.Sniper},
	{"Vicuna", "🦙", core.Whale},
	{"SatoshiBot", "₿", core.Whale},
	{"VitalikAI", "💠", core.Conservative},
	{"DeFiDegen", "🎰", core.Aggressive},
	{"YieldFarmer", "🌾", core.Sniper},
	{"GasOptimizer", "⛽", core.Conservative},
	{"MEVBot", "🏃", core.Sniper},
	{"FlashLoan", "⚡", core.Aggressive},
	{"LiquidityKing", "👑", core.Whale},
	{"ApeTrader", "🦍", core.Random},
	{"DiamondHands", "💎", core.Conservative},
	{"PepeWhale", "🐸", core.Whale},
	{"DogeArmy", "🐕", core.Aggressive},
	{"ShibaSniper", "🐕‍🦺", core.Sniper},
	{"MoonBoy", "🌙", core.Random},
	{"RocketMan", "🚀", core.Aggressive},
	{"BullRunner", "🐂", core.Aggressive},
	{"BearHunter", "🐻", core.Sniper},
	{"CrabMaster", "🦀", core.Conservative},
	{"WhaleAlert", "🐋", core.Whale},
	{"PumpHunter", "💪", core.Sniper},
	{"NeuralNet", "🧬", core.Conservative},
	{"QuantumAI", "⚛️", core.Random},
	{"ByteTrader", "💾", core.Sniper},
	{"AlgoBot", "📊", core.Conservative},
	{"DataMiner", "⛏️", core.Aggressive},
	{"CloudAI", "☁️", core.Random},
	{"CyberPunk", "🤖", core.Aggressive},
	{"MatrixAgent", "🔮", core.Sniper},
	{"CodeBreaker", "🔐", core.Conservative},
	{"HackBot", "💻", core.Aggressive},
	{"AlphaWolf", "🐺", core.Aggressive},
	{"SilentOwl", "🦉", core.Sniper},
	{"WiseElephant", "🐘", core.Whale},
	{"LazySloth", "🦥", core.Conservative},
	{"OceanShark", "🦈", core.Whale},
	{"WallStreet", "📈", core.Aggressive},
	{"HedgeFund", "🏦", core.Whale},
	{"SwingKing", "👔", core.Conservative},
	{"RiskTaker", "🎲", core.Random},
	{"NinjaTrader", "🥷", core.Sniper},
}

var colors = []string{
	"#D97706", "#10B981", "#3B82F6", "#8B5CF6", "#EC4899",
	"#14B8A6", "#F59E0B", "#EF4444", "#6366F1", "#84CC16",
	"#F97316", "#06B6D4", "#A855F7", "#22C55E", "#FB923C",
}

// Size is the number of built-in agents.
func Size() int { return len(roster) }

// Builtin materializes the full roster with fresh ids, randomized starting
// balances between 10k and 100k and a randomized track record so the
// leaderboard has texture from the first tick.
func Builtin(rng *rand.Rand) []core.Agent {
	agents := make([]core.Agent, 0, len(roster))
	for i, e := range roster {
		agents = append(agents, core.Agent{
			ID:          uuid.New().String(),
			Name:        e.name,
			Avatar:      e.avatar,
			Color:       colors[i%len(colors)],
			Personality: e.personality,
			Balance:     decimal.NewFromFloat(10000 + rng.Float64()*90000),
			WinRate:     30 + rng.Float64()*60,
			RealizedPnl: decimal.NewFromFloat((rng.Float64() - 0.5) * 10000),
			TotalTrades: rng.Intn(500),
			Holdings:    make(map[string]decimal.Decimal),
		})
	}
	return agents
}

// ByPersonality returns the roster entries matching p, useful for wiring
// dedicated whale or sniper behaviors.
func ByPersonality(agents []core.Agent, p core.Personality) []core.Agent {
	var out []core.Agent
	for _, a := range agents {
		if a.Personality == p {
			out = append(out, a)
		}
	}
	return out
}
