package ai

import (
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"

	"github.com/ayazwx/agent-pump/core"
)

var tokenPrefixes = []string{
	"Pepe", "Moon", "Doge", "Shiba", "Rocket", "AI", "Degen", "Chad", "Based", "Giga",
	"Mega", "Ultra", "Super", "Hyper", "Turbo", "Quantum", "Cyber", "Crypto", "Meta", "Neural",
	"Alpha", "Beta", "Omega", "Delta", "Sigma", "Theta", "Gamma", "Lambda", "Zeta", "Phi",
	"Neon", "Flux", "Pulse", "Wave", "Storm", "Fire", "Ice", "Thunder", "Shadow", "Light",
	"Gold", "Silver", "Diamond", "Ruby", "Emerald", "Sapphire", "Pearl", "Onyx", "Jade", "Opal",
}

var tokenSuffixes = []string{
	"AI", "Bot", "DAO", "Fi", "X", "Coin", "Token", "Protocol", "Network", "Chain",
	"Swap", "Verse", "World", "Land", "Hub", "Lab", "Core", "Node", "Link", "Bridge",
	"Punk", "Ape", "Cat", "Dog", "Moon", "Star", "Sun", "King", "Lord", "God",
	"Pump", "Dump", "Gem", "Rocket", "Lambo", "Yacht", "Island", "Empire", "Army", "Gang",
}

var tokenEmojis = []string{
	"🚀", "🌙", "💎", "🔥", "⚡", "🐸", "🐕", "🦍", "🐋", "🦄",
	"👑", "💰", "🎰", "🎲", "🏆", "⭐", "🌟", "✨", "💫", "🔮",
	"🧠", "🤖", "👽", "🛸", "🌀", "💠", "🎯", "🎪", "🎨", "🎭",
	"🍕", "🍔", "🌮", "🍜", "☕", "🍺", "🍷", "🥂", "🎂", "🍪",
	"⚔️", "🗡️", "🛡️", "🏴‍☠️", "🥷", "🧙", "🧝", "🐲", "🦅", "🦈",
}

var tokenDescriptions = []string{
	"The most degen play on Monad",
	"To the moon and beyond 🚀",
	"Diamond hands only",
	"First AI-governed meme token",
	"Built different, trades smarter",
	"Neural network meets DeFi",
	"For the culture",
	"Ape in or stay poor",
	"The singularity is here",
	"Generational wealth incoming",
	"NFA but probably financial advice",
	"Literally cannot go tits up",
	"Backed by pure hopium",
	"100x or rekt, no in between",
	"The prophecy foretold this",
	"Trust the process",
	"WAGMI or NGMI",
	"Not your average shitcoin",
	"Monad speed, meme vibes",
	"AI agents ONLY",
}

var tokenCounter atomic.Uint64

// RandomTokenInfo assembles a token name, ticker, emoji and description from
// the meme pools. The counter keeps tickers unique across concurrent
// creators even when the same prefix/suffix pair comes up twice.
func RandomTokenInfo(rng *rand.Rand) core.TokenInfo {
	prefix := tokenPrefixes[rng.Intn(len(tokenPrefixes))]
	suffix := tokenSuffixes[rng.Intn(len(tokenSuffixes))]
	n := tokenCounter.Add(1)

	return core.TokenInfo{
		Name:        prefix + suffix,
		Ticker:      fmt.Sprintf("%s%s%d", shortUpper(prefix), shortUpper(suffix), n),
		Emoji:       tokenEmojis[rng.Intn(len(tokenEmojis))],
		Description: tokenDescriptions[rng.Intn(len(tokenDescriptions))],
	}
}

func shortUpper(s string) string {
	if len(s) > 3 {
		s = s[:3]
	}
	return strings.ToUpper(s)
}
