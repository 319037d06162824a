package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ayazwx/agent-pump/agent"
	"github.com/ayazwx/agent-pump/ai"
	"github.com/ayazwx/agent-pump/chain"
	"github.com/ayazwx/agent-pump/config"
	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/storage"
)

// liveRoster maps agent names to the env var holding their wallet key.
// Agents without a key are skipped with a warning.
var liveRoster = []struct {
	name        string
	personality core.Personality
	keyEnv      string
}{
	{"Claude", core.Conservative, "AGENT_CLAUDE_KEY"},
	{"Gemini", core.Aggressive, "AGENT_GEMINI_KEY"},
	{"Llama", core.Whale, "AGENT_LLAMA_KEY"},
}

var liveInterval time.Duration

// LiveCmd trades against the deployed contract with real wallets.
var LiveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run agents against the on-chain AgentPump contract",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if liveInterval > 0 {
			cfg.TickInterval = liveInterval
		}
		if cfg.ContractAddress == "" {
			fmt.Println("Error: CONTRACT_ADDRESS not set")
			os.Exit(1)
		}

		client, err := chain.Dial(cfg.RPCURL, cfg.ContractAddress, cfg.ChainID)
		if err != nil {
			log.Fatalf("connect chain: %v", err)
		}
		defer client.Close()
		log.Printf("📄 Contract: %s", cfg.ContractAddress)
		log.Printf("🌐 RPC: %s", cfg.RPCURL)

		market := chain.NewMarket(client)

		store, err := storage.NewSQLite(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer store.Close()
		market.SetStore(store)
		log.Printf("💾 Database: %s", cfg.DatabasePath)

		fleet := agent.NewFleet()

		launched := 0
		for _, entry := range liveRoster {
			key := os.Getenv(entry.keyEnv)
			if key == "" {
				log.Printf("⚠️ Skipping %s: %s not set", entry.name, entry.keyEnv)
				continue
			}
			wallet, err := chain.NewWallet(strings.TrimPrefix(key, "0x"))
			if err != nil {
				log.Printf("⚠️ Skipping %s: %v", entry.name, err)
				continue
			}

			a := core.Agent{
				ID:          uuid.New().String(),
				Name:        entry.name,
				Personality: entry.personality,
			}
			market.RegisterWallet(a.ID, a.Name, wallet)

			provider := ai.NewFallback(ai.NewOpenAI(cfg.OpenAIKey, ai.DefaultLLMConfig()), nil)
			loop := agent.NewLoop(a, market, provider)
			loop.Interval = cfg.TickInterval
			fleet.Add(loop)
			launched++
			log.Printf("🤖 %s ready (%s), wallet %s", entry.name, entry.personality, wallet.Address)
		}

		if launched == 0 {
			fmt.Println("Error: no agents have wallet keys configured")
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Tail the contract's own logs so on-chain activity from other
		// participants shows up alongside our agents' trades.
		err = client.WatchEvents(ctx, chain.EventHandlers{
			TokenCreated: func(ev chain.TokenCreatedEvent) {
				log.Printf("🪙 Token #%d created: %s (%s) by %s", ev.TokenID, ev.Name, ev.Symbol, ev.Creator)
			},
			Trade: func(ev chain.TradeEvent) {
				side := "SELL"
				if ev.IsBuy {
					side = "BUY"
				}
				log.Printf("📊 %s %s of token #%d by %s for %s", side, ev.Amount, ev.TokenID, ev.Agent, ev.Cost)
			},
			TokenGraduated: func(ev chain.TokenGraduatedEvent) {
				log.Printf("🎓 Token #%d graduated at MC %s", ev.TokenID, ev.FinalMC)
			},
		})
		if err != nil {
			log.Printf("⚠️ Event feed unavailable (need a websocket RPC): %v", err)
		}

		fleet.Start(ctx)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		fleet.Stop()
	},
}

func init() {
	LiveCmd.Flags().DurationVar(&liveInterval, "interval", 0, "Override tick interval (default from TICK_INTERVAL)")
}
