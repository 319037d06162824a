package commands

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayazwx/agent-pump/ai"
	"github.com/ayazwx/agent-pump/api"
	"github.com/ayazwx/agent-pump/api/handlers"
	"github.com/ayazwx/agent-pump/communication"
	"github.com/ayazwx/agent-pump/config"
	"github.com/ayazwx/agent-pump/ledger"
	"github.com/ayazwx/agent-pump/registry"
	"github.com/ayazwx/agent-pump/sim"
	"github.com/ayazwx/agent-pump/storage"
)

var (
	simAddr      string
	simNoStart   bool
	simEphemeral bool
)

// SimCmd runs the in-memory market with the full generator stack.
var SimCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the in-memory market simulation",
	Long:  `Start the market ledger, seed the built-in agent roster, launch the trade and token generators and serve the HTTP/websocket API.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if simAddr != "" {
			cfg.APIAddr = simAddr
		}

		var messenger *communication.Messenger
		if cfg.NATSURL != "" {
			m, err := communication.NewMessenger(cfg.NATSURL)
			if err != nil {
				log.Printf("Warning: NATS unavailable (%v), events stay local", err)
			} else {
				messenger = m
				defer messenger.Close()
			}
		}

		var store storage.Store
		if !simEphemeral {
			s, err := storage.NewSQLite(cfg.DatabasePath)
			if err != nil {
				log.Fatalf("open database: %v", err)
			}
			defer s.Close()
			store = s
		}

		l := ledger.New(ledger.Options{
			Seed:   cfg.SimSeed,
			Events: communication.NewBroadcaster(messenger),
			Store:  store,
		})

		seed := cfg.SimSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		for _, a := range registry.Builtin(rng) {
			l.AddAgent(a)
		}
		log.Printf("👥 seeded %d agents", registry.Size())

		scheduler := sim.NewScheduler(l, cfg.SimSeed)
		if !simNoStart {
			scheduler.Start(context.Background())
		}

		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			scheduler.Stop()
			os.Exit(0)
		}()

		var llm *ai.OpenAI
		if cfg.OpenAIKey != "" {
			llm = ai.NewOpenAI(cfg.OpenAIKey, ai.DefaultLLMConfig())
		}

		env := &handlers.Env{Ledger: l, Scheduler: scheduler, LLM: llm}
		if err := api.StartServer(cfg.APIAddr, env); err != nil {
			log.Fatalf("api server: %v", err)
		}
	},
}

func init() {
	SimCmd.Flags().StringVar(&simAddr, "addr", "", "API listen address (default from API_ADDR or :8080)")
	SimCmd.Flags().BoolVar(&simNoStart, "no-autostart", false, "Do not start generators until POST /api/simulation/start")
	SimCmd.Flags().BoolVar(&simEphemeral, "ephemeral", false, "Skip sqlite persistence")
}
