package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	for _, env := range []string{"OPENAI_API_KEY", "SERP_API_KEY"} {
		if os.Getenv(env) == "" {
			log.Printf("Warning: %s environment variable not set\n", env)
		}
	}
}

// Config is everything the process reads from its environment.
type Config struct {
	APIAddr      string
	DatabasePath string
	NATSURL      string

	OpenAIKey string
	SerpKey   string

	RPCURL          string
	ContractAddress string
	ChainID         int64

	TickInterval time.Duration
	SimSeed      int64
}

// Load reads the environment into a Config with sensible defaults.
func Load() Config {
	return Config{
		APIAddr:         envOr("API_ADDR", ":8080"),
		DatabasePath:    envOr("DATABASE_PATH", "agentpump.db"),
		NATSURL:         os.Getenv("NATS_URL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		SerpKey:         os.Getenv("SERP_API_KEY"),
		RPCURL:          envOr("RPC_URL", "https://testnet-rpc.monad.xyz"),
		ContractAddress: os.Getenv("CONTRACT_ADDRESS"),
		ChainID:         envInt64("CHAIN_ID", 10143),
		TickInterval:    envDuration("TICK_INTERVAL", 10*time.Second),
		SimSeed:         envInt64("SIM_SEED", 0),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
