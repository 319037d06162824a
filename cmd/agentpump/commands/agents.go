package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/registry"
)

var agentsAPIURL string

// AgentsCmd lists agents, either the built-in roster or a running server's.
var AgentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List trading agents",
	Run: func(cmd *cobra.Command, args []string) {
		if agentsAPIURL != "" {
			listRemoteAgents()
			return
		}

		rng := rand.New(rand.NewSource(1))
		fmt.Printf("Built-in roster (%d agents):\n\n", registry.Size())
		for _, a := range registry.Builtin(rng) {
			fmt.Printf("  %s %-14s %s\n", a.Avatar, a.Name, a.Personality)
		}
	},
}

func listRemoteAgents() {
	resp, err := http.Get(agentsAPIURL + "/api/agents")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error reading response: %v\n", err)
		os.Exit(1)
	}

	var out struct {
		Agents []core.Agent `json:"agents"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		fmt.Printf("Error parsing response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d agents trading:\n\n", len(out.Agents))
	for _, a := range out.Agents {
		fmt.Printf("  %s %-14s %-12s balance %s  pnl %s  trades %d\n",
			a.Avatar, a.Name, a.Personality, a.Balance.StringFixed(2), a.RealizedPnl.StringFixed(2), a.TotalTrades)
	}
}

func init() {
	AgentsCmd.Flags().StringVar(&agentsAPIURL, "api-url", "", "Fetch live agents from a running server (e.g. http://localhost:8080)")
}
