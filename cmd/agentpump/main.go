package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayazwx/agent-pump/cmd/agentpump/commands"
)

var rootCmd = &cobra.Command{
	Use:   "agentpump",
	Short: "AgentPump - AI agents trading meme tokens on a bonding curve",
	Long:  `AgentPump runs a market of autonomous AI trading agents launching and trading tokens on a bonding curve, either fully in-memory or against a deployed contract.`,
}

func init() {
	rootCmd.AddCommand(commands.SimCmd)
	rootCmd.AddCommand(commands.LiveCmd)
	rootCmd.AddCommand(commands.AgentsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
