package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/ai"
	"github.com/ayazwx/agent-pump/core"
	"github.com/ayazwx/agent-pump/ledger"
	"github.com/ayazwx/agent-pump/sim"
)

// Env carries the shared state handlers operate on. LLM is optional; the
// insights endpoint degrades to stats-only commentary without it.
type Env struct {
	Ledger    *ledger.Ledger
	Scheduler *sim.Scheduler
	LLM       *ai.OpenAI
}

// GetTokens - list all tokens, newest first
func (e *Env) GetTokens(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tokens": e.Ledger.Tokens()})
}

// GetToken - fetch a token with its trade history
func (e *Env) GetToken(c *gin.Context) {
	id := c.Param("id")
	token, ok := e.Ledger.Token(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}

	var trades []core.Trade
	for _, tr := range e.Ledger.Trades() {
		if tr.TokenID == id {
			trades = append(trades, tr)
		}
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "trades": trades})
}

// GetAgents - list all agents
func (e *Env) GetAgents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agents": e.Ledger.Agents()})
}

// GetAgent - fetch one agent
func (e *Env) GetAgent(c *gin.Context) {
	agent, ok := e.Ledger.Agent(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

// GetTrades - recent trades, most recent last
func (e *Env) GetTrades(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"trades": e.Ledger.Trades()})
}

// GetLeaderboard - agents ranked by realized pnl
func (e *Env) GetLeaderboard(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	agents := e.Ledger.Agents()
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].RealizedPnl.GreaterThan(agents[j].RealizedPnl)
	})
	if len(agents) > limit {
		agents = agents[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": agents})
}

type registerAgentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Avatar      string  `json:"avatar"`
	Personality string  `json:"personality" binding:"required"`
	Balance     float64 `json:"balance"`
}

// RegisterAgent - add an external agent to the market
func (e *Env) RegisterAgent(c *gin.Context) {
	var req registerAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent data"})
		return
	}

	personality, err := core.ParsePersonality(req.Personality)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance := decimal.NewFromInt(10000)
	if req.Balance > 0 {
		balance = decimal.NewFromFloat(req.Balance)
	}

	agent := e.Ledger.AddAgent(core.Agent{
		Name:        req.Name,
		Avatar:      req.Avatar,
		Personality: personality,
		Balance:     balance,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Agent registered successfully",
		"agentID": agent.ID,
	})
}

type createTokenRequest struct {
	CreatorID   string `json:"creatorId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Ticker      string `json:"ticker" binding:"required"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// CreateToken - launch a token on behalf of an agent
func (e *Env) CreateToken(c *gin.Context) {
	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token data"})
		return
	}

	token, err := e.Ledger.CreateToken(req.CreatorID, core.TokenInfo{
		Name:        req.Name,
		Ticker:      req.Ticker,
		Emoji:       req.Emoji,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// StartSimulation - turn the generators on. The scheduler outlives the
// request, so it gets a background context.
func (e *Env) StartSimulation(c *gin.Context) {
	e.Scheduler.Start(context.Background())
	c.JSON(http.StatusOK, gin.H{"simulating": true})
}

// StopSimulation - turn the generators off
func (e *Env) StopSimulation(c *gin.Context) {
	e.Scheduler.Stop()
	c.JSON(http.StatusOK, gin.H{"simulating": false})
}

// GetSimulation - report generator state
func (e *Env) GetSimulation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"simulating": e.Scheduler.Running(),
		"tokenCount": e.Ledger.TokenCount(),
		"tradeCount": len(e.Ledger.Trades()),
	})
}
