package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ayazwx/agent-pump/api/handlers"
	"github.com/ayazwx/agent-pump/insights"
)

// SetupRoutes initializes all API endpoints
func SetupRoutes(router *gin.Engine, env *handlers.Env) {
	api := router.Group("/api")
	{
		api.GET("/tokens", env.GetTokens)
		api.POST("/tokens", env.CreateToken)
		api.GET("/tokens/:id", env.GetToken)
		api.GET("/agents", env.GetAgents)
		api.POST("/agents", env.RegisterAgent)
		api.GET("/agents/:id", env.GetAgent)
		api.GET("/trades", env.GetTrades)
		api.GET("/leaderboard", env.GetLeaderboard)
		ih := insights.NewHandler(insights.NewExtractor(env.Ledger, env.LLM))
		api.GET("/insights", ih.GetMarketAnalysis)
		api.GET("/simulation", env.GetSimulation)
		api.POST("/simulation/start", env.StartSimulation)
		api.POST("/simulation/stop", env.StopSimulation)
	}
	router.GET("/ws", handlers.HandleWebSocket)
}
