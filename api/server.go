package api

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ayazwx/agent-pump/api/handlers"
)

// StartServer initializes the REST API and blocks serving it.
func StartServer(addr string, env *handlers.Env) error {
	r := gin.Default()
	SetupRoutes(r, env)

	log.Printf("🌐 API listening on %s", addr)
	return r.Run(addr)
}
