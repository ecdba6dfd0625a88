package api

import (
	"hackbot/cmd/middleware"
	"hackbot/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"
)

type Routers struct {
	Service service.Service
}

// NewRouters exposes the single interaction webhook the chat platform
// posts to, plus a liveness probe.
func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/v1")

	apiGroup.POST("/interactions", r.Service.HandleInteraction)

	app.GET("/healthz", func(c *ginext.Context) {
		c.JSON(200, map[string]string{"status": "ok"})
	})

	return app
}
