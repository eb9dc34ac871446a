package server

import (
	"net/http"

	"github.com/doda25-team16/model-service/internal/api"
	"github.com/doda25-team16/model-service/internal/api/middleware"
	"github.com/doda25-team16/model-service/internal/app"

	"github.com/gin-gonic/gin"
)

func (s *Server) SetupRoutes(app *app.App) {
	s.ginEngine.Use(middleware.RequestID())

	// Health check endpoint
	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.ginEngine.POST("/predict", handlerWrapper(app, api.Predict))
}

func handlerWrapper(app *app.App, f func(c *gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("app", app)
		f(ctx)
	}
}
