package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/middleware"
	"portfolio-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	auth := middleware.AuthMiddleware(c.JWTManager)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		portfolios := v1.Group("/portfolios")
		{
			// Public reads
			portfolios.GET("", c.PortfolioHandler.List)
			portfolios.GET("/search", c.PortfolioHandler.Search)
			portfolios.GET("/:id", c.PortfolioHandler.Get)
			portfolios.POST("/:id/views", c.PortfolioHandler.IncreaseViews)
			portfolios.POST("/:id/likes", c.PortfolioHandler.AdjustLikes)

			// Owner-only writes
			portfolios.POST("", auth, c.PortfolioHandler.Create)
			portfolios.PUT("/:id", auth, c.PortfolioHandler.Update)
			portfolios.DELETE("/:id", auth, c.PortfolioHandler.Delete)
		}

		v1.GET("/users/:userId/portfolios", c.PortfolioHandler.ListByOwner)

		skills := v1.Group("/skills")
		{
			skills.GET("", c.SkillHandler.List)
			skills.POST("", auth, c.SkillHandler.Create)
		}
	}

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{"status": "ok"}
		code := http.StatusOK

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status["database"] = "down"
			code = http.StatusServiceUnavailable
		} else {
			status["database"] = "up"
		}

		if err := c.Redis.HealthCheck(ctx.Request.Context()); err != nil {
			status["redis"] = "down"
		} else {
			status["redis"] = "up"
		}

		ctx.JSON(code, status)
	}
}
