package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cuevaio/reading-list-app/internal/api"
)

func (app *app) routes() http.Handler {
	g := gin.Default()
	g.Use(corsMiddleware())

	g.GET("/health", healthHandler)

	timeout := app.config.Server.HandlerTimeout

	authed := g.Group("/api", api.RequireAuth())
	{
		authed.POST("/articles", withTimeout(timeout, app.handlers.SubmitArticle))
		authed.GET("/articles", withTimeout(timeout, app.handlers.ListArticles))
		authed.GET("/articles/fetch", withTimeout(timeout, app.handlers.FetchArticle))
		authed.GET("/articles/feed", withTimeout(timeout, app.handlers.UnreadFeed))
		authed.POST("/articles/:id/toggle", withTimeout(timeout, app.handlers.ToggleRead))
		authed.DELETE("/articles/:id", withTimeout(timeout, app.handlers.DeleteArticle))
		authed.POST("/search", withTimeout(timeout, app.handlers.Search))
	}

	return g
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func withTimeout(d time.Duration, fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		fn(c)
	}
}
