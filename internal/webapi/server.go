// Package webapi exposes the clip and advertisement flows over HTTP for
// frontends that do not go through the Telegram bot.
package webapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ModelClient is the one call the endpoints need from a text model; both the
// glm and gemini clients satisfy it.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, jsonOutput bool) (string, error)
}

type Options struct {
	Model       ModelClient
	CORSOrigins []string
	Logger      *slog.Logger
}

type Server struct {
	model   ModelClient
	origins []string
	logger  *slog.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Server{
		model:   opts.Model,
		origins: opts.CORSOrigins,
		logger:  logger,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.origins) == 1 && s.origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.origins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now(),
		})
	})

	api := router.Group("/api")
	{
		api.GET("/presets", s.handlePresets)
		api.POST("/fight/spec", s.handleFightSpec)
		api.POST("/fight/generate", s.handleFightGenerate)
		api.POST("/ad/storyboard", s.handleAdStoryboard)
		api.POST("/ad/script", s.handleAdScript)
	}

	return router
}
