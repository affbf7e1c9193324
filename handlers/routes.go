package handlers

import (
	"net/http"

	"gabinete-digital/helper"
	"gabinete-digital/metrics"
	"gabinete-digital/middleware"
	"gabinete-digital/models"
	"gabinete-digital/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	AuthService     services.AuthService
	ProposalService services.ProposalService
	IdeaService     services.IdeaService
	BoardService    services.BoardService
	Sessions        *services.DraftSessions
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Sessions == nil {
		deps.Sessions = services.NewDraftSessions()
	}
	h := helper.NewHTTPHelper()

	authHandler := NewAuthHandler(deps.AuthService, h)
	proposalHandler := NewProposalHandler(deps.ProposalService, deps.Sessions, h)
	ideaHandler := NewIdeaHandler(deps.IdeaService, h)
	boardHandler := NewBoardHandler(deps.BoardService, h)
	catalogHandler := NewCatalogHandler(h)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.NewLoggingMiddleware(deps.Logger).LogRequest())
	router.Use(middleware.RequestMetrics(deps.Metrics))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog", catalogHandler.GetCatalog)
		v1.POST("/auth/login", authHandler.Login)

		public := v1.Group("/public")
		{
			public.POST("/ideas", ideaHandler.SubmitIdea)
			public.GET("/posts", boardHandler.GetPosts)
		}

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.POST("/auth/register", middleware.RequireRole(models.RoleAdmin), authHandler.Register)

			proposals := protected.Group("/proposals")
			proposals.Use(middleware.RequireRole(models.RoleStaff))
			{
				proposals.POST("", proposalHandler.StartProposal)
				proposals.GET("", proposalHandler.ListProposals)
				proposals.GET("/current", proposalHandler.GetCurrent)
				proposals.POST("/:id/revisions", proposalHandler.ReviseProposal)
				proposals.GET("/:id/versions", proposalHandler.ListVersions)
				proposals.GET("/:id/versions/:version", proposalHandler.GetVersion)
				proposals.POST("/:id/versions/:version/restore", proposalHandler.RestoreVersion)
			}

			ideas := protected.Group("/ideas")
			{
				ideas.GET("", middleware.RequireRole(models.RoleStaff), ideaHandler.GetIdeas)
				ideas.GET("/export", middleware.RequireRole(models.RoleAdmin), ideaHandler.ExportIdeas)
				ideas.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), ideaHandler.DeleteIdea)
			}

			posts := protected.Group("/posts")
			posts.Use(middleware.RequireRole(models.RoleStaff))
			{
				posts.POST("", boardHandler.PublishPost)
				posts.DELETE("/:id", boardHandler.DeletePost)
			}
		}
	}

	return router
}
