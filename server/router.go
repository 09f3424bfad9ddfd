package server

import (
	"time"

	"nova-studio/domain/repository"
	httpHandler "nova-studio/interfaces/http"
	"nova-studio/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health     httpHandler.IHealthHandler
	Session    httpHandler.ISessionHandler
	Studio     httpHandler.IStudioHandler
	Export     httpHandler.IExportHandler
	Connection httpHandler.IConnectionHandler
}

func InitiateRouter(h Handlers, allowOrigins []string, secretKey string, identities repository.IIdentity) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", h.Session.Login)
	router.POST("/healthz", h.Health.Healthz)
	router.GET("/healthz", h.Health.Healthz)
	router.GET("/auth/youtube/callback", h.Connection.YouTubeCallback)

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey, identities))

	api.GET("/session", h.Session.Current)
	api.POST("/logout", h.Session.Logout)

	api.POST("/project", h.Studio.CreateProject)
	api.GET("/project", h.Studio.Project)
	api.POST("/commands", h.Studio.Command)
	api.GET("/messages", h.Studio.Messages)
	api.GET("/feedback", h.Export.Feedback)

	export := api.Group("/export")
	{
		export.GET("", h.Export.State)
		export.POST("/selection/:platform", h.Export.ToggleSelection)
		export.POST("/runs", h.Export.StartRun)
		export.POST("/targets/:platform/metadata", h.Export.PostMetadata)
		export.GET("/stream", h.Export.Stream)
	}

	connections := api.Group("/connections")
	{
		connections.GET("", h.Connection.List)
		connections.GET("/:platform/authorize", h.Connection.Authorize)
		connections.POST("/instagram/callback", h.Connection.InstagramCallback)
		connections.DELETE("/:platform", h.Connection.Disconnect)
	}

	return router
}
