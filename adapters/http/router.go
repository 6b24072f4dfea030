package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/dev-connector/pkg/auth"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

type RouterDeps struct {
	AuthHandler    *AuthHandler
	ProfileHandler *ProfileHandler
	JWTService     *auth.JWTService
	Logger         logger.Logger
	AllowOrigins   []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(deps.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = deps.AllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"*"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", legacyTokenHeader, RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(ErrorMiddleware(deps.Logger))

	authMiddleware := AuthMiddleware(deps.JWTService, deps.Logger)
	authH, profileH := deps.AuthHandler, deps.ProfileHandler

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		api.POST("/users", authH.Register)
		api.POST("/auth", authH.Login)
		api.GET("/auth", authMiddleware, authH.Me)

		profiles := api.Group("/profile")
		{
			profiles.GET("", profileH.List)
			profiles.GET("/user/:ownerId", profileH.GetByOwner)
			profiles.GET("/github/:username", profileH.GitHubRepos)

			private := profiles.Group("")
			private.Use(authMiddleware)
			{
				private.GET("/me", profileH.GetMine)
				private.POST("", profileH.Upsert)
				private.DELETE("", profileH.DeleteAccount)
				private.PUT("/experience", profileH.AddExperience)
				private.DELETE("/experience/:entryId", profileH.RemoveExperience)
				private.PUT("/education", profileH.AddEducation)
				private.DELETE("/education/:entryId", profileH.RemoveEducation)
			}
		}
	}

	return router
}
