package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// buildRouter assembles the gin engine: recovery, request logging, CORS, the
// public auth endpoints, and the gated data endpoints.
func (s *HTTPServer) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(cors.Default())

	router.GET("/healthz", s.healthz)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.POST("/token", s.refresh)
		authGroup.DELETE("/logout", s.logout)
		authGroup.GET("/verify-token", s.requireAccessToken(), s.verifyToken)
	}

	api := router.Group("/api", s.requireAccessToken())
	{
		api.GET("/home-data", s.homeData)
		api.GET("/protected-data", s.protectedData)
	}

	return router
}
