package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opiniondesk/opiniondesk-backend/internal/handler"
	"github.com/opiniondesk/opiniondesk-backend/internal/middleware"
	"github.com/opiniondesk/opiniondesk-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	opinionHandler *handler.OpinionHandler,
	categoryHandler *handler.CategoryHandler,
	searchHandler *handler.SearchHandler,
	analysisHandler *handler.AnalysisHandler,
	preferenceHandler *handler.PreferenceHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
) {
	// Authentication and employee directory
	auth := router.Group("/auth")
	auth.POST("/token", authHandler.IssueToken)
	auth.GET("/users", middleware.JWTAuth(jwtManager), authHandler.ListEmployees)
	auth.POST("/users", middleware.JWTAuth(jwtManager), authHandler.CreateEmployee)

	// Opinion requests and the workflow board
	opinions := router.Group("/opinions", middleware.JWTAuth(jwtManager))
	{
		opinions.GET("/categories/structured", categoryHandler.Structured)
		opinions.GET("/board", opinionHandler.Board)

		requests := opinions.Group("/requests")
		{
			requests.GET("", opinionHandler.List)
			requests.POST("/", opinionHandler.Create)
			requests.GET("/:id", opinionHandler.Get)
		}

		opinions.PUT("/:id", opinionHandler.Update)
		opinions.DELETE("/:id", opinionHandler.Delete)
		opinions.POST("/:id/move", opinionHandler.Move)
		opinions.POST("/:id/documents", opinionHandler.AttachDocuments)
		opinions.POST("/:id/remarks", opinionHandler.AppendRemark)
		opinions.PUT("/:id/assignee", opinionHandler.Assign)
	}

	// Search and analysis
	router.POST("/search/", middleware.JWTAuth(jwtManager), searchHandler.Search)
	router.POST("/searchanalysis/search", middleware.JWTAuth(jwtManager), searchHandler.Analyze)
	router.POST("/documentprocessor/analyze-document/existing/:id", middleware.JWTAuth(jwtManager), analysisHandler.AnalyzeExisting)

	// Per-user preferences
	preferences := router.Group("/users/me/preferences", middleware.JWTAuth(jwtManager))
	preferences.GET("", preferenceHandler.Get)
	preferences.PUT("", preferenceHandler.Put)

	// Chat socket; the connection authenticates over the protocol itself
	router.GET("/ws/chat", wsHandler.Connect)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
