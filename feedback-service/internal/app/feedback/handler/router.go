package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"feedbackhub/pkg/logger"
	"feedbackhub/pkg/metrics"
)

// SetupRoutes настраивает все маршруты feedback-service
func SetupRoutes(
	feedbackHandler *FeedbackHandler,
	commentHandler *CommentHandler,
	streamHandler *StreamHandler,
	adminHandler *AdminHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("feedback-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "feedback-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	feedbacks := router.Group("/feedbacks")
	feedbacks.Use(authMiddleware.Authenticate())
	{
		feedbacks.POST("", feedbackHandler.CreateFeedback)
		feedbacks.GET("", feedbackHandler.ListFeedbacks)
		feedbacks.GET("/stream", streamHandler.StreamFeed)
		feedbacks.GET("/:feedback_id", feedbackHandler.GetFeedback)
		feedbacks.DELETE("/:feedback_id", feedbackHandler.DeleteFeedback)
		feedbacks.POST("/:feedback_id/like", feedbackHandler.LikeFeedback)
		feedbacks.POST("/:feedback_id/comments", commentHandler.AddComment)
		feedbacks.GET("/:feedback_id/comments", commentHandler.ListComments)
		feedbacks.GET("/:feedback_id/comments/stream", streamHandler.StreamComments)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate())
	admin.Use(authMiddleware.RequireAdmin())
	{
		admin.GET("/export.csv", adminHandler.ExportCSV)
		admin.GET("/stats", adminHandler.Stats)
	}

	return router
}
