package api

import (
	"net/http"

	"lms-backend/internal/auth/delivery"
	authdomain "lms-backend/internal/auth/domain"
	authUsecase "lms-backend/internal/auth/usecase"
	examDelivery "lms-backend/internal/exam/delivery"
	examUsecase "lms-backend/internal/exam/usecase"
	notificationDelivery "lms-backend/internal/notification/delivery"
	notificationUsecase "lms-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, inboxUsecase notificationUsecase.InboxUsecase, fanout notificationUsecase.Fanout, mentions notificationUsecase.MentionUsecase, examUsecase examUsecase.ExamUsecase) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	notificationHandler := notificationDelivery.NewNotificationHandler(inboxUsecase, fanout, mentions)
	examHandler := examDelivery.NewExamHandler(examUsecase)

	requireAuth := delivery.AuthMiddleware(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.POST("/logout", requireAuth, authHandler.Logout)
		}

		// Push token registry (protected)
		pushToken := api.Group("/push-token")
		pushToken.Use(requireAuth)
		{
			pushToken.POST("", authHandler.RegisterPushToken)
			pushToken.DELETE("", authHandler.RemovePushToken)
		}

		// Inbox routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.POST("/mentions", notificationHandler.Mention)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		// Test taking (protected)
		tests := api.Group("/tests")
		tests.Use(requireAuth)
		{
			tests.GET("", examHandler.ListTests)
			tests.GET("/:id", examHandler.GetTest)
			tests.POST("/:id/submit", examHandler.Submit)
		}

		results := api.Group("/test-results")
		results.Use(requireAuth)
		{
			results.GET("", examHandler.MyResults)
			results.GET("/:id", examHandler.GetResult)
		}

		// Educator routes
		educator := api.Group("/educator")
		educator.Use(requireAuth, delivery.RequireRole(authdomain.RoleEducator, authdomain.RoleAdmin))
		{
			educator.GET("/test-results", examHandler.AllResults)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(requireAuth, delivery.RequireRole(authdomain.RoleAdmin))
		{
			admin.POST("/announcements", notificationHandler.Announce)
			admin.POST("/clear-notifications", notificationHandler.ClearAll)

			admin.GET("/tests", examHandler.AdminListTests)
			admin.POST("/tests", examHandler.CreateTest)
			admin.GET("/tests/:id", examHandler.GetTest)
			admin.PUT("/tests/:id", examHandler.UpdateTest)
			admin.DELETE("/tests/:id", examHandler.DeleteTest)
			admin.POST("/tests/:id/questions", examHandler.AddQuestion)
			admin.PUT("/test-questions/:id", examHandler.UpdateQuestion)
			admin.DELETE("/test-questions/:id", examHandler.DeleteQuestion)
			admin.GET("/test-results", examHandler.AllResults)
		}
	}
}
