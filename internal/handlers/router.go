package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Lakshiga/Trilingo-Backend/internal/config"
	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/services"
	"github.com/Lakshiga/Trilingo-Backend/internal/utils"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

type HandlerManager struct {
	progressHandler *ProgressHandler
	studentHandler  *StudentHandler
	contentHandler  *ContentHandler
	paymentHandler  *PaymentHandler
	chatbotHandler  *ChatbotHandler
	reportHandler   *ReportHandler
	userHandler     *UserHandler
	authMiddleware  *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		progressHandler: NewProgressHandler(serviceManager.Progress(), logger),
		studentHandler:  NewStudentHandler(serviceManager.Student(), logger),
		contentHandler:  NewContentHandler(serviceManager.Content(), logger),
		paymentHandler:  NewPaymentHandler(serviceManager.Payment(), logger),
		chatbotHandler:  NewChatbotHandler(serviceManager.Chatbot(), logger),
		reportHandler:   NewReportHandler(serviceManager.Report(), logger),
		userHandler:     NewUserHandler(userRepo, logger),
		authMiddleware:  authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware()) // Apply authentication to all API routes
	{
		// Student profile routes - Parents only
		students := v1.Group("/students")
		students.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleParent))
		{
			students.POST("", hm.studentHandler.Create)
			students.GET("", hm.studentHandler.List)
			students.GET("/:id", hm.studentHandler.GetByID)
			students.PUT("/:id", hm.studentHandler.Update)
			students.DELETE("/:id", hm.studentHandler.Delete)

			// Per-student progress views
			students.GET("/:id/progress", hm.progressHandler.GetByStudent)
			students.GET("/:id/progress/summary", hm.progressHandler.GetSummary)
			students.GET("/:id/progress/stats", hm.progressHandler.GetStats)
			students.GET("/:id/progress/export", hm.reportHandler.ExportStudentProgress)

			// Exercise results feed the progress tracker
			students.POST("/:id/exercise-results", hm.contentHandler.SubmitExerciseResult)
		}

		// Progress routes - Parents only
		progress := v1.Group("/progress")
		progress.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleParent))
		{
			progress.POST("", hm.progressHandler.Create)
			progress.GET("", hm.progressHandler.List)
			progress.GET("/:id", hm.progressHandler.GetByID)
			progress.PUT("/:id", hm.progressHandler.Update)
			progress.DELETE("/:id", hm.progressHandler.Delete)
		}

		// Content routes - All authenticated users
		v1.GET("/languages", hm.contentHandler.ListLanguages)

		levels := v1.Group("/levels")
		{
			levels.GET("", hm.contentHandler.ListLevels)
			levels.GET("/:id", hm.contentHandler.GetLevel)
			levels.GET("/:id/stages", hm.contentHandler.ListStagesByLevel)
			levels.GET("/:id/access", hm.paymentHandler.CheckLevelAccess)
		}

		stages := v1.Group("/stages")
		{
			stages.GET("/:id", hm.contentHandler.GetStage)
			stages.GET("/:id/activities", hm.contentHandler.ListActivitiesByStage)
		}

		activities := v1.Group("/activities")
		{
			activities.GET("/:id", hm.contentHandler.GetActivity)
			activities.GET("/:id/exercises", hm.contentHandler.ListExercisesByActivity)
		}

		exercises := v1.Group("/exercises")
		{
			exercises.GET("/:id", hm.contentHandler.GetExercise)
		}

		// Payment routes - Parents only
		payments := v1.Group("/payments")
		payments.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleParent))
		{
			payments.POST("/checkout", hm.paymentHandler.CreateCheckoutSession)
			payments.GET("/verify/:sessionId", hm.paymentHandler.VerifyPayment)
			payments.GET("/purchases", hm.paymentHandler.ListPurchases)
		}

		// Chatbot routes - Parents only
		chatbot := v1.Group("/chatbot")
		chatbot.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleParent))
		{
			chatbot.POST("/ask", hm.chatbotHandler.Ask)
		}

		// Admin routes - Admins and Super Admins only
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleSuperAdmin))
		{
			// Content management
			admin.POST("/levels", hm.contentHandler.CreateLevel)
			admin.PUT("/levels/:id", hm.contentHandler.UpdateLevel)
			admin.DELETE("/levels/:id", hm.contentHandler.DeleteLevel)

			admin.POST("/stages", hm.contentHandler.CreateStage)
			admin.PUT("/stages/:id", hm.contentHandler.UpdateStage)
			admin.DELETE("/stages/:id", hm.contentHandler.DeleteStage)

			admin.POST("/activities", hm.contentHandler.CreateActivity)
			admin.PUT("/activities/:id", hm.contentHandler.UpdateActivity)
			admin.DELETE("/activities/:id", hm.contentHandler.DeleteActivity)

			admin.POST("/exercises", hm.contentHandler.CreateExercise)
			admin.PUT("/exercises/:id", hm.contentHandler.UpdateExercise)
			admin.DELETE("/exercises/:id", hm.contentHandler.DeleteExercise)

			// Cross-parent progress view
			admin.GET("/progress", hm.progressHandler.ListAll)

			// Account directory
			admin.GET("/users", hm.userHandler.ListUsers)
			admin.GET("/users/:id", hm.userHandler.GetUser)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "learning-service",
		})
	})
}
