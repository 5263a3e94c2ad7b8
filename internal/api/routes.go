package api

import (
	"net/http"

	"fitjournal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers all HTTP routes on the router. Auth endpoints are
// public; everything else sits behind the JWT middleware.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	templateService service.TemplateService,
	scheduleService service.ScheduleService,
	statsService service.StatsService,
	measurementService service.MeasurementService,
	progressService service.ProgressImageService,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	templateHandler := NewTemplateHandler(templateService)
	workoutHandler := NewWorkoutHandler(scheduleService)
	statsHandler := NewStatsHandler(statsService)
	measurementHandler := NewMeasurementHandler(measurementService)
	progressHandler := NewProgressHandler(progressService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
		}

		templateGroup := protected.Group("/templates")
		{
			templateGroup.POST("", templateHandler.CreateTemplate)
			templateGroup.GET("", templateHandler.GetTemplates)
			templateGroup.GET("/:id", templateHandler.GetTemplate)
			templateGroup.PUT("/:id", templateHandler.UpdateTemplate)
			templateGroup.DELETE("/:id", templateHandler.DeleteTemplate)
		}

		workoutGroup := protected.Group("/workouts")
		{
			// Static paths before /:id so Gin routes them correctly.
			workoutGroup.GET("/current-week", workoutHandler.GetCurrentWeek)
			workoutGroup.GET("/suggested", workoutHandler.GetSuggested)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.POST("/:id/complete", workoutHandler.CompleteWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		statsGroup := protected.Group("/stats")
		{
			statsGroup.GET("/weekly", statsHandler.GetWeeklyStats)
			statsGroup.GET("/monthly", statsHandler.GetMonthlyComparison)
		}

		measurementGroup := protected.Group("/measurements")
		{
			measurementGroup.POST("", measurementHandler.CreateMeasurement)
			measurementGroup.GET("", measurementHandler.GetMeasurements)
			measurementGroup.PUT("/:id", measurementHandler.UpdateMeasurement)
			measurementGroup.DELETE("/:id", measurementHandler.DeleteMeasurement)
		}

		weightGroup := protected.Group("/weight-logs")
		{
			weightGroup.POST("", measurementHandler.LogWeight)
			weightGroup.GET("", measurementHandler.GetWeightLogs)
			weightGroup.DELETE("/:id", measurementHandler.DeleteWeightLog)
		}

		progressGroup := protected.Group("/progress-photos")
		{
			progressGroup.POST("", progressHandler.RequestUpload)
			progressGroup.GET("", progressHandler.GetImages)
			progressGroup.DELETE("/:id", progressHandler.DeleteImage)
		}
	}
}
