package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitjournal/workout-tracker/internal/api"
	"fitjournal/workout-tracker/internal/config"
	"fitjournal/workout-tracker/internal/repository/mongo"
	"fitjournal/workout-tracker/internal/service"
	"fitjournal/workout-tracker/internal/storage"
	"fitjournal/workout-tracker/pkg/logger"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// ensureIndexes creates the collection indexes, including the unique
// (userId, templateId, weekNumber, year) index the weekly materializer
// depends on.
func ensureIndexes(ctx context.Context, db *mongodriver.Database) error {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongodriver.Collection) error
	}{
		{"users", mongo.EnsureUserIndexes},
		{"exercises", mongo.EnsureExerciseIndexes},
		{"workout_templates", mongo.EnsureTemplateIndexes},
		{"workout_instances", mongo.EnsureInstanceIndexes},
		{"measurements", mongo.EnsureMeasurementIndexes},
		{"weight_logs", mongo.EnsureWeightLogIndexes},
		{"progress_images", mongo.EnsureProgressImageIndexes},
	}
	for _, step := range steps {
		if err := step.ensure(ctx, db.Collection(step.collection)); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger.Init(cfg.Log.Level)
	logger.Log.Info("Starting workout tracker server...")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not connect to MongoDB")
	}
	defer func() {
		logger.Log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Log.WithError(err).Error("Failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Log.Info("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := ensureIndexes(ctx, appDB); err != nil {
			logger.Log.WithError(err).Error("Index creation failed")
			return
		}
		logger.Log.Info("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize S3 storage")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)
	instanceRepo := mongo.NewMongoInstanceRepository(appDB)
	measurementRepo := mongo.NewMongoMeasurementRepository(appDB)
	weightLogRepo := mongo.NewMongoWeightLogRepository(appDB)
	progressImageRepo := mongo.NewMongoProgressImageRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo)
	templateService := service.NewTemplateService(templateRepo, instanceRepo, exerciseRepo)
	scheduleService := service.NewScheduleService(templateRepo, instanceRepo, nil)
	statsService := service.NewStatsService(instanceRepo)
	measurementService := service.NewMeasurementService(measurementRepo, weightLogRepo)
	progressService := service.NewProgressImageService(progressImageRepo, fileStorage)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		exerciseService,
		templateService,
		scheduleService,
		statsService,
		measurementService,
		progressService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithField("address", cfg.Server.Address).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("ListenAndServe error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Log.Info("Server exiting.")
}
