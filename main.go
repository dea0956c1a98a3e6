package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "lms-backend/cmd/api"
	authdomain "lms-backend/internal/auth/domain"
	authRepo "lms-backend/internal/auth/repository"
	authUsecase "lms-backend/internal/auth/usecase"
	examdomain "lms-backend/internal/exam/domain"
	examRepo "lms-backend/internal/exam/repository"
	examUsecase "lms-backend/internal/exam/usecase"
	notificationdomain "lms-backend/internal/notification/domain"
	notificationRepo "lms-backend/internal/notification/repository"
	notificationUsecase "lms-backend/internal/notification/usecase"
	"lms-backend/pkg/config"
	"lms-backend/pkg/database"
	"lms-backend/pkg/fcm"
	"lms-backend/pkg/queue"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{}, &authdomain.PushToken{},
		&notificationdomain.Notification{},
		&examdomain.Test{}, &examdomain.TestQuestion{}, &examdomain.TestResult{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	pushTokenRepo := authRepo.NewPushTokenRepository(db)
	notificationRepository := notificationRepo.NewGormNotificationRepository(db)
	testRepo := examRepo.NewGormTestRepository(db)
	resultRepo := examRepo.NewGormResultRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Push stack: sender -> dispatcher -> delivery worker
	sender, err := fcm.NewSenderFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize push sender:", err)
	}
	dispatcher := fcm.NewDispatcher(sender, pushTokenRepo)
	worker := notificationUsecase.NewDeliveryWorker(pushTokenRepo, dispatcher)

	deliveries, err := queue.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize delivery queue:", err)
	}
	// Workers outlive the signal context so Close can drain pending tasks.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	if err := deliveries.Start(workerCtx, worker.Handle); err != nil {
		log.Fatal("Failed to start delivery queue:", err)
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, pushTokenRepo, cfg)
	fanout := notificationUsecase.NewFanout(notificationRepository, userRepo, deliveries)
	inboxUsecase := notificationUsecase.NewInboxUsecase(notificationRepository)
	mentionUsecase := notificationUsecase.NewMentionUsecase(fanout, userRepo)
	examUsecaseInstance := examUsecase.NewExamUsecase(testRepo, resultRepo, fanout)

	// Initialize HTTP handler
	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(authUsecaseInstance, inboxUsecase, fanout, mentionUsecase, examUsecaseInstance)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := handler.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}

	if err := deliveries.Close(); err != nil {
		log.Printf("Failed to close delivery queue: %v", err)
	}
	cancelWorkers()
	log.Println("Server stopped")
}
