package main

import (
	"context"
	"log"
	"os"

	authdomain "lms-backend/internal/auth/domain"
	authRepo "lms-backend/internal/auth/repository"
	authUsecase "lms-backend/internal/auth/usecase"
	notificationdomain "lms-backend/internal/notification/domain"
	notificationRepo "lms-backend/internal/notification/repository"
	notificationUsecase "lms-backend/internal/notification/usecase"
	"lms-backend/pkg/config"
	"lms-backend/pkg/database"
	"lms-backend/pkg/fcm"
	"lms-backend/pkg/queue"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags)

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Open(cfg)
	errAndDie(err)
	errAndDie(db.AutoMigrate(&authdomain.User{}, &authdomain.PushToken{}, &notificationdomain.Notification{}))

	userRepo := authRepo.NewUserRepository(db)
	pushTokenRepo := authRepo.NewPushTokenRepository(db)
	notificationRepository := notificationRepo.NewGormNotificationRepository(db)

	// Pushes go out before the command returns.
	sender, err := fcm.NewSenderFromConfig(ctx, cfg)
	errAndDie(err)
	worker := notificationUsecase.NewDeliveryWorker(pushTokenRepo, fcm.NewDispatcher(sender, pushTokenRepo))
	deliveries := queue.NewInline()
	errAndDie(deliveries.Start(ctx, worker.Handle))
	defer deliveries.Close()

	cli := commandLine{
		auth:   authUsecase.NewAuthUsecase(userRepo, pushTokenRepo, cfg),
		users:  userRepo,
		fanout: notificationUsecase.NewFanout(notificationRepository, userRepo, deliveries),
		inbox:  notificationUsecase.NewInboxUsecase(notificationRepository),
		out:    os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Printf("error: %s", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
