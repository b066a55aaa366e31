package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	redisclient "github.com/whatever-x/couple-backend/internal/clients/redis"
	"github.com/whatever-x/couple-backend/internal/db"
	"github.com/whatever-x/couple-backend/internal/events"
	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/repos"
	"github.com/whatever-x/couple-backend/internal/scheduler"
	"github.com/whatever-x/couple-backend/internal/services"
	"github.com/whatever-x/couple-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	notifyHour := utils.GetEnvAsInt("NOTIFY_HOUR", 9, log)
	cleanupParallel := utils.GetEnv("CLEANUP_PARALLEL", "true", log) == "true"

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	coupleRepo := repos.NewCoupleRepo(thePG, log)
	memoRepo := repos.NewMemoRepo(thePG, log)
	calendarEventRepo := repos.NewCalendarEventRepo(thePG, log)
	tagContentMapRepo := repos.NewTagContentMapRepo(thePG, log)
	balanceChoiceRepo := repos.NewBalanceChoiceRepo(thePG, log)
	scheduledNotificationRepo := repos.NewScheduledNotificationRepo(thePG, log)

	// Events
	bus := events.NewBus(log)
	txRunner := events.NewGormTxRunner(thePG, bus)

	// Services
	log.Info("Setting up Services from main...")
	notificationScheduler, err := services.NewNotificationScheduler(scheduledNotificationRepo, log)
	if err != nil {
		log.Error("Could not init NotificationScheduler", "error", err)
		os.Exit(1)
	}
	coupleService := services.NewCoupleService(txRunner, coupleRepo, userRepo, log)

	changeHandler := services.NewAnniversaryChangeHandler(userRepo, notificationScheduler, log, notifyHour)
	changeHandler.Register(bus)

	cleanupService := services.NewCleanupService(log, cleanupParallel,
		services.NewCalendarEventCleanupWorker(thePG, calendarEventRepo),
		services.NewMemoCleanupWorker(thePG, memoRepo),
		services.NewTagContentMapCleanupWorker(thePG, tagContentMapRepo),
		services.NewBalanceChoiceCleanupWorker(thePG, balanceChoiceRepo),
	)
	cleanupService.Register(bus)

	var inviteService *services.InviteService
	inviteStore, err := redisclient.NewInviteStore(log)
	if err != nil {
		log.Warn("Could not init redis invite store, invites disabled", "error", err)
	} else {
		defer inviteStore.Close()
		inviteService = services.NewInviteService(inviteStore, coupleService, log)
	}
	if inviteService != nil {
		log.Info("invite pairing enabled")
	}

	// Daily anniversary sweep
	dailyNotifier := scheduler.NewDailyNotifier(coupleRepo, userRepo, notificationScheduler, log, notifyHour)
	if err := dailyNotifier.Start(); err != nil {
		log.Error("Could not start daily notifier", "error", err)
		os.Exit(1)
	}
	defer dailyNotifier.Stop()

	log.Info("couple-backend up")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
}
