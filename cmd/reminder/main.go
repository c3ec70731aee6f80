package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/internal/notifications"
	"github.com/goldendragon/restaurant/internal/reminders"
	"github.com/goldendragon/restaurant/internal/reservations"
	"github.com/goldendragon/restaurant/internal/risk"
	"github.com/goldendragon/restaurant/pkg/config"
	"github.com/goldendragon/restaurant/pkg/database"
	"github.com/goldendragon/restaurant/pkg/logger"
)

func main() {
	cfg, err := config.Load("restaurant-reminder")
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)

	var sms notifications.SMSClient
	if cfg.Twilio.Enabled {
		sms = notifications.NewTwilioClient(cfg.Twilio)
	}
	var email notifications.EmailClient
	if cfg.SMTP.Enabled {
		email = notifications.NewSMTPClient(cfg.SMTP)
	}
	notifier := notifications.NewService(sms, email, cfg.Reminder)

	store := reservations.NewRepository(pool)
	worker := reminders.NewService(store, notifier, risk.ConfigFromApp(&cfg.Risk).Location)

	interval := time.Duration(cfg.Reminder.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	logger.Info("Reminder worker starting",
		zap.Duration("interval", interval),
		zap.Bool("sms", sms != nil),
		zap.Bool("email", email != nil))

	worker.RunForever(ctx, interval)

	logger.Info("Reminder worker stopped")
}
