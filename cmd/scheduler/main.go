package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrolend-backend/internal/adapter/notify"
	"agrolend-backend/internal/adapter/repository/mysql"
	"agrolend-backend/internal/config"
	"agrolend-backend/internal/infrastructure/cache"
	"agrolend-backend/internal/infrastructure/db"
	"agrolend-backend/internal/logger"
	"agrolend-backend/internal/usecase/reminder"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

func main() {
	once := flag.Bool("once", false, "send due-date reminders once and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger.Initialize(cfg.LogLevel, cfg.LogFormat)

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("database handle: %v", err)
	}
	defer sqlDB.Close()

	notifier := notify.Fanout{notify.NewMailbox(mysql.NewMessageRepository(gdb))}
	// redis is optional for the scheduler
	if rdb, err := cache.Open(cfg); err != nil {
		logger.Warn("redis unavailable, reminders go to mailbox only", "error", err)
	} else {
		defer rdb.Close()
		notifier = append(notifier, notify.NewPublisher(rdb, cfg.EventsChannel))
	}

	uc := reminder.NewUsecase(mysql.NewLoanRepository(gdb), notifier, cfg.ReminderWindow())
	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		res, err := uc.Run(ctx)
		if err != nil {
			logger.Error("reminder run failed", "error", err)
			return
		}
		logger.Info("reminder run finished", "due", res.Due, "sent", res.Sent, "failed", res.Failed)
	}

	if *once {
		job()
		return
	}

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cfg.ReminderCron, job); err != nil {
		log.Fatalf("schedule reminders %q: %v", cfg.ReminderCron, err)
	}
	c.Start()
	logger.Info("scheduler started", "reminder_cron", cfg.ReminderCron, "window", cfg.ReminderWindow().String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	<-c.Stop().Done()
}
