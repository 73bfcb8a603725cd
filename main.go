package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/lingofeed/internal/ai"
	"github.com/example/lingofeed/internal/api"
	"github.com/example/lingofeed/internal/batch"
	"github.com/example/lingofeed/internal/config"
	"github.com/example/lingofeed/internal/database"
	"github.com/example/lingofeed/internal/feedback"
	"github.com/example/lingofeed/internal/notify"
	"github.com/example/lingofeed/internal/progress"
	"github.com/example/lingofeed/internal/scheduler"
)

// DailyFeedbackJob is the id of the nightly batch job.
const DailyFeedbackJob = "daily_feedback"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.Connect(cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	sessions := database.NewSessionRepository()
	feedbackRepo := database.NewFeedbackRepository()
	learners := database.NewLearnerRepository()

	evaluator := progress.NewEvaluator(sessions, cfg.Location(), cfg.Progress.StageTarget)
	composer := feedback.NewComposer(ai.NewOllama(cfg.Ollama))

	var notifier batch.Notifier
	if cfg.TelegramToken != "" {
		telegram, err := notify.NewTelegram(cfg.TelegramToken, learners)
		if err != nil {
			log.Fatalf("Failed to create Telegram notifier: %v", err)
		}
		notifier = telegram
		log.Println("Telegram delivery enabled")
	}

	orchestrator := batch.NewOrchestrator(sessions, feedbackRepo, evaluator, composer, notifier,
		cfg.Batch.ChunkSize, cfg.Batch.Concurrency)

	jobs := scheduler.New()
	err = jobs.Register(DailyFeedbackJob, scheduler.TriggerSpec{
		Hour:     cfg.Schedule.Hour,
		Minute:   cfg.Schedule.Minute,
		Timezone: cfg.Batch.Timezone,
		Enabled:  cfg.Schedule.Enabled,
	}, func(ctx context.Context) error {
		_, err := orchestrator.Run(ctx, time.Now().In(cfg.Location()), false)
		return err
	})
	if err != nil {
		log.Fatalf("Failed to register %s job: %v", DailyFeedbackJob, err)
	}
	jobs.Start()
	defer jobs.Stop()

	server := api.NewServer(cfg.HTTPPort, feedbackRepo, orchestrator, jobs, evaluator, cfg.Location())
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during HTTP shutdown: %v", err)
	}
	log.Println("Stopped")
}
