package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/kundanj/leadpilot/internal/config"
	"github.com/kundanj/leadpilot/internal/entity"
	"github.com/kundanj/leadpilot/internal/extract"
	"github.com/kundanj/leadpilot/internal/infra/database"
	"github.com/kundanj/leadpilot/internal/infra/http/handlers"
	"github.com/kundanj/leadpilot/internal/infra/http/middleware"
	"github.com/kundanj/leadpilot/internal/infra/integration/crm"
	"github.com/kundanj/leadpilot/internal/infra/mail"
	"github.com/kundanj/leadpilot/internal/infra/queue"
	"github.com/kundanj/leadpilot/internal/llm"
	"github.com/kundanj/leadpilot/internal/sqlagent"
	"github.com/kundanj/leadpilot/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatal(err)
	}
	defer zap.L().Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Relational store behind /query (optional)
	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = database.NewDBConnection(cfg.Database.URL)
		if err != nil {
			zap.L().Fatal("database connection failed", zap.Error(err))
		}
		defer db.Close()
	}

	// RabbitMQ audit trail (optional)
	var (
		rabbit     *queue.RabbitMQ
		producer   usecase.EventProducer
		amqpHealth *amqp.Connection
	)
	if cfg.Queue.URL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.Queue.URL)
		if err != nil {
			zap.L().Fatal("rabbitmq connection failed", zap.Error(err))
		}
		defer rabbit.Close()
		producer = queue.NewProducer(rabbit.Ch)
		amqpHealth = rabbit.Conn

		if db != nil {
			worker := queue.NewWorker(rabbit.Ch, database.NewAssignmentRepository(db))
			go func() {
				if err := worker.Start(ctx, queue.QueueName); err != nil && !errors.Is(err, context.Canceled) {
					zap.L().Error("audit worker stopped", zap.Error(err))
				}
			}()
		}
	}

	// Collaborators, constructed once and injected
	llmClient := llm.NewClient(cfg.Anthropic.Key)
	extractor := extract.NewExtractor(llmClient, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	directory := entity.NewDirectory(cfg.Assignees)
	sender := mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)

	store, err := crm.NewClient(cfg.CRM.URL, cfg.CRM.APIKey)
	if err != nil {
		zap.L().Fatal("crm client init failed", zap.Error(err))
	}

	uc := usecase.NewProcessLeadUseCase(extractor, directory, sender, store, producer)
	agent := sqlagent.NewAgent(llmClient, db, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)

	leadHandler := handlers.NewLeadHandler(uc)
	queryHandler := handlers.NewQueryHandler(agent)
	healthHandler := handlers.NewHealthHandler(db, amqpHealth, cfg.CRM.URL, cfg.SMTP.Host)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Post("/extract-lead", leadHandler.HandleExtract)
	r.Post("/query", queryHandler.HandleQuery)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		zap.L().Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("shutdown failed", zap.Error(err))
	}
}
