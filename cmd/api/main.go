package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/horizonenergysouth/horizon-crm/internal/infra/database"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/feed"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/http/handlers"
	appmiddleware "github.com/horizonenergysouth/horizon-crm/internal/infra/http/middleware"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/integration/openai"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/mail"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/queue"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/session"
	"github.com/horizonenergysouth/horizon-crm/internal/usecase"
)

func main() {
	godotenv.Load()

	mongoClient, db, err := database.NewMongoConnection(
		envOr("MONGODB_URI", "mongodb://localhost:27017"),
		envOr("MONGODB_DB", "horizon"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer mongoClient.Disconnect(context.Background())

	// RabbitMQ is optional: without it leads are still stored, the operator
	// just doesn't get the notification email.
	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"), envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"), envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Printf("RabbitMQ unavailable, lead notifications disabled: %v", err)
	} else {
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
	}

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)

	// 2. Gateways and adapters
	var producer usecase.QueueProducerInterface
	if rabbitMQ != nil {
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	}

	var completions usecase.CompletionClient
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		completions = openai.NewClient(key, os.Getenv("OPENAI_URL"))
	} else {
		log.Printf("OPENAI_API_KEY not set, chat endpoint disabled")
	}

	// 3. Worker (consumes the queue and emails the operator)
	if rabbitMQ != nil {
		mailSender := mail.NewEmailSender(
			os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		)
		worker := queue.NewWorker(rabbitMQ.Ch, mailSender, envOr("LEAD_NOTIFY_TO", "office@horizonenergysouth.com"))
		go worker.Start(queue.QueueName)
	}

	// 4. Live feed (change stream -> hub -> dashboard sockets)
	hub := feed.NewHub()
	watcher := feed.NewWatcher(leadRepo, hub)
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go watcher.Run(watchCtx)

	// 5. UseCases
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, producer)
	updateLeadUC := usecase.NewUpdateLeadUseCase(leadRepo)
	chatUC := usecase.NewChatUseCase(completions)

	// 6. Sessions
	sessions := session.NewStore(12 * time.Hour)

	// 7. Handlers
	leadHandler := handlers.NewLeadHandler(createLeadUC)
	adminHandler := handlers.NewAdminHandler(leadRepo, updateLeadUC)
	authHandler := handlers.NewAuthHandler(os.Getenv("ADMIN_PASSWORD"), sessions)
	chatHandler := handlers.NewChatHandler(chatUC)
	feedHandler := handlers.NewFeedHandler(hub)
	var rabbitConn *amqp.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(mongoClient, rabbitConn)

	// 8. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/leads", leadHandler.HandleCreate)
	r.Post("/api/leads/validate", leadHandler.HandleValidateStep)
	r.Post("/api/chat", chatHandler.Handle)

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(authHandler.Middleware)
			r.Get("/leads", adminHandler.HandleListLeads)
			r.Get("/leads/stats", adminHandler.HandleStats)
			r.Get("/leads/feed", feedHandler.Handle)
			r.Put("/leads/{id}/status", adminHandler.HandleSetStatus)
			r.Post("/leads/{id}/notes", adminHandler.HandleAddNote)
			r.Delete("/leads/{id}/notes/{noteId}", adminHandler.HandleDeleteNote)
			r.Post("/leads/{id}/action-items", adminHandler.HandleAddActionItem)
			r.Put("/leads/{id}/action-items/{itemId}", adminHandler.HandleToggleActionItem)
			r.Delete("/leads/{id}/action-items/{itemId}", adminHandler.HandleDeleteActionItem)
		})
	})

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 Horizon CRM API listening on %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
