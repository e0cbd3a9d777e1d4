package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
	"github.com/leadcall-ai/leadcall-api/internal/infra/database"
	"github.com/leadcall-ai/leadcall-api/internal/infra/http/handlers"
	"github.com/leadcall-ai/leadcall-api/internal/infra/http/middleware"
	"github.com/leadcall-ai/leadcall-api/internal/infra/integration/relay"
	"github.com/leadcall-ai/leadcall-api/internal/infra/mail"
	"github.com/leadcall-ai/leadcall-api/internal/infra/queue"
	"github.com/leadcall-ai/leadcall-api/internal/infra/store"
	"github.com/leadcall-ai/leadcall-api/internal/usecase"
)

func main() {
	godotenv.Load()

	var (
		leadRepo   entity.LeadRepositoryInterface
		callRepo   entity.CallRepositoryInterface
		db         *sql.DB
		rabbitConn *amqp.Connection
	)

	// 1. Stores: Postgres when DATABASE_URL is set, JSON files otherwise.
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := database.Open(dsn)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pg.Close()
		db = pg
		leadRepo = database.NewLeadStore(pg)
		callRepo = database.NewCallStore(pg)
		log.Printf("using postgres store")
	} else {
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		leadRepo = store.NewLeadStore(dataDir)
		callRepo = store.NewCallStore(dataDir)
		log.Printf("using file store in %s", dataDir)
	}

	// 2. Mail sender (the actual SMTP delivery)
	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if smtpPort == 0 {
		smtpPort = 587
	}
	mailSender := mail.NewEmailSender(
		os.Getenv("SMTP_HOST"), smtpPort,
		os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS"),
		os.Getenv("SMTP_FROM"),
	)

	// 3. Delivery sink: queue-backed when RabbitMQ is configured, with a
	// worker doing the sends; direct SMTP otherwise.
	var sink usecase.NotificationSink = mailSender
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitMQ, err := queue.NewRabbitMQ(url)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		rabbitConn = rabbitMQ.Conn

		sink = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		worker := queue.NewWorker(rabbitMQ.Ch, mailSender)
		go worker.Start(queue.QueueName)
	}

	// 4. Call relay
	trigger := relay.NewClient(os.Getenv("CALL_RELAY_WEBHOOK"))

	// 5. UseCases
	submitDemoUC := usecase.NewSubmitDemoUseCase(leadRepo, trigger)
	processCallbackUC := usecase.NewProcessCallbackUseCase(leadRepo, callRepo, sink)

	// 6. Handlers
	demoHandler := handlers.NewDemoHandler(submitDemoUC)
	webhookHandler := handlers.NewWebhookHandler(processCallbackUC, os.Getenv("VAPI_WEBHOOK_TOKEN"))
	statusHandler := handlers.NewStatusHandler(leadRepo, callRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/api/demo/submit", demoHandler.HandleSubmit)
	r.Get("/api/demo/status/{leadId}", statusHandler.HandleGetStatus)
	r.Post("/api/webhooks/vapi", webhookHandler.Handle)
	r.Get("/api/calls", statusHandler.HandleListCalls)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("LeadCall API listening on :%s", port)
	http.ListenAndServe(":"+port, r)
}
