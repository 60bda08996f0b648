package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"leadpilot/internal/config"
	"leadpilot/internal/handler"
	"leadpilot/internal/middleware"
	"leadpilot/internal/queue"
	"leadpilot/internal/repository"
	"leadpilot/internal/service"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Connected to database")

	// Repositories
	leadRepo := repository.NewLeadRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	automationRepo := repository.NewAutomationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// RabbitMQ is optional for the API: without it, triggers dispatch
	// synchronously inside the request.
	var conn *queue.Connection
	var publisher service.TriggerPublisher
	if c, err := queue.NewConnection(cfg.GetRabbitMQURL()); err != nil {
		log.Printf("⚠️  RabbitMQ unavailable, triggers will dispatch synchronously: %v", err)
	} else {
		conn = c
		defer conn.Close()

		p, err := queue.NewPublisher(conn, cfg.Engine.TriggerQueue)
		if err != nil {
			log.Printf("⚠️  Failed to create publisher, triggers will dispatch synchronously: %v", err)
		} else {
			publisher = p
			log.Println("✅ Connected to RabbitMQ")
		}
	}

	// Services
	generator := service.NewGeminiGenerator(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	templateSvc := service.NewTemplateService(generator)
	senderSvc := service.NewSenderService(cfg.Engine.SenderSuccessRate, cfg.Engine.SendTimeout)
	executorSvc := service.NewExecutorService(leadRepo, messageRepo, automationRepo, activityRepo, templateSvc, senderSvc)
	dispatcherSvc := service.NewDispatcherService(automationRepo, settingsRepo, executorSvc)
	eventSvc := service.NewEventService(leadRepo, bookingRepo, messageRepo, dispatcherSvc, publisher)
	automationSvc := service.NewAutomationService(automationRepo, leadRepo, executorSvc)
	settingsSvc := service.NewSettingsService(settingsRepo, automationRepo)
	crmSvc := service.NewCRMService(leadRepo, bookingRepo, messageRepo, activityRepo)
	healthSvc := service.NewHealthService(db, conn, "1.0.0")
	log.Println("✅ Services initialized")

	// Handlers
	healthHandler := handler.NewHealthHandler(healthSvc)
	automationHandler := handler.NewAutomationHandler(automationSvc)
	leadHandler := handler.NewLeadHandler(eventSvc, crmSvc)
	bookingHandler := handler.NewBookingHandler(eventSvc, crmSvc)
	messageHandler := handler.NewMessageHandler(eventSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	activityHandler := handler.NewActivityHandler(crmSvc)

	// Router
	router := mux.NewRouter()
	router.Use(middleware.Recovery)

	router.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")

	router.HandleFunc("/automations", automationHandler.Create).Methods("POST")
	router.HandleFunc("/automations", automationHandler.List).Methods("GET")
	router.HandleFunc("/automations/{id}", automationHandler.GetByID).Methods("GET")
	router.HandleFunc("/automations/{id}", automationHandler.Update).Methods("PUT")
	router.HandleFunc("/automations/{id}", automationHandler.Delete).Methods("DELETE")
	router.HandleFunc("/automations/{id}/run", automationHandler.Run).Methods("POST")

	router.HandleFunc("/leads", leadHandler.Create).Methods("POST")
	router.HandleFunc("/leads", leadHandler.List).Methods("GET")
	router.HandleFunc("/leads/{id}", leadHandler.GetByID).Methods("GET")
	router.HandleFunc("/leads/{id}/status", leadHandler.TransitionStatus).Methods("PUT")
	router.HandleFunc("/leads/{id}/messages", leadHandler.ListMessages).Methods("GET")

	router.HandleFunc("/bookings", bookingHandler.Create).Methods("POST")
	router.HandleFunc("/bookings/{id}", bookingHandler.GetByID).Methods("GET")
	router.HandleFunc("/bookings/{id}/status", bookingHandler.TransitionStatus).Methods("PUT")

	router.HandleFunc("/messages/inbound", messageHandler.RecordInbound).Methods("POST")

	router.HandleFunc("/settings", settingsHandler.Get).Methods("GET")
	router.HandleFunc("/settings", settingsHandler.Update).Methods("PUT")

	router.HandleFunc("/activities", activityHandler.List).Methods("GET")

	// Start server
	port := ":" + cfg.Server.Port
	log.Printf("🚀 API Server starting on port %s", port)
	log.Printf("📍 Health check: http://localhost%s/health", port)
	log.Printf("🌍 Environment: %s", cfg.Env)

	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
