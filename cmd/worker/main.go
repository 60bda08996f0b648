package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"leadpilot/internal/config"
	"leadpilot/internal/models"
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

	// Services
	generator := service.NewGeminiGenerator(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	templateSvc := service.NewTemplateService(generator)
	senderSvc := service.NewSenderService(cfg.Engine.SenderSuccessRate, cfg.Engine.SendTimeout)
	executorSvc := service.NewExecutorService(leadRepo, messageRepo, automationRepo, activityRepo, templateSvc, senderSvc)
	dispatcherSvc := service.NewDispatcherService(automationRepo, settingsRepo, executorSvc)
	scannerSvc := service.NewScannerService(automationRepo, leadRepo, bookingRepo, executorSvc)
	log.Println("✅ Services initialized")

	// Connect to RabbitMQ
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	log.Println("✅ Connected to RabbitMQ")

	// Start consumer
	triggerHandler := createTriggerHandler(leadRepo, bookingRepo, messageRepo, dispatcherSvc)
	consumer, err := queue.NewConsumer(conn, cfg.Engine.TriggerQueue, triggerHandler)
	if err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.Printf("✅ Worker started, consuming from queue: %s", cfg.Engine.TriggerQueue)

	// Start the scheduled-trigger scan loop
	scanStop := make(chan struct{})
	scanDone := make(chan struct{})
	go runScanLoop(scannerSvc, cfg.Engine.ScanInterval, scanStop, scanDone)
	log.Printf("✅ Scheduled scan running every %s", cfg.Engine.ScanInterval)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down gracefully...")

	close(scanStop)
	<-scanDone

	if err := consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	conn.Close()
	db.Close()

	log.Println("✅ Worker stopped")
}

// createTriggerHandler rebuilds the event context from the referenced
// entities and dispatches the trigger. Jobs referencing entities that no
// longer exist are acknowledged and dropped; requeueing them cannot succeed.
func createTriggerHandler(
	leadRepo repository.LeadRepository,
	bookingRepo repository.BookingRepository,
	messageRepo repository.MessageRepository,
	dispatcher service.TriggerDispatcher,
) queue.TriggerHandler {
	return func(job *queue.TriggerJob) error {
		ctx := context.Background()

		trigger := models.Trigger(job.Trigger)
		if !trigger.Valid() {
			log.Printf("⚠️  Dropping job with unknown trigger %q", job.Trigger)
			return nil
		}
		if job.UserID == 0 {
			log.Printf("⚠️  Dropping %s job without owner", trigger)
			return nil
		}

		ec := &service.EventContext{
			UserID: job.UserID,
			Extras: job.Extras,
		}

		if job.LeadID != 0 {
			lead, err := leadRepo.GetByID(ctx, job.UserID, job.LeadID)
			if err != nil {
				return err
			}
			if lead == nil {
				log.Printf("⚠️  Dropping %s job: lead %d not found", trigger, job.LeadID)
				return nil
			}
			ec.Lead = lead
		}

		if job.BookingID != 0 {
			booking, err := bookingRepo.GetByID(ctx, job.UserID, job.BookingID)
			if err != nil {
				return err
			}
			if booking == nil {
				log.Printf("⚠️  Dropping %s job: booking %d not found", trigger, job.BookingID)
				return nil
			}
			ec.Booking = booking
		}

		if job.MessageID != 0 {
			message, err := messageRepo.GetByID(ctx, job.UserID, job.MessageID)
			if err != nil {
				return err
			}
			if message == nil {
				log.Printf("⚠️  Dropping %s job: message %d not found", trigger, job.MessageID)
				return nil
			}
			ec.Message = message
		}

		fired := dispatcher.Dispatch(ctx, trigger, ec)
		log.Printf("📨 Processed %s for user %d, %d automation(s) fired", trigger, job.UserID, fired)
		return nil
	}
}

// runScanLoop runs the scanner on a fixed interval until stopped. One pass
// runs immediately on startup so pending work is not delayed a full interval.
func runScanLoop(scanner *service.ScannerService, interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	scanner.Scan(context.Background())

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			scanner.Scan(context.Background())
		}
	}
}
