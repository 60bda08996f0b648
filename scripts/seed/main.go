package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"leadpilot/internal/config"
)

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Command-line flags
var (
	leadsCount = flag.Int("leads", 10, "Number of demo leads to create")
	clearData  = flag.Bool("clear", false, "Clear existing seed data before inserting")
	showHelp   = flag.Bool("help", false, "Show usage information")
)

const demoEmail = "demo@leadpilot.local"

func main() {
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	printInfo("=== LeadPilot Database Seeder ===\n")

	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	printInfo("Connecting to database...")
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}
	printSuccess("✓ Connected to database\n")

	if *clearData {
		if err := clearSeedData(db); err != nil {
			printError(fmt.Sprintf("Failed to clear seed data: %v", err))
			os.Exit(1)
		}
	}

	userID, err := seedDemoUser(db)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed demo user: %v", err))
		os.Exit(1)
	}

	leadsCreated, err := seedLeads(db, userID, *leadsCount)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed leads: %v", err))
		os.Exit(1)
	}

	automationsCreated, err := seedDefaultAutomations(db, userID)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed automations: %v", err))
		os.Exit(1)
	}

	printInfo("\n=== Seeding Summary ===")
	printSuccess(fmt.Sprintf("✓ Demo user ID: %d", userID))
	printSuccess(fmt.Sprintf("✓ Leads created: %d", leadsCreated))
	printSuccess(fmt.Sprintf("✓ Automations created: %d", automationsCreated))
	printInfo("\nSeeding completed successfully!")
}

// clearSeedData removes data previously inserted by this seeder
func clearSeedData(db *sql.DB) error {
	printWarning("Clearing existing seed data...")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM users WHERE email = $1", demoEmail); err != nil {
		return fmt.Errorf("failed to delete demo user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	printSuccess("✓ Seed data cleared\n")
	return nil
}

// seedDemoUser inserts or reuses the demo user account
func seedDemoUser(db *sql.DB) (int, error) {
	var id int
	err := db.QueryRow(`
		INSERT INTO users (email, name, business_name)
		VALUES ($1, 'Demo Owner', 'Glow Studio')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, demoEmail).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert demo user: %w", err)
	}
	return id, nil
}

// seedLeads inserts demo leads in a mix of statuses. A few are backdated and
// never contacted so the stale-lead scan has something to find.
func seedLeads(db *sql.DB, userID, count int) (int, error) {
	names := []string{"Ana Torres", "Brian Okafor", "Chloe Dubois", "Daniel Kim", "Elena Rossi",
		"Felix Wagner", "Grace Mwangi", "Hugo Silva", "Iris Chen", "Jonas Berg"}
	sources := []string{"website", "instagram", "referral", "facebook", "walk-in"}
	statuses := []string{"new", "contacted", "qualified", "new", "contacted"}

	created := 0
	for i := 0; i < count; i++ {
		name := names[i%len(names)]
		email := fmt.Sprintf("lead%02d@example.com", i+1)
		phone := fmt.Sprintf("+2547001001%02d", i+1)
		source := sources[i%len(sources)]
		status := statuses[i%len(statuses)]

		createdAt := time.Now().AddDate(0, 0, -(i % 14))
		var lastContacted *time.Time
		if i%3 == 1 {
			t := createdAt.Add(24 * time.Hour)
			lastContacted = &t
		}

		_, err := db.Exec(`
			INSERT INTO leads (user_id, name, email, phone, status, source, last_contacted, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		`, userID, name, email, phone, status, source, lastContacted, createdAt)
		if err != nil {
			return created, fmt.Errorf("failed to insert lead %s: %w", email, err)
		}
		created++
	}

	return created, nil
}

// seedDefaultAutomations inserts the starter automation set a new account
// gets out of the box
func seedDefaultAutomations(db *sql.DB, userID int) (int, error) {
	defaults := []struct {
		name       string
		kind       string
		trigger    string
		delayHours int
		delayDays  int
		channel    string
		template   string
		conditions string
	}{
		{"Welcome New Leads", "lead_followup", "new_lead", 0, 0, "email",
			"Hi {lead_name}, thanks for reaching out! We'd love to help you get started.", "{}"},
		{"Re-engage Quiet Leads", "lead_followup", "no_contact_days", 0, 3, "email",
			"Hi {lead_name}, just checking in. Is there anything we can help with?", "{}"},
		{"Booking Confirmation", "confirmation", "booking_created", 0, 0, "email",
			"Hi {lead_name}, your booking is confirmed. See you soon!", "{}"},
		{"24h Booking Reminder", "booking_reminder", "booking_reminder_hours", 24, 0, "sms",
			"Hi {lead_name}, a reminder about your session tomorrow.", "{}"},
		{"Post-Session Thank You", "post_session", "session_completed", 0, 0, "email",
			"Hi {lead_name}, thank you for coming in today. We'd love your feedback!", "{}"},
		{"No-Show Follow-up", "no_show_followup", "no_show", 0, 0, "sms",
			"Hi {lead_name}, we missed you today. Want to reschedule?", "{}"},
		{"Mark Qualified Leads", "crm_update", "lead_status_changed", 0, 0, "email",
			"", `{"new_status": "qualified"}`},
	}

	created := 0
	for _, d := range defaults {
		_, err := db.Exec(`
			INSERT INTO automations (user_id, name, type, enabled, trigger, delay_hours, delay_days, channel, message_template, conditions)
			VALUES ($1, $2, $3, TRUE, $4, $5, $6, $7, $8, $9)
		`, userID, d.name, d.kind, d.trigger, d.delayHours, d.delayDays, d.channel, d.template, d.conditions)
		if err != nil {
			return created, fmt.Errorf("failed to insert automation %s: %w", d.name, err)
		}
		created++
	}

	return created, nil
}

// Helper functions for colored output

func printSuccess(msg string) {
	fmt.Printf("%s%s%s\n", colorGreen, msg, colorReset)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorRed, msg, colorReset)
}

func printInfo(msg string) {
	fmt.Printf("%s%s%s\n", colorCyan, msg, colorReset)
}

func printWarning(msg string) {
	fmt.Printf("%s%s%s\n", colorYellow, msg, colorReset)
}

func printUsage() {
	printInfo("=== LeadPilot Database Seeder ===\n")
	fmt.Println("Usage: go run scripts/seed [flags]")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  go run scripts/seed")
	fmt.Println("  go run scripts/seed -leads 25")
	fmt.Println("  go run scripts/seed -clear")
}
