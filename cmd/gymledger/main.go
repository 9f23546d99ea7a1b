package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"gymledger/internal/adapters/storage"
	activityStorePkg "gymledger/internal/adapters/storage/activity"
	configStorePkg "gymledger/internal/adapters/storage/config"
	"gymledger/internal/adapters/storage/kv"
	memberStorePkg "gymledger/internal/adapters/storage/member"
	paymentStorePkg "gymledger/internal/adapters/storage/payment"
	"gymledger/internal/application/events"
	"gymledger/internal/application/orchestrators"
	"gymledger/internal/application/projections"
	"gymledger/internal/domain/pricing"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; environment variables win when both are set.
	_ = godotenv.Load()

	flag.Parse()

	dbPath := envOrDefault("GYMLEDGER_DB", "gymledger.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	timedDB := storage.NewTimedDB(db)

	memberStore := memberStorePkg.NewKVStore(kv.NewSQLiteStore(timedDB, kv.StoreMembers))
	paymentStore := paymentStorePkg.NewKVStore(kv.NewSQLiteStore(timedDB, kv.StorePayments))
	activityStore := activityStorePkg.NewKVStore(kv.NewSQLiteStore(timedDB, kv.StoreActivities))
	configStore := configStorePkg.NewSQLiteStore(timedDB)
	bus := events.NewBus()

	ctx := context.Background()

	// Seed the default price table on first run so resolution never depends
	// on an empty config row.
	if current, err := configStore.Get(ctx, pricing.ConfigKey); err == nil && current == "" {
		if err := orchestrators.ExecuteUpdatePricing(ctx, orchestrators.UpdatePricingInput{Table: pricing.Defaults()}, orchestrators.UpdatePricingDeps{Config: configStore, Bus: bus}); err != nil {
			log.Fatalf("failed to seed pricing: %v", err)
		}
	}

	resolver := pricing.Resolver{Config: configStore}

	switch flag.Arg(0) {
	case "export":
		path := flag.Arg(1)
		if path == "" {
			usage()
		}
		result, err := orchestrators.ExecuteExportBackup(ctx, orchestrators.ExportBackupDeps{
			MemberStore:   memberStore,
			PaymentStore:  paymentStore,
			ActivityStore: activityStore,
			Pricing:       resolver,
		})
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}
		if err := os.WriteFile(path, result.JSON, 0o600); err != nil {
			log.Fatalf("failed to write backup: %v", err)
		}
		fmt.Printf("exported %d members, %d payments, %d activities to %s\n",
			result.Envelope.Metadata.TotalMembers,
			result.Envelope.Metadata.TotalPayments,
			result.Envelope.Metadata.TotalActivities,
			path)

	case "import":
		path := flag.Arg(1)
		if path == "" {
			usage()
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read backup: %v", err)
		}
		result, err := orchestrators.ExecuteImportBackup(ctx, orchestrators.ImportBackupInput{Raw: raw}, orchestrators.ImportBackupDeps{
			MemberStore:   memberStore,
			PaymentStore:  paymentStore,
			ActivityStore: activityStore,
			Bus:           bus,
		})
		if err != nil {
			log.Fatalf("import failed: %v", err)
		}
		fmt.Printf("members: %d imported, %d failed\n", result.Members.Imported, result.Members.Failed)
		fmt.Printf("payments: %d imported, %d failed\n", result.Payments.Imported, result.Payments.Failed)
		fmt.Printf("activities: %d imported, %d failed\n", result.Activities.Imported, result.Activities.Failed)
		for _, msg := range result.Errors {
			fmt.Println("  error:", msg)
		}

	case "stats":
		stats := projections.ExecuteGetPaymentStats(ctx, projections.PaymentStatsDeps{
			PaymentStore: paymentStore,
			MemberStore:  memberStore,
			Pricing:      resolver,
		})
		fmt.Printf("total revenue:   %d\n", stats.TotalRevenue)
		fmt.Printf("today revenue:   %d\n", stats.TodayRevenue)
		fmt.Printf("week revenue:    %d\n", stats.WeekRevenue)
		fmt.Printf("month revenue:   %d\n", stats.MonthRevenue)
		fmt.Printf("payments:        %d (avg %d)\n", stats.PaymentCount, stats.AveragePayment)
		for plan, amount := range stats.SubscriptionTypeBreakdown {
			fmt.Printf("  %-16s %d\n", plan, amount)
		}

	case "pending":
		pending := projections.ExecuteGetPendingPayments(ctx, projections.PendingPaymentsDeps{
			MemberStore: memberStore,
			Pricing:     resolver,
		})
		for _, pm := range pending.Members {
			fmt.Printf("%-30s owes %d (%s)\n", pm.Member.Name, pm.AmountOwed, pm.Member.PaymentStatus)
		}

	case "checkin":
		id := flag.Arg(1)
		if id == "" {
			usage()
		}
		m, err := orchestrators.ExecuteCheckInMember(ctx, orchestrators.CheckInMemberInput{MemberID: id}, orchestrators.CheckInMemberDeps{
			MemberStore:   memberStore,
			ActivityStore: activityStore,
			Bus:           bus,
		})
		if err != nil {
			log.Fatalf("check-in failed: %v", err)
		}
		if m.SessionsRemaining != nil {
			fmt.Printf("%s checked in, %d sessions remaining\n", m.Name, *m.SessionsRemaining)
		} else {
			fmt.Printf("%s checked in\n", m.Name)
		}

	case "passwd":
		pw := flag.Arg(1)
		if pw == "" {
			usage()
		}
		if err := orchestrators.ExecuteChangePassword(ctx, orchestrators.ChangePasswordInput{NewPassword: pw}, orchestrators.ChangePasswordDeps{Config: configStore}); err != nil {
			log.Fatalf("password change failed: %v", err)
		}
		fmt.Println("password updated")

	case "version":
		fmt.Println(version)

	default:
		usage()
	}
}

// usage prints the verb summary and exits.
func usage() {
	fmt.Fprintln(os.Stderr, "usage: gymledger <export file | import file | stats | pending | checkin id | passwd new | version>")
	os.Exit(2)
}

// envOrDefault returns the environment value for key, or fallback when unset.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
