package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"qr-attendance/internal/repository"
	"qr-attendance/internal/services"
)

// Exports the full attendance roster as CSV on stdout, newest day first,
// with the lateness classification applied per record.
func main() {
	godotenv.Load()

	endpoint := getEnv("APPWRITE_ENDPOINT", "https://syd.cloud.appwrite.io/v1")
	project := getEnv("APPWRITE_PROJECT", "")
	key := getEnv("APPWRITE_API_KEY", "")
	databaseID := getEnv("APPWRITE_DATABASE_ID", "686db7ef003cad2f3703")
	collectionID := getEnv("APPWRITE_COLLECTION_ID", "686dbed2001341193519")

	if project == "" || key == "" {
		fmt.Fprintln(os.Stderr, "❌ APPWRITE_PROJECT or APPWRITE_API_KEY not set")
		os.Exit(1)
	}

	// The collection only grants read to logged-in users, so the script
	// authenticates with the server key.
	repo := repository.NewAppwriteRESTAttendanceRepository(
		endpoint, project, databaseID, collectionID, repository.NewServerClient(key))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := repo.ListAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to fetch attendance: %v\n", err)
		os.Exit(1)
	}

	// Group day by day, newest first, matching the roster view ordering.
	sort.SliceStable(records, func(i, j int) bool {
		return services.DateBucket(records[i].Date) > services.DateBucket(records[j].Date)
	})

	w := csv.NewWriter(os.Stdout)
	w.Write([]string{"date", "name", "email", "timestamp", "late"})
	for _, rec := range records {
		late := "no"
		if services.IsLate(rec.Timestamp) {
			late = "yes"
		}
		w.Write([]string{services.DateBucket(rec.Date), rec.Name, rec.Email, rec.Timestamp, late})
	}
	w.Flush()

	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ CSV write error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "✅ Exported %d records\n", len(records))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
