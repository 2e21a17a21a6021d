package services

import (
	"database/sql"
	"log"
	"time"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/database"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/kvstore"
)

// How long an untouched app_state blob is kept before it counts as
// abandoned. Active shifts rewrite their keys on every transition.
const staleStateAge = 14 * 24 * time.Hour

// StartScheduler starts the background task scheduler.
func StartScheduler(db *sql.DB, store *kvstore.PostgresStore) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			// Trigger at 02:10
			if now.Hour() == 2 && now.Minute() == 10 {
				log.Println("Triggering scheduled tasks [02:10]...")

				if n, err := database.ExpireLapsedSubscriptions(db); err != nil {
					log.Printf("Error expiring lapsed subscriptions: %v", err)
				} else if n > 0 {
					log.Printf("Marked %d lapsed subscription(s) as expired", n)
				}

				if n, err := store.PruneStale(staleStateAge); err != nil {
					log.Printf("Error pruning stale app state: %v", err)
				} else if n > 0 {
					log.Printf("Pruned %d stale app state row(s)", n)
				}
			}
		}
	}()
}
