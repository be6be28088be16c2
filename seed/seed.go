// Package seed generates demo interaction data so dashboards have something to show.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"behaviorlytics/api/models"
	"behaviorlytics/api/store"
)

var (
	Actions   = []string{"page_view", "click", "scroll", "hover", "submit", "search", "download", "add_to_cart", "checkout"}
	Pages     = []string{"/home", "/products", "/about", "/contact", "/pricing", "/features", "/blog", "/dashboard", "/profile"}
	devices   = []string{"desktop", "mobile", "tablet"}
	referrers = []string{"google", "facebook", "direct", "twitter", "linkedin", "reddit"}
)

type Options struct {
	Users int
	Days  int
	// Now is the end of the generated period.
	Now time.Time
}

// Generate builds Days worth of demo events for Users users. Recent days get
// more traffic than older ones.
func Generate(rng *rand.Rand, opts Options) []models.InteractionEvent {
	users := make([]string, opts.Users)
	for i := range users {
		users[i] = fmt.Sprintf("demo_user_%03d", i+1)
	}

	start := opts.Now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -opts.Days)
	var events []models.InteractionEvent
	for day := 0; day < opts.Days; day++ {
		date := start.AddDate(0, 0, day)
		n := 20 + rng.Intn(31) + day*2
		for i := 0; i < n; i++ {
			events = append(events, models.InteractionEvent{
				ID:     uuid.New().String(),
				UserID: users[rng.Intn(len(users))],
				Action: Actions[rng.Intn(len(Actions))],
				Page:   Pages[rng.Intn(len(Pages))],
				Metadata: models.Metadata{
					"session_duration": 10 + rng.Intn(591),
					"device":           devices[rng.Intn(len(devices))],
					"referrer":         referrers[rng.Intn(len(referrers))],
					"scroll_depth":     10 + rng.Intn(91),
					"clicks":           1 + rng.Intn(20),
				},
				Timestamp: date.Add(time.Duration(rng.Intn(24))*time.Hour + time.Duration(rng.Intn(60))*time.Minute),
			})
		}
	}
	return events
}

// Run seeds s unless it already holds data. It returns the number of inserted events.
func Run(ctx context.Context, s store.EventStore, rng *rand.Rand, opts Options) (int, error) {
	existing, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		log.Printf("Store already has %d interactions. Skipping seed.", existing)
		return 0, nil
	}

	events := Generate(rng, opts)
	if err := s.AppendBatch(ctx, events); err != nil {
		return 0, fmt.Errorf("failed to insert demo data: %w", err)
	}
	log.Printf("Successfully seeded %d interactions.", len(events))
	return len(events), nil
}
