package analytics

import (
	"behaviorlytics/api/models"
)

// TopN is the number of entries kept in the top actions and top pages rankings.
const TopN = 5

// DateLayout is the key format of daily activity buckets.
const DateLayout = "2006-01-02"

// Trends summarizes events by UTC calendar day, distinct users and the most
// frequent actions and pages. The result does not depend on input order.
func Trends(events []models.InteractionEvent) models.TrendSummary {
	daily := make(map[string]int)
	users := make(map[string]struct{})
	actions := newCounter[string]()
	pages := newCounter[string]()

	for _, e := range events {
		daily[e.Timestamp.UTC().Format(DateLayout)]++
		users[e.UserID] = struct{}{}
		actions.add(e.Action)
		pages.add(e.Page)
	}

	dailyActivity := make(models.OrderedCounts, 0, len(daily))
	for _, date := range sortedKeys(daily) {
		dailyActivity = append(dailyActivity, models.CountEntry{Key: date, Count: daily[date]})
	}

	return models.TrendSummary{
		TotalInteractions: len(events),
		UniqueUserCount:   len(users),
		DailyActivity:     dailyActivity,
		TopActions:        topByCount(actions, TopN),
		TopPages:          topByCount(pages, TopN),
	}
}
