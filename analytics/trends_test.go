package analytics

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"behaviorlytics/api/models"
)

func TestTrendsEmpty(t *testing.T) {
	summary := Trends(nil)

	assert.Equal(t, 0, summary.TotalInteractions)
	assert.Equal(t, 0, summary.UniqueUserCount)
	assert.Empty(t, summary.DailyActivity)
	assert.Empty(t, summary.TopActions)
	assert.Empty(t, summary.TopPages)

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_interactions":0,"unique_users":0,"daily_activity":{},"top_actions":{},"top_pages":{}}`, string(raw))
}

func TestTrendsDailyActivity(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	var events []models.InteractionEvent
	for i := 0; i < 5; i++ {
		events = append(events, models.InteractionEvent{UserID: "u2", Action: "click", Page: "/b", Timestamp: day2.Add(time.Duration(i) * time.Hour)})
	}
	for i := 0; i < 10; i++ {
		events = append(events, models.InteractionEvent{UserID: "u1", Action: "view", Page: "/a", Timestamp: day1.Add(time.Duration(i) * time.Hour)})
	}

	summary := Trends(events)

	assert.Equal(t, 15, summary.TotalInteractions)
	assert.Equal(t, 2, summary.UniqueUserCount)
	assert.Equal(t, models.OrderedCounts{
		{Key: "2024-01-01", Count: 10},
		{Key: "2024-01-02", Count: 5},
	}, summary.DailyActivity)
	assert.Equal(t, []string{"view", "click"}, summary.TopActions.Keys())
}

func TestTrendsUsesUTCDates(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	events := []models.InteractionEvent{
		{UserID: "u1", Action: "a", Page: "/", Timestamp: time.Date(2024, 3, 2, 8, 0, 0, 0, tokyo)},
	}

	summary := Trends(events)

	assert.Equal(t, []string{"2024-03-01"}, summary.DailyActivity.Keys())
}

func TestTrendsTopRankingTruncatesAndBreaksTies(t *testing.T) {
	counts := map[string]int{"/g": 1, "/f": 2, "/e": 2, "/d": 3, "/c": 3, "/b": 4, "/a": 1}
	var events []models.InteractionEvent
	for page, n := range counts {
		for i := 0; i < n; i++ {
			events = append(events, models.InteractionEvent{UserID: "u", Action: "view", Page: page, Timestamp: base})
		}
	}

	summary := Trends(events)

	assert.Equal(t, models.OrderedCounts{
		{Key: "/b", Count: 4},
		{Key: "/c", Count: 3},
		{Key: "/d", Count: 3},
		{Key: "/e", Count: 2},
		{Key: "/f", Count: 2},
	}, summary.TopPages)

	raw, err := json.Marshal(summary.TopPages)
	require.NoError(t, err)
	assert.Equal(t, `{"/b":4,"/c":3,"/d":3,"/e":2,"/f":2}`, string(raw))
}

func TestTrendsPermutationInvariant(t *testing.T) {
	actions := []string{"click", "view", "scroll", "search", "submit", "hover", "download"}
	pages := []string{"/home", "/products", "/about", "/pricing", "/blog", "/contact"}
	rng := rand.New(rand.NewSource(7))

	var events []models.InteractionEvent
	for i := 0; i < 300; i++ {
		events = append(events, models.InteractionEvent{
			UserID:    []string{"u1", "u2", "u3", "u4"}[rng.Intn(4)],
			Action:    actions[rng.Intn(len(actions))],
			Page:      pages[rng.Intn(len(pages))],
			Timestamp: base.Add(time.Duration(rng.Intn(14*24)) * time.Hour),
		})
	}

	want := Trends(events)
	assert.Equal(t, len(events), want.TotalInteractions)

	for i := 0; i < 5; i++ {
		shuffled := append([]models.InteractionEvent(nil), events...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Trends(shuffled))
	}
}
