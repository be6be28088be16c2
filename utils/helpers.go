package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxTimeframeDays caps the trends lookback.
const MaxTimeframeDays = 3650

// ParseTimeframe turns a lookback like "7d" into a duration.
func ParseTimeframe(timeframe string) (time.Duration, error) {
	days, ok := strings.CutSuffix(strings.TrimSpace(timeframe), "d")
	if !ok {
		return 0, fmt.Errorf("timeframe '%s' must be a number of days like '7d'", timeframe)
	}
	n, err := strconv.Atoi(days)
	if err != nil || n < 1 || n > MaxTimeframeDays {
		return 0, fmt.Errorf("timeframe '%s' must be between 1d and %dd", timeframe, MaxTimeframeDays)
	}
	return time.Duration(n) * 24 * time.Hour, nil
}
