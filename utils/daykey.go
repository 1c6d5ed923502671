package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDayKeyToDate parses a day key back to a UTC midnight time
func ParseDayKeyToDate(dayKey string) (time.Time, error) {
	parts := strings.Split(dayKey, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid day key format: %s", dayKey)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in day key: %s", dayKey)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in day key: %s", dayKey)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in day key: %s", dayKey)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// FormatDayKey formats a time as a day key (UTC calendar day)
func FormatDayKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%d-%02d-%02d", t.Year(), t.Month(), t.Day())
}

// GetCurrentDayKey returns the current UTC day as a formatted key
func GetCurrentDayKey() string {
	return FormatDayKey(time.Now().UTC())
}

// GetDayKeysForRange generates day keys for [start, end] inclusive.
// Returns nil when end is before start.
func GetDayKeysForRange(start, end time.Time) []string {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var dayKeys []string
	for t := startDay; !t.After(endDay); t = t.AddDate(0, 0, 1) {
		dayKeys = append(dayKeys, FormatDayKey(t))
	}

	return dayKeys
}

// GetDayKeysForTrailingDays generates day keys for the last N days ending today
func GetDayKeysForTrailingDays(days int) []string {
	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(days - 1))
	return GetDayKeysForRange(start, end)
}

// DayKeyInRange reports whether dayKey falls within [start, end] inclusive
func DayKeyInRange(dayKey string, start, end time.Time) bool {
	day, err := ParseDayKeyToDate(dayKey)
	if err != nil {
		return false
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	return !day.Before(startDay) && !day.After(endDay)
}
