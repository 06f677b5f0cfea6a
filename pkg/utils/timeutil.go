package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const MinutesPerDay = 1440

// ToMinutes parses an "HH:mm" time-of-day into minutes in [0, 1440).
func ToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format %q, expected HH:mm", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return hour*60 + minute, nil
}

// IsValidHHmm reports whether s is a well-formed "HH:mm" time of day.
func IsValidHHmm(s string) bool {
	_, err := ToMinutes(s)
	return err == nil
}

// RoundDownMinutes snaps a minute-of-day down to the nearest step boundary.
func RoundDownMinutes(m, step int) int {
	if step <= 0 {
		return m
	}
	return (m / step) * step
}

// RoundUpMinutes snaps a minute-of-day up to the nearest step boundary.
func RoundUpMinutes(m, step int) int {
	if step <= 0 {
		return m
	}
	return ((m + step - 1) / step) * step
}

// RoundUpTime snaps a timestamp up to the nearest step-minute boundary.
// A timestamp already on the boundary is returned unchanged.
func RoundUpTime(t time.Time, stepMinutes int) time.Time {
	if stepMinutes <= 0 {
		return t
	}
	step := time.Duration(stepMinutes) * time.Minute
	rounded := t.Truncate(step)
	if rounded.Equal(t) {
		return t
	}
	return rounded.Add(step)
}

// MinuteOfDay returns the minute of day [0, 1440) of a timestamp.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// InWindow reports whether minute-of-day m falls inside the daily half-open
// window [start, end). A window with end < start wraps past midnight, e.g.
// [22:00, 02:00) covers 23:00 and 01:00 but not 12:00.
func InWindow(m, start, end int) bool {
	if start <= end {
		return m >= start && m < end
	}
	return m >= start || m < end
}
