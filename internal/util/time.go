package util

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

var twelveHourLayouts = []string{"3:04PM", "3:04 PM", "03:04PM", "03:04 PM"}

// ParseTimeString parses a wall-clock time for today, in either 24-hour
// ("23:30") or 12-hour ("11:30PM", "9:45 AM") form.
func ParseTimeString(timeStr string) (time.Time, error) {
	return ParseTimeStringWithNow(timeStr, time.Now())
}

// ParseTimeStringWithNow is ParseTimeString relative to now's date.
func ParseTimeStringWithNow(timeStr string, now time.Time) (time.Time, error) {
	timeStr = strings.TrimSpace(strings.ToUpper(timeStr))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if t, err := time.Parse("15:04", timeStr); err == nil {
		return atClock(today, t), nil
	}
	for _, layout := range twelveHourLayouts {
		if t, err := time.Parse(layout, timeStr); err == nil {
			return atClock(today, t), nil
		}
	}

	return time.Time{}, errors.Errorf("Invalid time format: %q\n\nValid formats:\n"+
		"• 24-hour format: HH:MM (e.g., '23:30', '09:45')\n"+
		"• 12-hour format: HH:MM[AM|PM] (e.g., '11:30PM', '9:45 AM')", timeStr)
}

func atClock(day, clock time.Time) time.Time {
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}

// UntilClock returns the time left until the next occurrence of the
// wall-clock time in timeStr, rolling over to tomorrow when it has passed.
func UntilClock(timeStr string, now time.Time) (time.Time, time.Duration, error) {
	target, err := ParseTimeStringWithNow(timeStr, now)
	if err != nil {
		return time.Time{}, 0, err
	}
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target, target.Sub(now), nil
}
