package util

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ParseDuration accepts either a bare number of minutes ("90") or a Go
// duration string ("1h30m", "45s").
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if minutes, err := strconv.Atoi(input); err == nil {
		if minutes < 0 {
			return 0, durationError(input)
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return 0, durationError(input)
	}
	return d, nil
}

func durationError(input string) error {
	return errors.Errorf("Invalid duration format: %q\n\nValid formats:\n"+
		"• minutes: 30, 150\n"+
		"• duration: 45s, 2h, 1h30m", input)
}
