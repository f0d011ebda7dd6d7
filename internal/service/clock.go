package service

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// clockWindow checks that end falls after start on the same day and returns both as
// zero-padded HH:MM. Single-digit hours such as "9:00" are accepted.
func clockWindow(start, end string) (string, string, error) {
	from, err := time.Parse(clockLayout, start)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q is not a time of day", ErrInvalidInput, start)
	}
	to, err := time.Parse(clockLayout, end)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q is not a time of day", ErrInvalidInput, end)
	}
	if !to.After(from) {
		return "", "", errEndNotAfterStart
	}
	return from.Format(clockLayout), to.Format(clockLayout), nil
}

var errEndNotAfterStart = fmt.Errorf("%w: end must be after start", ErrInvalidInput)
