package telemetry

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var wellIDPattern = regexp.MustCompile(`^WELL-(\d{3,})$`)

func FormatWellID(n int) string {
	return fmt.Sprintf("WELL-%03d", n)
}

// ParseWellID returns the numeric part of "WELL-007". A suffix too large for an int
// is reported as ErrWellNotFound, since the id itself is well formed.
func ParseWellID(id string) (int, error) {
	match := wellIDPattern.FindStringSubmatch(id)
	if match == nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidWellID, id)
	}
	n, err := strconv.Atoi(match[1])
	if errors.Is(err, strconv.ErrRange) {
		// well formed, just beyond any well number
		return 0, fmt.Errorf("%w: %s", ErrWellNotFound, id)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidWellID, id)
	}
	return n, nil
}
