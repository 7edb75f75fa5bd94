package telemetry

import (
	"errors"
	"testing"
)

func TestParseWellID(t *testing.T) {
	valid := map[string]int{"WELL-001": 1, "WELL-010": 10, "WELL-1234": 1234}
	for id, want := range valid {
		got, err := ParseWellID(id)
		if err != nil || got != want {
			t.Fatalf("ParseWellID(%q) = %d, %v", id, got, err)
		}
	}
	for _, id := range []string{"", "WELL-", "WELL-1", "WELL-X", "PUMP-001", "WELL-001a"} {
		if _, err := ParseWellID(id); !errors.Is(err, ErrInvalidWellID) {
			t.Fatalf("ParseWellID(%q) = %v", id, err)
		}
	}
	if _, err := ParseWellID("WELL-99999999999999999999"); !errors.Is(err, ErrWellNotFound) {
		t.Fatalf("overflowing suffix: %v", err)
	}
	if FormatWellID(7) != "WELL-007" {
		t.Fatalf("FormatWellID(7) = %s", FormatWellID(7))
	}
}
