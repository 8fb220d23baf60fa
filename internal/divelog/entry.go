// Package divelog keeps the learner's personal dive log: newest-first entries
// persisted as one JSON document in a key-value store.
package divelog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format entries use.
const DateLayout = "2006-01-02"

// ErrInvalidEntry is returned when a form cannot become an entry.
var ErrInvalidEntry = errors.New("invalid dive log entry")

// Entry is one logged dive. Entries are immutable once created.
type Entry struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Location  string  `json:"location"`
	Depth     float64 `json:"depth"`    // meters
	Duration  int     `json:"duration"` // minutes
	Notes     string  `json:"notes"`
	Timestamp int64   `json:"timestamp"` // Unix milliseconds
}

// Form is the raw user input for a new entry.
type Form struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Depth    string `json:"depth"`
	Duration string `json:"duration"`
	Notes    string `json:"notes"`
}

// NewEntry parses and validates f. Depth "18.5" becomes 18.5 and duration
// "45" becomes 45.
func NewEntry(f Form, now time.Time) (Entry, error) {
	location := strings.TrimSpace(f.Location)
	if location == "" {
		return Entry{}, fmt.Errorf("%w: location is required", ErrInvalidEntry)
	}

	date := strings.TrimSpace(f.Date)
	if date == "" {
		return Entry{}, fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Entry{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidEntry, date)
	}

	depth, err := strconv.ParseFloat(strings.TrimSpace(f.Depth), 64)
	if err != nil || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return Entry{}, fmt.Errorf("%w: depth %q is not a number", ErrInvalidEntry, f.Depth)
	}
	if depth < 0 {
		return Entry{}, fmt.Errorf("%w: depth must not be negative", ErrInvalidEntry)
	}

	duration, err := strconv.Atoi(strings.TrimSpace(f.Duration))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: duration %q is not a whole number of minutes", ErrInvalidEntry, f.Duration)
	}
	if duration < 0 {
		return Entry{}, fmt.Errorf("%w: duration must not be negative", ErrInvalidEntry)
	}

	return Entry{
		ID:        uuid.NewString(),
		Date:      date,
		Location:  location,
		Depth:     depth,
		Duration:  duration,
		Notes:     strings.TrimSpace(f.Notes),
		Timestamp: now.UnixMilli(),
	}, nil
}
