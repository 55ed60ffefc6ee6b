package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// Frequency is the unit a recurrence interval is counted in.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// ErrInvalidFrequency is returned when a projection is requested for a
// frequency outside the four recognized units.
var ErrInvalidFrequency = errors.New("invalid recurrence frequency")

// ProjectNext returns base offset by interval units of freq. Monthly
// and yearly steps use calendar arithmetic, so Jan 31 + 1 month rolls
// over into early March; that matches the standard library and is
// accepted rather than special-cased. An interval below 1 counts as 1.
func ProjectNext(base time.Time, freq Frequency, interval int) (time.Time, error) {
	if interval < 1 {
		interval = 1
	}
	switch freq {
	case Daily:
		return base.AddDate(0, 0, interval), nil
	case Weekly:
		return base.AddDate(0, 0, interval*7), nil
	case Monthly:
		return base.AddDate(0, interval, 0), nil
	case Yearly:
		return base.AddDate(interval, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, freq)
	}
}
