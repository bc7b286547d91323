package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60
	layout        = "15:04"
)

var (
	// ErrInvalidFormat is returned when a string is not a valid HH:MM time.
	ErrInvalidFormat = errors.New("invalid time string format")

	// ErrOutOfRange is returned when arithmetic leaves the [00:00, 24:00] range.
	ErrOutOfRange = errors.New("time string out of range")
)

// TimeString is a wall-clock time of day with minute precision ("HH:MM").
// The zero value means "not set". 24:00 is allowed as an end-of-day bound.
type TimeString struct {
	minutes int
	set     bool
}

// NewTimeString takes the hour and minute of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute(), set: true}
}

// NewTimeStringFromMinutes builds a TimeString from minutes since midnight.
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %d minutes", ErrOutOfRange, minutes)
	}
	return TimeString{minutes: minutes, set: true}, nil
}

// NewTimeStringFromString parses "HH:MM" (a trailing ":SS" is accepted and ignored).
func NewTimeStringFromString(s string) (TimeString, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeString{}, ErrInvalidFormat
	}
	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		return TimeString{}, ErrInvalidFormat
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeString{}, ErrInvalidFormat
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeString{}, ErrInvalidFormat
	}
	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 || (hours == 24 && minutes != 0) {
		return TimeString{}, ErrInvalidFormat
	}

	return TimeString{minutes: hours*60 + minutes, set: true}, nil
}

// MustTimeString is NewTimeStringFromString that panics on error. Intended for tests and constants.
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// IsEndOfDay reports whether t is the 24:00 bound, which is valid only as an end time.
func (t TimeString) IsEndOfDay() bool {
	return t.set && t.minutes == minutesPerDay
}

// IsZero reports whether the time was never set.
func (t TimeString) IsZero() bool {
	return !t.set
}

// Validate checks the value is set and within a day.
func (t TimeString) Validate() error {
	if !t.set {
		return ErrInvalidFormat
	}
	if t.minutes < 0 || t.minutes > minutesPerDay {
		return ErrOutOfRange
	}
	return nil
}

// Minutes returns minutes since midnight.
func (t TimeString) Minutes() int {
	return t.minutes
}

// AddMinutes shifts the time; the result must stay within the same day.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	return NewTimeStringFromMinutes(t.minutes + n)
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

// Equal compares two times.
func (t TimeString) Equal(other TimeString) bool {
	return t.set == other.set && t.minutes == other.minutes
}

// On combines the time of day with the calendar date of d in d's location.
func (t TimeString) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()).
		Add(time.Duration(t.minutes) * time.Minute)
}

// String formats as "HH:MM"; an unset value formats as "".
func (t TimeString) String() string {
	if !t.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// MarshalJSON implements json.Marshaler.
func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = TimeString{}
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer so the time can be written into TIME columns.
func (t TimeString) Value() (driver.Value, error) {
	if !t.set {
		return nil, nil
	}
	return t.String() + ":00", nil
}

// Scan implements sql.Scanner for TIME columns.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidFormat, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// TIME values may carry fractional seconds ("10:00:00.000000")
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	if parsed, err := time.Parse("15:04:05", s); err == nil {
		*t = NewTimeString(parsed)
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Layout is the canonical text layout of TimeString, usable with time.Parse.
func Layout() string {
	return layout
}
