// Package timezone implements the local-date resolution used by the streak
// engine. A user's "local date" is not simply the calendar date in their IANA
// zone: a configurable closure hour shifts the day boundary, so that activity
// before closure_hour:00 local time is attributed to the previous day (a user
// logging a habit at 01:30 with closure hour 4 is still "finishing yesterday").
//
// The Service is an explicitly constructed, injected dependency holding the
// system default zone configuration. Invalid zone names never surface as
// errors from the resolver itself: the resolver substitutes the default zone
// and logs a warning, so callers always receive a usable date.
package timezone

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrInvalidTimezone is returned by Validate when a zone name fails IANA
// resolution. The resolver methods recover from it internally; only profile
// updates surface it to clients.
var ErrInvalidTimezone = errors.New("invalid timezone")

// Config carries a user's day-boundary configuration as supplied by the user
// directory: an IANA zone name and the closure hour in [0,23].
type Config struct {
	// Name is the IANA zone name, e.g. "America/Lima".
	Name string
	// ClosureHour shifts the day boundary: instants before ClosureHour:00
	// local time belong to the previous calendar date. 0 means midnight.
	ClosureHour int
}

// Validate checks that name resolves to an IANA time zone and returns it
// unchanged on success. An empty or unresolvable name yields ErrInvalidTimezone.
func Validate(name string) (string, error) {
	if name == "" {
		return "", ErrInvalidTimezone
	}
	if _, err := time.LoadLocation(name); err != nil {
		return "", ErrInvalidTimezone
	}
	return name, nil
}

// Service resolves local dates and wall-clock instants for user zone
// configurations, falling back to a system default when a stored zone is
// invalid or missing.
type Service struct {
	defaultZone        string
	defaultClosureHour int
}

// NewService constructs a Service with the given defaults. An invalid default
// zone is replaced by UTC so the fallback chain always terminates.
func NewService(defaultZone string, defaultClosureHour int) *Service {
	if _, err := Validate(defaultZone); err != nil {
		log.Warn().Str("timezone", defaultZone).Msg("invalid default timezone, using UTC")
		defaultZone = "UTC"
	}
	if defaultClosureHour < 0 || defaultClosureHour > 23 {
		defaultClosureHour = 0
	}
	return &Service{defaultZone: defaultZone, defaultClosureHour: defaultClosureHour}
}

// DefaultConfig returns the system default zone configuration, used for users
// missing from the directory.
func (s *Service) DefaultConfig() Config {
	return Config{Name: s.defaultZone, ClosureHour: s.defaultClosureHour}
}

// location resolves cfg.Name, substituting the default zone (and finally UTC)
// when the stored name is invalid. The substitution is logged so a silently
// wrong date is never produced without a trace.
func (s *Service) location(cfg Config) *time.Location {
	if cfg.Name != "" {
		if loc, err := time.LoadLocation(cfg.Name); err == nil {
			return loc
		}
		log.Warn().
			Str("timezone", cfg.Name).
			Str("fallback", s.defaultZone).
			Msg("invalid user timezone, falling back to default")
	}
	if loc, err := time.LoadLocation(s.defaultZone); err == nil {
		return loc
	}
	return time.UTC
}

// closureHour bounds cfg.ClosureHour to [0,23]; out-of-range values behave as
// the midnight boundary.
func closureHour(cfg Config) int {
	if cfg.ClosureHour < 0 || cfg.ClosureHour > 23 {
		return 0
	}
	return cfg.ClosureHour
}

// LocalDate resolves the user's local calendar date for the instant at:
// convert to the user's wall clock, subtract the closure hour, take the date.
// The result is normalized to midnight UTC so dates compare and persist
// uniformly. at is interpreted as an absolute instant regardless of its
// location.
func (s *Service) LocalDate(cfg Config, at time.Time) time.Time {
	local := at.In(s.location(cfg))
	shifted := local.Add(-time.Duration(closureHour(cfg)) * time.Hour)
	y, m, d := shifted.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Now resolves the user's local date for the current instant.
func (s *Service) Now(cfg Config) time.Time {
	return s.LocalDate(cfg, time.Now().UTC())
}

// LocalDateTime returns the wall-clock time of the instant at in the user's
// zone (no closure-hour shift). Used for stamping when an entry was recorded.
func (s *Service) LocalDateTime(cfg Config, at time.Time) time.Time {
	return at.In(s.location(cfg))
}

// DateOnly truncates t to its calendar date, normalized to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date after
// DateOnly normalization.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// FormatDate renders a normalized date as YYYY-MM-DD for API payloads.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
