package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinAggregationWindowMin = 5
	MaxAggregationWindowMin = 240
)

// ClockRange is an HH:MM to HH:MM range on the wall clock.
type ClockRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Minutes returns both endpoints as minutes since midnight.
func (r ClockRange) Minutes() (start, end int, ok bool) {
	start, ok = ParseClock(r.Start)
	if !ok {
		return 0, 0, false
	}
	end, ok = ParseClock(r.End)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// Wraps reports whether the range crosses midnight.
func (r ClockRange) Wraps() bool {
	start, end, ok := r.Minutes()
	return ok && start > end
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(raw string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 24 {
		return 0, false
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	if hour == 24 && minute != 0 {
		return 0, false
	}
	return hour*60 + minute, true
}

type Preferences struct {
	// WorkHours is keyed by lowercase English weekday name ("monday").
	WorkHours            map[string]ClockRange `json:"work_hours" yaml:"work_hours"`
	QuietHours           []ClockRange          `json:"quiet_hours" yaml:"quiet_hours"`
	DefaultReminder      RemindPolicyEntry     `json:"default_reminder" yaml:"default_reminder"`
	AggregationWindowMin int                   `json:"aggregation_window_min" yaml:"aggregation_window_min"`
	Timezone             string                `json:"timezone" yaml:"timezone"`
}

func (p *Preferences) AggregationWindow() time.Duration {
	return time.Duration(p.AggregationWindowMin) * time.Minute
}

// WorkRangeFor returns the configured work range for the weekday, if any.
func (p *Preferences) WorkRangeFor(day time.Weekday) (ClockRange, bool) {
	r, ok := p.WorkHours[WeekdayKey(day)]
	return r, ok
}

func WeekdayKey(day time.Weekday) string {
	return strings.ToLower(day.String())
}

// DefaultPreferences mirrors the seed row written on first start.
func DefaultPreferences(timezone string) *Preferences {
	workday := ClockRange{Start: "09:00", End: "18:00"}
	return &Preferences{
		WorkHours: map[string]ClockRange{
			"monday":    workday,
			"tuesday":   workday,
			"wednesday": workday,
			"thursday":  workday,
			"friday":    workday,
		},
		QuietHours:           []ClockRange{{Start: "22:00", End: "07:00"}},
		DefaultReminder:      RemindPolicyEntry{OffsetMin: 30, Mode: ReminderModePopup},
		AggregationWindowMin: 30,
		Timezone:             timezone,
	}
}

// Validate checks shape and ranges. It is called at the store boundary only.
func (p *Preferences) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil preferences", ErrInvalidPreferences)
	}

	var errs []error

	for day, r := range p.WorkHours {
		if !isWeekdayKey(day) {
			errs = append(errs, fmt.Errorf("work_hours: unknown weekday %q", day))
		}
		if _, _, ok := r.Minutes(); !ok {
			errs = append(errs, fmt.Errorf("work_hours.%s: invalid range %q-%q", day, r.Start, r.End))
		}
	}

	for i, r := range p.QuietHours {
		if _, _, ok := r.Minutes(); !ok {
			errs = append(errs, fmt.Errorf("quiet_hours[%d]: invalid range %q-%q", i, r.Start, r.End))
		}
	}

	if p.DefaultReminder.OffsetMin < 0 {
		errs = append(errs, errors.New("default_reminder.offset_min must be non-negative"))
	}
	if _, err := ParseReminderMode(string(p.DefaultReminder.Mode)); err != nil {
		errs = append(errs, fmt.Errorf("default_reminder.mode: %w", err))
	}

	if p.AggregationWindowMin < MinAggregationWindowMin || p.AggregationWindowMin > MaxAggregationWindowMin {
		errs = append(errs, fmt.Errorf("aggregation_window_min must be within %d..%d, got %d",
			MinAggregationWindowMin, MaxAggregationWindowMin, p.AggregationWindowMin))
	}

	if p.Timezone == "" {
		errs = append(errs, errors.New("timezone is required"))
	} else if _, err := time.LoadLocation(p.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPreferences, errors.Join(errs...))
	}
	return nil
}

func isWeekdayKey(key string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if WeekdayKey(d) == key {
			return true
		}
	}
	return false
}
