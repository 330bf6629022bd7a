package domain

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{raw: "00:00", want: 0, wantOK: true},
		{raw: "09:30", want: 570, wantOK: true},
		{raw: " 22:00 ", want: 1320, wantOK: true},
		{raw: "24:00", want: 1440, wantOK: true},
		{raw: "24:01", wantOK: false},
		{raw: "12:60", wantOK: false},
		{raw: "noon", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseClock(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestClockRangeWraps(t *testing.T) {
	if !(ClockRange{Start: "22:00", End: "07:00"}).Wraps() {
		t.Error("expected 22:00-07:00 to wrap")
	}
	if (ClockRange{Start: "09:00", End: "18:00"}).Wraps() {
		t.Error("expected 09:00-18:00 not to wrap")
	}
	if (ClockRange{Start: "bad", End: "07:00"}).Wraps() {
		t.Error("expected malformed range not to wrap")
	}
}

func TestPreferencesValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Preferences)
		valid  bool
	}{
		{name: "defaults", mutate: func(*Preferences) {}, valid: true},
		{name: "aggregation lower bound", mutate: func(p *Preferences) { p.AggregationWindowMin = 5 }, valid: true},
		{name: "aggregation upper bound", mutate: func(p *Preferences) { p.AggregationWindowMin = 240 }, valid: true},
		{name: "aggregation too small", mutate: func(p *Preferences) { p.AggregationWindowMin = 4 }},
		{name: "aggregation too large", mutate: func(p *Preferences) { p.AggregationWindowMin = 241 }},
		{name: "unknown weekday", mutate: func(p *Preferences) { p.WorkHours["funday"] = ClockRange{Start: "09:00", End: "10:00"} }},
		{name: "bad work range", mutate: func(p *Preferences) { p.WorkHours["monday"] = ClockRange{Start: "9am", End: "18:00"} }},
		{name: "bad quiet range", mutate: func(p *Preferences) { p.QuietHours = []ClockRange{{Start: "22:00", End: "25:00"}} }},
		{name: "negative offset", mutate: func(p *Preferences) { p.DefaultReminder.OffsetMin = -1 }},
		{name: "unknown mode", mutate: func(p *Preferences) { p.DefaultReminder.Mode = "vibrate" }},
		{name: "missing timezone", mutate: func(p *Preferences) { p.Timezone = "" }},
		{name: "unknown timezone", mutate: func(p *Preferences) { p.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := DefaultPreferences("Australia/Sydney")
			tt.mutate(prefs)

			err := prefs.Validate()
			if tt.valid {
				if err != nil {
					t.Errorf("expected valid, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidPreferences) {
				t.Errorf("expected ErrInvalidPreferences, got %v", err)
			}
		})
	}
}

func TestPreferencesValidate_Nil(t *testing.T) {
	var prefs *Preferences
	if err := prefs.Validate(); !errors.Is(err, ErrInvalidPreferences) {
		t.Errorf("expected ErrInvalidPreferences, got %v", err)
	}
}

func TestWorkRangeFor(t *testing.T) {
	prefs := DefaultPreferences("UTC")

	if _, ok := prefs.WorkRangeFor(time.Saturday); ok {
		t.Error("expected no range on saturday")
	}
	r, ok := prefs.WorkRangeFor(time.Wednesday)
	if !ok || r.Start != "09:00" || r.End != "18:00" {
		t.Errorf("unexpected wednesday range: %+v (ok=%v)", r, ok)
	}
	if prefs.AggregationWindow() != 30*time.Minute {
		t.Errorf("expected 30m aggregation window, got %v", prefs.AggregationWindow())
	}
}
