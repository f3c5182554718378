package models

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAvailabilityAllows(t *testing.T) {
	tests := []struct {
		name string
		a    Availability
		on   time.Time
		want bool
	}{
		{"every day allows monday", Availability{Rule: EveryDay}, date(2026, time.August, 31), true},
		{"every day allows sunday", Availability{Rule: EveryDay}, date(2026, time.August, 30), true},
		{"monday-only allows monday", Availability{Rule: WeekdayOnly, Weekday: time.Monday}, date(2026, time.August, 31), true},
		{"monday-only rejects tuesday", Availability{Rule: WeekdayOnly, Weekday: time.Monday}, date(2026, time.September, 1), false},
		{"15th-only allows the 15th", Availability{Rule: DayOfMonthOnly, DayOfMonth: 15}, date(2026, time.September, 15), true},
		{"15th-only rejects the 16th", Availability{Rule: DayOfMonthOnly, DayOfMonth: 15}, date(2026, time.September, 16), false},
		{"15th-only allows any month", Availability{Rule: DayOfMonthOnly, DayOfMonth: 15}, date(2026, time.December, 15), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Allows(tt.on); got != tt.want {
				t.Fatalf("Allows(%v) = %v, want %v", tt.on, got, tt.want)
			}
		})
	}
}

func TestAvailabilityAllowsTime(t *testing.T) {
	a := Availability{StartHour: 14, EndHour: 19}
	for hour, want := range map[int]bool{13: false, 14: true, 18: true, 19: false} {
		if got := a.AllowsTime(hour); got != want {
			t.Fatalf("AllowsTime(%d) = %v, want %v", hour, got, want)
		}
	}
}

func TestSlots(t *testing.T) {
	a := Availability{StartHour: 15, EndHour: 16}

	slots := a.Slots(10 * time.Minute)
	if len(slots) != 6 {
		t.Fatalf("expected 6 ten-minute slots in one hour, got %d", len(slots))
	}
	if slots[0] != "3:00 PM" {
		t.Fatalf("first slot = %q, want 3:00 PM", slots[0])
	}
	if slots[5] != "3:50 PM" {
		t.Fatalf("last slot = %q, want 3:50 PM", slots[5])
	}

	// A bad width falls back to the default instead of looping forever
	if got := a.Slots(0); len(got) != 6 {
		t.Fatalf("zero width should use default, got %d slots", len(got))
	}
}

func TestRuleText(t *testing.T) {
	singh, ok := DoctorByKey("singh")
	if !ok {
		t.Fatal("singh missing from catalog")
	}
	if got := singh.Availability.RuleText(); got != "सिर्फ सोमवार को उपलब्ध हैं" {
		t.Fatalf("RuleText = %q", got)
	}

	ankit, _ := DoctorByKey("ankit")
	if got := ankit.Availability.RuleText(); got != "सिर्फ महीने की 15 तारीख को उपलब्ध हैं" {
		t.Fatalf("RuleText = %q", got)
	}
}

func TestCatalogIntegrity(t *testing.T) {
	catalog := Catalog()
	if len(catalog) != 4 {
		t.Fatalf("expected 4 doctors, got %d", len(catalog))
	}

	seen := map[string]bool{}
	for _, d := range catalog {
		if d.Key == "" || d.Name == "" || len(d.Keywords) == 0 {
			t.Fatalf("incomplete doctor entry: %+v", d)
		}
		if seen[d.Key] {
			t.Fatalf("duplicate doctor key %q", d.Key)
		}
		seen[d.Key] = true
		if d.Availability.StartHour >= d.Availability.EndHour {
			t.Fatalf("%s has an empty sitting window", d.Key)
		}
	}

	if DefaultDoctor().Key != catalog[0].Key {
		t.Fatal("default doctor must be the catalog's first entry")
	}
}
