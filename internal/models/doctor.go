package models

import (
	"fmt"
	"time"
)

// AvailabilityRule constrains which calendar dates a doctor can be booked on.
type AvailabilityRule int

const (
	EveryDay AvailabilityRule = iota
	WeekdayOnly
	DayOfMonthOnly
)

// Availability is a doctor's bookable-date predicate plus the daily hour window.
type Availability struct {
	Rule       AvailabilityRule
	Weekday    time.Weekday // used when Rule == WeekdayOnly
	DayOfMonth int          // used when Rule == DayOfMonthOnly
	StartHour  int          // 24h clock, inclusive
	EndHour    int          // 24h clock, exclusive
}

// Allows reports whether the doctor sits on the given calendar date.
func (a Availability) Allows(date time.Time) bool {
	switch a.Rule {
	case WeekdayOnly:
		return date.Weekday() == a.Weekday
	case DayOfMonthOnly:
		return date.Day() == a.DayOfMonth
	default:
		return true
	}
}

// AllowsTime reports whether the clock time falls inside the sitting window.
func (a Availability) AllowsTime(hour int) bool {
	return hour >= a.StartHour && hour < a.EndHour
}

var hindiWeekdays = [...]string{
	"रविवार", "सोमवार", "मंगलवार", "बुधवार", "गुरुवार", "शुक्रवार", "शनिवार",
}

// RuleText names the availability rule in Hindi for user-facing re-prompts.
func (a Availability) RuleText() string {
	switch a.Rule {
	case WeekdayOnly:
		return fmt.Sprintf("सिर्फ %s को उपलब्ध हैं", hindiWeekdays[a.Weekday])
	case DayOfMonthOnly:
		return fmt.Sprintf("सिर्फ महीने की %d तारीख को उपलब्ध हैं", a.DayOfMonth)
	default:
		return "हर दिन उपलब्ध हैं"
	}
}

// Slots generates the bookable time labels between StartHour and EndHour at
// the given width. Labels use the 12-hour clock the reception desk uses.
func (a Availability) Slots(width time.Duration) []string {
	if width <= 0 {
		width = 10 * time.Minute
	}
	step := int(width.Minutes())
	var slots []string
	for h := 0; h < 24; h++ {
		if !a.AllowsTime(h) {
			continue
		}
		for m := 0; m < 60; m += step {
			period := "AM"
			displayHour := h
			if h >= 12 {
				period = "PM"
				if h > 12 {
					displayHour = h - 12
				}
			}
			slots = append(slots, fmt.Sprintf("%d:%02d %s", displayHour, m, period))
		}
	}
	return slots
}

// Doctor describes one doctor in the hospital's static catalog.
type Doctor struct {
	Key          string
	Name         string
	Specialty    string
	Department   string
	Experience   string
	Availability Availability
	// Keyword lists drive the deterministic suggestion fallback and
	// name-based selection in the appointment flow.
	Keywords []string
}

// Catalog returns the hospital's doctors in menu order. The first entry is
// the default doctor used when a selection is recognized but ambiguous.
func Catalog() []Doctor {
	return []Doctor{
		{
			Key:        "akhilesh",
			Name:       "डॉ. अखिलेश कुमार कसौधन",
			Specialty:  "शुगर व सामान्य रोग",
			Department: "General Medicine",
			Experience: "15+ वर्ष",
			Availability: Availability{
				Rule:      EveryDay,
				StartHour: 14,
				EndHour:   19,
			},
			Keywords: []string{"akhilesh", "अखिलेश", "sugar", "शुगर", "diabetes", "मधुमेह", "fever", "बुखार"},
		},
		{
			Key:        "ankit",
			Name:       "डॉ. अंकित शुक्ला",
			Specialty:  "दिमाग व नस रोग",
			Department: "Neurology",
			Experience: "10+ वर्ष",
			Availability: Availability{
				Rule:       DayOfMonthOnly,
				DayOfMonth: 15,
				StartHour:  14,
				EndHour:    19,
			},
			Keywords: []string{"ankit", "अंकित", "dimag", "दिमाग", "brain", "nas", "नस", "सिर"},
		},
		{
			Key:        "singh",
			Name:       "डॉ. ए.के. सिंह",
			Specialty:  "नाक, कान, गला",
			Department: "ENT",
			Experience: "20+ वर्ष",
			Availability: Availability{
				Rule:      WeekdayOnly,
				Weekday:   time.Monday,
				StartHour: 15,
				EndHour:   18,
			},
			Keywords: []string{"singh", "सिंह", "nose", "नाक", "ear", "कान", "throat", "गला"},
		},
		{
			Key:        "anand",
			Name:       "डॉ. आनन्द मिश्रा",
			Specialty:  "दांत",
			Department: "Dental",
			Experience: "12+ वर्ष",
			Availability: Availability{
				Rule:      EveryDay,
				StartHour: 15,
				EndHour:   18,
			},
			Keywords: []string{"anand", "आनन्द", "tooth", "teeth", "दांत", "dental"},
		},
	}
}

// DoctorByKey looks a doctor up in the catalog.
func DoctorByKey(key string) (Doctor, bool) {
	for _, d := range Catalog() {
		if d.Key == key {
			return d, true
		}
	}
	return Doctor{}, false
}

// DefaultDoctor is the catalog's first entry, used for ambiguous selections.
func DefaultDoctor() Doctor {
	return Catalog()[0]
}
