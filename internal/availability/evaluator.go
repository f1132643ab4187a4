// Package availability decides whether a facility's free-swim session is
// open at a given instant, combining weekly schedule rules with the
// facility's closed-day descriptor.
package availability

import (
	"strconv"
	"strings"
	"time"

	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/domain/providers"
)

const isoDate = "2006-01-02"

// Legacy closed-day labels were free text matched by substring. Only the
// two phrases below were ever enforced; any other text is advisory,
// display-only, and fails open to "not closed".
const (
	legacyEveryMonday = "every monday"
	legacyEverySunday = "every sunday"
)

// Matches reports whether a schedule rule applies on the given weekday.
// Total over all inputs; unknown day classes never match.
func Matches(rule entities.ScheduleRule, day time.Weekday) bool {
	switch rule.DayClass {
	case entities.DayClassAll:
		return true
	case entities.DayClassWeekday:
		return day >= time.Monday && day <= time.Friday
	case entities.DayClassSaturday:
		return day == time.Saturday
	case entities.DayClassSunday:
		return day == time.Sunday
	case entities.DayClassWeekendOrHoliday:
		return day == time.Saturday || day == time.Sunday
	}
	return false
}

// Evaluator answers open/closed questions for facility records.
// Holidays may be nil, in which case no date counts as a public holiday.
type Evaluator struct {
	Holidays providers.HolidayProvider
}

// IsClosedOn reports whether the facility is fully shut on the calendar
// day containing date. Malformed descriptors fail open.
func (e Evaluator) IsClosedOn(closed entities.ClosedDays, date time.Time) bool {
	if closed.Policy != nil {
		return e.policyCloses(closed.Policy, date)
	}
	return legacyCloses(closed.LegacyText, date.Weekday())
}

// IsOpen reports whether the facility has a free-swim session at instant.
// With stillOpenNow false it answers "is there some session today"; with
// true it additionally requires at least one matching session whose end
// time has not yet passed. Start times are deliberately not checked: a
// session starting later today still counts as open.
func (e Evaluator) IsOpen(f *entities.Facility, instant time.Time, stillOpenNow bool) bool {
	if e.IsClosedOn(f.ClosedDays, instant) {
		return false
	}

	day := instant.Weekday()
	nowMins := instant.Hour()*60 + instant.Minute()
	for _, rule := range f.ScheduleRules {
		if !Matches(rule, day) {
			continue
		}
		if !stillOpenNow {
			return true
		}
		if end, ok := minutesOfDay(rule.EndTime); ok && end > nowMins {
			return true
		}
	}
	return false
}

func (e Evaluator) policyCloses(p *entities.HolidayPolicy, date time.Time) bool {
	if p.RegularEnabled {
		for _, rule := range p.Rules {
			if ruleMatches(rule, date) {
				return true
			}
		}
	}

	if p.SpecificDatesEnabled {
		day := date.Format(isoDate)
		for _, d := range p.SpecificDates {
			if d == day {
				return true
			}
		}
	}

	if p.TemporaryEnabled {
		day := date.Format(isoDate)
		for _, r := range p.TemporaryClosures {
			if r.From != "" && r.To != "" && r.From <= day && day <= r.To {
				return true
			}
		}
	}

	if p.PublicHolidaysEnabled && e.Holidays != nil && e.Holidays.IsPublicHoliday(date) {
		return true
	}

	return false
}

func ruleMatches(rule entities.HolidayRule, date time.Time) bool {
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return false
	}
	if time.Weekday(rule.DayOfWeek) != date.Weekday() {
		return false
	}

	switch rule.Occurrence {
	case entities.OccurrenceWeekly:
		return true
	case entities.OccurrenceMonthly:
		if rule.WeekOrdinal == 0 {
			return true
		}
		return weekOrdinalOf(date) == rule.WeekOrdinal
	}
	return false
}

// weekOrdinalOf returns which occurrence of its weekday the date is
// within its month (the 1st..7th is 1, the 8th..14th is 2, ...).
func weekOrdinalOf(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

func legacyCloses(text string, day time.Weekday) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	if day == time.Monday && strings.Contains(lower, legacyEveryMonday) {
		return true
	}
	if day == time.Sunday && strings.Contains(lower, legacyEverySunday) {
		return true
	}
	return false
}

// minutesOfDay parses an "HH:MM" string into minutes since midnight.
// Malformed times report false and the rule is skipped.
func minutesOfDay(hhmm string) (int, bool) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
