package availability_test

import (
	"testing"
	"time"

	"github.com/poolatlas/poolatlas/backend/internal/availability"
	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/domain/providers"
	"github.com/stretchr/testify/assert"
)

// instant builds a local wall-clock time on a fixed week.
// 2026-06-01 is a Monday.
func instant(day time.Weekday, hour, min int) time.Time {
	base := time.Date(2026, 6, 1, hour, min, 0, 0, time.Local)
	offset := (int(day) - int(time.Monday) + 7) % 7
	return base.AddDate(0, 0, offset)
}

func TestMatches_DayClasses(t *testing.T) {
	cases := []struct {
		class entities.DayClass
		day   time.Weekday
		want  bool
	}{
		{entities.DayClassWeekday, time.Monday, true},
		{entities.DayClassWeekday, time.Friday, true},
		{entities.DayClassWeekday, time.Saturday, false},
		{entities.DayClassWeekday, time.Sunday, false},
		{entities.DayClassSaturday, time.Saturday, true},
		{entities.DayClassSaturday, time.Sunday, false},
		{entities.DayClassSunday, time.Sunday, true},
		{entities.DayClassSunday, time.Monday, false},
		{entities.DayClassWeekendOrHoliday, time.Saturday, true},
		{entities.DayClassWeekendOrHoliday, time.Sunday, true},
		{entities.DayClassWeekendOrHoliday, time.Wednesday, false},
		{entities.DayClassAll, time.Thursday, true},
		{entities.DayClass("unknown"), time.Monday, false},
	}

	for _, tc := range cases {
		rule := entities.ScheduleRule{DayClass: tc.class, StartTime: "09:00", EndTime: "17:00"}
		assert.Equal(t, tc.want, availability.Matches(rule, tc.day),
			"class=%s day=%s", tc.class, tc.day)
	}
}

func TestIsOpen_WeekdayMorningSession(t *testing.T) {
	e := availability.Evaluator{}
	f := &entities.Facility{
		ID: "pool-1",
		ScheduleRules: []entities.ScheduleRule{
			{DayClass: entities.DayClassWeekday, StartTime: "06:00", EndTime: "09:00"},
		},
	}

	// Monday 08:30: session has not ended.
	assert.True(t, e.IsOpen(f, instant(time.Monday, 8, 30), true))

	// Monday 09:30: the only session already ended.
	assert.False(t, e.IsOpen(f, instant(time.Monday, 9, 30), true))

	// End time is strict: at exactly 09:00 the session is over.
	assert.False(t, e.IsOpen(f, instant(time.Monday, 9, 0), true))

	// Without the "still open" refinement the day match is enough.
	assert.True(t, e.IsOpen(f, instant(time.Monday, 9, 30), false))

	// Saturday has no matching rule at all.
	assert.False(t, e.IsOpen(f, instant(time.Saturday, 8, 30), false))
	assert.False(t, e.IsOpen(f, instant(time.Saturday, 8, 30), true))
}

func TestIsOpen_EmptyScheduleNeverOpen(t *testing.T) {
	e := availability.Evaluator{}
	f := &entities.Facility{ID: "pool-2"}

	for day := time.Sunday; day <= time.Saturday; day++ {
		assert.False(t, e.IsOpen(f, instant(day, 12, 0), false))
		assert.False(t, e.IsOpen(f, instant(day, 12, 0), true))
	}
}

func TestIsOpen_NotYetStartedSessionCounts(t *testing.T) {
	// Only end times are checked: a session starting later today still
	// reports open.
	e := availability.Evaluator{}
	f := &entities.Facility{
		ScheduleRules: []entities.ScheduleRule{
			{DayClass: entities.DayClassAll, StartTime: "18:00", EndTime: "21:00"},
		},
	}

	assert.True(t, e.IsOpen(f, instant(time.Tuesday, 10, 0), true))
}

func TestIsOpen_LegacyClosureVetoesSchedule(t *testing.T) {
	e := availability.Evaluator{}
	f := &entities.Facility{
		ScheduleRules: []entities.ScheduleRule{
			{DayClass: entities.DayClassAll, StartTime: "00:00", EndTime: "23:59"},
		},
		ClosedDays: entities.ClosedDays{LegacyText: "Closed every Sunday and public holidays"},
	}

	for _, h := range []int{0, 9, 14, 23} {
		assert.False(t, e.IsOpen(f, instant(time.Sunday, h, 0), false))
		assert.False(t, e.IsOpen(f, instant(time.Sunday, h, 0), true))
	}
	assert.True(t, e.IsOpen(f, instant(time.Monday, 9, 0), false))
}

func TestIsClosedOn_LegacyFailsOpen(t *testing.T) {
	e := availability.Evaluator{}

	for _, text := range []string{"", "irregular", "please call ahead", "年末年始"} {
		closed := entities.ClosedDays{LegacyText: text}
		for day := time.Sunday; day <= time.Saturday; day++ {
			assert.False(t, e.IsClosedOn(closed, instant(day, 10, 0)),
				"text=%q day=%s", text, day)
		}
	}
}

func TestIsClosedOn_WeeklyRuleEveryMonday(t *testing.T) {
	e := availability.Evaluator{}
	closed := entities.ClosedDays{Policy: &entities.HolidayPolicy{
		RegularEnabled: true,
		Rules: []entities.HolidayRule{
			{Occurrence: entities.OccurrenceWeekly, WeekOrdinal: 0, DayOfWeek: 1},
		},
	}}

	// Every Monday across several months.
	for _, d := range []time.Time{
		time.Date(2026, 1, 5, 10, 0, 0, 0, time.Local),
		time.Date(2026, 2, 23, 10, 0, 0, 0, time.Local),
		time.Date(2026, 12, 28, 10, 0, 0, 0, time.Local),
	} {
		assert.True(t, e.IsClosedOn(closed, d), "date=%s", d.Format("2006-01-02"))
	}

	// Any other weekday stays open.
	for day := time.Tuesday; day <= time.Saturday; day++ {
		assert.False(t, e.IsClosedOn(closed, instant(day, 10, 0)), "day=%s", day)
	}
	assert.False(t, e.IsClosedOn(closed, instant(time.Sunday, 10, 0)))
}

func TestIsClosedOn_MonthlySecondSunday(t *testing.T) {
	e := availability.Evaluator{}
	closed := entities.ClosedDays{Policy: &entities.HolidayPolicy{
		RegularEnabled: true,
		Rules: []entities.HolidayRule{
			{Occurrence: entities.OccurrenceMonthly, WeekOrdinal: 2, DayOfWeek: 0},
		},
	}}

	// Second Sundays of 2026.
	assert.True(t, e.IsClosedOn(closed, time.Date(2026, 1, 11, 10, 0, 0, 0, time.Local)))
	assert.True(t, e.IsClosedOn(closed, time.Date(2026, 6, 14, 10, 0, 0, 0, time.Local)))

	// First and third Sundays do not match.
	assert.False(t, e.IsClosedOn(closed, time.Date(2026, 6, 7, 10, 0, 0, 0, time.Local)))
	assert.False(t, e.IsClosedOn(closed, time.Date(2026, 6, 21, 10, 0, 0, 0, time.Local)))

	// A second Monday does not match either.
	assert.False(t, e.IsClosedOn(closed, time.Date(2026, 6, 8, 10, 0, 0, 0, time.Local)))
}

func TestIsClosedOn_DisabledCategoryIgnored(t *testing.T) {
	e := availability.Evaluator{}
	closed := entities.ClosedDays{Policy: &entities.HolidayPolicy{
		RegularEnabled: false,
		Rules: []entities.HolidayRule{
			{Occurrence: entities.OccurrenceWeekly, WeekOrdinal: 0, DayOfWeek: 1},
		},
	}}

	assert.False(t, e.IsClosedOn(closed, instant(time.Monday, 10, 0)))
}

func TestIsClosedOn_SpecificDates(t *testing.T) {
	e := availability.Evaluator{}
	closed := entities.ClosedDays{Policy: &entities.HolidayPolicy{
		SpecificDatesEnabled: true,
		SpecificDates:        []string{"2026-08-14"},
	}}

	assert.True(t, e.IsClosedOn(closed, time.Date(2026, 8, 14, 9, 0, 0, 0, time.Local)))
	assert.False(t, e.IsClosedOn(closed, time.Date(2026, 8, 15, 9, 0, 0, 0, time.Local)))
}

func TestIsClosedOn_TemporaryRange(t *testing.T) {
	e := availability.Evaluator{}
	closed := entities.ClosedDays{Policy: &entities.HolidayPolicy{
		TemporaryEnabled: true,
		TemporaryClosures: []entities.DateRange{
			{From: "2026-07-01", To: "2026-07-10"},
		},
	}}

	assert.True(t, e.IsClosedOn(closed, time.Date(2026, 7, 1, 9, 0, 0, 0, time.Local)))
	assert.True(t, e.IsClosedOn(closed, time.Date(2026, 7, 10, 9, 0, 0, 0, time.Local)))
	assert.False(t, e.IsClosedOn(closed, time.Date(2026, 7, 11, 9, 0, 0, 0, time.Local)))
	assert.False(t, e.IsClosedOn(closed, time.Date(2026, 6, 30, 9, 0, 0, 0, time.Local)))
}

func TestIsClosedOn_PublicHolidayPredicate(t *testing.T) {
	holiday := time.Date(2026, 5, 4, 0, 0, 0, 0, time.Local)
	e := availability.Evaluator{
		Holidays: providers.HolidayFunc(func(d time.Time) bool {
			return d.Month() == holiday.Month() && d.Day() == holiday.Day()
		}),
	}
	closed := entities.ClosedDays{Policy: &entities.HolidayPolicy{
		PublicHolidaysEnabled: true,
	}}

	assert.True(t, e.IsClosedOn(closed, holiday))
	assert.False(t, e.IsClosedOn(closed, holiday.AddDate(0, 0, 10)))

	// Without an injected provider the toggle has no effect.
	bare := availability.Evaluator{}
	assert.False(t, bare.IsClosedOn(closed, holiday))
}

func TestIsOpen_MalformedEndTimeSkipsRule(t *testing.T) {
	e := availability.Evaluator{}
	f := &entities.Facility{
		ScheduleRules: []entities.ScheduleRule{
			{DayClass: entities.DayClassAll, StartTime: "09:00", EndTime: "closing"},
			{DayClass: entities.DayClassAll, StartTime: "09:00", EndTime: "22:00"},
		},
	}

	// The malformed rule is skipped but the valid one still reports open.
	assert.True(t, e.IsOpen(f, instant(time.Wednesday, 10, 0), true))

	// Day-level answer is unaffected by time parsing.
	f.ScheduleRules = f.ScheduleRules[:1]
	assert.True(t, e.IsOpen(f, instant(time.Wednesday, 10, 0), false))
	assert.False(t, e.IsOpen(f, instant(time.Wednesday, 10, 0), true))
}
