package entities

// ClosedDays describes which calendar days a facility is fully shut.
// It is a tagged variant: when Policy is set the structured rules apply
// and LegacyText is ignored; otherwise LegacyText is matched against the
// small set of phrases old records used. New writers should always
// produce a Policy; LegacyText exists only so old records stay readable.
type ClosedDays struct {
	LegacyText string         `json:"legacy_text,omitempty"`
	Policy     *HolidayPolicy `json:"policy,omitempty"`
}

// Structured reports whether the descriptor carries a structured policy.
func (c ClosedDays) Structured() bool {
	return c.Policy != nil
}

// HolidayOccurrence distinguishes weekly from monthly closure rules.
type HolidayOccurrence string

const (
	// OccurrenceWeekly repeats every week.
	OccurrenceWeekly HolidayOccurrence = "weekly"

	// OccurrenceMonthly repeats on the nth weekday of each month.
	OccurrenceMonthly HolidayOccurrence = "monthly"
)

// HolidayRule is one recurring full-closure rule. WeekOrdinal 0 means
// "every occurrence"; 1..5 selects the nth occurrence of DayOfWeek within
// the month. DayOfWeek uses 0=Sunday..6=Saturday.
type HolidayRule struct {
	Occurrence  HolidayOccurrence `json:"occurrence"`
	WeekOrdinal int               `json:"week_ordinal"`
	DayOfWeek   int               `json:"day_of_week"`
}

// DateRange is an inclusive span of ISO dates ("2006-01-02").
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// HolidayPolicy is the structured closed-day representation. Each category
// only participates in evaluation when its toggle is enabled; disabled
// categories keep their data but never close the facility.
type HolidayPolicy struct {
	RegularEnabled        bool          `json:"regular_enabled"`
	SpecificDatesEnabled  bool          `json:"specific_dates_enabled"`
	PublicHolidaysEnabled bool          `json:"public_holidays_enabled"`
	TemporaryEnabled      bool          `json:"temporary_enabled"`
	Rules                 []HolidayRule `json:"rules,omitempty"`
	SpecificDates         []string      `json:"specific_dates,omitempty"`
	TemporaryClosures     []DateRange   `json:"temporary_closures,omitempty"`
}
