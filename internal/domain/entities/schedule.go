package entities

// DayClass is the categorical bucket a schedule rule applies to.
type DayClass string

const (
	// DayClassWeekday covers Monday through Friday.
	DayClassWeekday DayClass = "weekday"

	// DayClassSaturday covers Saturdays only.
	DayClassSaturday DayClass = "saturday"

	// DayClassSunday covers Sundays only.
	DayClassSunday DayClass = "sunday"

	// DayClassWeekendOrHoliday covers Saturdays and Sundays.
	DayClassWeekendOrHoliday DayClass = "weekend_or_holiday"

	// DayClassAll covers every day of the week.
	DayClassAll DayClass = "all"
)

// ScheduleRule describes one weekly recurring free-swim session.
// Times are "HH:MM" 24-hour strings at minute resolution. Rule order is
// insertion order and carries no meaning; evaluation considers all
// matching rules.
type ScheduleRule struct {
	DayClass  DayClass `json:"day_class"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}
