package providers

import "time"

// HolidayProvider answers whether a calendar date is a public holiday.
// The directory never computes a holiday calendar itself; a provider is
// injected by the caller. A nil provider means "never a holiday".
type HolidayProvider interface {
	IsPublicHoliday(date time.Time) bool
}

// HolidayFunc adapts a plain function to the HolidayProvider interface.
type HolidayFunc func(date time.Time) bool

// IsPublicHoliday implements HolidayProvider.
func (f HolidayFunc) IsPublicHoliday(date time.Time) bool {
	return f(date)
}
