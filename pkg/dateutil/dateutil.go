package dateutil

import (
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// FractionalAge returns the age at atDate in years, including the fraction of the current year.
// Dates before birth yield a negative value.
func FractionalAge(birthDate, atDate time.Time) float64 {
	return YearsBetween(birthDate, atDate)
}

// YearsBetween calculates the number of years between two dates
func YearsBetween(fromDate, toDate time.Time) float64 {
	duration := toDate.Sub(fromDate)
	return duration.Hours() / 24 / 365.25
}

// MonthsBetween returns the number of whole calendar months from fromDate to toDate.
// The day of month is ignored, so Jan 31 -> Feb 1 counts as one month.
func MonthsBetween(fromDate, toDate time.Time) int {
	return (toDate.Year()-fromDate.Year())*12 + int(toDate.Month()) - int(fromDate.Month())
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in a given year
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// AddYears adds a specified number of years to a date
func AddYears(date time.Time, years int) time.Time {
	return date.AddDate(years, 0, 0)
}

// AddMonths adds a specified number of months to a date. The result is
// anchored on the first of the month so that month-end dates never overflow
// into the following month.
func AddMonths(date time.Time, months int) time.Time {
	first := BeginningOfMonth(date)
	return first.AddDate(0, months, 0)
}

// BeginningOfMonth returns midnight on the first day of the date's month.
func BeginningOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfYear returns the last day of the year for a given date
func EndOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 12, 31, 23, 59, 59, 999999999, date.Location())
}

// BeginningOfYear returns the first day of the year for a given date
func BeginningOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
}

// CrossesYearBoundary reports whether moving from prev to next enters a new calendar year.
func CrossesYearBoundary(prev, next time.Time) bool {
	return next.Year() > prev.Year()
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}
