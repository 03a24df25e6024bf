package temporal

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/coltab/errs"
)

// Date is a calendar date packed into 32 bits.
type Date int32

const (
	// MissingDate is the sentinel stored for a missing date.
	MissingDate Date = math.MinInt32

	// MinYear and MaxYear bound the years a Date can hold.
	MinYear = -32767
	MaxYear = 32767

	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// NewDate packs year, month and day into a Date.
//
// Returns errs.ErrInvalidTemporal if the year is outside [MinYear, MaxYear] or
// the day does not exist in that month.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if year < MinYear || year > MaxYear {
		return MissingDate, fmt.Errorf("%w: year %d out of range [%d, %d]", errs.ErrInvalidTemporal, year, MinYear, MaxYear)
	}
	if month < time.January || month > time.December {
		return MissingDate, fmt.Errorf("%w: month %d", errs.ErrInvalidTemporal, month)
	}
	if day < 1 || day > daysIn(year, month) {
		return MissingDate, fmt.Errorf("%w: day %d in %04d-%02d", errs.ErrInvalidTemporal, day, year, month)
	}

	return packDate(year, month, day), nil
}

// MustDate is like NewDate but panics on invalid input. It is intended for
// literals in tests and examples.
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}

	return d
}

// DateOf packs the calendar date of t, as seen in t's location.
func DateOf(t time.Time) (Date, error) {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO-8601 date such as "2024-02-29".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return MissingDate, fmt.Errorf("%w: %v", errs.ErrInvalidTemporal, err)
	}

	return DateOf(t)
}

func packDate(year int, month time.Month, day int) Date {
	return Date(int32(int16(year))<<16 | int32(month)<<8 | int32(day)) //nolint:gosec
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsMissing reports whether d is the missing sentinel.
func (d Date) IsMissing() bool {
	return d == MissingDate
}

// Year returns the year field.
func (d Date) Year() int {
	return int(int16(d >> 16))
}

// Month returns the month field.
func (d Date) Month() time.Month {
	return time.Month((d >> 8) & 0xFF)
}

// Day returns the day-of-month field.
func (d Date) Day() int {
	return int(d & 0xFF)
}

// Fields unpacks all three fields at once.
func (d Date) Fields() (year int, month time.Month, day int) {
	return d.Year(), d.Month(), d.Day()
}

// AsTime returns midnight UTC on d.
func (d Date) AsTime() time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.AsTime().Weekday()
}

// YearDay returns the day of the year, in [1, 366].
func (d Date) YearDay() int {
	return d.AsTime().YearDay()
}

// IsLeapYear reports whether d falls in a leap year.
func (d Date) IsLeapYear() bool {
	return daysIn(d.Year(), time.February) == 29
}

// AddDays returns the date n days after d (or before, for negative n).
func (d Date) AddDays(n int) (Date, error) {
	return DateOf(d.AsTime().AddDate(0, 0, n))
}

// DaysUntil returns the number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int((other.AsTime().Unix() - d.AsTime().Unix()) / secondsPerDay)
}

// String formats d as YYYY-MM-DD; the missing date formats as "".
func (d Date) String() string {
	if d.IsMissing() {
		return ""
	}

	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), int(d.Month()), d.Day())
}
