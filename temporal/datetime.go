package temporal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/arloliu/coltab/errs"
)

// DateTime is a Date and a Time packed into 64 bits.
type DateTime int64

// MissingDateTime is the sentinel stored for a missing date-time.
const MissingDateTime DateTime = math.MinInt64

// NewDateTime combines a packed date and time. Neither part may be missing.
func NewDateTime(d Date, t Time) (DateTime, error) {
	if d.IsMissing() || t.IsMissing() {
		return MissingDateTime, fmt.Errorf("%w: date-time with a missing part", errs.ErrInvalidTemporal)
	}

	return DateTime(int64(d)<<32 | int64(uint32(t))), nil //nolint:gosec
}

// DateTimeOf packs the calendar date and wall-clock time of t, truncated to the millisecond.
func DateTimeOf(t time.Time) (DateTime, error) {
	d, err := DateOf(t)
	if err != nil {
		return MissingDateTime, err
	}

	return NewDateTime(d, TimeOf(t))
}

// MustDateTime is like DateTimeOf but panics on invalid input.
func MustDateTime(t time.Time) DateTime {
	dt, err := DateTimeOf(t)
	if err != nil {
		panic(err)
	}

	return dt
}

// ParseDateTime parses "2006-01-02T15:04:05.000"; a space may replace the T and
// the seconds and milliseconds are optional.
func ParseDateTime(s string) (DateTime, error) {
	sep := strings.IndexAny(s, "T ")
	if sep < 0 {
		return MissingDateTime, fmt.Errorf("%w: cannot parse date-time %q", errs.ErrInvalidTemporal, s)
	}

	d, err := ParseDate(s[:sep])
	if err != nil {
		return MissingDateTime, err
	}
	t, err := ParseTime(s[sep+1:])
	if err != nil {
		return MissingDateTime, err
	}

	return NewDateTime(d, t)
}

// IsMissing reports whether dt is the missing sentinel.
func (dt DateTime) IsMissing() bool {
	return dt == MissingDateTime
}

// Date returns the packed date part.
func (dt DateTime) Date() Date {
	return Date(int32(dt >> 32)) //nolint:gosec
}

// Time returns the packed time-of-day part.
func (dt DateTime) Time() Time {
	return Time(int32(uint32(dt))) //nolint:gosec
}

// AsTime returns dt as a time.Time in loc; a nil loc means UTC.
func (dt DateTime) AsTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	d, t := dt.Date(), dt.Time()

	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), t.Millisecond()*int(time.Millisecond), loc)
}

// UnixMilli returns milliseconds since the Unix epoch, interpreting dt as UTC.
func (dt DateTime) UnixMilli() int64 {
	return dt.AsTime(time.UTC).UnixMilli()
}

// String formats dt as YYYY-MM-DDTHH:MM:SS.mmm; the missing value formats as "".
func (dt DateTime) String() string {
	if dt.IsMissing() {
		return ""
	}

	return dt.Date().String() + "T" + dt.Time().String()
}
