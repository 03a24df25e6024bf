package temporal

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/coltab/errs"
)

// Time is a time of day with millisecond precision packed into 32 bits.
type Time int32

// MissingTime is the sentinel stored for a missing time of day.
const MissingTime Time = math.MinInt32

const millisPerMinute = 60_000

var timeLayouts = []string{"15:04:05.000", "15:04:05", "15:04"}

// NewTime packs hour, minute, second and millisecond into a Time.
func NewTime(hour, minute, second, millis int) (Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 || millis < 0 || millis > 999 {
		return MissingTime, fmt.Errorf("%w: %02d:%02d:%02d.%03d", errs.ErrInvalidTemporal, hour, minute, second, millis)
	}

	return packTime(hour, minute, second*1000+millis), nil
}

// MustTime is like NewTime but panics on invalid input.
func MustTime(hour, minute, second, millis int) Time {
	t, err := NewTime(hour, minute, second, millis)
	if err != nil {
		panic(err)
	}

	return t
}

// TimeOf packs the wall-clock time of t. Sub-millisecond precision is truncated.
func TimeOf(t time.Time) Time {
	return packTime(t.Hour(), t.Minute(), t.Second()*1000+t.Nanosecond()/int(time.Millisecond))
}

// TimeFromMillisOfDay packs a millisecond offset from midnight.
func TimeFromMillisOfDay(ms int) (Time, error) {
	if ms < 0 || ms >= 24*60*millisPerMinute {
		return MissingTime, fmt.Errorf("%w: millisecond of day %d", errs.ErrInvalidTemporal, ms)
	}

	return packTime(ms/(60*millisPerMinute), ms/millisPerMinute%60, ms%millisPerMinute), nil
}

// ParseTime parses "15:04:05.000", "15:04:05" or "15:04".
func ParseTime(s string) (Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOf(t), nil
		}
	}

	return MissingTime, fmt.Errorf("%w: cannot parse time %q", errs.ErrInvalidTemporal, s)
}

func packTime(hour, minute, millisOfMinute int) Time {
	return Time(int32(hour)<<24 | int32(minute)<<16 | int32(millisOfMinute)) //nolint:gosec
}

// IsMissing reports whether t is the missing sentinel.
func (t Time) IsMissing() bool {
	return t == MissingTime
}

// Hour returns the hour field.
func (t Time) Hour() int {
	return int(t>>24) & 0xFF
}

// Minute returns the minute field.
func (t Time) Minute() int {
	return int(t>>16) & 0xFF
}

// Second returns the second within the minute.
func (t Time) Second() int {
	return int(t&0xFFFF) / 1000
}

// Millisecond returns the millisecond within the second.
func (t Time) Millisecond() int {
	return int(t&0xFFFF) % 1000
}

// MillisOfDay returns the number of milliseconds since midnight.
func (t Time) MillisOfDay() int {
	return (t.Hour()*60+t.Minute())*millisPerMinute + int(t&0xFFFF)
}

// String formats t as HH:MM:SS.mmm; the missing time formats as "".
func (t Time) String() string {
	if t.IsMissing() {
		return ""
	}

	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour(), t.Minute(), t.Second(), t.Millisecond())
}
