// Package temporal packs calendar values into fixed-width integers.
//
// Three packed kinds are provided:
//
//	Date     int32   bits 31-16 year (signed), 15-8 month, 7-0 day
//	Time     int32   bits 31-24 hour, 23-16 minute, 15-0 millisecond of minute
//	DateTime int64   bits 63-32 Date, 31-0 Time
//
// Every field occupies its own bit range, so unpacking a packed value returns
// exactly the fields that were packed. Precision stops at the millisecond:
// nanoseconds below one millisecond are truncated, never rounded.
//
// The layouts are ordered: comparing two packed values as plain integers gives
// the same result as comparing the calendar values they encode. This is what
// lets columns of packed values be sorted and filtered without unpacking.
//
// Each kind reserves its minimum integer as the missing-value sentinel
// (MissingDate, MissingTime, MissingDateTime). The sentinel is never produced
// by a successful pack: year -32768 is outside the accepted range.
package temporal
