package engine

import (
	"time"
)

// CalculateExpiresAt derives a certification's expiry from the skill's
// validity window and the achievement instant. A nil window means the
// certification never expires. Otherwise the achievement date is advanced
// by the given number of calendar months, clamping the day-of-month to the
// target month's length (Jan 31 + 1 month is the last day of February, not
// an overflow into March). The result is computed once at certification
// time and persisted; later changes to a skill's validity window do not
// retroactively alter existing certifications.
func CalculateExpiresAt(validityMonths *int, achievedAt time.Time) *time.Time {
	if validityMonths == nil {
		return nil
	}
	year, month, day := achievedAt.Date()
	total := year*12 + int(month) - 1 + *validityMonths
	year, month = total/12, time.Month(total%12+1)
	if last := daysIn(year, month); day > last {
		day = last
	}
	hour, min, sec := achievedAt.Clock()
	expires := time.Date(year, month, day, hour, min, sec, achievedAt.Nanosecond(), achievedAt.Location())
	return &expires
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
