/*
weeklyholiday.go - Weekly-holiday allowance eligibility

PURPOSE:
  Decides how many weekly-holiday hours (0-8) a completed week earns. The
  allowance rewards a full week of scheduled attendance with up to one
  standard day's wage, independent of whether the rest day is worked.

GATES:
  Eligibility is a sequence of hard gates evaluated in order; any failure
  yields zero hours. They are deliberately separate statements, not one
  boolean expression, so each rejection reason is independently testable.
  This is the most legally sensitive logic in the engine.

  1. Any unexcused absence forfeits the allowance outright.
  2. If all five weekdays were non-working (public holiday, rain, scheduled
     or unscheduled rest), there was no attendance to reward.
  3. Every scheduled weekday that wasn't excused must have been worked.
  4. At least 15 weekly basic hours are required.
  5. Otherwise the award is proportional: (basicHours/40)*8, capped at 8.

  Zero is a valid outcome, not an error.
*/
package engine

import "github.com/shopspring/decimal"

// WeeklyHolidayHours evaluates one completed week and returns the earned
// weekly-holiday hours, between zero and one standard workday.
func WeeklyHolidayHours(state WeeklyWorkState) Amount {
	// Gate 1: unexcused absence anywhere in the week.
	if state.AbsenceDays > 0 {
		return ZeroHours()
	}

	// Gate 2: the entire Mon-Fri span was non-working.
	nonWorkingDays := state.PublicHolidayDays + state.RainDays + state.RegularOffDays + state.DayoffDays
	if nonWorkingDays >= 5 {
		return ZeroHours()
	}

	// Gate 3: perfect attendance on the remaining scheduled weekdays.
	requiredWorkDays := 5 - nonWorkingDays
	if state.WeekdayWorkedDays < requiredWorkDays {
		return ZeroHours()
	}

	// Gate 4: statutory 15-hour weekly minimum on basic hours.
	totalBasicHours := state.RegularHours.Add(state.WeekendRegularHours).Min(StandardWeekHours)
	if totalBasicHours.LessThan(MinWeeklyBasicHours) {
		return ZeroHours()
	}

	// Gate 5 passed: proportional award, capped at one standard workday.
	award := totalBasicHours.Value.
		Div(StandardWeekHours.Value).
		Mul(StandardDayHours.Value)
	return Amount{Value: decimal.Min(award, StandardDayHours.Value), Unit: UnitHours}
}
