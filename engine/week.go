/*
week.go - ISO-week grouping and weekly state folding

PURPOSE:
  Groups a worker's monthly records into ISO weeks (Monday-Sunday) and
  folds each week's daily classifications into a WeeklyWorkState, the
  accumulator that the weekly-holiday rule consumes.

WEEKLY STATE LIFECYCLE:
  A fresh WeeklyWorkState is created per week, mutated in date order while
  that week's days are classified, consumed once by the weekly-holiday
  rule, then discarded. It is never shared or reused across weeks.

PARTIAL WEEKS:
  Input is scoped to one calendar month, so the first and last weeks are
  usually partial. They are folded as-is: days belonging to the adjacent
  month are simply absent. This is a known boundary approximation.

SEE ALSO:
  - classify.go: Produces the per-day classifications folded here
  - weeklyholiday.go: Consumes the completed weekly state
*/
package engine

import "sort"

// =============================================================================
// WEEKLY WORK STATE - Per-week accumulator
// =============================================================================

// WeeklyWorkState holds the running totals for one ISO week.
type WeeklyWorkState struct {
	RegularHours         Amount // Mon-Fri hours at base rate
	WeekendRegularHours  Amount // Saturday hours absorbed at base rate
	OvertimeHours        Amount // all 1.5x overtime hours (weekday + Saturday)
	HolidayHours         Amount // Sunday hours at 1.5x
	HolidayOvertimeHours Amount // Sunday hours at 2.0x

	AbsenceDays       int
	PublicHolidayDays int
	RainDays          int
	RegularOffDays    int
	DayoffDays        int

	// WeekdayWorkedDays counts Mon-Fri days with actual work, the
	// "perfect attendance" input to the weekly-holiday rule.
	WeekdayWorkedDays int
}

func newWeeklyWorkState() WeeklyWorkState {
	return WeeklyWorkState{
		RegularHours:         ZeroHours(),
		WeekendRegularHours:  ZeroHours(),
		OvertimeHours:        ZeroHours(),
		HolidayHours:         ZeroHours(),
		HolidayOvertimeHours: ZeroHours(),
	}
}

// =============================================================================
// AGGREGATOR - Groups records into weeks and folds them
// =============================================================================

type Aggregator struct {
	Classifier *Classifier
}

// Week is one ISO week's worth of records, sorted by date.
type Week struct {
	Key     WeekKey
	Records []WorkRecord
}

// WeekResult is the outcome of folding one week.
type WeekResult struct {
	Key   WeekKey
	State WeeklyWorkState
	Days  []DailyClassification
}

// Weeks groups records into ISO-week buckets in ascending week order, with
// each bucket's records in ascending date order. A second record for the
// same date violates the one-record-per-day invariant and is rejected.
func (a *Aggregator) Weeks(records []WorkRecord) ([]Week, error) {
	sorted := make([]WorkRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var weeks []Week
	seen := make(map[string]bool, len(sorted))
	byKey := make(map[WeekKey]int)

	for _, rec := range sorted {
		if seen[rec.Date.String()] {
			return nil, &DuplicateDayError{Date: rec.Date}
		}
		seen[rec.Date.String()] = true

		key := WeekOf(rec.Date)
		idx, ok := byKey[key]
		if !ok {
			idx = len(weeks)
			byKey[key] = idx
			weeks = append(weeks, Week{Key: key})
		}
		weeks[idx].Records = append(weeks[idx].Records, rec)
	}

	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Key.Before(weeks[j].Key) })
	return weeks, nil
}

// Fold classifies each of a week's days in date order, feeding each day the
// state accumulated so far, and returns the completed weekly state together
// with the per-day classifications.
func (a *Aggregator) Fold(week Week) (WeekResult, error) {
	state := newWeeklyWorkState()
	days := make([]DailyClassification, 0, len(week.Records))

	for _, rec := range week.Records {
		cls, err := a.Classifier.Classify(rec, state)
		if err != nil {
			return WeekResult{}, err
		}
		fold(&state, cls)
		days = append(days, cls)
	}

	return WeekResult{Key: week.Key, State: state, Days: days}, nil
}

// fold routes one day's classification into the weekly counters.
func fold(state *WeeklyWorkState, cls DailyClassification) {
	switch cls.Type {
	case WorkPublicHoliday:
		state.PublicHolidayDays++

	case WorkAbsent:
		state.AbsenceDays++
	case WorkRainOff:
		state.RainDays++
	case WorkRegularOff:
		state.RegularOffDays++
	case WorkDayOff:
		state.DayoffDays++

	case WorkHoliday, WorkHolidayOvertime:
		state.HolidayHours = state.HolidayHours.Add(cls.Regular)
		state.HolidayOvertimeHours = state.HolidayOvertimeHours.Add(cls.Overtime)

	case WorkRegular, WorkOvertime:
		if cls.Date.IsSaturday() {
			state.WeekendRegularHours = state.WeekendRegularHours.Add(cls.Regular)
		} else {
			state.RegularHours = state.RegularHours.Add(cls.Regular)
			state.WeekdayWorkedDays++
		}
		state.OvertimeHours = state.OvertimeHours.Add(cls.Overtime)
	}
}
