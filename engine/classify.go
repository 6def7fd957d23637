/*
classify.go - Daily work-type classification

PURPOSE:
  Assigns a single day's record to its labor-law category and splits the
  hours into base-rate and premium-rate portions. Rules apply in priority
  order; the first match wins.

RULE ORDER:
  1. Public holiday (oracle or record override) -> fixed 8 paid hours,
     whether or not the person attended
  2. No hours -> the record's status decides which unpaid off-day it is
  3. Sunday -> holiday work: 1.5x up to 8h, 2.0x beyond
  4. Monday-Friday -> regular up to 8h, overtime beyond
  5. Saturday -> regular only while the week's 40h regular cap has room,
     overtime after that

SATURDAY ABSORPTION:
  Saturday is an unpaid rest day by default. Its hours count as regular
  time only up to whatever remains of the statutory 40 weekly regular
  hours after Monday-Friday work; the rest is overtime. This is why the
  classifier needs the running weekly state.

SEE ALSO:
  - week.go: Builds the running WeeklyWorkState the classifier reads
  - weeklyholiday.go: Consumes the completed weekly state
*/
package engine

// Classifier classifies one day at a time against the injected holiday
// calendar. A nil Oracle means no public holidays.
type Classifier struct {
	Oracle HolidayOracle
}

func NewClassifier(oracle HolidayOracle) *Classifier {
	return &Classifier{Oracle: oracle}
}

// Classify returns the classification for one day. weekSoFar is a snapshot
// of the weekly totals accumulated Monday through the day before rec.Date;
// the classifier only reads it.
func (c *Classifier) Classify(rec WorkRecord, weekSoFar WeeklyWorkState) (DailyClassification, error) {
	if rec.Hours.IsNegative() {
		return DailyClassification{}, ErrNegativeHours
	}

	hours := rec.Hours
	if rec.Status != StatusWork {
		// Hours are only meaningful on worked days.
		hours = ZeroHours()
	}

	// Rule 1: public holiday wins over everything, including the weekend
	// rules. Pays a fixed statutory 8 hours regardless of attendance.
	if c.isPublicHoliday(rec) {
		return DailyClassification{
			Date:    rec.Date,
			Type:    WorkPublicHoliday,
			Regular: StandardDayHours,
			Paid:    StandardDayHours,
			Worked:  hours,
		}, nil
	}

	// Rule 2: nothing worked. The status decides which off-day it is; each
	// kind is tracked separately because weekly-holiday eligibility treats
	// excused and unexcused days differently.
	if !hours.IsPositive() {
		return c.classifyOffDay(rec)
	}

	// Rule 3: Sunday is the weekly rest day. Work there is holiday work.
	if rec.Date.IsSunday() {
		base := hours.Min(StandardDayHours)
		excess := hours.Sub(base)
		t := WorkHoliday
		if excess.IsPositive() {
			t = WorkHolidayOvertime
		}
		return DailyClassification{
			Date:     rec.Date,
			Type:     t,
			Regular:  base,
			Overtime: excess,
			Worked:   hours,
			Paid:     hours,
		}, nil
	}

	// Rule 4: ordinary weekday.
	if rec.Date.IsWeekdayMonFri() {
		regular := hours.Min(StandardDayHours)
		overtime := hours.Sub(regular)
		t := WorkRegular
		if overtime.IsPositive() {
			t = WorkOvertime
		}
		return DailyClassification{
			Date:     rec.Date,
			Type:     t,
			Regular:  regular,
			Overtime: overtime,
			Worked:   hours,
			Paid:     hours,
		}, nil
	}

	// Rule 5: Saturday absorbs into regular time only up to the 40h weekly
	// regular cap; everything past that is overtime.
	if rec.Date.IsSaturday() {
		remaining := StandardWeekHours.Sub(weekSoFar.RegularHours).Max(ZeroHours())
		regular := remaining.Min(hours)
		overtime := hours.Sub(regular)
		t := WorkRegular
		if overtime.IsPositive() {
			t = WorkOvertime
		}
		return DailyClassification{
			Date:     rec.Date,
			Type:     t,
			Regular:  regular,
			Overtime: overtime,
			Worked:   hours,
			Paid:     hours,
		}, nil
	}

	// Unreachable: every weekday value is covered above. Fail loudly.
	return DailyClassification{}, &ClassificationGapError{Date: rec.Date, Status: rec.Status}
}

func (c *Classifier) classifyOffDay(rec WorkRecord) (DailyClassification, error) {
	var t WorkType
	switch rec.Status {
	case StatusAbsence:
		t = WorkAbsent
	case StatusRainOff:
		t = WorkRainOff
	case StatusRegularOff:
		t = WorkRegularOff
	case StatusDayOff, StatusWork:
		// A worked day with zero hours is recorded as an unscheduled rest day.
		t = WorkDayOff
	default:
		return DailyClassification{}, &ClassificationGapError{Date: rec.Date, Status: rec.Status}
	}
	return DailyClassification{
		Date:    rec.Date,
		Type:    t,
		Regular: ZeroHours(),
		Worked:  ZeroHours(),
		Paid:    ZeroHours(),
	}, nil
}

func (c *Classifier) isPublicHoliday(rec WorkRecord) bool {
	if rec.Status == StatusPublicHoliday {
		return true
	}
	return c.Oracle != nil && c.Oracle.IsPublicHoliday(rec.Date)
}
