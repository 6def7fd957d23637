/*
accumulate.go - Converting classified hours into won

PURPOSE:
  Takes the stream of daily classifications (plus one synthetic
  weekly-holiday entry per week) and turns it into a WageBreakdown.

PAY-RATE TABLE (hourly workers):
  regular           1.0x
  overtime          1.5x
  holiday           1.5x
  holiday overtime  2.0x
  weekly holiday    1.0x
  public holiday    1.0x on a fixed 8 hours, not the worked hours
  off days          unpaid

TWO COMPUTATION PATHS:
  Hourly and day-rate workers are two distinct accumulation strategies
  sharing the same classification step, never unified. Day-rate workers
  are paid a flat rate per day worked; premiums do not apply, and the
  weekly holiday pays one flat day when the week is eligible.

SEE ALSO:
  - classify.go: Produces the classifications consumed here
  - monthly.go: Drives the accumulator week by week
*/
package engine

import "github.com/shopspring/decimal"

// Accumulator sums classified hours into a wage breakdown. One accumulator
// instance serves exactly one worker-month.
type Accumulator interface {
	// AddDay folds one daily classification into the running totals.
	AddDay(cls DailyClassification)

	// AddWeeklyHoliday credits one week's weekly-holiday award.
	AddWeeklyHoliday(hours Amount)

	// Breakdown returns the final totals.
	Breakdown() WageBreakdown
}

// NewAccumulator selects the accumulation strategy for the wage type.
// The rate is per hour for WageHourly and per day for WageDaily.
func NewAccumulator(wageType WageType, rate Amount) (Accumulator, error) {
	if !rate.IsPositive() {
		return nil, ErrNonPositiveRate
	}
	switch wageType {
	case WageHourly:
		return &hourlyAccumulator{rate: rate, totals: newTotals()}, nil
	case WageDaily:
		return &dayRateAccumulator{dayRate: rate, totals: newTotals()}, nil
	default:
		return nil, ErrUnknownWageType
	}
}

// totals is the mutable backing state both strategies write into.
type totals struct {
	totalHours         Amount
	paidHours          Amount
	baseWage           Amount
	overtimePay        Amount
	holidayPay         Amount
	holidayOvertimePay Amount
	publicHolidayPay   Amount
	weeklyHolidayPay   Amount
}

func newTotals() totals {
	return totals{
		totalHours:         ZeroHours(),
		paidHours:          ZeroHours(),
		baseWage:           ZeroKRW(),
		overtimePay:        ZeroKRW(),
		holidayPay:         ZeroKRW(),
		holidayOvertimePay: ZeroKRW(),
		publicHolidayPay:   ZeroKRW(),
		weeklyHolidayPay:   ZeroKRW(),
	}
}

func (t *totals) breakdown() WageBreakdown {
	total := t.baseWage.
		Add(t.overtimePay).
		Add(t.holidayPay).
		Add(t.holidayOvertimePay).
		Add(t.publicHolidayPay).
		Add(t.weeklyHolidayPay)
	return WageBreakdown{
		TotalHours:         t.totalHours,
		PaidHours:          t.paidHours,
		BaseWage:           t.baseWage,
		OvertimePay:        t.overtimePay,
		HolidayPay:         t.holidayPay,
		HolidayOvertimePay: t.holidayOvertimePay,
		PublicHolidayPay:   t.publicHolidayPay,
		WeeklyHolidayPay:   t.weeklyHolidayPay,
		TotalWage:          total,
	}
}

// =============================================================================
// HOURLY STRATEGY - Full premium structure
// =============================================================================

type hourlyAccumulator struct {
	rate   Amount
	totals totals
}

func (a *hourlyAccumulator) AddDay(cls DailyClassification) {
	a.totals.totalHours = a.totals.totalHours.Add(cls.Worked)
	a.totals.paidHours = a.totals.paidHours.Add(cls.Paid)

	switch cls.Type {
	case WorkRegular, WorkOvertime:
		a.totals.baseWage = a.totals.baseWage.Add(a.pay(cls.Regular, RateRegular))
		a.totals.overtimePay = a.totals.overtimePay.Add(a.pay(cls.Overtime, RateOvertime))

	case WorkHoliday, WorkHolidayOvertime:
		a.totals.holidayPay = a.totals.holidayPay.Add(a.pay(cls.Regular, RateHoliday))
		a.totals.holidayOvertimePay = a.totals.holidayOvertimePay.Add(a.pay(cls.Overtime, RateHolidayOvertime))

	case WorkPublicHoliday:
		// Fixed 8 hours at base rate, regardless of attendance.
		a.totals.publicHolidayPay = a.totals.publicHolidayPay.Add(a.pay(StandardDayHours, RateRegular))

	case WorkAbsent, WorkRainOff, WorkRegularOff, WorkDayOff:
		// Unpaid.
	}
}

func (a *hourlyAccumulator) AddWeeklyHoliday(hours Amount) {
	if !hours.IsPositive() {
		return
	}
	a.totals.paidHours = a.totals.paidHours.Add(hours)
	a.totals.weeklyHolidayPay = a.totals.weeklyHolidayPay.Add(a.pay(hours, RateRegular))
}

func (a *hourlyAccumulator) Breakdown() WageBreakdown { return a.totals.breakdown() }

func (a *hourlyAccumulator) pay(hours Amount, multiplier decimal.Decimal) Amount {
	return Amount{Value: a.rate.Value.Mul(hours.Value).Mul(multiplier), Unit: UnitKRW}
}

// =============================================================================
// DAY-RATE STRATEGY - Flat rate per day worked, no premiums
// =============================================================================

type dayRateAccumulator struct {
	dayRate Amount
	totals  totals
}

func (a *dayRateAccumulator) AddDay(cls DailyClassification) {
	a.totals.totalHours = a.totals.totalHours.Add(cls.Worked)
	a.totals.paidHours = a.totals.paidHours.Add(cls.Worked)

	// Any day with actual work earns exactly one day's rate. Overtime and
	// holiday premiums are out of scope for day-rate workers.
	if cls.Worked.IsPositive() {
		a.totals.baseWage = a.totals.baseWage.Add(a.dayRate)
	}
}

func (a *dayRateAccumulator) AddWeeklyHoliday(hours Amount) {
	// One flat day's wage when the week is eligible at all.
	if hours.IsPositive() {
		a.totals.weeklyHolidayPay = a.totals.weeklyHolidayPay.Add(a.dayRate)
	}
}

func (a *dayRateAccumulator) Breakdown() WageBreakdown { return a.totals.breakdown() }
