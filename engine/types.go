/*
Package engine implements the Korean statutory wage rule engine.

PURPOSE:
  Given one calendar month of daily work records for a worker, classify each
  day into labor-law work types (regular, overtime, holiday work, public
  holiday, weekly holiday, unpaid off-days), aggregate per ISO week, decide
  weekly-holiday allowance eligibility, and convert everything into a
  per-worker wage breakdown.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (hours worked, or Korean won)
  - WorkRecord: One day of input (date, hours, status)
  - DailyClassification: One day of output from the classifier
  - WageBreakdown: The final per-worker, per-month result

DESIGN PRINCIPLES:
  1. Purity: The engine performs no I/O and holds no shared state.
     Every calculation is a single pass over value objects.
  2. Precision: Uses decimal.Decimal so premium multipliers (1.5x, 2.0x)
     never accumulate floating-point drift in won amounts.
  3. Injectability: The public-holiday calendar is a capability the caller
     supplies (HolidayOracle), never something the engine decides.

USAGE:
  calc := engine.MonthlyCalculator{Oracle: oracle}
  breakdown, err := calc.Calculate(engine.Input{
      WageType: engine.WageHourly,
      Rate:     engine.NewKRW(10000),
      Records:  records,
  })

SEE ALSO:
  - classify.go: Daily classification rules
  - week.go: ISO-week grouping and weekly state folding
  - weeklyholiday.go: Weekly-holiday allowance gates
  - accumulate.go: Hours-to-won conversion
  - monthly.go: The orchestrator
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit (hours or won)
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitHours Unit = "hours"
	UnitKRW   Unit = "krw"
)

func NewHours(value float64) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: UnitHours}
}

func NewKRW(value int64) Amount {
	return Amount{Value: decimal.NewFromInt(value), Unit: UnitKRW}
}

func ZeroHours() Amount { return Amount{Value: decimal.Zero, Unit: UnitHours} }
func ZeroKRW() Amount   { return Amount{Value: decimal.Zero, Unit: UnitKRW} }

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// =============================================================================
// STATUTORY CONSTANTS - Law-mandated thresholds, not configuration
// =============================================================================

var (
	// StandardDayHours is the statutory regular-work cap per day (8h).
	StandardDayHours = NewHours(8)

	// StandardWeekHours is the statutory regular-work cap per week (40h).
	StandardWeekHours = NewHours(40)

	// MinWeeklyBasicHours is the minimum weekly regular hours for
	// weekly-holiday allowance eligibility (15h).
	MinWeeklyBasicHours = NewHours(15)
)

// Premium multipliers applied on top of the base hourly rate.
var (
	RateRegular         = decimal.NewFromInt(1)
	RateOvertime        = decimal.RequireFromString("1.5")
	RateHoliday         = decimal.RequireFromString("1.5")
	RateHolidayOvertime = decimal.NewFromInt(2)
)

// =============================================================================
// WORK STATUS - What the timesheet says happened that day
// =============================================================================

type WorkStatus string

const (
	StatusWork          WorkStatus = "work"
	StatusAbsence       WorkStatus = "absence"        // unexcused absence
	StatusPublicHoliday WorkStatus = "public_holiday" // record-level holiday override
	StatusRainOff       WorkStatus = "rain_off"       // weather stoppage (excused)
	StatusRegularOff    WorkStatus = "regular_off"    // scheduled rest day (excused)
	StatusDayOff        WorkStatus = "day_off"        // unscheduled rest day (excused)
)

// Known reports whether s is a recognized status value.
func (s WorkStatus) Known() bool {
	switch s {
	case StatusWork, StatusAbsence, StatusPublicHoliday, StatusRainOff, StatusRegularOff, StatusDayOff:
		return true
	}
	return false
}

// WorkRecord is one day of input for one worker. Hours is ignored (treated
// as zero) when Status is not StatusWork.
type WorkRecord struct {
	Date   Day
	Hours  Amount
	Status WorkStatus
}

// =============================================================================
// WORK TYPE - Labor-law category assigned by the classifier
// =============================================================================

type WorkType string

const (
	WorkRegular         WorkType = "regular"
	WorkOvertime        WorkType = "overtime"
	WorkHoliday         WorkType = "holiday"          // Sunday work, 1.5x up to 8h
	WorkHolidayOvertime WorkType = "holiday_overtime" // Sunday work beyond 8h, 2.0x
	WorkPublicHoliday   WorkType = "public_holiday"   // fixed 8 paid hours
	WorkWeeklyHoliday   WorkType = "weekly_holiday"   // synthetic weekly allowance
	WorkAbsent          WorkType = "absent"
	WorkRainOff         WorkType = "rain_off"
	WorkRegularOff      WorkType = "regular_off"
	WorkDayOff          WorkType = "day_off"
)

// DailyClassification is the classifier's verdict for a single day.
// Produced fresh per call, never mutated.
//
// The Regular/Overtime split carries the hours at the base vs. premium rate
// for that day's type: for WorkHoliday days Regular holds the 1.5x portion
// and Overtime the 2.0x portion. Worked is what the person actually did;
// Paid is what the law credits (they differ on public holidays, which pay a
// fixed 8 hours regardless of attendance).
type DailyClassification struct {
	Date     Day
	Type     WorkType
	Regular  Amount
	Overtime Amount
	Worked   Amount
	Paid     Amount
}

// =============================================================================
// WAGE TYPE - How the worker is paid
// =============================================================================

type WageType string

const (
	WageHourly WageType = "hourly" // rate per hour, full premium structure
	WageDaily  WageType = "daily"  // flat rate per day worked, no premiums
)

// =============================================================================
// WAGE BREAKDOWN - Final output, one per worker per month
// =============================================================================

// WageBreakdown routes every classified hour into its statutory pay bucket.
// TotalHours counts hours actually attended; PaidHours counts hours credited
// for pay, including the fixed 8h of an unattended public holiday and the
// synthetic weekly-holiday hours.
type WageBreakdown struct {
	TotalHours         Amount
	PaidHours          Amount
	BaseWage           Amount
	OvertimePay        Amount
	HolidayPay         Amount
	HolidayOvertimePay Amount
	PublicHolidayPay   Amount
	WeeklyHolidayPay   Amount
	TotalWage          Amount
}
