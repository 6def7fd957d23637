package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar date at day granularity
// =============================================================================

type Day struct {
	Time time.Time
}

func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses an ISO-8601 date (YYYY-MM-DD).
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day{Time: t}, nil
}

// Comparison
func (d Day) Before(other Day) bool { return d.normalize().Before(other.normalize()) }
func (d Day) Equal(other Day) bool  { return d.normalize().Equal(other.normalize()) }
func (d Day) After(other Day) bool  { return d.normalize().After(other.normalize()) }

func (d Day) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Day) AddDays(n int) Day { return Day{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Day) Year() int             { return d.Time.Year() }
func (d Day) Month() time.Month     { return d.Time.Month() }
func (d Day) DayOfMonth() int       { return d.Time.Day() }
func (d Day) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Day) IsSunday() bool        { return d.Weekday() == time.Sunday }
func (d Day) IsSaturday() bool      { return d.Weekday() == time.Saturday }
func (d Day) IsZero() bool          { return d.Time.IsZero() }

// IsWeekdayMonFri reports whether the day falls Monday through Friday.
func (d Day) IsWeekdayMonFri() bool {
	wd := d.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

func (d Day) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// WEEK KEY - ISO year + week number (weeks run Monday through Sunday)
// =============================================================================

// WeekKey identifies an ISO-8601 week. Using the ISO year (not the calendar
// year) keeps the first and last days of a year in their correct week.
type WeekKey struct {
	Year int
	Week int
}

func WeekOf(d Day) WeekKey {
	y, w := d.normalize().ISOWeek()
	return WeekKey{Year: y, Week: w}
}

func (k WeekKey) Before(other WeekKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Week < other.Week
}

func (k WeekKey) String() string { return fmt.Sprintf("%d-W%02d", k.Year, k.Week) }

// =============================================================================
// HOLIDAY ORACLE - Injected public-holiday calendar
// =============================================================================

// HolidayOracle answers whether a date is a statutory public holiday.
// Implementations must be deterministic and side-effect free. The engine
// never decides holidays itself; callers choose the calendar (fixed list,
// algorithmic Korean calendar, Sunday-only fallback, ...).
type HolidayOracle interface {
	IsPublicHoliday(d Day) bool
}

// OracleFunc adapts a plain function to a HolidayOracle.
type OracleFunc func(d Day) bool

func (f OracleFunc) IsPublicHoliday(d Day) bool { return f(d) }
