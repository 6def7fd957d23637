package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Shared by all engine test files.

func date(year int, month time.Month, day int) engine.Day {
	return engine.NewDay(year, month, day)
}

func hours(n float64) engine.Amount { return engine.NewHours(n) }

func krw(n int64) engine.Amount { return engine.NewKRW(n) }

func worked(d engine.Day, h float64) engine.WorkRecord {
	return engine.WorkRecord{Date: d, Hours: hours(h), Status: engine.StatusWork}
}

func off(d engine.Day, status engine.WorkStatus) engine.WorkRecord {
	return engine.WorkRecord{Date: d, Hours: hours(0), Status: status}
}

// noHolidays is an oracle that never fires.
var noHolidays = engine.OracleFunc(func(engine.Day) bool { return false })

// holidayOn returns an oracle that fires for exactly one date.
func holidayOn(target engine.Day) engine.HolidayOracle {
	return engine.OracleFunc(func(d engine.Day) bool { return d.Equal(target) })
}

func emptyWeek() engine.WeeklyWorkState {
	return engine.WeeklyWorkState{}
}

func assertHours(t *testing.T, want float64, got engine.Amount, label string) {
	t.Helper()
	if !got.Equal(hours(want)) {
		t.Errorf("%s: expected %v hours, got %v", label, want, got.Value)
	}
}

// June 2025: the 1st is a Sunday, the 2nd a Monday.
var (
	monday    = date(2025, time.June, 2)
	tuesday   = date(2025, time.June, 3)
	wednesday = date(2025, time.June, 4)
	saturday  = date(2025, time.June, 7)
	sunday    = date(2025, time.June, 8)
)

// =============================================================================
// PUBLIC HOLIDAY PRIORITY
// =============================================================================

func TestClassify_PublicHoliday_Fixed8PaidHours(t *testing.T) {
	// GIVEN: A Tuesday the oracle marks as a public holiday
	// WHEN: The worker did not attend (0 hours, day off)
	// THEN: Classified PUBLIC_HOLIDAY with 8 paid hours and 0 worked hours

	c := engine.NewClassifier(holidayOn(tuesday))

	cls, err := c.Classify(off(tuesday, engine.StatusDayOff), emptyWeek())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cls.Type != engine.WorkPublicHoliday {
		t.Fatalf("expected public holiday, got %s", cls.Type)
	}
	assertHours(t, 8, cls.Paid, "paid")
	assertHours(t, 0, cls.Worked, "worked")
}

func TestClassify_PublicHoliday_WorkedHoursStillPay8(t *testing.T) {
	// GIVEN: A public holiday the worker actually worked 12 hours
	// THEN: Still exactly 8 paid hours, 12 worked hours

	c := engine.NewClassifier(holidayOn(tuesday))

	cls, err := c.Classify(worked(tuesday, 12), emptyWeek())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cls.Type != engine.WorkPublicHoliday {
		t.Fatalf("expected public holiday, got %s", cls.Type)
	}
	assertHours(t, 8, cls.Paid, "paid")
	assertHours(t, 12, cls.Worked, "worked")
}

func TestClassify_PublicHoliday_BeatsSunday(t *testing.T) {
	// GIVEN: A Sunday that is also a public holiday
	// THEN: The public-holiday rule wins over the Sunday holiday-work rule

	c := engine.NewClassifier(holidayOn(sunday))

	cls, err := c.Classify(worked(sunday, 10), emptyWeek())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Type != engine.WorkPublicHoliday {
		t.Fatalf("expected public holiday, got %s", cls.Type)
	}
}

func TestClassify_RecordLevelOverride_NoOracle(t *testing.T) {
	// GIVEN: No oracle, but the record itself is marked public holiday
	// THEN: Classified PUBLIC_HOLIDAY anyway

	c := engine.NewClassifier(nil)

	cls, err := c.Classify(off(wednesday, engine.StatusPublicHoliday), emptyWeek())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Type != engine.WorkPublicHoliday {
		t.Fatalf("expected public holiday, got %s", cls.Type)
	}
	assertHours(t, 8, cls.Paid, "paid")
}

// =============================================================================
// OFF-DAY STATUS MAPPING
// =============================================================================

func TestClassify_OffDayStatuses(t *testing.T) {
	c := engine.NewClassifier(noHolidays)

	cases := []struct {
		status engine.WorkStatus
		want   engine.WorkType
	}{
		{engine.StatusAbsence, engine.WorkAbsent},
		{engine.StatusRainOff, engine.WorkRainOff},
		{engine.StatusRegularOff, engine.WorkRegularOff},
		{engine.StatusDayOff, engine.WorkDayOff},
		{engine.StatusWork, engine.WorkDayOff}, // zero worked hours counts as a rest day
	}

	for _, tc := range cases {
		cls, err := c.Classify(off(monday, tc.status), emptyWeek())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.status, err)
		}
		if cls.Type != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.status, tc.want, cls.Type)
		}
		assertHours(t, 0, cls.Paid, string(tc.status))
	}
}

func TestClassify_UnknownStatus_FailsLoudly(t *testing.T) {
	c := engine.NewClassifier(noHolidays)

	_, err := c.Classify(engine.WorkRecord{Date: monday, Hours: hours(0), Status: "vacation"}, emptyWeek())
	if !errors.Is(err, engine.ErrClassificationGap) {
		t.Fatalf("expected classification gap, got %v", err)
	}

	var gap *engine.ClassificationGapError
	if !errors.As(err, &gap) {
		t.Fatalf("expected ClassificationGapError, got %T", err)
	}
}

func TestClassify_NegativeHours_Rejected(t *testing.T) {
	c := engine.NewClassifier(noHolidays)

	rec := engine.WorkRecord{Date: monday, Hours: engine.NewHours(-1), Status: engine.StatusWork}
	_, err := c.Classify(rec, emptyWeek())
	if !errors.Is(err, engine.ErrNegativeHours) {
		t.Fatalf("expected negative hours error, got %v", err)
	}
}

// =============================================================================
// SUNDAY (WEEKLY REST DAY)
// =============================================================================

func TestClassify_Sunday_WithinEightHours(t *testing.T) {
	c := engine.NewClassifier(noHolidays)

	cls, err := c.Classify(worked(sunday, 6), emptyWeek())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Type != engine.WorkHoliday {
		t.Fatalf("expected holiday, got %s", cls.Type)
	}
	assertHours(t, 6, cls.Regular, "holiday base")
	assertHours(t, 0, cls.Overtime, "holiday overtime")
}

func TestClassify_Sunday_BeyondEightHours_Splits(t *testing.T) {
	// GIVEN: 10 hours worked on a Sunday
	// THEN: 8h at holiday rate plus 2h at holiday-overtime rate

	c := engine.NewClassifier(noHolidays)

	cls, err := c.Classify(worked(sunday, 10), emptyWeek())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Type != engine.WorkHolidayOvertime {
		t.Fatalf("expected holiday overtime, got %s", cls.Type)
	}
	assertHours(t, 8, cls.Regular, "holiday base")
	assertHours(t, 2, cls.Overtime, "holiday overtime")
}

// =============================================================================
// WEEKDAY (MONDAY-FRIDAY)
// =============================================================================

func TestClassify_Weekday_SplitInvariant(t *testing.T) {
	// For all weekday hours h: regular+overtime == h and regular == min(8, h).

	c := engine.NewClassifier(noHolidays)

	for _, h := range []float64{0.5, 4, 7.5, 8, 9, 10.25, 14} {
		cls, err := c.Classify(worked(wednesday, h), emptyWeek())
		if err != nil {
			t.Fatalf("h=%v: unexpected error: %v", h, err)
		}

		sum := cls.Regular.Add(cls.Overtime)
		if !sum.Equal(hours(h)) {
			t.Errorf("h=%v: regular+overtime = %v, want %v", h, sum.Value, h)
		}
		wantRegular := hours(h).Min(hours(8))
		if !cls.Regular.Equal(wantRegular) {
			t.Errorf("h=%v: regular = %v, want %v", h, cls.Regular.Value, wantRegular.Value)
		}

		wantType := engine.WorkRegular
		if h > 8 {
			wantType = engine.WorkOvertime
		}
		if cls.Type != wantType {
			t.Errorf("h=%v: type = %s, want %s", h, cls.Type, wantType)
		}
	}
}

// =============================================================================
// SATURDAY ABSORPTION
// =============================================================================

func TestClassify_Saturday_AbsorbsUpToWeeklyCap(t *testing.T) {
	// GIVEN: 32 regular hours already accumulated Monday-Friday
	// WHEN: 10 hours worked on Saturday
	// THEN: 8h absorbed as regular (40h cap), 2h overtime

	c := engine.NewClassifier(noHolidays)
	week := emptyWeek()
	week.RegularHours = hours(32)

	cls, err := c.Classify(worked(saturday, 10), week)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Type != engine.WorkOvertime {
		t.Fatalf("expected overtime, got %s", cls.Type)
	}
	assertHours(t, 8, cls.Regular, "absorbed regular")
	assertHours(t, 2, cls.Overtime, "overtime")
}

func TestClassify_Saturday_FullWeekAlreadyWorked_AllOvertime(t *testing.T) {
	// GIVEN: The 40h weekly regular cap is already met
	// THEN: Every Saturday hour is overtime

	c := engine.NewClassifier(noHolidays)
	week := emptyWeek()
	week.RegularHours = hours(40)

	cls, err := c.Classify(worked(saturday, 6), week)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertHours(t, 0, cls.Regular, "absorbed regular")
	assertHours(t, 6, cls.Overtime, "overtime")
}

func TestClassify_Saturday_ShortWeek_AllRegular(t *testing.T) {
	// GIVEN: Only 20 regular hours so far this week
	// THEN: 6 Saturday hours fit entirely under the cap

	c := engine.NewClassifier(noHolidays)
	week := emptyWeek()
	week.RegularHours = hours(20)

	cls, err := c.Classify(worked(saturday, 6), week)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Type != engine.WorkRegular {
		t.Fatalf("expected regular, got %s", cls.Type)
	}
	assertHours(t, 6, cls.Regular, "absorbed regular")
}
