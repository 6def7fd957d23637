/*
Package holiday provides public-holiday calendars for the wage engine.

PURPOSE:
  The engine treats the holiday calendar as an injected capability
  (engine.HolidayOracle). This package supplies the implementations the
  calling context can choose from or compose:

    None        never a holiday (degraded default)
    SundayOnly  Sunday is the only holiday (legacy server fallback)
    FixedSet    explicit date list, loadable from YAML
    Korean      fixed-date Korean statutory solar holidays
    Compose     union of any of the above

  The engine's correctness never depends on calendar-data correctness:
  engine tests run against trivial oracles, and calendars are swapped
  without touching the rules.

YAML FORMAT (FixedSet):
  name: site-calendar-2025
  dates:
    - 2025-01-01
    - 2025-03-03

LIMITS:
  Korean covers solar-date holidays only. Lunar holidays (Seollal,
  Chuseok, Buddha's Birthday) shift every year and belong in a curated
  FixedSet per year, not in code.

SEE ALSO:
  - engine/time.go: The HolidayOracle interface
*/
package holiday

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/warp/payroll-engine/engine"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// TRIVIAL ORACLES
// =============================================================================

// None treats no day as a public holiday.
type None struct{}

func (None) IsPublicHoliday(engine.Day) bool { return false }

// SundayOnly treats every Sunday as a public holiday. This mirrors the
// degraded fallback some deployments run with when no calendar is loaded.
type SundayOnly struct{}

func (SundayOnly) IsPublicHoliday(d engine.Day) bool { return d.IsSunday() }

// =============================================================================
// FIXED SET - Explicit date list
// =============================================================================

// FixedSet is an explicit list of holiday dates.
type FixedSet struct {
	Name  string
	dates map[string]bool
}

func NewFixedSet(name string, dates ...engine.Day) *FixedSet {
	s := &FixedSet{Name: name, dates: make(map[string]bool, len(dates))}
	for _, d := range dates {
		s.dates[d.String()] = true
	}
	return s
}

func (s *FixedSet) Add(d engine.Day) { s.dates[d.String()] = true }

func (s *FixedSet) IsPublicHoliday(d engine.Day) bool { return s.dates[d.String()] }

// Dates returns the set's dates in chronological order.
func (s *FixedSet) Dates() []engine.Day {
	keys := make([]string, 0, len(s.dates))
	for key := range s.dates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]engine.Day, 0, len(keys))
	for _, key := range keys {
		d, err := engine.ParseDay(key)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// =============================================================================
// YAML LOADING
// =============================================================================

type calendarFile struct {
	Name  string   `yaml:"name"`
	Dates []string `yaml:"dates"`
}

// Load parses a YAML calendar from raw bytes into a FixedSet.
func Load(data []byte) (*FixedSet, error) {
	var file calendarFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse holiday calendar: %w", err)
	}

	set := NewFixedSet(file.Name)
	for _, raw := range file.Dates {
		d, err := engine.ParseDay(raw)
		if err != nil {
			return nil, fmt.Errorf("holiday calendar %q: %w", file.Name, err)
		}
		set.Add(d)
	}
	return set, nil
}

// LoadFile reads and parses a YAML calendar file.
func LoadFile(path string) (*FixedSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday calendar: %w", err)
	}
	return Load(data)
}

// =============================================================================
// KOREAN SOLAR HOLIDAYS
// =============================================================================

// solarHolidays are the Korean statutory holidays that fall on fixed solar
// dates every year, as (month, day) pairs.
var solarHolidays = []struct {
	Month time.Month
	Day   int
	Name  string
}{
	{time.January, 1, "New Year's Day"},
	{time.March, 1, "Independence Movement Day"},
	{time.May, 5, "Children's Day"},
	{time.June, 6, "Memorial Day"},
	{time.August, 15, "Liberation Day"},
	{time.October, 3, "National Foundation Day"},
	{time.October, 9, "Hangul Day"},
	{time.December, 25, "Christmas Day"},
}

// Korean returns the fixed-date Korean statutory holidays for the given
// years. Lunar holidays are not included; add them via FixedSet.Add or a
// separate YAML calendar.
func Korean(years ...int) *FixedSet {
	set := NewFixedSet("korean-solar")
	for _, year := range years {
		for _, h := range solarHolidays {
			set.Add(engine.NewDay(year, h.Month, h.Day))
		}
	}
	return set
}

// =============================================================================
// COMPOSITION
// =============================================================================

// Compose returns an oracle that fires when any of the given oracles fire.
func Compose(oracles ...engine.HolidayOracle) engine.HolidayOracle {
	return engine.OracleFunc(func(d engine.Day) bool {
		for _, o := range oracles {
			if o != nil && o.IsPublicHoliday(d) {
				return true
			}
		}
		return false
	})
}
