/*
monthly.go - The monthly calculation orchestrator

PURPOSE:
  Runs the full pipeline for one worker-month:

    group into ISO weeks -> per week: classify days in date order,
    fold into weekly state, evaluate the weekly-holiday rule,
    accumulate wages -> final WageBreakdown

  The step order is fixed. Weekly-holiday eligibility for week N is
  evaluated from week N's own classified days only; absence and work-day
  counts never leak across week boundaries.

FAILURE MODEL:
  Either a complete, internally consistent breakdown is returned or an
  error; never a partial result. Input violations (duplicate dates,
  negative hours, unknown statuses) surface as errors; a classification
  gap is an engine defect and surfaces loudly too.

CONCURRENCY:
  Calculate is pure and synchronous. Calculations for different workers
  share nothing and may run concurrently without coordination.
*/
package engine

// MonthlyCalculator computes wage breakdowns against an injected holiday
// calendar. The zero value (nil Oracle) treats no day as a public holiday.
type MonthlyCalculator struct {
	Oracle HolidayOracle
}

// Input is one worker-month of pre-validated data.
type Input struct {
	WageType WageType
	Rate     Amount // per hour for WageHourly, per day for WageDaily
	Records  []WorkRecord
}

// Calculate runs the wage pipeline and returns the month's breakdown.
func (c *MonthlyCalculator) Calculate(in Input) (WageBreakdown, error) {
	acc, err := NewAccumulator(in.WageType, in.Rate)
	if err != nil {
		return WageBreakdown{}, err
	}

	agg := &Aggregator{Classifier: NewClassifier(c.Oracle)}
	weeks, err := agg.Weeks(in.Records)
	if err != nil {
		return WageBreakdown{}, err
	}

	for _, week := range weeks {
		result, err := agg.Fold(week)
		if err != nil {
			return WageBreakdown{}, err
		}
		for _, day := range result.Days {
			acc.AddDay(day)
		}
		acc.AddWeeklyHoliday(WeeklyHolidayHours(result.State))
	}

	return acc.Breakdown(), nil
}
