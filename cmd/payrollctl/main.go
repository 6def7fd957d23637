/*
main.go - Offline payroll CLI

PURPOSE:
  Runs the wage calculation without the server: point it at a CSV
  timesheet and get every worker's breakdown on stdout. Useful for
  checking a sheet before uploading it, and for month-end spot checks.

COMMANDS:
  calc      Calculate wages from a CSV timesheet
  holidays  Print the fixed Korean solar holidays for a year

EXAMPLES:
  # Calculate June, no public holidays
  payrollctl calc --month 2025-06 timesheet.csv

  # With a holiday calendar file
  payrollctl calc --month 2025-06 --holidays 2025.yaml timesheet.csv

  # With the built-in Korean fixed holidays
  payrollctl calc --month 2025-06 --korean timesheet.csv

SEE ALSO:
  - ingest/csv.go: The timesheet format
  - holiday/calendar.go: YAML calendar format
*/
package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/holiday"
	"github.com/warp/payroll-engine/ingest"
	"github.com/warp/payroll-engine/payroll"
)

var rootCmd = &cobra.Command{
	Use:   "payrollctl",
	Short: "Statutory wage calculation for daily timesheets",
	Long: `payrollctl runs the same wage engine the server uses, offline.
It reads a CSV timesheet, applies Korean statutory wage rules
(overtime, Sunday premiums, public holidays, the weekly holiday
allowance) and prints each worker's breakdown.`,
}

var calcCmd = &cobra.Command{
	Use:   "calc [timesheet.csv]",
	Short: "Calculate wages from a CSV timesheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")
		holidayFile, _ := cmd.Flags().GetString("holidays")
		useKorean, _ := cmd.Flags().GetBool("korean")

		first, err := payroll.ParseMonth(month)
		if err != nil {
			return fmt.Errorf("invalid --month: %w", err)
		}

		var oracles []engine.HolidayOracle
		if holidayFile != "" {
			cal, err := holiday.LoadFile(holidayFile)
			if err != nil {
				return fmt.Errorf("load holiday file: %w", err)
			}
			oracles = append(oracles, cal)
		}
		if useKorean {
			oracles = append(oracles, holiday.Korean(first.Year()))
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		workers, err := ingest.ParseTimesheet(f, month)
		if err != nil {
			return fmt.Errorf("parse timesheet: %w", err)
		}

		calc := &engine.MonthlyCalculator{Oracle: holiday.Compose(oracles...)}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tWORKED\tPAID\tBASE\tOVERTIME\tHOLIDAY\tHOL.OT\tPUB.HOL\tWEEKLY\tTOTAL")

		for _, pw := range workers {
			breakdown, err := calc.Calculate(engine.Input{
				WageType: pw.Worker.WageType,
				Rate:     pw.Worker.Rate(),
				Records:  pw.Records,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", pw.Worker.Name, err)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				pw.Worker.Name, pw.Worker.WageType,
				breakdown.TotalHours.Value, breakdown.PaidHours.Value,
				breakdown.BaseWage.Value, breakdown.OvertimePay.Value,
				breakdown.HolidayPay.Value, breakdown.HolidayOvertimePay.Value,
				breakdown.PublicHolidayPay.Value, breakdown.WeeklyHolidayPay.Value,
				breakdown.TotalWage.Value)
		}
		return w.Flush()
	},
}

var holidaysCmd = &cobra.Command{
	Use:   "holidays [year]",
	Short: "Print the fixed Korean solar holidays for a year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year: %s", args[0])
		}
		for _, day := range holiday.Korean(year).Dates() {
			fmt.Fprintln(cmd.OutOrStdout(), day)
		}
		return nil
	},
}

func init() {
	calcCmd.Flags().String("month", "", "timesheet month (YYYY-MM)")
	calcCmd.Flags().String("holidays", "", "YAML holiday calendar file")
	calcCmd.Flags().Bool("korean", false, "include the fixed Korean solar holidays")
	calcCmd.MarkFlagRequired("month")

	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(holidaysCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
