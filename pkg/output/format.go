// Package output provides utilities for formatting and displaying comparison reports.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/iwvelando/purchase-compare/internal/report"
	"github.com/iwvelando/purchase-compare/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Write renders the report in the named output format.
func Write(w io.Writer, outputFormat string, r report.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, r)
	case constants.OutputFormatCSV:
		return CsvFormat(w, r)
	case constants.OutputFormatJSON:
		return JSONFormat(w, r)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, r)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, r report.Report) error {
	l := r.Labels
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "--- %s ---\n", l.Title)
	fmt.Fprintf(&buf, "%s: %s\n", l.ProductValue, r.Inputs.ProductValue)
	fmt.Fprintf(&buf, "%s: %s\n", l.DiscountPercent, r.Inputs.DiscountPercent)
	fmt.Fprintf(&buf, "%s: %s\n", l.MonthlyRatePercent, r.Inputs.MonthlyRatePercent)
	fmt.Fprintf(&buf, "%s: %d\n", l.InstallmentCount, r.Inputs.InstallmentCount)

	fmt.Fprintf(&buf, "\n--- %s ---\n", l.Analysis)
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", l.CashPrice, r.Cash.CashPrice)
	fmt.Fprintf(tw, "%s\t%s\n", l.DiscountYield, r.Cash.DiscountYield)
	fmt.Fprintf(tw, "%s\t%s\n", l.FinalBalance, r.Cash.FinalBalance)
	fmt.Fprintf(tw, "%s\t%s\n", l.NetCost, r.Cash.NetCost)
	fmt.Fprintf(tw, "\t\n")
	fmt.Fprintf(tw, "%s\t%s\n", l.InstallmentPrice, r.Installment.Price)
	fmt.Fprintf(tw, "%s\t%s\n", l.InstallmentAmount, r.Installment.InstallmentAmount)
	fmt.Fprintf(tw, "%s\t%s\n", l.InstallmentYield, r.Installment.TotalYield)
	fmt.Fprintf(tw, "%s\t%s\n", l.FinalBalance, r.Installment.FinalBalance)
	fmt.Fprintf(tw, "%s\t%s\n", l.NetCost, r.Installment.NetCost)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(&buf, "\n%s\n", r.Verdict.Message)

	fmt.Fprintf(&buf, "\n--- %s ---\n", l.Details)
	tw = tabwriter.NewWriter(&buf, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t | %s\t | %s\t | %s\t | %s\t\n",
		l.Month, l.OpeningBalance, l.MonthlyYield, l.InstallmentPaid, l.ClosingBalance)
	for _, row := range r.Table {
		fmt.Fprintf(tw, "%d\t | %s\t | %s\t | %s\t | %s\t\n",
			row.Month, row.OpeningBalance, row.MonthlyYield, row.InstallmentPaid, row.ClosingBalance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// CsvFormat outputs the monthly schedule in comma-separated value format.
// Amounts are raw numbers with two decimals so the file stays machine readable.
func CsvFormat(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	header := []string{"month", "opening_balance", "monthly_yield", "installment_paid", "closing_balance", "cumulative_yield"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, record := range r.Comparison.Installment.Schedule {
		row := []string{
			strconv.Itoa(record.Month),
			amount(record.OpeningBalance),
			amount(record.MonthlyYield),
			amount(record.InstallmentPaid),
			amount(record.ClosingBalance),
			amount(record.CumulativeYield),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV rendering as a string.
func CsvString(r report.Report) string {
	var sb strings.Builder
	if err := CsvFormat(&sb, r); err != nil {
		return ""
	}
	return sb.String()
}

// JSONFormat outputs the full report as indented JSON.
func JSONFormat(w io.Writer, r report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// YAMLFormat outputs the full report as YAML.
func YAMLFormat(w io.Writer, r report.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', constants.DecimalPlaces, 64)
}
