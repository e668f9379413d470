// Package comparator compares paying for a purchase in full with a discount
// against paying in installments while the unspent balance earns a monthly
// yield.
//
// Every function here is pure: results depend only on the arguments, so the
// caller re-evaluates from scratch whenever an input changes.
package comparator

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/purchase-compare/pkg/mathutil"
)

// ErrInvalidInput is returned when the installment count is not positive.
var ErrInvalidInput = errors.New("invalid input")

// Inputs holds the four scalars that drive an evaluation.
type Inputs struct {
	ProductValue       float64 `json:"productValue" yaml:"productValue"`
	DiscountPercent    float64 `json:"discountPercent" yaml:"discountPercent"`
	MonthlyRatePercent float64 `json:"monthlyRatePercent" yaml:"monthlyRatePercent"`
	InstallmentCount   int     `json:"installmentCount" yaml:"installmentCount"`
}

// CashOption describes paying the full amount upfront at a discount while the
// saved discount is invested for the installment horizon.
type CashOption struct {
	CashPrice      float64 `json:"cashPrice" yaml:"cashPrice"`
	DiscountAmount float64 `json:"discountAmount" yaml:"discountAmount"`
	DiscountYield  float64 `json:"discountYield" yaml:"discountYield"`
	NetCost        float64 `json:"netCost" yaml:"netCost"`
	// FinalBalance is the invested discount plus its yield at the end of the horizon.
	FinalBalance float64 `json:"finalBalance" yaml:"finalBalance"`
}

// MonthRecord is one row of the installment simulation.
type MonthRecord struct {
	Month           int     `json:"month" yaml:"month"`
	OpeningBalance  float64 `json:"openingBalance" yaml:"openingBalance"`
	MonthlyYield    float64 `json:"monthlyYield" yaml:"monthlyYield"`
	InstallmentPaid float64 `json:"installmentPaid" yaml:"installmentPaid"`
	ClosingBalance  float64 `json:"closingBalance" yaml:"closingBalance"`
	CumulativeYield float64 `json:"cumulativeYield" yaml:"cumulativeYield"`
}

// InstallmentOption describes paying in equal installments while the unpaid
// balance earns yield.
type InstallmentOption struct {
	InstallmentAmount float64       `json:"installmentAmount" yaml:"installmentAmount"`
	Schedule          []MonthRecord `json:"schedule" yaml:"schedule"`
	TotalYield        float64       `json:"totalYield" yaml:"totalYield"`
	NetCost           float64       `json:"netCost" yaml:"netCost"`
}

// FinalBalance returns the closing balance after the last installment.
func (o InstallmentOption) FinalBalance() float64 {
	if len(o.Schedule) == 0 {
		return 0
	}
	return o.Schedule[len(o.Schedule)-1].ClosingBalance
}

// SeriesPoint pairs a month with the yield accumulated up to it.
type SeriesPoint struct {
	Month           int     `json:"month" yaml:"month"`
	CumulativeYield float64 `json:"cumulativeYield" yaml:"cumulativeYield"`
}

// Comparison is the full result of one evaluation.
type Comparison struct {
	Inputs      Inputs            `json:"inputs" yaml:"inputs"`
	Cash        CashOption        `json:"cash" yaml:"cash"`
	Installment InstallmentOption `json:"installment" yaml:"installment"`
	Outcome     Outcome           `json:"outcome" yaml:"outcome"`
}

// Finite reports whether every derived amount is a finite number. Large rates
// or horizons can overflow float64 to an infinity, or to NaN when a zero
// discount meets an infinite growth factor.
func (c Comparison) Finite() bool {
	values := []float64{
		c.Cash.CashPrice, c.Cash.DiscountAmount, c.Cash.DiscountYield, c.Cash.NetCost, c.Cash.FinalBalance,
		c.Installment.InstallmentAmount, c.Installment.TotalYield, c.Installment.NetCost,
		c.Outcome.Savings,
	}
	for _, v := range values {
		if !mathutil.IsFinite(v) {
			return false
		}
	}
	for _, record := range c.Installment.Schedule {
		if !mathutil.IsFinite(record.OpeningBalance) || !mathutil.IsFinite(record.ClosingBalance) ||
			!mathutil.IsFinite(record.MonthlyYield) || !mathutil.IsFinite(record.CumulativeYield) {
			return false
		}
	}
	return true
}

// Validate reports ErrInvalidInput when the installment count is not positive.
func (in Inputs) Validate() error {
	if in.InstallmentCount <= 0 {
		return fmt.Errorf("%w: installment count must be greater than zero, got %d", ErrInvalidInput, in.InstallmentCount)
	}
	return nil
}

// Evaluate validates the inputs and runs both options and the comparison.
// Nothing is derived when validation fails.
func Evaluate(in Inputs) (Comparison, error) {
	if err := in.Validate(); err != nil {
		return Comparison{}, err
	}

	cash, err := ComputeCashOption(in.ProductValue, in.DiscountPercent, in.MonthlyRatePercent, in.InstallmentCount)
	if err != nil {
		return Comparison{}, err
	}

	installment, err := ComputeInstallmentOption(in.ProductValue, in.MonthlyRatePercent, in.InstallmentCount)
	if err != nil {
		return Comparison{}, err
	}

	return Comparison{
		Inputs:      in,
		Cash:        cash,
		Installment: installment,
		Outcome:     Compare(cash.NetCost, installment.NetCost),
	}, nil
}

// ComputeCashOption prices the upfront payment and the yield earned by
// investing the discount at compound interest for installmentCount months.
func ComputeCashOption(productValue, discountPercent, monthlyRatePercent float64, installmentCount int) (CashOption, error) {
	if installmentCount <= 0 {
		return CashOption{}, fmt.Errorf("%w: installment count must be greater than zero, got %d", ErrInvalidInput, installmentCount)
	}

	cashPrice := productValue * (1 - mathutil.PercentToDecimal(discountPercent))
	discountAmount := productValue - cashPrice
	discountYield := discountAmount * mathutil.CompoundGrowth(monthlyRatePercent, installmentCount)

	return CashOption{
		CashPrice:      cashPrice,
		DiscountAmount: discountAmount,
		DiscountYield:  discountYield,
		NetCost:        cashPrice - discountYield,
		FinalBalance:   discountAmount + discountYield,
	}, nil
}

// ComputeInstallmentOption simulates the installment plan month by month,
// starting with the full product value invested.
func ComputeInstallmentOption(productValue, monthlyRatePercent float64, installmentCount int) (InstallmentOption, error) {
	if installmentCount <= 0 {
		return InstallmentOption{}, fmt.Errorf("%w: installment count must be greater than zero, got %d", ErrInvalidInput, installmentCount)
	}

	installmentAmount := productValue / float64(installmentCount)
	schedule := make([]MonthRecord, 0, installmentCount)

	balance := productValue
	totalYield := 0.0
	for month := 1; month <= installmentCount; month++ {
		monthlyYield := mathutil.ApplyPercentage(balance, monthlyRatePercent)
		totalYield += monthlyYield

		// The balance may go negative when the yield cannot cover the installment.
		closing := balance + monthlyYield - installmentAmount
		schedule = append(schedule, MonthRecord{
			Month:           month,
			OpeningBalance:  balance,
			MonthlyYield:    monthlyYield,
			InstallmentPaid: installmentAmount,
			ClosingBalance:  closing,
			CumulativeYield: totalYield,
		})
		balance = closing
	}

	return InstallmentOption{
		InstallmentAmount: installmentAmount,
		Schedule:          schedule,
		TotalYield:        totalYield,
		NetCost:           productValue - totalYield,
	}, nil
}

// YieldSeries returns the cumulative yield per month, ready for charting.
func YieldSeries(option InstallmentOption) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(option.Schedule))
	for _, record := range option.Schedule {
		points = append(points, SeriesPoint{Month: record.Month, CumulativeYield: record.CumulativeYield})
	}
	return points
}

// OutcomeKind names the cheaper strategy.
type OutcomeKind string

const (
	CashBetter        OutcomeKind = "cash"
	InstallmentBetter OutcomeKind = "installment"
	Tie               OutcomeKind = "tie"
)

// Outcome is the verdict of a comparison. Savings is zero for a Tie.
type Outcome struct {
	Kind    OutcomeKind `json:"kind" yaml:"kind"`
	Savings float64     `json:"savings" yaml:"savings"`
}

// Compare picks the strategy with the strictly lower net cost. Exact equality
// is a Tie, and so is any comparison involving NaN since neither cost is lower.
func Compare(netCashCost, netInstallmentCost float64) Outcome {
	switch {
	case netCashCost < netInstallmentCost:
		return Outcome{Kind: CashBetter, Savings: math.Abs(netCashCost - netInstallmentCost)}
	case netInstallmentCost < netCashCost:
		return Outcome{Kind: InstallmentBetter, Savings: math.Abs(netCashCost - netInstallmentCost)}
	default:
		return Outcome{Kind: Tie}
	}
}
