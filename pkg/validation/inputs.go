package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/purchase-compare/pkg/comparator"
	"github.com/iwvelando/purchase-compare/pkg/constants"
)

var (
	// ErrBelowMinimum is returned when an input is below its widget minimum.
	ErrBelowMinimum = errors.New("input below minimum")

	// ErrAboveMaximum is returned when the installment horizon is too long to simulate.
	ErrAboveMaximum = errors.New("input above maximum")

	// ErrNotFinite is returned for NaN or infinite amounts.
	ErrNotFinite = errors.New("input is not a finite number")
)

// ValidateInputs applies the widget bounds to the product value, discount,
// rate and the installment ceiling. A non-positive installment count is left
// to comparator.Evaluate, which owns that check.
func ValidateInputs(in comparator.Inputs) error {
	var errs []error

	errs = appendAmountError(errs, "product value", in.ProductValue, constants.MinProductValue)
	errs = appendAmountError(errs, "discount percent", in.DiscountPercent, constants.MinDiscountPercent)
	errs = appendAmountError(errs, "monthly rate percent", in.MonthlyRatePercent, constants.MinMonthlyRatePercent)

	if in.InstallmentCount > constants.MaxInstallmentCount {
		errs = append(errs, fmt.Errorf("%w: installment count must be at most %d, got %d",
			ErrAboveMaximum, constants.MaxInstallmentCount, in.InstallmentCount))
	}

	return errors.Join(errs...)
}

func appendAmountError(errs []error, name string, value, minimum float64) []error {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		return append(errs, fmt.Errorf("%w: %s must be a finite number, got %v", ErrNotFinite, name, value))
	case value < minimum:
		return append(errs, fmt.Errorf("%w: %s must be at least %.2f, got %.2f", ErrBelowMinimum, name, minimum, value))
	}
	return errs
}
