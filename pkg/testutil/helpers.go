// Package testutil provides common fixtures for testing.
package testutil

import (
	"github.com/iwvelando/purchase-compare/pkg/comparator"
	"github.com/iwvelando/purchase-compare/pkg/constants"
)

// DefaultInputs returns the inputs the UI pre-fills: 1000, 3%, 1% a month, 2 installments.
func DefaultInputs() comparator.Inputs {
	return comparator.Inputs{
		ProductValue:       constants.DefaultProductValue,
		DiscountPercent:    constants.DefaultDiscountPercent,
		MonthlyRatePercent: constants.DefaultMonthlyRatePercent,
		InstallmentCount:   constants.DefaultInstallmentCount,
	}
}

// TieInputs returns inputs where both strategies cost exactly the product value.
func TieInputs() comparator.Inputs {
	return comparator.Inputs{
		ProductValue:       constants.DefaultProductValue,
		DiscountPercent:    0,
		MonthlyRatePercent: 0,
		InstallmentCount:   1,
	}
}

// FindMonth returns the schedule record for the given month, or nil.
func FindMonth(schedule []comparator.MonthRecord, month int) *comparator.MonthRecord {
	for i := range schedule {
		if schedule[i].Month == month {
			return &schedule[i]
		}
	}
	return nil
}
