// Package report turns a comparison into the values shown to a user:
// formatted summaries, a verdict sentence, the yield series for the chart
// and the monthly breakdown table. It knows nothing about HTML or terminals.
package report

import (
	"github.com/iwvelando/purchase-compare/pkg/comparator"
	"github.com/iwvelando/purchase-compare/pkg/format"
)

// Report is the presentation-independent result of one evaluation.
type Report struct {
	Locale      string                   `json:"locale" yaml:"locale"`
	Inputs      InputsView               `json:"inputs" yaml:"inputs"`
	Cash        CashSummary              `json:"cash" yaml:"cash"`
	Installment InstallmentSummary       `json:"installment" yaml:"installment"`
	Verdict     Verdict                  `json:"verdict" yaml:"verdict"`
	Series      []comparator.SeriesPoint `json:"series" yaml:"series"`
	Table       []TableRow               `json:"table" yaml:"table"`
	Labels      Labels                   `json:"-" yaml:"-"`
	Comparison  comparator.Comparison    `json:"comparison" yaml:"comparison"`
}

// InputsView echoes the inputs in display form.
type InputsView struct {
	ProductValue       string `json:"productValue" yaml:"productValue"`
	DiscountPercent    string `json:"discountPercent" yaml:"discountPercent"`
	MonthlyRatePercent string `json:"monthlyRatePercent" yaml:"monthlyRatePercent"`
	InstallmentCount   int    `json:"installmentCount" yaml:"installmentCount"`
}

// CashSummary is the upfront-payment column.
type CashSummary struct {
	CashPrice      string `json:"cashPrice" yaml:"cashPrice"`
	DiscountAmount string `json:"discountAmount" yaml:"discountAmount"`
	DiscountYield  string `json:"discountYield" yaml:"discountYield"`
	FinalBalance   string `json:"finalBalance" yaml:"finalBalance"`
	NetCost        string `json:"netCost" yaml:"netCost"`
}

// InstallmentSummary is the installment column.
type InstallmentSummary struct {
	Price             string `json:"price" yaml:"price"`
	InstallmentAmount string `json:"installmentAmount" yaml:"installmentAmount"`
	TotalYield        string `json:"totalYield" yaml:"totalYield"`
	FinalBalance      string `json:"finalBalance" yaml:"finalBalance"`
	NetCost           string `json:"netCost" yaml:"netCost"`
}

// Verdict names the cheaper option and says so in the report's language.
type Verdict struct {
	Kind    comparator.OutcomeKind `json:"kind" yaml:"kind"`
	Savings string                 `json:"savings" yaml:"savings"`
	Message string                 `json:"message" yaml:"message"`
}

// TableRow is one formatted month of the installment simulation.
type TableRow struct {
	Month           int    `json:"month" yaml:"month"`
	OpeningBalance  string `json:"openingBalance" yaml:"openingBalance"`
	MonthlyYield    string `json:"monthlyYield" yaml:"monthlyYield"`
	InstallmentPaid string `json:"installmentPaid" yaml:"installmentPaid"`
	ClosingBalance  string `json:"closingBalance" yaml:"closingBalance"`
	CumulativeYield string `json:"cumulativeYield" yaml:"cumulativeYield"`
}

// Labels are the translated captions for every rendered element.
type Labels struct {
	Title              string
	Subtitle           string
	Settings           string
	ProductValue       string
	DiscountPercent    string
	MonthlyRatePercent string
	InstallmentCount   string
	Calculate          string
	Analysis           string
	CashPrice          string
	DiscountYield      string
	FinalBalance       string
	NetCost            string
	InstallmentPrice   string
	InstallmentYield   string
	InstallmentAmount  string
	Chart              string
	Details            string
	Month              string
	OpeningBalance     string
	MonthlyYield       string
	InstallmentPaid    string
	ClosingBalance     string
	CumulativeYield    string
}

// New builds the report for a comparison in the given locale.
func New(c comparator.Comparison, loc format.Locale) Report {
	r := Report{
		Locale: loc.Tag.String(),
		Inputs: InputsView{
			ProductValue:       loc.Currency(c.Inputs.ProductValue),
			DiscountPercent:    loc.Percent(c.Inputs.DiscountPercent),
			MonthlyRatePercent: loc.Percent(c.Inputs.MonthlyRatePercent),
			InstallmentCount:   c.Inputs.InstallmentCount,
		},
		Cash: CashSummary{
			CashPrice:      loc.Currency(c.Cash.CashPrice),
			DiscountAmount: loc.Currency(c.Cash.DiscountAmount),
			DiscountYield:  loc.Currency(c.Cash.DiscountYield),
			FinalBalance:   loc.Currency(c.Cash.FinalBalance),
			NetCost:        loc.Currency(c.Cash.NetCost),
		},
		Installment: InstallmentSummary{
			Price:             loc.Currency(c.Inputs.ProductValue),
			InstallmentAmount: loc.Currency(c.Installment.InstallmentAmount),
			TotalYield:        loc.Currency(c.Installment.TotalYield),
			FinalBalance:      loc.Currency(c.Installment.FinalBalance()),
			NetCost:           loc.Currency(c.Installment.NetCost),
		},
		Verdict:    verdict(c.Outcome, loc),
		Series:     comparator.YieldSeries(c.Installment),
		Table:      make([]TableRow, 0, len(c.Installment.Schedule)),
		Labels:     LabelsFor(loc),
		Comparison: c,
	}

	for _, record := range c.Installment.Schedule {
		r.Table = append(r.Table, TableRow{
			Month:           record.Month,
			OpeningBalance:  loc.Currency(record.OpeningBalance),
			MonthlyYield:    loc.Currency(record.MonthlyYield),
			InstallmentPaid: loc.Currency(record.InstallmentPaid),
			ClosingBalance:  loc.Currency(record.ClosingBalance),
			CumulativeYield: loc.Currency(record.CumulativeYield),
		})
	}
	return r
}

func verdict(o comparator.Outcome, loc format.Locale) Verdict {
	p := newPrinter(loc.Tag)
	savings := loc.Currency(o.Savings)

	v := Verdict{Kind: o.Kind, Savings: savings}
	switch o.Kind {
	case comparator.CashBetter:
		v.Message = p.Sprintf(keyVerdictCash, savings)
	case comparator.InstallmentBetter:
		v.Message = p.Sprintf(keyVerdictInstallment, savings)
	default:
		v.Message = p.Sprintf(keyVerdictTie)
	}
	return v
}

// InvalidInstallmentsMessage is the user-facing text for a non-positive
// installment count.
func InvalidInstallmentsMessage(loc format.Locale) string {
	return newPrinter(loc.Tag).Sprintf(keyInvalidInstallments)
}

// LabelsFor returns the captions in the locale's language.
func LabelsFor(loc format.Locale) Labels {
	p := newPrinter(loc.Tag)
	return Labels{
		Title:              p.Sprintf(keyTitle),
		Subtitle:           p.Sprintf(keySubtitle),
		Settings:           p.Sprintf(keySettings),
		ProductValue:       p.Sprintf(keyProductValue),
		DiscountPercent:    p.Sprintf(keyDiscountPercent),
		MonthlyRatePercent: p.Sprintf(keyMonthlyRatePercent),
		InstallmentCount:   p.Sprintf(keyInstallmentCount),
		Calculate:          p.Sprintf(keyCalculate),
		Analysis:           p.Sprintf(keyAnalysis),
		CashPrice:          p.Sprintf(keyCashPrice),
		DiscountYield:      p.Sprintf(keyDiscountYield),
		FinalBalance:       p.Sprintf(keyFinalBalance),
		NetCost:            p.Sprintf(keyNetCost),
		InstallmentPrice:   p.Sprintf(keyInstallmentPrice),
		InstallmentYield:   p.Sprintf(keyInstallmentYield),
		InstallmentAmount:  p.Sprintf(keyInstallmentAmount),
		Chart:              p.Sprintf(keyChart),
		Details:            p.Sprintf(keyDetails),
		Month:              p.Sprintf(keyMonth),
		OpeningBalance:     p.Sprintf(keyOpeningBalance),
		MonthlyYield:       p.Sprintf(keyMonthlyYield),
		InstallmentPaid:    p.Sprintf(keyInstallmentPaid),
		ClosingBalance:     p.Sprintf(keyClosingBalance),
		CumulativeYield:    p.Sprintf(keyCumulativeYield),
	}
}
