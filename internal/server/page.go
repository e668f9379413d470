package server

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/purchase-compare/internal/report"
	"github.com/iwvelando/purchase-compare/pkg/comparator"
	"github.com/iwvelando/purchase-compare/pkg/constants"
	"github.com/iwvelando/purchase-compare/pkg/format"
	"go.uber.org/zap"
)

// Chart geometry in SVG user units.
const (
	chartWidth   = 640
	chartHeight  = 260
	chartPadding = 48
)

var templateFuncs = template.FuncMap{
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
}

type pageView struct {
	Lang    string
	Labels  report.Labels
	Form    formView
	Error   string
	Report  *report.Report
	Chart   *chartView
	Version string
}

// formView echoes the submitted values and the widget constraints.
type formView struct {
	Locale             string
	ProductValue       float64
	DiscountPercent    float64
	MonthlyRatePercent float64
	InstallmentCount   int

	MinProductValue       float64
	MinDiscountPercent    float64
	MinMonthlyRatePercent float64
	MinInstallmentCount   int
	MaxInstallmentCount   int

	ProductValueStep       float64
	DiscountPercentStep    float64
	MonthlyRatePercentStep float64
	InstallmentCountStep   int
}

type chartView struct {
	Width    int
	Height   int
	Left     int
	Right    int
	Top      int
	Bottom   int
	Polyline string
	Points   []chartPoint
	MaxLabel string
	MinLabel string
	Caption  string
	XLabel   string
}

type chartPoint struct {
	X, Y  string
	Month int
	Title string
}

func newFormView(in comparator.Inputs, locale string) formView {
	return formView{
		Locale:                 locale,
		ProductValue:           in.ProductValue,
		DiscountPercent:        in.DiscountPercent,
		MonthlyRatePercent:     in.MonthlyRatePercent,
		InstallmentCount:       in.InstallmentCount,
		MinProductValue:        constants.MinProductValue,
		MinDiscountPercent:     constants.MinDiscountPercent,
		MinMonthlyRatePercent:  constants.MinMonthlyRatePercent,
		MinInstallmentCount:    constants.MinInstallmentCount,
		MaxInstallmentCount:    constants.MaxInstallmentCount,
		ProductValueStep:       constants.ProductValueStep,
		DiscountPercentStep:    constants.DiscountPercentStep,
		MonthlyRatePercentStep: constants.MonthlyRatePercentStep,
		InstallmentCountStep:   constants.InstallmentCountStep,
	}
}

// handleIndex renders the comparison page. Every visit computes the
// submitted inputs, or the defaults when nothing was submitted.
func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	query := r.URL.Query()
	loc := format.MatchLocale(query.Get("locale"), r.Header.Get("Accept-Language"))

	view := pageView{
		Lang:    loc.Tag.String(),
		Labels:  report.LabelsFor(loc),
		Version: h.version,
	}

	status := http.StatusOK
	req, err := parseQuery(query)
	in := req.inputs()
	view.Form = newFormView(in, query.Get("locale"))

	if err != nil {
		status = http.StatusBadRequest
		view.Error = err.Error()
	} else if rep, evalErr := h.evaluate(in, loc, start); evalErr != nil {
		status = http.StatusBadRequest
		view.Error = h.errorMessage(evalErr, loc)
	} else {
		view.Report = &rep
		if rep.Comparison.Finite() {
			view.Chart = buildChart(rep, loc)
		}
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, view); err != nil {
		h.logger.Error("failed to render page",
			zap.String("op", "server.handleIndex"),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write page",
			zap.String("op", "server.handleIndex"),
			zap.Error(err),
		)
	}
}

// buildChart lays the cumulative yield series out as an SVG line.
func buildChart(rep report.Report, loc format.Locale) *chartView {
	if len(rep.Series) == 0 {
		return nil
	}

	lo, hi := 0.0, 0.0
	for _, p := range rep.Series {
		lo = math.Min(lo, p.CumulativeYield)
		hi = math.Max(hi, p.CumulativeYield)
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	c := &chartView{
		Width:    chartWidth,
		Height:   chartHeight,
		Left:     chartPadding,
		Right:    chartWidth - chartPadding,
		Top:      chartPadding / 2,
		Bottom:   chartHeight - chartPadding,
		MaxLabel: loc.Currency(hi),
		MinLabel: loc.Currency(lo),
		Caption:  rep.Labels.Chart,
		XLabel:   rep.Labels.Month,
	}

	plotWidth := float64(c.Right - c.Left)
	plotHeight := float64(c.Bottom - c.Top)
	steps := float64(len(rep.Series) - 1)

	coords := make([]string, 0, len(rep.Series))
	for i, p := range rep.Series {
		x := float64(c.Left)
		if steps > 0 {
			x += plotWidth * float64(i) / steps
		}
		y := float64(c.Bottom) - plotHeight*(p.CumulativeYield-lo)/span

		xs := strconv.FormatFloat(x, 'f', 1, 64)
		ys := strconv.FormatFloat(y, 'f', 1, 64)
		coords = append(coords, xs+","+ys)
		c.Points = append(c.Points, chartPoint{
			X:     xs,
			Y:     ys,
			Month: p.Month,
			Title: fmt.Sprintf("%s %d: %s", rep.Labels.Month, p.Month, loc.Currency(p.CumulativeYield)),
		})
	}
	c.Polyline = strings.Join(coords, " ")
	return c
}
