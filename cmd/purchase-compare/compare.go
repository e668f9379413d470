package main

import (
	"errors"
	"fmt"

	"github.com/iwvelando/purchase-compare/internal/report"
	"github.com/iwvelando/purchase-compare/pkg/comparator"
	"github.com/iwvelando/purchase-compare/pkg/constants"
	"github.com/iwvelando/purchase-compare/pkg/format"
	"github.com/iwvelando/purchase-compare/pkg/output"
	"github.com/iwvelando/purchase-compare/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type compareOptions struct {
	productValue       float64
	discountPercent    float64
	monthlyRatePercent float64
	installmentCount   int
	outputFormat       string
	locale             string
}

func newCompareCommand(root *rootOptions) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Evaluate one purchase and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.productValue, "product-value", constants.DefaultProductValue, "total product price")
	flags.Float64Var(&opts.discountPercent, "discount", constants.DefaultDiscountPercent, "discount for paying in full, in percent")
	flags.Float64Var(&opts.monthlyRatePercent, "rate", constants.DefaultMonthlyRatePercent, "monthly investment yield, in percent")
	flags.IntVar(&opts.installmentCount, "installments", constants.DefaultInstallmentCount, "number of monthly installments")
	flags.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, json, yaml")
	flags.StringVar(&opts.locale, "locale", "", "display locale override: pt-BR, en-US")
	return cmd
}

func runCompare(cmd *cobra.Command, root *rootOptions, opts *compareOptions) error {
	conf, err := root.loadConfiguration(cmd)
	if err != nil {
		return err
	}

	logger, err := initializeLogger(conf.Logging, root.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI flags take precedence over the configuration file.
	flags := cmd.Flags()
	if flags.Changed("product-value") {
		conf.Inputs.ProductValue = opts.productValue
	}
	if flags.Changed("discount") {
		conf.Inputs.DiscountPercent = opts.discountPercent
	}
	if flags.Changed("rate") {
		conf.Inputs.MonthlyRatePercent = opts.monthlyRatePercent
	}
	if flags.Changed("installments") {
		conf.Inputs.InstallmentCount = opts.installmentCount
	}
	if opts.locale != "" {
		conf.Locale = opts.locale
	}

	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.compare"),
		)
	}

	loc := conf.DisplayLocale()
	in := conf.ComparatorInputs()
	if err := validation.ValidateInputs(in); err != nil {
		return err
	}

	c, err := comparator.Evaluate(in)
	if err != nil {
		if errors.Is(err, comparator.ErrInvalidInput) {
			return errors.New(report.InvalidInstallmentsMessage(loc))
		}
		return err
	}

	logger.Debug("comparison evaluated",
		zap.String("op", "main.compare"),
		zap.String("outcome", string(c.Outcome.Kind)),
		zap.String("savings", format.Currency(c.Outcome.Savings)),
	)

	return output.Write(cmd.OutOrStdout(), outputFormat, report.New(c, loc))
}
