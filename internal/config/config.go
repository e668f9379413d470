// Package config defines the configuration structures and loads them from
// YAML files and the environment.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/purchase-compare/pkg/comparator"
	"github.com/iwvelando/purchase-compare/pkg/constants"
	"github.com/iwvelando/purchase-compare/pkg/format"
	"github.com/spf13/viper"
)

// MaxRecommendedInstallments is the horizon above which a warning is raised.
const MaxRecommendedInstallments = 600

// Configuration holds all configuration for purchase-compare.
type Configuration struct {
	Inputs  InputsConfig  `yaml:"inputs,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Locale  string        `yaml:"locale,omitempty"` // pt-BR, en-US
}

// InputsConfig holds the purchase being evaluated.
type InputsConfig struct {
	ProductValue       float64 `yaml:"productValue"`
	DiscountPercent    float64 `yaml:"discountPercent"`
	MonthlyRatePercent float64 `yaml:"monthlyRatePercent"`
	InstallmentCount   int     `yaml:"installmentCount"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, yaml
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path yields the defaults, still subject to
// PURCHASE_* environment overrides.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from an arbitrary reader.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("inputs.productValue", constants.DefaultProductValue)
	v.SetDefault("inputs.discountPercent", constants.DefaultDiscountPercent)
	v.SetDefault("inputs.monthlyRatePercent", constants.DefaultMonthlyRatePercent)
	v.SetDefault("inputs.installmentCount", constants.DefaultInstallmentCount)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("locale", constants.DefaultLocale)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ComparatorInputs converts the configured inputs for evaluation.
func (c *Configuration) ComparatorInputs() comparator.Inputs {
	return comparator.Inputs{
		ProductValue:       c.Inputs.ProductValue,
		DiscountPercent:    c.Inputs.DiscountPercent,
		MonthlyRatePercent: c.Inputs.MonthlyRatePercent,
		InstallmentCount:   c.Inputs.InstallmentCount,
	}
}

// DisplayLocale resolves the configured locale, falling back to pt-BR.
func (c *Configuration) DisplayLocale() format.Locale {
	return format.MatchLocale(c.Locale)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Inputs.DiscountPercent > 100 {
		warnings = append(warnings, fmt.Sprintf("discount of %.2f%% exceeds 100%%; the cash price will be negative", c.Inputs.DiscountPercent))
	}
	if c.Inputs.InstallmentCount > MaxRecommendedInstallments {
		warnings = append(warnings, fmt.Sprintf("%d installments is longer than %d months; the schedule will be large",
			c.Inputs.InstallmentCount, MaxRecommendedInstallments))
	}
	if c.Locale != "" {
		resolved := c.DisplayLocale()
		if !strings.EqualFold(resolved.Tag.String(), c.Locale) {
			warnings = append(warnings, fmt.Sprintf("locale %q is not supported exactly; using %s", c.Locale, resolved.Tag))
		}
	}

	return warnings
}
