// Package constants provides shared constants for the purchase-compare application.
package constants

// Input defaults, matching what the UI pre-fills.
const (
	// DefaultProductValue is the default product price
	DefaultProductValue = 1000.0

	// DefaultDiscountPercent is the default discount for paying in full
	DefaultDiscountPercent = 3.0

	// DefaultMonthlyRatePercent is the default monthly investment yield
	DefaultMonthlyRatePercent = 1.0

	// DefaultInstallmentCount is the default number of installments
	DefaultInstallmentCount = 2
)

// Input bounds enforced by the input widgets and the CLI/HTTP edges.
const (
	// MinProductValue is the smallest accepted product price
	MinProductValue = 100.0

	// MinDiscountPercent is the smallest accepted discount
	MinDiscountPercent = 0.0

	// MinMonthlyRatePercent is the smallest accepted monthly yield
	MinMonthlyRatePercent = 0.0

	// MinInstallmentCount is the smallest accepted number of installments
	MinInstallmentCount = 1

	// MaxInstallmentCount bounds the simulated horizon (100 years)
	MaxInstallmentCount = 1200
)

// Input widget steps.
const (
	ProductValueStep       = 100.0
	DiscountPercentStep    = 0.5
	MonthlyRatePercentStep = 0.1
	InstallmentCountStep   = 1
)

// Financial constants
const (
	// DecimalPlaces is the number of currency decimal places
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format (monthly schedule)
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format (full report)
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format (full report)
	OutputFormatYAML = "yaml"
)

// Locale constants
const (
	// DefaultLocale is the display locale used when none is requested
	DefaultLocale = "pt-BR"

	// CurrencySymbol is the symbol prefixed to every amount
	CurrencySymbol = "R$"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides (PURCHASE_INPUTS_PRODUCTVALUE, ...)
	EnvPrefix = "PURCHASE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum JSON request body (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRateLimitPerSecond is the default steady request rate per client
	DefaultRateLimitPerSecond = 10.0

	// DefaultRateLimitBurst is the default burst size per client
	DefaultRateLimitBurst = 20

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown
	DefaultShutdownTimeoutSeconds = 10

	// DefaultServiceName is the service name reported to tracing backends
	DefaultServiceName = "purchase-compare"
)
