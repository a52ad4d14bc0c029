package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"backoffice-recon/internal/matcher"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Matching MatchingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	LogLevel       string
	MasterDataPath string
}

// MatchingConfig exposes every matching heuristic. The tolerance and window
// constants are not derived from a documented business rule, so all of them
// are overridable per deployment.
type MatchingConfig struct {
	ExactEpsilon            float64
	InvoiceWindowDays       int
	InvoiceAmountTolerance  float64
	InvoiceNameDaysBefore   int
	InvoiceNameDaysAfter    int
	InvoicePoolLookbackDays int
	SettlementWindowDays    int
	SettlementTolerance     float64
	SettlementAbsoluteFloor float64
	OrderDaysBefore         int
	OrderDaysAfter          int
	OrderCloseTolerance     float64
	IntercompanyWindowDays  int
	IntercompanyTolerance   float64
	AutoCommitThreshold     int

	// Settlement sources queried per transaction currency.
	GatewaySourcesUSD     []string
	GatewaySourcesDefault []string
}

// Load reads config.yaml from the working directory or /etc/backoffice-recon,
// with RECON_-prefixed environment variables taking precedence. A missing
// config file is fine; every key has a default.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/backoffice-recon")

	v.SetEnvPrefix("RECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "backoffice")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("server.port", "8080")

	v.SetDefault("app.loglevel", "info")
	v.SetDefault("app.masterdatapath", "")

	tol := matcher.DefaultTolerances()
	v.SetDefault("matching.exactepsilon", tol.ExactEpsilon.InexactFloat64())
	v.SetDefault("matching.invoicewindowdays", tol.InvoiceWindowDays)
	v.SetDefault("matching.invoiceamounttolerance", tol.InvoiceAmountTolerance.InexactFloat64())
	v.SetDefault("matching.invoicenamedaysbefore", tol.InvoiceNameDaysBefore)
	v.SetDefault("matching.invoicenamedaysafter", tol.InvoiceNameDaysAfter)
	v.SetDefault("matching.invoicepoollookbackdays", tol.InvoicePoolLookbackDays)
	v.SetDefault("matching.settlementwindowdays", tol.SettlementWindowDays)
	v.SetDefault("matching.settlementtolerance", tol.SettlementTolerance.InexactFloat64())
	v.SetDefault("matching.settlementabsolutefloor", tol.SettlementAbsoluteFloor.InexactFloat64())
	v.SetDefault("matching.orderdaysbefore", tol.OrderDaysBefore)
	v.SetDefault("matching.orderdaysafter", tol.OrderDaysAfter)
	v.SetDefault("matching.orderclosetolerance", tol.OrderCloseTolerance.InexactFloat64())
	v.SetDefault("matching.intercompanywindowdays", tol.IntercompanyWindowDays)
	v.SetDefault("matching.intercompanytolerance", tol.IntercompanyTolerance.InexactFloat64())
	v.SetDefault("matching.autocommitthreshold", tol.AutoCommitThreshold)

	v.SetDefault("matching.gatewaysourcesusd", []string{"braintree", "stripe", "paypal"})
	v.SetDefault("matching.gatewaysourcesdefault", []string{"braintree", "stripe", "gocardless", "paypal", "adyen"})
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Tolerances converts the configured values into the matcher's decimal form.
func (m *MatchingConfig) Tolerances() matcher.Tolerances {
	return matcher.Tolerances{
		ExactEpsilon:            decimal.NewFromFloat(m.ExactEpsilon),
		InvoiceWindowDays:       m.InvoiceWindowDays,
		InvoiceAmountTolerance:  decimal.NewFromFloat(m.InvoiceAmountTolerance),
		InvoiceNameDaysBefore:   m.InvoiceNameDaysBefore,
		InvoiceNameDaysAfter:    m.InvoiceNameDaysAfter,
		InvoicePoolLookbackDays: m.InvoicePoolLookbackDays,
		SettlementWindowDays:    m.SettlementWindowDays,
		SettlementTolerance:     decimal.NewFromFloat(m.SettlementTolerance),
		SettlementAbsoluteFloor: decimal.NewFromFloat(m.SettlementAbsoluteFloor),
		OrderDaysBefore:         m.OrderDaysBefore,
		OrderDaysAfter:          m.OrderDaysAfter,
		OrderCloseTolerance:     decimal.NewFromFloat(m.OrderCloseTolerance),
		IntercompanyWindowDays:  m.IntercompanyWindowDays,
		IntercompanyTolerance:   decimal.NewFromFloat(m.IntercompanyTolerance),
		AutoCommitThreshold:     m.AutoCommitThreshold,
	}
}

// SourcesForCurrency returns the settlement sources appropriate to a
// transaction currency.
func (m *MatchingConfig) SourcesForCurrency(currency string) []string {
	if strings.EqualFold(currency, "USD") {
		return m.GatewaySourcesUSD
	}
	return m.GatewaySourcesDefault
}
