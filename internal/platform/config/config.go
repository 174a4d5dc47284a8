package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	LogLevel     string

	// Organisation
	OrgShortname       string
	InvoiceSenderEmail string
	CurrencyCode       string
	RefundAccount      int

	// Provider access
	HTTPTimeout       time.Duration
	ProviderRateLimit float64 // Requests per second to each provider API
	WiseBaseURL       string
	GoCardlessBaseURL string

	// Report notification intake
	NotificationUser         string
	NotificationPasswordHash string
	IntakeRateLimit          string // ulule limiter format, e.g. "60-M"

	ManagedAccountCacheTTL time.Duration

	// PaymentMethodsFile is the YAML file listing the configured payment methods.
	PaymentMethodsFile string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ORG_SHORTNAME", "")
	viper.SetDefault("INVOICE_SENDER_EMAIL", "")
	viper.SetDefault("CURRENCY", "EUR")
	viper.SetDefault("REFUND_ACCOUNT", 0)
	viper.SetDefault("HTTP_TIMEOUT", "30s")
	viper.SetDefault("PROVIDER_RATE_LIMIT", 5.0)
	viper.SetDefault("WISE_API_URL", "https://api.transferwise.com")
	viper.SetDefault("GOCARDLESS_API_URL", "https://bankaccountdata.gocardless.com/api/v2")
	viper.SetDefault("NOTIFICATION_USER", "")
	viper.SetDefault("NOTIFICATION_PASSWORD_HASH", "")
	viper.SetDefault("INTAKE_RATE_LIMIT", "60-M")
	viper.SetDefault("MANAGED_ACCOUNT_CACHE_TTL", "10m")
	viper.SetDefault("RECON_CONFIG", "recon.yaml")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	cfg.OrgShortname = viper.GetString("ORG_SHORTNAME")
	if cfg.OrgShortname == "" {
		log.Println("Warning: ORG_SHORTNAME not set. Wise refunds and returned payments will not be recognized.")
	}
	cfg.InvoiceSenderEmail = viper.GetString("INVOICE_SENDER_EMAIL")
	if cfg.InvoiceSenderEmail == "" {
		log.Println("Warning: INVOICE_SENDER_EMAIL not set. Notification mails will have no sender.")
	}
	cfg.CurrencyCode = viper.GetString("CURRENCY")
	cfg.RefundAccount = viper.GetInt("REFUND_ACCOUNT")

	cfg.HTTPTimeout = durationOrDefault("HTTP_TIMEOUT", 30*time.Second)
	cfg.ProviderRateLimit = viper.GetFloat64("PROVIDER_RATE_LIMIT")
	if cfg.ProviderRateLimit <= 0 {
		cfg.ProviderRateLimit = 5
		log.Printf("Warning: Invalid PROVIDER_RATE_LIMIT. Defaulting to %.0f requests per second.\n", cfg.ProviderRateLimit)
	}
	cfg.WiseBaseURL = viper.GetString("WISE_API_URL")
	cfg.GoCardlessBaseURL = viper.GetString("GOCARDLESS_API_URL")

	cfg.NotificationUser = viper.GetString("NOTIFICATION_USER")
	cfg.NotificationPasswordHash = viper.GetString("NOTIFICATION_PASSWORD_HASH")
	if cfg.NotificationUser == "" || cfg.NotificationPasswordHash == "" {
		log.Println("Warning: NOTIFICATION_USER or NOTIFICATION_PASSWORD_HASH not set. Report notifications will be rejected.")
	}
	cfg.IntakeRateLimit = viper.GetString("INTAKE_RATE_LIMIT")

	cfg.ManagedAccountCacheTTL = durationOrDefault("MANAGED_ACCOUNT_CACHE_TTL", 10*time.Minute)
	cfg.PaymentMethodsFile = viper.GetString("RECON_CONFIG")

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}
