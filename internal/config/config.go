package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Stripe   StripeConfig
	Sheets   SheetsConfig
	Survey   SurveyConfig
	Logger   LoggerConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type StripeConfig struct {
	APIKey string
}

// SheetsConfig points at the two source spreadsheets. Empty IDs or
// missing credentials disable the corresponding aggregates instead of
// failing requests.
type SheetsConfig struct {
	CredentialsFile     string
	CredentialsJSON     string
	SatisfactionSheetID string
	SatisfactionRange   string
	ExternalSheetID     string
	ExternalRange       string
}

// SurveyConfig maps spreadsheet columns (zero-based within the fetched
// range) to their meaning. SatisfactionColumns is an ordered fallback
// list: the first column yielding at least one valid rating wins. The
// upstream sheet has drifted between columns over time, so the
// candidates are explicit configuration rather than probed silently.
type SurveyConfig struct {
	SeniorityColumn     int
	SectorColumn        int
	CompanySizeColumn   int
	SatisfactionColumns []int
	NPSColumn           int
	TestimonialColumn   int
	ChannelColumn       int
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 3001),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Stripe: StripeConfig{
			APIKey: getEnvString("STRIPE_SECRET_KEY", ""),
		},
		Sheets: SheetsConfig{
			CredentialsFile:     getEnvString("GOOGLE_CREDENTIALS_FILE", ""),
			CredentialsJSON:     getEnvString("GOOGLE_CREDENTIALS_JSON", ""),
			SatisfactionSheetID: getEnvString("GOOGLE_SHEET_ID", ""),
			SatisfactionRange:   getEnvString("GOOGLE_SHEET_RANGE", "E:AD"),
			ExternalSheetID:     getEnvString("GOOGLE_SHEET_ID_EXTERNAL_REVENUES", ""),
			ExternalRange:       getEnvString("GOOGLE_SHEET_RANGE_EXTERNAL_REVENUES", "Achats!A2:J"),
		},
		Survey: SurveyConfig{
			SeniorityColumn:     getEnvInt("SURVEY_COL_SENIORITY", 0),
			SectorColumn:        getEnvInt("SURVEY_COL_SECTOR", 1),
			CompanySizeColumn:   getEnvInt("SURVEY_COL_COMPANY_SIZE", 2),
			SatisfactionColumns: getEnvIntSlice("SURVEY_COLS_SATISFACTION", []int{10, 19}),
			NPSColumn:           getEnvInt("SURVEY_COL_NPS", 18),
			TestimonialColumn:   getEnvInt("SURVEY_COL_TESTIMONIAL", 20),
			ChannelColumn:       getEnvInt("SURVEY_COL_CHANNEL", 25),
		},
		Logger: LoggerConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			EnableRateLimit: getEnvBool("SECURITY_RATE_LIMIT_ENABLED", true),
			RateLimitRPS:    getEnvInt("SECURITY_RATE_LIMIT_RPS", 100),
			RateLimitBurst:  getEnvInt("SECURITY_RATE_LIMIT_BURST", 10),
			AllowedOrigins:  getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			TrustedProxies:  getEnvStringSlice("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Stripe.APIKey == "" {
		return fmt.Errorf("stripe secret key cannot be empty")
	}

	if len(c.Survey.SatisfactionColumns) == 0 {
		return fmt.Errorf("at least one satisfaction column must be configured")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

// SurveyEnabled reports whether the satisfaction sheet is configured.
func (c *Config) SurveyEnabled() bool {
	return c.Sheets.SatisfactionSheetID != "" && c.sheetsCredentialsPresent()
}

// ExternalRevenuesEnabled reports whether the external revenues sheet
// is configured.
func (c *Config) ExternalRevenuesEnabled() bool {
	return c.Sheets.ExternalSheetID != "" && c.sheetsCredentialsPresent()
}

func (c *Config) sheetsCredentialsPresent() bool {
	return c.Sheets.CredentialsFile != "" || c.Sheets.CredentialsJSON != ""
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getEnvIntSlice(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		result = append(result, n)
	}
	return result
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
