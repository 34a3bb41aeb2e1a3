// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like APOLLO_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// Load base config, missing file is fine
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Merge environment-specific config
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	// Expand ${VAR} placeholders
	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	// Direct override if still empty
	overrideEmptyConfig(&cfg)

	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from multiple possible locations.
func loadEnvFile() {
	// Try multiple paths (for running from different directories)
	possiblePaths := []string{
		".env",          // Current directory
		"../.env",       // Parent directory
		"../../.env",    // Two levels up (for tests in test/e2e/)
		"../../../.env", // Three levels up
	}

	// Also try to find project root by looking for go.mod
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Walk up directories looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars expands ${VAR} references in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		// Only process string values
		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills config values from well-known environment
// variables when the config file left them empty. Viper's AutomaticEnv only
// resolves keys it already knows about, so secrets set purely through the
// environment land here.
func overrideEmptyConfig(cfg *Config) {
	// Apollo.io
	if cfg.Apollo.APIKey == "" {
		if val := os.Getenv("APOLLO_API_KEY"); val != "" {
			cfg.Apollo.APIKey = val
		}
	}
	if val := os.Getenv("APOLLO_BASE_URL"); val != "" {
		cfg.Apollo.BaseURL = val
	}

	// Gemini
	if cfg.Gemini.APIKey == "" {
		if val := os.Getenv("GEMINI_API_KEY"); val != "" {
			cfg.Gemini.APIKey = val
		}
	}
	if val := os.Getenv("GEMINI_MODEL"); val != "" {
		cfg.Gemini.Model = val
	}

	// Hunter.io
	if cfg.Hunter.APIKey == "" {
		if val := os.Getenv("HUNTER_API_KEY"); val != "" {
			cfg.Hunter.APIKey = val
		}
	}
	if val := os.Getenv("HUNTER_BASE_URL"); val != "" {
		cfg.Hunter.BaseURL = val
	}

	// Google Sheets webhook
	if cfg.Sheets.Endpoint == "" {
		if val := os.Getenv("GOOGLE_SHEETS_ENDPOINT"); val != "" {
			cfg.Sheets.Endpoint = val
		}
	}

	// Local output
	if val := os.Getenv("OUTPUT_DIR"); val != "" {
		cfg.Output.Dir = val
	}

	// Logging
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}

	// Metrics
	if cfg.Metrics.Addr == "" {
		if val := os.Getenv("METRICS_ADDR"); val != "" {
			cfg.Metrics.Addr = val
		}
	}

	// Run notifications
	if val := os.Getenv("NOTIFY_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			cfg.Notify.Enabled = enabled
		}
	}
	if val := os.Getenv("NOTIFY_TRANSPORT"); val != "" {
		cfg.Notify.Email.Transport = val
	}
	if cfg.Notify.Email.FromEmail == "" {
		if val := os.Getenv("NOTIFY_FROM"); val != "" {
			cfg.Notify.Email.FromEmail = val
		}
	}
	if cfg.Notify.Email.ToEmail == "" {
		if val := os.Getenv("NOTIFY_TO"); val != "" {
			cfg.Notify.Email.ToEmail = val
		}
	}
	if cfg.Notify.SMS.TopicARN == "" {
		if val := os.Getenv("NOTIFY_SNS_TOPIC_ARN"); val != "" {
			cfg.Notify.SMS.TopicARN = val
		}
	}
	if cfg.Notify.AWS.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.Notify.AWS.Region = val
		}
	}
	if cfg.Notify.SMTP.Host == "" {
		if val := os.Getenv("NOTIFY_SMTP_HOST"); val != "" {
			cfg.Notify.SMTP.Host = val
		}
	}
	if val := os.Getenv("NOTIFY_SMTP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Notify.SMTP.Port = port
		}
	}
	if cfg.Notify.SMTP.Username == "" {
		if val := os.Getenv("NOTIFY_SMTP_USERNAME"); val != "" {
			cfg.Notify.SMTP.Username = val
		}
	}
	if cfg.Notify.SMTP.Password == "" {
		if val := os.Getenv("NOTIFY_SMTP_PASSWORD"); val != "" {
			cfg.Notify.SMTP.Password = val
		}
	}

	// Sender signature
	if val := os.Getenv("SIGNATURE_NAME"); val != "" {
		cfg.Signature.Name = val
	}
	if val := os.Getenv("SIGNATURE_TITLE"); val != "" {
		cfg.Signature.Title = val
	}
	if val := os.Getenv("SIGNATURE_COMPANY"); val != "" {
		cfg.Signature.Company = val
	}
	if val := os.Getenv("SIGNATURE_PHONE"); val != "" {
		cfg.Signature.Phone = val
	}
	if val := os.Getenv("SIGNATURE_EMAIL"); val != "" {
		cfg.Signature.Email = val
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile() // Load env file first

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Expand environment variables before unmarshal
	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// App defaults
	if cfg.App.Name == "" {
		cfg.App.Name = "leadgen"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Apollo defaults
	if cfg.Apollo.BaseURL == "" {
		cfg.Apollo.BaseURL = "https://api.apollo.io"
	}
	if cfg.Apollo.Timeout == 0 {
		cfg.Apollo.Timeout = 30000
	}
	if cfg.Apollo.MaxRetries == 0 {
		cfg.Apollo.MaxRetries = 3
	}
	if cfg.Apollo.PerPage == 0 {
		cfg.Apollo.PerPage = 25
	}
	if cfg.Apollo.RateLimitRPS == 0 {
		cfg.Apollo.RateLimitRPS = 2
	}

	// Gemini defaults
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.Gemini.Timeout == 0 {
		cfg.Gemini.Timeout = 60000
	}
	if cfg.Gemini.MaxRetries == 0 {
		cfg.Gemini.MaxRetries = 3
	}

	// Hunter defaults
	if cfg.Hunter.BaseURL == "" {
		cfg.Hunter.BaseURL = "https://api.hunter.io"
	}
	if cfg.Hunter.Timeout == 0 {
		cfg.Hunter.Timeout = 15000
	}
	if cfg.Hunter.MaxRetries == 0 {
		cfg.Hunter.MaxRetries = 3
	}
	if cfg.Hunter.RateLimitRPS == 0 {
		cfg.Hunter.RateLimitRPS = 2
	}

	// Scraper defaults
	if cfg.Scraper.Timeout == 0 {
		cfg.Scraper.Timeout = 15000
	}
	if cfg.Scraper.MaxContentChars == 0 {
		cfg.Scraper.MaxContentChars = 6000
	}
	if cfg.Scraper.UserAgent == "" {
		cfg.Scraper.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}

	// Sheets defaults
	if cfg.Sheets.Timeout == 0 {
		cfg.Sheets.Timeout = 30000
	}

	// Output defaults
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data/output"
	}

	// Notification defaults
	if cfg.Notify.Email.Transport == "" {
		cfg.Notify.Email.Transport = "ses"
	}
	if cfg.Notify.AWS.Region == "" {
		cfg.Notify.AWS.Region = "us-east-1"
	}
	if cfg.Notify.SMTP.Port == 0 {
		cfg.Notify.SMTP.Port = 587
	}

	// Signature defaults
	if cfg.Signature.Name == "" {
		cfg.Signature.Name = "Jay Arora"
	}
	if cfg.Signature.Title == "" {
		cfg.Signature.Title = "Hardware Solutions Specialist"
	}
	if cfg.Signature.Company == "" {
		cfg.Signature.Company = "NewTech Computers"
	}
	if cfg.Signature.Phone == "" {
		cfg.Signature.Phone = "+1 (619) 200-0000"
	}
	if cfg.Signature.Email == "" {
		cfg.Signature.Email = "jay@newtechcomputers.com"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Apollo.APIKey == "" {
		return fmt.Errorf("apollo.api_key is required (set APOLLO_API_KEY)")
	}
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required (set GEMINI_API_KEY)")
	}
	if cfg.Hunter.APIKey == "" {
		return fmt.Errorf("hunter.api_key is required (set HUNTER_API_KEY)")
	}

	if cfg.Notify.Enabled {
		switch cfg.Notify.Email.Transport {
		case "ses", "smtp":
		default:
			return fmt.Errorf("notify.email.transport must be \"ses\" or \"smtp\", got %q", cfg.Notify.Email.Transport)
		}
		if cfg.Notify.Email.FromEmail == "" {
			return fmt.Errorf("notify.email.from_email is required when notifications are enabled")
		}
		if cfg.Notify.Email.ToEmail == "" {
			return fmt.Errorf("notify.email.to_email is required when notifications are enabled")
		}
		if cfg.Notify.Email.Transport == "smtp" && cfg.Notify.SMTP.Host == "" {
			return fmt.Errorf("notify.smtp.host is required for the smtp transport")
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
