// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Apollo    ApolloConfig    `mapstructure:"apollo"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Hunter    HunterConfig    `mapstructure:"hunter"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Output    OutputConfig    `mapstructure:"output"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Signature SignatureConfig `mapstructure:"signature"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// --- External Service Config ---

// ApolloConfig holds settings for the Apollo.io company directory client.
type ApolloConfig struct {
	BaseURL      string  `mapstructure:"base_url"`
	APIKey       string  `mapstructure:"api_key"`
	Timeout      int     `mapstructure:"timeout"` // milliseconds
	MaxRetries   int     `mapstructure:"max_retries"`
	PerPage      int     `mapstructure:"per_page"`
	RateLimitRPS float64 `mapstructure:"rate_limit_rps"`
}

// GeminiConfig holds settings for the Gemini analysis and composition calls.
type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base_url"` // override for tests, empty uses the public endpoint
	Timeout    int    `mapstructure:"timeout"`  // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// HunterConfig holds settings for the Hunter.io contact directory client.
type HunterConfig struct {
	BaseURL      string  `mapstructure:"base_url"`
	APIKey       string  `mapstructure:"api_key"`
	Timeout      int     `mapstructure:"timeout"` // milliseconds
	MaxRetries   int     `mapstructure:"max_retries"`
	RateLimitRPS float64 `mapstructure:"rate_limit_rps"`
}

// ScraperConfig holds settings for website content fetching.
type ScraperConfig struct {
	Timeout         int    `mapstructure:"timeout"` // milliseconds
	MaxContentChars int    `mapstructure:"max_content_chars"`
	UserAgent       string `mapstructure:"user_agent"`
}

// SheetsConfig holds settings for the Google Sheets webhook sink.
// An empty Endpoint disables the remote sink entirely.
type SheetsConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

// OutputConfig holds settings for the local JSON backup.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// MetricsConfig holds settings for the optional Prometheus listener.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the listener
}

// --- Notification Config ---

// NotifyConfig holds settings for run-completion notifications.
type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`

	Email struct {
		Transport string `mapstructure:"transport"` // "ses" or "smtp"
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`

	SMS struct {
		TopicARN string `mapstructure:"topic_arn"` // empty disables SNS publish
	} `mapstructure:"sms"`

	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"smtp"`
}

// SignatureConfig holds the sender identity appended to outreach messages.
type SignatureConfig struct {
	Name    string `mapstructure:"name"`
	Title   string `mapstructure:"title"`
	Company string `mapstructure:"company"`
	Phone   string `mapstructure:"phone"`
	Email   string `mapstructure:"email"`
}

// Block returns the signature formatted as the closing lines of an email.
func (s SignatureConfig) Block() string {
	return fmt.Sprintf("Best regards,\n%s\n%s\n%s\n%s | %s",
		s.Name, s.Title, s.Company, s.Phone, s.Email)
}
