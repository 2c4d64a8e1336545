package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	clowder "github.com/redhatinsights/app-common-go/pkg/api/v1"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// Config holds all application configuration
type Config struct {
	// Export configuration for the external exporter process
	Export ExportConfig `json:"export"`

	// FTP configuration for the optional upload stage
	FTP FTPConfig `json:"ftp"`

	// Notification configuration for the optional webhook stage
	Notification NotificationConfig `json:"notification"`

	// Kafka configuration (uses Clowder when available)
	Kafka KafkaConfig `json:"kafka"`

	// Database configuration for run history (uses Clowder when available)
	Database DatabaseConfig `json:"database"`

	// Metrics configuration (uses Clowder when available)
	Metrics MetricsConfig `json:"metrics"`

	// Server configuration for the scheduler daemon
	Server ServerConfig `json:"server"`
}

// ExportConfig contains the exporter invocation settings
type ExportConfig struct {
	// OutputDir is the local directory for generated dump files
	OutputDir string `json:"output_dir"`

	// Limit is the default item limit when no argument is given (0 = all)
	Limit int `json:"limit"`

	// Command is the exporter executable followed by any leading arguments
	Command string `json:"command"`

	// Subcommand is the fixed token passed before the limit
	Subcommand string `json:"subcommand"`

	// Schedule is the cron expression used by the scheduler daemon
	Schedule string `json:"schedule"`
}

// Program returns the executable part of Command
func (e ExportConfig) Program() string {
	fields := strings.Fields(e.Command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LeadingArgs returns the arguments of Command that precede the subcommand
func (e ExportConfig) LeadingArgs() []string {
	fields := strings.Fields(e.Command)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

// FTPConfig contains remote transfer settings
type FTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`

	// Path is the remote directory the dump is stored in
	Path string `json:"path"`

	// Timeout bounds the connection attempt; zero means no timeout
	Timeout time.Duration `json:"timeout"`
}

// Configured reports whether host, user and password are all present
func (f FTPConfig) Configured() bool {
	return f.Host != "" && f.User != "" && f.Password != ""
}

// NotificationConfig contains webhook settings
type NotificationConfig struct {
	// WebhookURL is the Slack-compatible incoming webhook; empty disables notification
	WebhookURL string `json:"-"`

	// Timeout for the webhook request
	Timeout time.Duration `json:"timeout"`
}

// Enabled reports whether a webhook is configured
func (n NotificationConfig) Enabled() bool {
	return n.WebhookURL != ""
}

// KafkaConfig contains Kafka connection settings
type KafkaConfig struct {
	// Enabled indicates if completion events are published
	Enabled bool `json:"enabled"`

	// Brokers is a list of Kafka broker addresses
	Brokers []string `json:"brokers"`

	// Topic for export completion events
	Topic string `json:"topic"`

	// ClientID for Kafka producer identification
	ClientID string `json:"client_id"`

	// Retries for failed message sends
	Retries int `json:"retries"`

	// CompressionType (none, gzip, snappy, lz4, zstd)
	CompressionType string `json:"compression_type"`

	// RequiredAcks (0=no ack, 1=leader ack, -1=all replicas ack)
	RequiredAcks int `json:"required_acks"`
}

// DatabaseConfig contains run history storage settings
type DatabaseConfig struct {
	// Type of run history store (none, sqlite, postgres)
	Type string `json:"type"`

	// Path to SQLite database file
	Path string `json:"path"`

	Host     string `json:"host"`
	Port     int    `json:"port"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"-"`

	// SSLMode for database connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode"`
}

// ConnectionString returns a PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Name, d.SSLMode)
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	// Enabled indicates if the daemon serves a metrics endpoint
	Enabled bool `json:"enabled"`

	// Port for metrics endpoint
	Port int `json:"port"`

	// Path for metrics endpoint
	Path string `json:"path"`

	// PushgatewayURL receives run metrics after one-shot runs; empty disables pushing
	PushgatewayURL string `json:"pushgateway_url"`

	// JobName is the pushgateway job label
	JobName string `json:"job_name"`
}

// ServerConfig contains HTTP server settings for the scheduler daemon
type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// LoadConfig loads configuration from a .env file and the environment, with Clowder overrides
func LoadConfig() (*Config, error) {
	// Existing environment variables take precedence over .env entries
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[DEBUG] Config - failed to load .env file: %v", err)
	}

	var clowderConfig *clowder.AppConfig
	if clowder.IsClowderEnabled() {
		clowderConfig = clowder.LoadedConfig
		if clowderConfig == nil {
			return nil, fmt.Errorf("failed to load Clowder configuration (nil)")
		}
	}

	config := &Config{}

	export, err := loadExportConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	config.Export = export
	config.FTP = loadFTPConfig()
	config.Notification = loadNotificationConfig()
	config.Kafka = loadKafkaConfig(clowderConfig)
	config.Database = loadDatabaseConfig(clowderConfig, config.Export.OutputDir)
	config.Metrics = loadMetricsConfig(clowderConfig)
	config.Server = loadServerConfig(clowderConfig)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadExportConfig() (ExportConfig, error) {
	// A malformed limit must not silently fall back to 0, which exports everything
	limit := 0
	if value := strings.TrimSpace(os.Getenv("EXPORT_LIMIT")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return ExportConfig{}, fmt.Errorf("%w: EXPORT_LIMIT=%q is not an integer", domain.ErrInvalidLimit, value)
		}
		limit = parsed
	}

	return ExportConfig{
		OutputDir:  getEnv("OUTPUT_DIR", "./output"),
		Limit:      limit,
		Command:    getEnv("EXPORTER_COMMAND", "node index.js"),
		Subcommand: getEnv("EXPORTER_SUBCOMMAND", "export-sql"),
		Schedule:   getEnv("EXPORT_SCHEDULE", "0 3 * * *"),
	}, nil
}

func loadFTPConfig() FTPConfig {
	return FTPConfig{
		Host:     getEnv("FTP_HOST", ""),
		Port:     getEnvAsInt("FTP_PORT", 21),
		User:     getEnv("FTP_USER", ""),
		Password: getEnv("FTP_PASS", ""),
		Path:     getEnv("FTP_PATH", "/"),
		Timeout:  getEnvAsDuration("FTP_TIMEOUT", 0),
	}
}

func loadNotificationConfig() NotificationConfig {
	return NotificationConfig{
		WebhookURL: getEnv("SLACK_WEBHOOK", ""),
		Timeout:    getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
	}
}

// loadKafkaConfig loads Kafka configuration with Clowder integration
func loadKafkaConfig(clowderConfig *clowder.AppConfig) KafkaConfig {
	brokers := getEnvAsStringSlice("KAFKA_BROKERS", []string{})
	topic := getEnv("KAFKA_TOPIC", "anime-scraper.exports")
	enabled := len(brokers) > 0

	if clowderConfig != nil && clowderConfig.Kafka != nil {
		enabled = true
		brokers = []string{}

		for _, broker := range clowderConfig.Kafka.Brokers {
			port := 9092
			if broker.Port != nil {
				port = *broker.Port
			}
			brokers = append(brokers, fmt.Sprintf("%s:%d", broker.Hostname, port))
		}

		for _, topicConfig := range clowderConfig.Kafka.Topics {
			if topicConfig.RequestedName == topic || topicConfig.Name == topic {
				topic = topicConfig.Name
				break
			}
		}
	}

	return KafkaConfig{
		Enabled:         enabled,
		Brokers:         brokers,
		Topic:           topic,
		ClientID:        getEnv("KAFKA_CLIENT_ID", "anime-auto-scraper"),
		Retries:         getEnvAsInt("KAFKA_RETRIES", 5),
		CompressionType: getEnv("KAFKA_COMPRESSION", "snappy"),
		RequiredAcks:    getEnvAsInt("KAFKA_REQUIRED_ACKS", -1),
	}
}

// loadDatabaseConfig loads run history configuration with Clowder integration
func loadDatabaseConfig(clowderConfig *clowder.AppConfig, outputDir string) DatabaseConfig {
	dbType := getEnv("DB_TYPE", "none")
	host := getEnv("DB_HOST", "localhost")
	port := getEnvAsInt("DB_PORT", 5432)
	name := getEnv("DB_NAME", "anime_scraper")
	username := getEnv("DB_USERNAME", "")
	password := getEnv("DB_PASSWORD", "")
	sslMode := getEnv("DB_SSL_MODE", "disable")

	if clowderConfig != nil && clowderConfig.Database != nil {
		dbType = "postgres" // Clowder always provides PostgreSQL
		host = clowderConfig.Database.Hostname
		port = clowderConfig.Database.Port
		name = clowderConfig.Database.Name
		username = clowderConfig.Database.Username
		password = clowderConfig.Database.Password
		sslMode = clowderConfig.Database.SslMode
	}

	return DatabaseConfig{
		Type:     dbType,
		Path:     getEnv("DB_PATH", outputDir+"/runs.db"),
		Host:     host,
		Port:     port,
		Name:     name,
		Username: username,
		Password: password,
		SSLMode:  sslMode,
	}
}

// loadMetricsConfig loads metrics configuration with Clowder integration
func loadMetricsConfig(clowderConfig *clowder.AppConfig) MetricsConfig {
	port := getEnvAsInt("METRICS_PORT", 8080)
	path := getEnv("METRICS_PATH", "/metrics")

	if clowderConfig != nil {
		port = clowderConfig.MetricsPort
		path = clowderConfig.MetricsPath
	}

	return MetricsConfig{
		Enabled:        getEnvAsBool("METRICS_ENABLED", true),
		Port:           port,
		Path:           path,
		PushgatewayURL: getEnv("METRICS_PUSHGATEWAY_URL", ""),
		JobName:        getEnv("METRICS_JOB_NAME", "anime_batch_export"),
	}
}

func loadServerConfig(clowderConfig *clowder.AppConfig) ServerConfig {
	port := getEnvAsInt("PORT", 8000)
	if clowderConfig != nil && clowderConfig.PublicPort != nil {
		port = *clowderConfig.PublicPort
	}

	return ServerConfig{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            port,
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate checks presence of the settings each enabled feature needs
func (c *Config) Validate() error {
	if c.Export.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Export.Program() == "" {
		return fmt.Errorf("exporter command is required")
	}
	if c.Export.Subcommand == "" {
		return fmt.Errorf("exporter subcommand is required")
	}

	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic is required when kafka is enabled")
	}

	switch c.Database.Type {
	case "", "none", "memory":
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for SQLite")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s (must be none, memory, sqlite or postgres)", c.Database.Type)
	}

	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
