// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Reader  ReaderConfig  `mapstructure:"reader"`
	Lecture LectureConfig `mapstructure:"lecture"`
	Logging LoggingConfig `mapstructure:"logging"`
	App     AppConfig     `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host" validate:"required"`
	Port           string        `mapstructure:"port" validate:"required"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// SinkConfig represents the external attendance webhook configuration
type SinkConfig struct {
	URL          string        `mapstructure:"url" validate:"required"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RegistryTab  string        `mapstructure:"registry_tab"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// ReaderConfig represents the serial card reader configuration
type ReaderConfig struct {
	BaudRate          int           `mapstructure:"baud_rate"`
	DataBits          int           `mapstructure:"data_bits"`
	StopBits          int           `mapstructure:"stop_bits"`
	Parity            string        `mapstructure:"parity"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	DebounceWindow    time.Duration `mapstructure:"debounce_window"`
	MinCardLength     int           `mapstructure:"min_card_length"`
	ProbePorts        []string      `mapstructure:"probe_ports"`
	Keywords          []string      `mapstructure:"keywords"`
	SimulatorInterval time.Duration `mapstructure:"simulator_interval"`
	SimulatorCards    []string      `mapstructure:"simulator_cards"`
}

// LectureConfig represents the lecture slot table configuration.
// Slot ids are assigned by position, starting at 1.
type LectureConfig struct {
	Slots        []string `mapstructure:"slots"` // "HH:MM-HH:MM"
	GraceMinutes int      `mapstructure:"grace_minutes"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	// Environment variable support
	viper.SetEnvPrefix("ATTENDANCE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file; defaults alone are a valid configuration
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "5001")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Sink defaults
	viper.SetDefault("sink.url", "")
	viper.SetDefault("sink.timeout", "15s")
	viper.SetDefault("sink.registry_tab", "Register")
	viper.SetDefault("sink.fetch_timeout", "10s")

	// Reader defaults (EM-18 style readers ship 9600 8N1)
	viper.SetDefault("reader.baud_rate", 9600)
	viper.SetDefault("reader.data_bits", 8)
	viper.SetDefault("reader.stop_bits", 1)
	viper.SetDefault("reader.parity", "none")
	viper.SetDefault("reader.read_timeout", "100ms")
	viper.SetDefault("reader.poll_interval", "100ms")
	viper.SetDefault("reader.reconnect_delay", "5s")
	viper.SetDefault("reader.debounce_window", "2s")
	viper.SetDefault("reader.min_card_length", 10)
	viper.SetDefault("reader.probe_ports", []string{
		"COM3", "COM4", "COM5", "COM6",
		"/dev/ttyUSB0", "/dev/ttyACM0", "/dev/tty.usbserial",
	})
	viper.SetDefault("reader.keywords", []string{
		"usb", "serial", "uart", "ch340", "cp210", "ftdi", "em-18", "rfid",
	})
	viper.SetDefault("reader.simulator_interval", "10s")
	viper.SetDefault("reader.simulator_cards", []string{
		"123456789012", "234567890123", "345678901234", "456789012345", "567890123456",
	})

	// Lecture defaults
	viper.SetDefault("lecture.slots", []string{
		"19:00-20:00", "10:30-12:30", "13:00-15:00", "15:45-17:00",
	})
	viper.SetDefault("lecture.grace_minutes", 15)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("logging.compress", true)

	// App defaults
	viper.SetDefault("app.name", "attendance-service")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Reader.BaudRate <= 0 {
		return fmt.Errorf("reader.baud_rate must be positive")
	}
	if config.Reader.MinCardLength <= 0 {
		return fmt.Errorf("reader.min_card_length must be positive")
	}
	if len(config.Lecture.Slots) == 0 {
		return fmt.Errorf("lecture.slots must not be empty")
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production", "test"}
	isValidEnv := false
	for _, env := range validEnvs {
		if config.App.Environment == env {
			isValidEnv = true
			break
		}
	}
	if !isValidEnv {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetRegistryURL returns the sink URL used for registry snapshot fetches
func (c *Config) GetRegistryURL() string {
	return fmt.Sprintf("%s?tab=%s", c.Sink.URL, c.Sink.RegistryTab)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
