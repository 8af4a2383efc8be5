// Package config provides configuration management for reelgen.
// Configuration is read from REELGEN_* environment variables, optionally
// layered over a YAML file named by REELGEN_CONFIG_FILE.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// Default values
	DefaultPort     = 8501
	DefaultHost     = "127.0.0.1"
	DefaultLogLevel = "info"
	DefaultDataDir  = ".reelgen"

	// Environment variable names
	EnvConfigFile = "REELGEN_CONFIG_FILE"
	EnvPort       = "REELGEN_PORT"
	EnvDataDir    = "REELGEN_DATA_DIR"
	EnvOutputDir  = "REELGEN_OUTPUT_DIR"
	EnvHeadless   = "REELGEN_HEADLESS"

	// Database filename
	DBFilename = "reelgen.db"

	DoctorTimeout = 30 * time.Second
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	Host() string
	Addr() string
	LogLevel() string
	LogFile() string
	DataDir() string
	DBPath() string
	OutputDir() string
	UploadDir() string
	ScratchDir() string
	FFmpegPath() string
	FontFile() string
	RenderTimeout() time.Duration
	MaxUploadBytes() int64
	RateLimitPerMinute() int
	RateLimitBurst() int
	Headless() bool
	SentryDSN() string
}

type settings struct {
	Port               int           `yaml:"port" env:"REELGEN_PORT" env-default:"8501" env-description:"HTTP port"`
	Host               string        `yaml:"host" env:"REELGEN_HOST" env-default:"127.0.0.1" env-description:"HTTP bind address"`
	LogLevel           string        `yaml:"log_level" env:"REELGEN_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFile            string        `yaml:"log_file" env:"REELGEN_LOG_FILE" env-description:"optional JSON log file"`
	DataDir            string        `yaml:"data_dir" env:"REELGEN_DATA_DIR" env-description:"database and scratch files (default ~/.reelgen)"`
	OutputDir          string        `yaml:"output_dir" env:"REELGEN_OUTPUT_DIR" env-default:"." env-description:"where output_*.mp4 are written"`
	UploadDir          string        `yaml:"upload_dir" env:"REELGEN_UPLOAD_DIR" env-description:"parent of per-upload temp dirs (default OS temp)"`
	FFmpegPath         string        `yaml:"ffmpeg_path" env:"REELGEN_FFMPEG_PATH" env-default:"ffmpeg" env-description:"ffmpeg binary"`
	FontFile           string        `yaml:"font_file" env:"REELGEN_FONT_FILE" env-description:"drawtext font file"`
	RenderTimeout      time.Duration `yaml:"render_timeout" env:"REELGEN_RENDER_TIMEOUT" env-default:"0s" env-description:"0 disables the render timeout"`
	MaxUploadMB        int64         `yaml:"max_upload_mb" env:"REELGEN_MAX_UPLOAD_MB" env-default:"200" env-description:"request body cap"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"REELGEN_RATE_LIMIT_PER_MINUTE" env-default:"12" env-description:"render requests per client per minute"`
	RateLimitBurst     int           `yaml:"rate_limit_burst" env:"REELGEN_RATE_LIMIT_BURST" env-default:"3" env-description:"render request burst"`
	Headless           bool          `yaml:"headless" env:"REELGEN_HEADLESS" env-default:"false" env-description:"disable the system tray"`
	SentryDSN          string        `yaml:"sentry_dsn" env:"REELGEN_SENTRY_DSN" env-description:"report errors to Sentry"`
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	s settings
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	var s settings

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cleanenv.ReadConfig(path, &s); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&s); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if s.Port < 1 || s.Port > 65535 {
		return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
	}
	if s.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("invalid REELGEN_MAX_UPLOAD_MB: must be positive")
	}
	if s.RenderTimeout < 0 {
		return nil, fmt.Errorf("invalid REELGEN_RENDER_TIMEOUT: must not be negative")
	}
	if s.DataDir == "" {
		s.DataDir = defaultDataDir()
	}

	return &EnvConfig{s: s}, nil
}

// Usage describes every environment variable.
func Usage() string {
	help, _ := cleanenv.GetDescription(&settings{}, nil)
	return help
}

func (c *EnvConfig) Port() int {
	return c.s.Port
}

func (c *EnvConfig) Host() string {
	return c.s.Host
}

// Addr returns host:port for the HTTP listener
func (c *EnvConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.s.Host, c.s.Port)
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.s.LogLevel
}

func (c *EnvConfig) LogFile() string {
	return c.s.LogFile
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.s.DataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.s.DataDir, DBFilename)
}

// OutputDir is where the fixed output_*.mp4 artifacts are written.
func (c *EnvConfig) OutputDir() string {
	return c.s.OutputDir
}

func (c *EnvConfig) UploadDir() string {
	if c.s.UploadDir != "" {
		return c.s.UploadDir
	}
	return os.TempDir()
}

// ScratchDir holds drawtext text files.
func (c *EnvConfig) ScratchDir() string {
	return filepath.Join(c.s.DataDir, "scratch")
}

func (c *EnvConfig) FFmpegPath() string {
	return c.s.FFmpegPath
}

func (c *EnvConfig) FontFile() string {
	return c.s.FontFile
}

// RenderTimeout bounds a render; zero means no timeout.
func (c *EnvConfig) RenderTimeout() time.Duration {
	return c.s.RenderTimeout
}

func (c *EnvConfig) MaxUploadBytes() int64 {
	return c.s.MaxUploadMB << 20
}

func (c *EnvConfig) RateLimitPerMinute() int {
	return c.s.RateLimitPerMinute
}

func (c *EnvConfig) RateLimitBurst() int {
	return c.s.RateLimitBurst
}

func (c *EnvConfig) Headless() bool {
	return c.s.Headless
}

func (c *EnvConfig) SentryDSN() string {
	return c.s.SentryDSN
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
