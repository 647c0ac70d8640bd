package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Version is the project version, reported by the CLI --version flag,
// the health endpoint and the user info endpoint.
const Version = "0.5.0"

// SchemeConfig represents server scheme configuration
type SchemeConfig struct {
	Address      string `json:"address" mapstructure:"address"`
	HTTPPort     int    `json:"http_port" mapstructure:"http_port"`
	HTTPSPort    int    `json:"https_port" mapstructure:"https_port"`
	ForceHTTPS   bool   `json:"force_https" mapstructure:"force_https"`
	CertFile     string `json:"cert_file" mapstructure:"cert_file"`
	KeyFile      string `json:"key_file" mapstructure:"key_file"`
	UnixFile     string `json:"unix_file" mapstructure:"unix_file"`
	UnixFilePerm string `json:"unix_file_perm" mapstructure:"unix_file_perm"`
	EnableH2C    bool   `json:"enable_h2c" mapstructure:"enable_h2c"`
}

// EngineConfig represents cipher engine defaults
type EngineConfig struct {
	Workers          int `json:"workers" mapstructure:"workers"`
	ChunkWaitSeconds int `json:"chunk_wait_seconds" mapstructure:"chunk_wait_seconds"`
	CacheTTLMinutes  int `json:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"`
	CacheMaxSize     int `json:"cache_max_size" mapstructure:"cache_max_size"`
}

// DatabaseConfig represents the optional MySQL run mirror
type DatabaseConfig struct {
	DSN string `json:"dsn" mapstructure:"dsn"` // empty disables the mirror
}

// AuthConfig represents JWT authentication configuration
type AuthConfig struct {
	JWTSecret string `json:"jwt_secret" mapstructure:"jwt_secret"`
	JWTExpire int    `json:"jwt_expire" mapstructure:"jwt_expire"` // hours
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // console, json
	Output string `json:"output" mapstructure:"output"` // stdout, file path
}

// Config represents the main configuration
type Config struct {
	Scheme   SchemeConfig   `json:"scheme" mapstructure:"scheme"`
	Engine   EngineConfig   `json:"engine" mapstructure:"engine"`
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Auth     AuthConfig     `json:"auth" mapstructure:"auth"`
	Log      LogConfig      `json:"log" mapstructure:"log"`
	DataDir  string         `json:"data_dir" mapstructure:"data_dir"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("$HOME/.classic-cipher")

		// Scheme defaults
		viper.SetDefault("scheme.address", "0.0.0.0")
		viper.SetDefault("scheme.http_port", 5344)
		viper.SetDefault("scheme.https_port", -1)
		viper.SetDefault("scheme.force_https", false)
		viper.SetDefault("scheme.enable_h2c", false)

		// Engine defaults
		viper.SetDefault("engine.workers", 4)
		viper.SetDefault("engine.chunk_wait_seconds", 30)
		viper.SetDefault("engine.cache_ttl_minutes", 30)
		viper.SetDefault("engine.cache_max_size", 256)

		// Database defaults (mirror disabled)
		viper.SetDefault("database.dsn", "")

		// Auth defaults
		viper.SetDefault("auth.jwt_secret", "")
		viper.SetDefault("auth.jwt_expire", 72)

		// Log defaults
		viper.SetDefault("log.level", "info")
		viper.SetDefault("log.format", "json")
		viper.SetDefault("log.output", "stdout")

		viper.SetDefault("data_dir", "./data")

		// Environment variables
		viper.SetEnvPrefix("CIPHER")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Warn().Msg("Config file not found, using defaults")
			} else {
				log.Error().Err(err).Msg("Error reading config file")
			}
		}

		cfg = &Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to unmarshal config")
		}

		if cfg.Auth.JWTSecret == "" {
			cfg.Auth.JWTSecret = randomSecret()
			log.Warn().Msg("auth.jwt_secret not set, generated a random secret; tokens will not survive a restart")
		}
	})
	return cfg
}

func Get() *Config {
	if cfg == nil {
		return Load()
	}
	return cfg
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("Failed to generate JWT secret")
	}
	return hex.EncodeToString(b)
}

// GetHTTPAddr returns the HTTP listen address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Scheme.Address, c.Scheme.HTTPPort)
}

// GetHTTPSAddr returns the HTTPS listen address
func (c *Config) GetHTTPSAddr() string {
	if c.Scheme.HTTPSPort <= 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Scheme.Address, c.Scheme.HTTPSPort)
}

// IsHTTPSEnabled returns whether HTTPS is enabled
func (c *Config) IsHTTPSEnabled() bool {
	return c.Scheme.HTTPSPort > 0 && c.Scheme.CertFile != "" && c.Scheme.KeyFile != ""
}

// IsUnixSocketEnabled returns whether Unix socket is enabled
func (c *Config) IsUnixSocketEnabled() bool {
	return c.Scheme.UnixFile != ""
}

// IsH2CEnabled returns whether HTTP/2 cleartext is enabled
func (c *Config) IsH2CEnabled() bool {
	return c.Scheme.EnableH2C
}

// IsMirrorEnabled returns whether the MySQL run mirror is configured
func (c *Config) IsMirrorEnabled() bool {
	return c.Database.DSN != ""
}

// ChunkWait returns the engine chunk-wait deadline as a duration
func (c *Config) ChunkWait() time.Duration {
	return time.Duration(c.Engine.ChunkWaitSeconds) * time.Second
}

// CacheTTL returns the pipeline cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Engine.CacheTTLMinutes) * time.Minute
}

// JWTExpire returns the token lifetime as a duration
func (c *Config) JWTExpire() time.Duration {
	return time.Duration(c.Auth.JWTExpire) * time.Hour
}
