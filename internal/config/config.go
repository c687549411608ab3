package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Ladder   LadderConfig  `yaml:"ladder"`
	Monitor  MonitorConfig `yaml:"monitor"`
	Storage  StorageConfig `yaml:"storage"`
	LogLevel string        `yaml:"log_level"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AuthToken      string   `yaml:"auth_token"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxConnections int      `yaml:"max_connections"`
}

type LadderConfig struct {
	Username string `yaml:"username"`
	// PlaysPath is the JSON play log to watch.
	PlaysPath string `yaml:"plays_path"`
	// ContentDir overrides the embedded dictionaries when set.
	ContentDir string `yaml:"content_dir"`
	NextLimit  int    `yaml:"next_limit"`
}

type MonitorConfig struct {
	ReloadThrottle   time.Duration `yaml:"reload_throttle"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
}

type StorageConfig struct {
	DBPath   string `yaml:"db_path"`
	StateDir string `yaml:"state_dir"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			Host:           "127.0.0.1",
			MaxConnections: 100,
		},
		Ladder: LadderConfig{
			PlaysPath: "plays.json",
			NextLimit: 5,
		},
		Monitor: MonitorConfig{
			ReloadThrottle:   2 * time.Second,
			SnapshotInterval: 10 * time.Minute,
		},
		Storage: StorageConfig{
			DBPath: "game-tracker.db",
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. A missing file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig(), nil
	}
	return cfg, err
}

// ApplyEnv loads envFiles (".env" when none are given) into the process
// environment, ignoring missing files, and then applies the LADDER_*
// overrides.
func (c *Config) ApplyEnv(envFiles ...string) error {
	_ = godotenv.Load(envFiles...)

	c.Ladder.Username = getEnv("LADDER_USERNAME", c.Ladder.Username)
	c.Ladder.PlaysPath = getEnv("LADDER_PLAYS", c.Ladder.PlaysPath)
	c.Server.AuthToken = getEnv("LADDER_AUTH_TOKEN", c.Server.AuthToken)
	c.Storage.DBPath = getEnv("LADDER_DB_PATH", c.Storage.DBPath)
	c.LogLevel = getEnv("LADDER_LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("LADDER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LADDER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate reports settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Ladder.PlaysPath == "" {
		return errors.New("ladder.plays_path is required")
	}
	if c.Ladder.NextLimit <= 0 {
		return fmt.Errorf("ladder.next_limit must be positive, got %d", c.Ladder.NextLimit)
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GenerateToken returns a random 32-character hex token.
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
