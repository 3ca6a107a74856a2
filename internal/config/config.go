// internal/config/config.go
//
// Runtime configuration for the server and the terminal player.
//
// Precedence: built-in defaults < optional YAML file (WORDHUNT_CONFIG) < environment.
// Call godotenv.Load() before Load so a local .env file feeds the environment.
//
// Environment variables:
//   PORT, CLIENT_ORIGIN, DB_PATH, NODE_ENV
//   LOG_LEVEL, LOG_FORMAT (console|json), LOG_FILE
//   JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME
//   DAILY_SALT
//   WORDS_FILE, GRID_SIZE, PLACE_RETRIES, COUNTDOWN_TICKS

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const EnvConfigFile = "WORDHUNT_CONFIG"

type ServerConfig struct {
	Port         string `yaml:"port"`
	ClientOrigin string `yaml:"client_origin"`
	DBPath       string `yaml:"db_path"` // empty disables accounts and history
	Production   bool   `yaml:"production"`
}

type PuzzleConfig struct {
	Size      int    `yaml:"size"`
	Retries   int    `yaml:"retries"`
	WordsFile string `yaml:"words_file"`
}

type GameConfig struct {
	CountdownTicks    int           `yaml:"countdown_ticks"`
	CountdownInterval time.Duration `yaml:"countdown_interval"`
	WinDelay          time.Duration `yaml:"win_delay"`
}

type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	ExpiresDays int    `yaml:"expires_days"`
	CookieName  string `yaml:"cookie_name"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type Config struct {
	Server    ServerConfig  `yaml:"server"`
	Puzzle    PuzzleConfig  `yaml:"puzzle"`
	Game      GameConfig    `yaml:"game"`
	Auth      AuthConfig    `yaml:"auth"`
	Logging   LoggingConfig `yaml:"logging"`
	DailySalt string        `yaml:"daily_salt"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: "5175", ClientOrigin: "http://localhost:5173", DBPath: "./data/app.db"},
		Puzzle: PuzzleConfig{Size: 12, Retries: 100},
		Game:   GameConfig{CountdownTicks: 5, CountdownInterval: time.Second, WinDelay: 500 * time.Millisecond},
		Auth:   AuthConfig{JWTSecret: "dev_secret_change_me", ExpiresDays: 14, CookieName: "wordhunt_token"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		DailySalt: "local_dev_salt",
	}
}

// Load builds the effective configuration.
func Load() (Config, error) {
	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		// Unmarshal onto the defaults so keys missing from the file keep them.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, cfg.Validate()
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Server.Port, "PORT")
	setStr(&cfg.Server.ClientOrigin, "CLIENT_ORIGIN")
	if v, ok := os.LookupEnv("DB_PATH"); ok {
		cfg.Server.DBPath = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("NODE_ENV")); v != "" {
		cfg.Server.Production = v == "production"
	}

	setStr(&cfg.Logging.Level, "LOG_LEVEL")
	setStr(&cfg.Logging.Format, "LOG_FORMAT")
	setStr(&cfg.Logging.File, "LOG_FILE")

	setStr(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setInt(&cfg.Auth.ExpiresDays, "JWT_EXPIRES_DAYS")
	setStr(&cfg.Auth.CookieName, "COOKIE_NAME")

	setStr(&cfg.DailySalt, "DAILY_SALT")

	setStr(&cfg.Puzzle.WordsFile, "WORDS_FILE")
	setInt(&cfg.Puzzle.Size, "GRID_SIZE")
	setInt(&cfg.Puzzle.Retries, "PLACE_RETRIES")
	setInt(&cfg.Game.CountdownTicks, "COUNTDOWN_TICKS")
}

// Validate rejects settings the puzzle cannot run with.
func (c Config) Validate() error {
	if c.Puzzle.Size < 2 {
		return errors.New("config: puzzle size must be at least 2")
	}
	if c.Puzzle.Retries < 1 {
		return errors.New("config: placement retries must be at least 1")
	}
	if c.Game.CountdownTicks < 0 {
		return errors.New("config: countdown ticks must not be negative")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Logging.Format)
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
