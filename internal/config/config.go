package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/zonk/internal/session"
	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment
type Config struct {
	Port           int
	AllowedOrigins []string

	LogLevel  string
	LogFormat string

	// Redis is optional; an empty address disables history and stats
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Rules       session.Rules
	GracePeriod time.Duration

	// RateLimit is inbound messages per second per connection
	RateLimit float64
	RateBurst int

	// Discord announcements are enabled when both are set
	DiscordToken     string
	DiscordChannelID string
	DiscordAppID     string
	DiscordGuildID   string
}

// RedisEnabled reports whether a Redis address was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// DiscordEnabled reports whether win announcements should be posted
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return FromEnv()
}

// FromEnv builds a Config from environment variables alone
func FromEnv() (*Config, error) {
	p := &parser{}
	defaults := session.DefaultRules()

	cfg := &Config{
		Port:           p.int("PORT", 8080),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       p.int("REDIS_DB", 0),

		Rules: session.Rules{
			MaxPlayers:      p.int("MAX_PLAYERS", defaults.MaxPlayers),
			WinningScore:    p.int("WINNING_SCORE", defaults.WinningScore),
			OpeningScore:    p.int("OPENING_SCORE", defaults.OpeningScore),
			ZonkStreakLimit: p.int("ZONK_STREAK_LIMIT", defaults.ZonkStreakLimit),
			ZonkPenalty:     p.int("ZONK_PENALTY", defaults.ZonkPenalty),
		},
		GracePeriod: p.duration("GRACE_PERIOD", 30*time.Second),

		RateLimit: p.float("RATE_LIMIT", 10),
		RateBurst: p.int("RATE_BURST", 20),

		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		DiscordChannelID: getEnv("DISCORD_CHANNEL_ID", ""),
		DiscordAppID:     getEnv("APPLICATION_ID", ""),
		DiscordGuildID:   getEnv("GUILD_ID", ""),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.Rules.MaxPlayers < 2 {
		errs = append(errs, fmt.Errorf("MAX_PLAYERS must be at least 2, got %d", c.Rules.MaxPlayers))
	}
	if c.Rules.WinningScore <= 0 {
		errs = append(errs, fmt.Errorf("WINNING_SCORE must be positive, got %d", c.Rules.WinningScore))
	}
	if c.Rules.OpeningScore <= 0 {
		errs = append(errs, fmt.Errorf("OPENING_SCORE must be positive, got %d", c.Rules.OpeningScore))
	}
	if c.Rules.ZonkStreakLimit <= 0 {
		errs = append(errs, fmt.Errorf("ZONK_STREAK_LIMIT must be positive, got %d", c.Rules.ZonkStreakLimit))
	}
	if c.Rules.ZonkPenalty < 0 {
		errs = append(errs, fmt.Errorf("ZONK_PENALTY cannot be negative, got %d", c.Rules.ZonkPenalty))
	}
	if c.GracePeriod <= 0 {
		errs = append(errs, fmt.Errorf("GRACE_PERIOD must be positive, got %s", c.GracePeriod))
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT and RATE_BURST must be positive"))
	}

	return errors.Join(errs...)
}

// parser collects every malformed value instead of stopping at the first
type parser struct {
	errs []error
}

func (p *parser) int(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return defaultValue
	}
	return v
}

func (p *parser) float(key string, defaultValue float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return defaultValue
	}
	return v
}

func (p *parser) duration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return defaultValue
	}
	return v
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
