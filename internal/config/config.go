package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	AppEnv                        string        `mapstructure:"APP_ENV"`
	DatabaseDriver                string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	DatabaseDSN                   string        `mapstructure:"DATABASE_DSN"`
	SessionBackend                string        `mapstructure:"SESSION_BACKEND"`
	SessionTTL                    time.Duration `mapstructure:"SESSION_TTL"`
	RedisAddr                     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword                 string        `mapstructure:"REDIS_PASSWORD"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	CORSOrigins                   []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS                  float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst                int           `mapstructure:"RATE_LIMIT_BURST"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	ScheduleDays                  int           `mapstructure:"SCHEDULE_DAYS"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_PATH", "flights.db")
	v.SetDefault("SESSION_BACKEND", "memory")
	v.SetDefault("SESSION_TTL", 2*time.Hour)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("CORS_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("SCHEDULE_DAYS", 100)

	v.BindEnv("DATABASE_DSN")
	v.BindEnv("REDIS_PASSWORD")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("ENABLE_CORS")
	v.BindEnv("DISCORD_BOT_TOKEN")
	v.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.JWTSecret == "" {
		if config.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		config.JWTSecret = "dev-secret"
	}
	switch config.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", config.DatabaseDriver)
	}
	switch config.SessionBackend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unsupported SESSION_BACKEND %q", config.SessionBackend)
	}

	return &config, nil
}
