package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration for the utilities service.
type Server struct {
	Addr        string
	Environment string
	DatabaseURL string
	Redis       RedisConfig

	// InstanceName selects which instance's overrides the config resolver
	// serves. An unknown name degrades the resolver to defaults-only.
	InstanceName string

	// Mail sanitizer policy fallbacks, used when the corresponding keys are
	// not resolvable through the config resolver itself.
	MailWhitelist    string
	MailExemptGroups string
	MailSuffix       string
}

// RedisConfig holds connection settings for the optional resolver cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// IsProduction reports whether the process runs against a production org.
// The mail sanitizer surface is not mounted in production.
func (s Server) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:             envOr("CRMKIT_ADDR", ":8080"),
		Environment:      envOr("CRMKIT_ENV", "sandbox"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		InstanceName:     os.Getenv("CRMKIT_INSTANCE"),
		MailWhitelist:    os.Getenv("CRMKIT_MAIL_WHITELIST"),
		MailExemptGroups: os.Getenv("CRMKIT_MAIL_EXEMPT_GROUPS"),
		MailSuffix:       os.Getenv("CRMKIT_MAIL_SUFFIX"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
