package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	DatabaseName      string
	DBConnectTimeout  time.Duration
	CORSAllowOrigins  []string
	InternalSecretKey string
	// TrustedProxies lists the IPs or CIDRs whose forwarding headers the
	// rate limiter believes.
	TrustedProxies []string
}

// LoadConfig reads .env (when present) and the process environment.
// A missing DATABASE_URL is allowed: the server then runs without storage.
func LoadConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8000")
	v.SetDefault("DATABASE_NAME", "storefront")
	v.SetDefault("DB_CONNECT_TIMEOUT", "3s")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")

	timeout := v.GetDuration("DB_CONNECT_TIMEOUT")
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Config{
		AppEnv:            v.GetString("APP_ENV"),
		AppPort:           v.GetString("PORT"),
		DatabaseURL:       strings.TrimSpace(v.GetString("DATABASE_URL")),
		DatabaseName:      v.GetString("DATABASE_NAME"),
		DBConnectTimeout:  timeout,
		CORSAllowOrigins:  splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		InternalSecretKey: v.GetString("INTERNAL_SECRET_KEY"),
		TrustedProxies:    splitList(v.GetString("TRUSTED_PROXIES")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
