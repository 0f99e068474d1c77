package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ServiceConfig identifies one downstream domain service: where it lives and
// the shared key it expects in the x-functions-key header.
type ServiceConfig struct {
	BaseURL string
	APIKey  string
}

type Services struct {
	Users       ServiceConfig
	Merchant    ServiceConfig
	Device      ServiceConfig
	Product     ServiceConfig
	Order       ServiceConfig
	Voucher     ServiceConfig
	Ledger      ServiceConfig
	Customer    ServiceConfig
	Contents    ServiceConfig
	Maintenance ServiceConfig
}

type Config struct {
	AppEnv   string
	HTTPAddr string

	// TokenSecret verifies inbound bearer tokens (HS256).
	TokenSecret string

	// TokenAudience, when set, must appear in the token's aud claim.
	TokenAudience string

	// InboundServiceKey, when set, is required in the x-functions-key header
	// of every inbound request. Service-to-service trust, not end-user auth.
	InboundServiceKey string

	// AllowedOrigins is the CORS allowlist for browser callers.
	AllowedOrigins []string

	Services Services
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	return Config{
		AppEnv:            env("APP_ENV", "dev"),
		HTTPAddr:          httpAddr,
		TokenSecret:       os.Getenv("TOKEN_SECRET"),
		TokenAudience:     os.Getenv("TOKEN_AUDIENCE"),
		InboundServiceKey: os.Getenv("INBOUND_SERVICE_KEY"),
		AllowedOrigins:    envList("ALLOWED_ORIGINS", "http://localhost:5173"),
		Services: Services{
			Users:       service("USERS"),
			Merchant:    service("MERCHANT"),
			Device:      service("DEVICE"),
			Product:     service("PRODUCT"),
			Order:       service("ORDER"),
			Voucher:     service("VOUCHER"),
			Ledger:      service("LEDGER"),
			Customer:    service("CUSTOMER"),
			Contents:    service("CONTENTS"),
			Maintenance: service("MAINTENANCE"),
		},
	}
}

func service(name string) ServiceConfig {
	return ServiceConfig{
		BaseURL: os.Getenv(name + "_SERVICE_URL"),
		APIKey:  os.Getenv(name + "_SERVICE_KEY"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
