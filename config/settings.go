package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultPort = "8080"

// GetPort resolves the listen port. PORT is the Cloud Run / Railway
// convention; API_PORT wins when both are set.
func GetPort() string {
	godotenv.Load()
	port := strings.TrimSpace(os.Getenv("API_PORT"))
	if port == "" {
		port = strings.TrimSpace(os.Getenv("PORT"))
	}
	if port == "" {
		port = defaultPort
	}
	return port
}

func IsProduction() bool {
	godotenv.Load()
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}

// GetAllowedOrigins returns the CORS allowlist from CORS_ALLOWED_ORIGINS
// (comma-separated). Empty in production means deny all.
func GetAllowedOrigins() []string {
	godotenv.Load()
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
