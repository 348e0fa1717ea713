package config

import (
	"os"
	"strconv"
	"strings"

	platformstrings "govern/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr       string
	AdminToken string
	// DatabaseURL selects the postgres tenant store when set; the in-memory
	// store is used otherwise.
	DatabaseURL string
	// AuditBrokers enables the Kafka audit sink when non-empty.
	AuditBrokers []string
	AuditTopic   string
	SeedDemoData bool
	// RateLimitPerMinute bounds requests per client IP on the open
	// endpoints. Zero disables the limiter.
	RateLimitPerMinute int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("GOVERN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("GOVERN_ADMIN_TOKEN")
	if adminToken == "" {
		// Use a default for development - should be overridden in production
		adminToken = "dev-admin-token-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("GOVERN_AUDIT_BROKERS"); raw != "" {
		brokers = platformstrings.DedupeAndTrim(strings.Split(raw, ","))
	}
	topic := os.Getenv("GOVERN_AUDIT_TOPIC")
	if topic == "" {
		topic = "govern.audit"
	}

	rateLimit := 120
	if raw := os.Getenv("GOVERN_RATE_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			rateLimit = n
		}
	}

	return Server{
		Addr:         addr,
		AdminToken:   adminToken,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AuditBrokers: brokers,
		AuditTopic:   topic,
		SeedDemoData: os.Getenv("GOVERN_SEED_DEMO") == "true",

		RateLimitPerMinute: rateLimit,
	}
}
