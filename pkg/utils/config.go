package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type ServerConfig struct {
	Addr string
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("ANIVERSE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return ServerConfig{Addr: addr}
}

// ContentstackConfig holds credentials and routing for the content source.
// Host override takes priority over region; region defaults to US.
type ContentstackConfig struct {
	APIKey          string
	DeliveryToken   string
	ManagementToken string
	Environment     string
	Region          string
	Host            string
	ManagementHost  string
}

func LoadContentstackConfig() ContentstackConfig {
	cfg := ContentstackConfig{
		APIKey:          os.Getenv("ANIVERSE_CS_API_KEY"),
		DeliveryToken:   os.Getenv("ANIVERSE_CS_DELIVERY_TOKEN"),
		ManagementToken: os.Getenv("ANIVERSE_CS_MANAGEMENT_TOKEN"),
		Environment:     os.Getenv("ANIVERSE_CS_ENVIRONMENT"),
		Region:          strings.ToUpper(os.Getenv("ANIVERSE_CS_REGION")),
		Host:            os.Getenv("ANIVERSE_CS_HOST"),
		ManagementHost:  os.Getenv("ANIVERSE_CS_MANAGEMENT_HOST"),
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}
	return cfg
}

// DeliveryURL resolves the delivery API base, without a trailing slash.
func (c ContentstackConfig) DeliveryURL() string {
	if c.Host != "" {
		return normalizeHost(c.Host)
	}
	if c.Region == "EU" {
		return "https://eu-cdn.contentstack.com"
	}
	return "https://cdn.contentstack.io"
}

// ManagementURL resolves the management API base, without a trailing slash.
func (c ContentstackConfig) ManagementURL() string {
	if c.ManagementHost != "" {
		return normalizeHost(c.ManagementHost)
	}
	if c.Region == "EU" {
		return "https://eu-api.contentstack.com"
	}
	return "https://api.contentstack.io"
}

// normalizeHost accepts either a bare hostname or a full URL, with or
// without a /v3 suffix, and returns an https base URL.
func normalizeHost(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimSuffix(h, "/")
	h = strings.TrimSuffix(h, "/v3")
	if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
		h = "https://" + h
	}
	return h
}

type AuthConfig struct {
	JWTSecret     string
	JWTIssuer     string
	JWTDuration   time.Duration
	AdminEmail    string
	AdminPassword string
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("ANIVERSE_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("ANIVERSE_JWT_ISSUER")
	if issuer == "" {
		issuer = "aniverse"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("ANIVERSE_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:     secret,
		JWTIssuer:     issuer,
		JWTDuration:   duration,
		AdminEmail:    os.Getenv("ANIVERSE_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ANIVERSE_ADMIN_PASSWORD"),
	}
}

type ChatbotConfig struct {
	AutomationURL string
}

func LoadChatbotConfig() ChatbotConfig {
	return ChatbotConfig{
		AutomationURL: os.Getenv("ANIVERSE_CHAT_AUTOMATION_URL"),
	}
}
