package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	Environment     string        // "production" | "development"

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Upstream
	NotionToken            string // credential, never logged or echoed
	NotionDatabaseID       string // link source (NOTION_DATABASE_ID)
	NotionPageID           string // legacy alias of NotionDatabaseID (NOTION_PAGE_ID)
	NotionConfigDatabaseID string // optional config source
	NotionAPIBaseURL       string
	NotionVersion          string

	FetchTimeout       time.Duration // whole fetch-and-normalize cycle
	RequestTimeout     time.Duration // one upstream HTTP request
	FetchRetries       int           // retries of transient upstream failures
	FetchRetryInterval time.Duration // first wait, doubled per retry
	FetchMaxWait       time.Duration // cap on the wait between retries

	SchemaFile           string        // optional YAML overriding synonyms and business rules
	SchemaReloadInterval time.Duration // 0 disables periodic reloads

	// Redis (optional, empty addr disables fetch statistics)
	RedisAddr             string
	RedisUser             string
	RedisPassword         string
	RedisPasswordRequired bool
	RedisDB               int
	RedisDT               time.Duration // dial timeout
	RedisRT               time.Duration // read timeout
	RedisWT               time.Duration // write timeout
	RedisMaxWait          time.Duration // max wait between retries
	RedisPingTimeout      time.Duration
	RedisPoolSize         int
	RedisConnectTimeout   time.Duration // total time to retry connecting
	RedisRetryInterval    time.Duration // initial wait between retries
	RedisWarnThreshold    int

	// Access restrictions
	AllowedHosts    []string // optional, restrict access to specific Host headers
	AllowedCIDRS    []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy      bool     // true => trust X-Forwarded-For headers
	RateLimitBurst  int
	RateLimitPerMin int
}

func Load() *Config {
	return &Config{
		// Server settings
		ListenPort:      getenv("NAVDECK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NAVDECK_SHUTDOWN_TIMEOUT", 5*time.Second),
		Environment:     getenv("NAVDECK_ENV", "production"),

		// Logging
		LogLevel:  getenv("NAVDECK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NAVDECK_PRETTY_LOG", false),

		// Upstream
		NotionToken:            strings.TrimSpace(os.Getenv("NOTION_TOKEN")),
		NotionDatabaseID:       strings.TrimSpace(os.Getenv("NOTION_DATABASE_ID")),
		NotionPageID:           strings.TrimSpace(os.Getenv("NOTION_PAGE_ID")),
		NotionConfigDatabaseID: strings.TrimSpace(os.Getenv("NOTION_CONFIG_DATABASE_ID")),
		NotionAPIBaseURL:       getenv("NOTION_API_BASE_URL", "https://api.notion.com"),
		NotionVersion:          getenv("NOTION_VERSION", "2022-06-28"),

		FetchTimeout:       mustDuration("NAVDECK_FETCH_TIMEOUT", 15*time.Second),
		RequestTimeout:     mustDuration("NAVDECK_REQUEST_TIMEOUT", 10*time.Second),
		FetchRetries:       getenvInt("NAVDECK_FETCH_RETRIES", 3),
		FetchRetryInterval: mustDuration("NAVDECK_FETCH_RETRY_INTERVAL", 500*time.Millisecond),
		FetchMaxWait:       mustDuration("NAVDECK_FETCH_MAX_WAIT", 5*time.Second),

		SchemaFile:           getenv("NAVDECK_SCHEMA_FILE", ""),
		SchemaReloadInterval: mustDuration("NAVDECK_SCHEMA_RELOAD_INTERVAL", time.Hour),

		// Redis settings
		RedisAddr:             getenv("NAVDECK_REDIS_ADDR", ""),
		RedisUser:             getenv("NAVDECK_REDIS_USERNAME", "default"),
		RedisPassword:         getenv("NAVDECK_REDIS_PASSWORD", ""),
		RedisPasswordRequired: mustBool("NAVDECK_REDIS_PASSWORD_REQUIRED", false),
		RedisDB:               getenvInt("NAVDECK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:    splitAndTrim(getenv("NAVDECK_ALLOWED_HOSTS", "")),
		AllowedCIDRS:    parseAllowedIPs(getenv("NAVDECK_ALLOWED_CIDRS", "")),
		TrustProxy:      mustBool("NAVDECK_TRUST_PROXY", false),
		RateLimitBurst:  getenvInt("NAVDECK_RATE_LIMIT_BURST", 60),
		RateLimitPerMin: getenvInt("NAVDECK_RATE_LIMIT_PER_MIN", 120),
	}
}

// ConfigError is a missing or malformed setting. It is reported before any
// upstream call is attempted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

var sourceIDPattern = regexp.MustCompile(`(?i)^[a-f0-9-]+$`)

// CheckSourceID reports a *ConfigError when id is empty or is not a uuid,
// dashed or compact.
func CheckSourceID(field, id string) error {
	if id == "" {
		return &ConfigError{Field: field, Reason: "is required"}
	}
	if !sourceIDPattern.MatchString(id) || uuid.Validate(id) != nil {
		return &ConfigError{Field: field, Reason: "format is invalid"}
	}
	return nil
}

// LinkSourceID is NOTION_DATABASE_ID, falling back to NOTION_PAGE_ID.
func (c *Config) LinkSourceID() string {
	if c.NotionDatabaseID != "" {
		return c.NotionDatabaseID
	}
	return c.NotionPageID
}

// StatsEnabled reports whether a Redis address is configured.
func (c *Config) StatsEnabled() bool { return c.RedisAddr != "" }

// Validation is the outcome of Validate.
type Validation struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate reports hard errors for missing or malformed required settings
// and warnings for missing optional ones.
func (c *Config) Validate() Validation {
	errs := make([]string, 0)
	warnings := make([]string, 0)

	if id := c.LinkSourceID(); id == "" {
		errs = append(errs, "NOTION_DATABASE_ID (or NOTION_PAGE_ID) is required")
	} else if err := CheckSourceID("NOTION_DATABASE_ID", id); err != nil {
		errs = append(errs, err.Error())
	}

	if c.NotionToken == "" {
		errs = append(errs, "NOTION_TOKEN is required")
	}

	switch {
	case c.NotionConfigDatabaseID == "":
		warnings = append(warnings, "NOTION_CONFIG_DATABASE_ID is not set, site config and categories are disabled")
	default:
		if err := CheckSourceID("NOTION_CONFIG_DATABASE_ID", c.NotionConfigDatabaseID); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if c.RedisAddr != "" && c.RedisPasswordRequired && c.RedisPassword == "" {
		errs = append(errs, "NAVDECK_REDIS_PASSWORD is required when NAVDECK_REDIS_PASSWORD_REQUIRED=true")
	}
	if c.RedisAddr == "" {
		warnings = append(warnings, "NAVDECK_REDIS_ADDR is not set, fetch statistics are disabled")
	}

	return Validation{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// EnvironmentInfo is a diagnostic snapshot. Values are only ever "set" or
// "not set".
type EnvironmentInfo struct {
	Environment            string `json:"environment"`
	NotionDatabaseID       string `json:"notionDatabaseId"`
	NotionPageID           string `json:"notionPageId"`
	NotionConfigDatabaseID string `json:"notionConfigDatabaseId"`
	NotionToken            string `json:"notionToken"`
	SchemaFile             string `json:"schemaFile"`
	RedisAddr              string `json:"redisAddr"`
	IsProduction           bool   `json:"isProduction"`
	IsDevelopment          bool   `json:"isDevelopment"`
}

func (c *Config) EnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		Environment:            c.Environment,
		NotionDatabaseID:       presence(c.NotionDatabaseID),
		NotionPageID:           presence(c.NotionPageID),
		NotionConfigDatabaseID: presence(c.NotionConfigDatabaseID),
		NotionToken:            presence(c.NotionToken),
		SchemaFile:             presence(c.SchemaFile),
		RedisAddr:              presence(c.RedisAddr),
		IsProduction:           c.Environment == "production",
		IsDevelopment:          c.Environment == "development",
	}
}

func presence(v string) string {
	if v == "" {
		return "not set"
	}
	return "set"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
