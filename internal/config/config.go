// Package config loads runtime configuration from environment variables,
// an optional .env file, and an optional YAML overlay.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Security groups settings that gate or shape the inbound surface.
type Security struct {
	Debug           bool   `yaml:"debug"`
	LogFile         string `yaml:"log_file"`
	InboundKey      string `yaml:"inbound_key"`
	AdminSecret     string `yaml:"admin_secret"`
	DisplayTimezone string `yaml:"display_timezone"`
}

// Upstream groups settings for talking to Google's endpoints.
type Upstream struct {
	CodeAssistEndpoint string        `yaml:"code_assist_endpoint"`
	GeminiEndpoint     string        `yaml:"gemini_endpoint"`
	OAuthTokenURL      string        `yaml:"oauth_token_url"`
	EmbeddingAPIKey    string        `yaml:"embedding_api_key"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	MaxRetries         int           `yaml:"max_retries"`
}

// Credentials groups settings for discovering OAuth credentials.
type Credentials struct {
	JSON      string `yaml:"json"`      // raw JSON array, e.g. from CREDENTIALS_JSON
	Dir       string `yaml:"dir"`       // directory containing oauth_creds_*.json files
	WatchDir  bool   `yaml:"watch_dir"` // hot-reload Dir via fsnotify
	ClientID  string `yaml:"client_id"`
	ClientSec string `yaml:"client_secret"`
}

// ToolSanitizer lists JSON-Schema keys stripped from tool declarations before
// they're forwarded upstream.
type ToolSanitizer struct {
	StripKeys []string `yaml:"strip_keys"`
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Port        string        `yaml:"port"`
	PublicDomain string       `yaml:"public_domain"`
	Security    Security      `yaml:"security"`
	Upstream    Upstream      `yaml:"upstream"`
	Credentials Credentials   `yaml:"credentials"`
	ToolSchema  ToolSanitizer `yaml:"tool_schema"`
}

func defaults() *Config {
	return &Config{
		Port: "8080",
		Security: Security{
			Debug:           false,
			DisplayTimezone: "UTC",
		},
		Upstream: Upstream{
			CodeAssistEndpoint: "https://cloudcode-pa.googleapis.com",
			GeminiEndpoint:     "https://generativelanguage.googleapis.com",
			OAuthTokenURL:      "https://oauth2.googleapis.com/token",
			RequestTimeout:     120 * time.Second,
			MaxRetries:         3,
		},
		Credentials: Credentials{
			Dir: "./creds",
		},
		ToolSchema: ToolSanitizer{
			StripKeys: []string{"$schema", "exclusiveMinimum"},
		},
	}
}

// Load resolves configuration from (in priority order) an optional .env file,
// process environment variables, and an optional YAML overlay named by
// GCLI_CONFIG_FILE. Later sources override earlier ones except the YAML
// overlay, which is applied first and then overridden by explicit env vars
// that were actually set (so operators can mix a committed YAML baseline with
// secret overrides from the environment).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Debug("no .env file loaded")
	}

	cfg := defaults()

	if path := os.Getenv("GCLI_CONFIG_FILE"); path != "" {
		if err := applyYAMLFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load yaml config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyYAMLFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, cfg)
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.PublicDomain, "PUBLIC_DOMAIN")

	setBool(&cfg.Security.Debug, "DEBUG")
	setString(&cfg.Security.LogFile, "LOG_FILE")
	setString(&cfg.Security.InboundKey, "GCLI_PASSWORD")
	setString(&cfg.Security.AdminSecret, "ADMIN_SECRET")
	setString(&cfg.Security.DisplayTimezone, "DISPLAY_TIMEZONE")

	setString(&cfg.Upstream.CodeAssistEndpoint, "CODE_ASSIST_ENDPOINT")
	setString(&cfg.Upstream.GeminiEndpoint, "GEMINI_ENDPOINT")
	setString(&cfg.Upstream.OAuthTokenURL, "OAUTH_TOKEN_URL")
	setString(&cfg.Upstream.EmbeddingAPIKey, "GEMINI_API_KEY")
	setDuration(&cfg.Upstream.RequestTimeout, "UPSTREAM_TIMEOUT")
	setInt(&cfg.Upstream.MaxRetries, "UPSTREAM_MAX_RETRIES")

	setString(&cfg.Credentials.JSON, "CREDENTIALS_JSON")
	setString(&cfg.Credentials.Dir, "CREDENTIALS_DIR")
	setBool(&cfg.Credentials.WatchDir, "CREDENTIALS_WATCH")
	setString(&cfg.Credentials.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.Credentials.ClientSec, "GOOGLE_CLIENT_SECRET")

	if v := os.Getenv("TOOL_SCHEMA_STRIP_KEYS"); v != "" {
		cfg.ToolSchema.StripKeys = strings.Split(v, ",")
	}
}

func setString(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, env string) {
	if v, ok := os.LookupEnv(env); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, env string) {
	if v, ok := os.LookupEnv(env); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, env string) {
	if v, ok := os.LookupEnv(env); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// Validate checks that the resolved configuration is internally consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config: port must not be empty")
	}
	if c.Credentials.JSON == "" && c.Credentials.Dir == "" {
		return fmt.Errorf("config: either CREDENTIALS_JSON or CREDENTIALS_DIR must be set")
	}
	if c.Upstream.RequestTimeout <= 0 {
		return fmt.Errorf("config: upstream request timeout must be positive")
	}
	return nil
}

// Address returns the host:port the HTTP server should bind to.
func (c *Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
