package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Log       LogConfig       `koanf:"log"`
	Recommend RecommendConfig `koanf:"recommend"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	S3        S3Settings      `koanf:"s3"`
	SMTP      SMTPConfig      `koanf:"smtp"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`
}

// DSN returns a lib/pq style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	// URL takes precedence over Host/Port when set.
	URL string `koanf:"url"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type RecommendConfig struct {
	CandidatePoolSize int           `koanf:"candidate_pool_size"`
	DefaultLimit      int           `koanf:"default_limit"`
	CacheEnabled      bool          `koanf:"cache_enabled"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
}

type RateLimitConfig struct {
	Window   time.Duration `koanf:"window"`
	Requests int           `koanf:"requests"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type S3Settings struct {
	Bucket     string `koanf:"bucket"`
	Region     string `koanf:"region"`
	Endpoint   string `koanf:"endpoint"`
	PublicRead bool   `koanf:"public_read"`
}

// Enabled reports whether image uploads are configured.
func (s S3Settings) Enabled() bool {
	return s.Bucket != "" && s.Region != ""
}

type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// Enabled reports whether outgoing mail is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Port != ""
}

// DefaultConfigPaths lists the config files searched when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dinewise/config.yaml",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "dinewise",
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		JWT: JWTConfig{
			TTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			CandidatePoolSize: 1000,
			DefaultLimit:      6,
			CacheEnabled:      true,
			CacheTTL:          10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Window:   time.Minute,
			Requests: 100,
		},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000"},
		},
		SMTP: SMTPConfig{
			From: "noreply@dinewise.app",
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// environment variables and, outside CI, Docker secrets. Later layers win.
func LoadConfig() (*Config, error) {
	environment := GetEnvironment()
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaList(k, "cors.origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	switch environment {
	case CI:
		loadCISecrets(cfg)
	case Development, Test, Production:
		loadDockerSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", environment)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"server_host":             "server.host",
	"server_port":             "server.port",
	"shutdown_timeout":        "server.shutdown_timeout",
	"db_host":                 "database.host",
	"db_port":                 "database.port",
	"db_user":                 "database.user",
	"db_password":             "database.password",
	"db_name":                 "database.name",
	"db_ssl_mode":             "database.ssl_mode",
	"redis_host":              "redis.host",
	"redis_port":              "redis.port",
	"redis_password":          "redis.password",
	"redis_db":                "redis.db",
	"redis_url":               "redis.url",
	"jwt_secret":              "jwt.secret",
	"jwt_ttl":                 "jwt.ttl",
	"log_level":               "log.level",
	"log_format":              "log.format",
	"log_caller":              "log.caller",
	"recommend_pool_size":     "recommend.candidate_pool_size",
	"recommend_default_limit": "recommend.default_limit",
	"recommend_cache_enabled": "recommend.cache_enabled",
	"recommend_cache_ttl":     "recommend.cache_ttl",
	"rate_limit_window":       "rate_limit.window",
	"rate_limit_requests":     "rate_limit.requests",
	"cors_origins":            "cors.origins",
	"s3_bucket_name":          "s3.bucket",
	"aws_region":              "s3.region",
	"s3_endpoint":             "s3.endpoint",
	"s3_public_read":          "s3.public_read",
	"smtp_host":               "smtp.host",
	"smtp_port":               "smtp.port",
	"smtp_username":           "smtp.username",
	"smtp_password":           "smtp.password",
	"smtp_from":               "smtp.from",
}

// envTransformFunc maps DB_HOST style variables onto config paths. Unknown
// variables map to "" and are dropped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func splitCommaList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if err := k.Set(path, parts); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

// loadCISecrets reads the TEST_* variables GitHub Actions injects.
func loadCISecrets(cfg *Config) {
	if v := os.Getenv("TEST_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("TEST_JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("TEST_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TEST_REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
}

// loadDockerSecrets overrides sensitive values with Docker secrets when the
// secret files exist.
func loadDockerSecrets(cfg *Config) {
	overlay := map[string]*string{
		"db_user":        &cfg.Database.User,
		"db_password":    &cfg.Database.Password,
		"jwt_secret":     &cfg.JWT.Secret,
		"redis_password": &cfg.Redis.Password,
		"redis_url":      &cfg.Redis.URL,
		"smtp_password":  &cfg.SMTP.Password,
	}
	for name, target := range overlay {
		if v := readSecret(name); v != "" {
			*target = v
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
