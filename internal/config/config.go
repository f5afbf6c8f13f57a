package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataFile string // path to the registry JSON document

	// Status probing
	StatusAPIURL          string        // status query endpoint; empty = probing always degraded
	StatusAPIPassword     string        // optional endpoint password
	StatusTimeout         time.Duration // bound for one outbound status query
	StatusCacheTTL        time.Duration // how long a cached status stays fresh
	StatusRefreshInterval time.Duration // background cache warm interval

	// Verification code delivery
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	AdminEmail      string        // mailbox receiving the codes
	CodeTTL         time.Duration // verification code validity window
	CodeMaxAttempts int           // wrong submissions before the session dies
	SendCodeBurst   int           // rate limit burst on the send-code endpoint
	SendCodePerMin  int           // rate limit refill per IP per minute

	// Redis (optional: empty addr disables status caching and refresh)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDialTimeout    time.Duration
	RedisReadTimeout    time.Duration
	RedisWriteTimeout   time.Duration
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration // cap on the wait between retries
	RedisPingTimeout    time.Duration
	RedisWarnThreshold  int // warn after this many attempts

	AllowedOrigins []string // CORS origins, default "*"
	TrustProxy     bool     // true => trust X-Forwarded-For headers
}

// Load reads the configuration from MINEDEX_* environment variables, then
// applies overrides from the optional YAML file named by MINEDEX_CONFIG_FILE.
func Load() *Config {
	cfg := &Config{
		ListenPort:      getenv("MINEDEX_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MINEDEX_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("MINEDEX_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MINEDEX_PRETTY_LOG", true),

		DataFile: getenv("MINEDEX_DATA_FILE", "data/db.json"),

		StatusAPIURL:          getenv("MINEDEX_STATUS_API_URL", ""),
		StatusAPIPassword:     getenv("MINEDEX_STATUS_API_PASSWORD", ""),
		StatusTimeout:         mustDuration("MINEDEX_STATUS_TIMEOUT", 10*time.Second),
		StatusCacheTTL:        mustDuration("MINEDEX_STATUS_CACHE_TTL", 30*time.Second),
		StatusRefreshInterval: mustDuration("MINEDEX_STATUS_REFRESH_INTERVAL", 5*time.Minute),

		SMTPHost:        getenv("MINEDEX_SMTP_HOST", "smtp.example.com"),
		SMTPPort:        getenvInt("MINEDEX_SMTP_PORT", 465),
		SMTPUser:        getenv("MINEDEX_SMTP_USER", "directory@example.com"),
		SMTPPassword:    getenv("MINEDEX_SMTP_PASSWORD", ""),
		AdminEmail:      getenv("MINEDEX_ADMIN_EMAIL", "admin@example.com"),
		CodeTTL:         mustDuration("MINEDEX_CODE_TTL", 10*time.Minute),
		CodeMaxAttempts: getenvInt("MINEDEX_CODE_MAX_ATTEMPTS", 5),
		SendCodeBurst:   getenvInt("MINEDEX_SEND_CODE_BURST", 3),
		SendCodePerMin:  getenvInt("MINEDEX_SEND_CODE_PER_MIN", 1),

		RedisAddr:           getenv("MINEDEX_REDIS_ADDR", ""),
		RedisUser:           getenv("MINEDEX_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("MINEDEX_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("MINEDEX_REDIS_DB", 0),
		RedisDialTimeout:    mustDuration("MINEDEX_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisReadTimeout:    mustDuration("MINEDEX_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWriteTimeout:   mustDuration("MINEDEX_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("MINEDEX_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("MINEDEX_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("MINEDEX_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("MINEDEX_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("MINEDEX_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("MINEDEX_REDIS_WARN_THRESHOLD", 3),

		AllowedOrigins: splitAndTrim(getenv("MINEDEX_ALLOWED_ORIGINS", "*")),
		TrustProxy:     mustBool("MINEDEX_TRUST_PROXY", false),
	}

	if file := os.Getenv("MINEDEX_CONFIG_FILE"); file != "" {
		if err := applyFile(cfg, file); err != nil {
			panic(fmt.Sprintf("❌ FATAL: failed to load config file %s: %v", file, err))
		}
	}

	return cfg
}

// fileConfig is the YAML override layer. Pointers distinguish "absent" from
// zero values so the file only overrides what it names.
type fileConfig struct {
	ListenPort *string `yaml:"listen_port"`
	LogLevel   *string `yaml:"log_level"`
	PrettyLog  *bool   `yaml:"pretty_log"`
	DataFile   *string `yaml:"data_file"`

	StatusAPIURL      *string `yaml:"status_api_url"`
	StatusAPIPassword *string `yaml:"status_api_password"`
	// Durations are strings ("4s", "1m") because yaml.v3 has no native
	// time.Duration support.
	StatusTimeout  *string `yaml:"status_timeout"`
	StatusCacheTTL *string `yaml:"status_cache_ttl"`

	SMTPHost     *string `yaml:"smtp_host"`
	SMTPPort     *int    `yaml:"smtp_port"`
	SMTPUser     *string `yaml:"smtp_user"`
	SMTPPassword *string `yaml:"smtp_password"`
	AdminEmail   *string `yaml:"admin_email"`

	RedisAddr     *string `yaml:"redis_addr"`
	RedisPassword *string `yaml:"redis_password"`
	RedisDB       *int    `yaml:"redis_db"`

	AllowedOrigins []string `yaml:"allowed_origins"`
	TrustProxy     *bool    `yaml:"trust_proxy"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	setString(&cfg.ListenPort, fc.ListenPort)
	setString(&cfg.LogLevel, fc.LogLevel)
	setBool(&cfg.PrettyLog, fc.PrettyLog)
	setString(&cfg.DataFile, fc.DataFile)
	setString(&cfg.StatusAPIURL, fc.StatusAPIURL)
	setString(&cfg.StatusAPIPassword, fc.StatusAPIPassword)
	if err := setDuration(&cfg.StatusTimeout, fc.StatusTimeout); err != nil {
		return fmt.Errorf("status_timeout: %w", err)
	}
	if err := setDuration(&cfg.StatusCacheTTL, fc.StatusCacheTTL); err != nil {
		return fmt.Errorf("status_cache_ttl: %w", err)
	}
	setString(&cfg.SMTPHost, fc.SMTPHost)
	setInt(&cfg.SMTPPort, fc.SMTPPort)
	setString(&cfg.SMTPUser, fc.SMTPUser)
	setString(&cfg.SMTPPassword, fc.SMTPPassword)
	setString(&cfg.AdminEmail, fc.AdminEmail)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisPassword, fc.RedisPassword)
	setInt(&cfg.RedisDB, fc.RedisDB)
	setBool(&cfg.TrustProxy, fc.TrustProxy)
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	return nil
}

// helpers

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

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

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
