package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // EXPORT_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/JonMunkholm/iatacodes/internal/core"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	for _, b := range bindings(reflect.ValueOf(cfg).Elem()) {
		if err := b.apply(os.Getenv); err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// binding ties one tagged field to the variables that can set it.
type binding struct {
	names    []string // env, then envAlt
	fallback string   // default tag
	required bool
	target   reflect.Value
}

// bindings flattens the env-tagged fields of v, descending into nested
// config sections.
func bindings(v reflect.Value) []binding {
	var out []binding
	t := v.Type()
	for i := range t.NumField() {
		sf, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			out = append(out, bindings(fv)...)
			continue
		}

		name, ok := sf.Tag.Lookup("env")
		if !ok || name == "" {
			continue
		}
		b := binding{
			names:    []string{name},
			fallback: sf.Tag.Get("default"),
			required: sf.Tag.Get("required") == "true",
			target:   fv,
		}
		if alt := sf.Tag.Get("envAlt"); alt != "" {
			b.names = append(b.names, alt)
		}
		out = append(out, b)
	}
	return out
}

func (b binding) apply(getenv func(string) string) error {
	raw := ""
	for _, name := range b.names {
		if raw = getenv(name); raw != "" {
			break
		}
	}
	if raw == "" && b.required {
		return fmt.Errorf("required environment variable %s is not set", b.names[0])
	}
	if raw == "" {
		raw = b.fallback
	}
	if raw == "" {
		return nil
	}

	val, err := decode(b.target.Type(), raw)
	if err != nil {
		return fmt.Errorf("invalid value for %s=%q: %w", b.names[0], raw, err)
	}
	b.target.Set(val)
	return nil
}

var durationType = reflect.TypeFor[time.Duration]()

// decode converts raw into a value assignable to t.
func decode(t reflect.Type, raw string) (reflect.Value, error) {
	if t == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid duration: %w", err)
		}
		return reflect.ValueOf(d), nil
	}

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(raw).Convert(t), nil
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid integer: %w", err)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Bool:
		ok, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid boolean: %w", err)
		}
		return reflect.ValueOf(ok), nil
	case reflect.Slice:
		if t.Elem().Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("unsupported slice type: %s", t.Elem().Kind())
		}
		// Comma separated; blank items are dropped.
		items := []string{}
		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return reflect.ValueOf(items), nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported field type: %s", t.Kind())
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var problems []string
	problems = append(problems, c.Database.problems()...)
	problems = append(problems, c.Server.problems()...)
	problems = append(problems, c.Rate.problems()...)
	problems = append(problems, c.Export.problems()...)
	problems = append(problems, c.Metrics.problems()...)
	problems = append(problems, c.Logging.problems()...)

	if len(problems) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func (d DatabaseConfig) problems() []string {
	var p []string
	if d.URL == "" {
		p = append(p, "DATABASE_URL is required")
	}
	switch d.Scheme() {
	case "postgres", "sqlite", "memory":
	default:
		p = append(p, "DATABASE_URL must start with postgres://, sqlite:, file: or memory://")
	}
	if d.MaxConns < d.MinConns {
		p = append(p, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", d.MaxConns, d.MinConns))
	}
	if d.MaxConns <= 0 {
		p = append(p, "DB_MAX_CONNS must be positive")
	}
	if d.MinConns < 0 {
		p = append(p, "DB_MIN_CONNS must be non-negative")
	}
	if d.QueryTimeout <= 0 {
		p = append(p, "DB_QUERY_TIMEOUT must be positive")
	}
	return p
}

func (s ServerConfig) problems() []string {
	var p []string
	if s.Port <= 0 || s.Port > 65535 {
		p = append(p, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", s.Port))
	}
	if s.ReadTimeout < 0 {
		p = append(p, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if s.ShutdownTimeout <= 0 {
		p = append(p, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	return p
}

// Limits only matter when rate limiting is on.
func (r RateLimitConfig) problems() []string {
	if !r.Enabled {
		return nil
	}
	var p []string
	if r.RequestsPerMinute <= 0 {
		p = append(p, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if r.ExportLimit <= 0 {
		p = append(p, "RATE_LIMIT_EXPORT must be positive when rate limiting is enabled")
	}
	return p
}

func (e ExportConfig) problems() []string {
	var p []string
	if _, err := core.NewFormatter(e.Locale, nil); err != nil {
		p = append(p, fmt.Sprintf("EXPORT_LOCALE (%q) must be a supported locale (ko, en)", e.Locale))
	}
	if _, err := time.LoadLocation(e.Timezone); err != nil {
		p = append(p, fmt.Sprintf("EXPORT_TIMEZONE (%q) is not a known time zone", e.Timezone))
	}
	if e.MaxConcurrent <= 0 {
		p = append(p, "EXPORT_MAX_CONCURRENT must be positive")
	}
	if e.MaxWait <= 0 {
		p = append(p, "EXPORT_MAX_WAIT must be positive")
	}
	return p
}

func (m MetricsConfig) problems() []string {
	if m.Enabled && m.Namespace == "" {
		return []string{"METRICS_NAMESPACE must be set when metrics are enabled"}
	}
	return nil
}

func (l LoggingConfig) problems() []string {
	var p []string
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		p = append(p, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", l.Level))
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		p = append(p, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", l.Format))
	}
	return p
}

// String returns a safe string representation of the config for logging.
// The database URL is masked.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Config{Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	fmt.Fprintf(&b, "Database: {Store: %s, URL: [MASKED], MaxConns: %d, MinConns: %d, QueryTimeout: %s}, ",
		c.Database.Scheme(), c.Database.MaxConns, c.Database.MinConns, c.Database.QueryTimeout)
	fmt.Fprintf(&b, "Rate: {Enabled: %v, RequestsPerMinute: %d}, ", c.Rate.Enabled, c.Rate.RequestsPerMinute)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}, ", c.Logging.Level, c.Logging.Format)
	fmt.Fprintf(&b, "Export: {Locale: %q, Timezone: %q, MaxConcurrent: %d}, ",
		c.Export.Locale, c.Export.Timezone, c.Export.MaxConcurrent)
	fmt.Fprintf(&b, "Metrics: {Enabled: %v, Namespace: %q}}", c.Metrics.Enabled, c.Metrics.Namespace)
	return b.String()
}
