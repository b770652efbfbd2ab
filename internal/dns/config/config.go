package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/nameplane/dnswire/internal/dns/domain"
	"github.com/nameplane/dnswire/internal/dns/wire"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// BloomFPRate is the target false-positive rate for the apex bloom filter.
	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"required,gt=0,lt=1"`

	// CacheSize caps the number of lookup-cache entries kept by the zone
	// index. Zero or negative disables the cache.
	CacheSize int `koanf:"cache_size"`

	// CheckOrigin rejects zone files whose origin is a bare public suffix
	// when set to true.
	CheckOrigin bool `koanf:"check_origin"`

	// Compress enables zstd compression of stored record sets.
	Compress bool `koanf:"compress"`

	// DefaultTTL is applied to records without an explicit TTL, in seconds.
	DefaultTTL uint32 `koanf:"default_ttl" validate:"required,gte=1,lte=604800"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// StorePath is the database file compiled zones are written to.
	StorePath string `koanf:"store_path" validate:"required"`

	// ZoneDir is the directory where zone files are located.
	ZoneDir string `koanf:"zone_dir" validate:"required"`

	// Zones restricts loading to the listed origins when non-empty.
	Zones []string `koanf:"zones" validate:"omitempty,dive,dns_name"`
}

// DEFAULT_APP_CONFIG defines the default application configuration settings
// for the zone compiler. It includes default values for the bloom filter,
// cache size, environment, log level, TTL, store path, and zone directory.
var DEFAULT_APP_CONFIG = AppConfig{
	BloomFPRate: 0.01,
	CacheSize:   1024,
	CheckOrigin: true,
	Compress:    true,
	DefaultTTL:  300,
	Env:         "prod",
	LogLevel:    "info",
	StorePath:   "/var/lib/dnswire/zones.db",
	ZoneDir:     "/etc/dnswire/zones/",
	Zones:       nil,
}

// validDNSName validates whether the provided field value is a well-formed
// domain name. The value may be written with or without a trailing dot.
// The function returns false for the root name, for any label longer than
// 63 octets, and for names whose wire form would exceed 255 octets.
func validDNSName(fl validator.FieldLevel) bool {
	text := fl.Field().String()
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	name, err := domain.ParseName(text, nil)
	if err != nil || name.IsRoot() {
		return false
	}
	// One length octet per label plus the terminating zero octet.
	wireLen := 1
	for _, label := range name.Labels() {
		if len(label) > wire.MaxLabelOctets {
			return false
		}
		wireLen += 1 + len(label)
	}
	return wireLen <= wire.MaxNameOctets
}

// envLoader is a function that loads environment variables with the prefix
// "ZONEC_". It transforms the keys to lowercase, removes the prefix, and
// splits space- or comma-separated values into lists. It is a variable so
// it can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "ZONEC_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "ZONEC_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf
// instance using the structs provider and the DEFAULT_APP_CONFIG struct.
// It returns an error if loading fails.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom validation function "dns_name"
// with the provided validator. Returns an error if registration fails.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("dns_name", validDNSName)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	// Load default values using structs provider.
	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	// Load environment variables with prefix "ZONEC_".
	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig

	// Unmarshal the loaded configuration into AppConfig struct.
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Validate the configuration.
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Register the custom validation function for domain names.
	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
