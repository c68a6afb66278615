package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads configuration from the given file path, applies environment
// variable overrides, expands ${VAR} references and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("REGATTA_HUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration from the default search path, which
// can be overridden with REGATTA_HUB_CONFIG_PATH.
func LoadWithDefaults() (*Config, error) {
	configPath := os.Getenv("REGATTA_HUB_CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	return Load(configPath)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "regatta-hub")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("identity.cache_ttl_seconds", 300)
	v.SetDefault("identity.timeout_seconds", 10)
	v.SetDefault("identity.retry_attempts", 3)
	v.SetDefault("identity.rate_limit", 5.0)

	v.SetDefault("registration.close_sweep_schedule", "*/5 * * * *")
	v.SetDefault("registration.sweep_enabled", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("health.port", "8089")
}

// expandEnvVars replaces ${VAR} references in string values with the
// corresponding environment variable. Unset variables are left as-is so
// validation can surface them.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		expanded := envVarPattern.ReplaceAllStringFunc(val, func(match string) string {
			name := envVarPattern.FindStringSubmatch(match)[1]
			if env, set := os.LookupEnv(name); set {
				return env
			}
			return match
		})
		if expanded != val {
			v.Set(key, expanded)
		}
	}
}
