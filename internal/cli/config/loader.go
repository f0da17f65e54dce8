package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/leapstack-labs/gitlabci-lint/internal/config"
)

// configKey and loggerKey store values in the command context.
type (
	configKey struct{}
	loggerKey struct{}
)

// nonConfigFlags are persistent flags that are not configuration keys.
var nonConfigFlags = map[string]bool{
	"config":  true,
	"help":    true,
	"version": true,
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadConfig loads configuration from defaults, the config file, environment
// variables and flags.
// Precedence (highest to lowest): flags > GITLABCI_LINT_* > GITLAB_TOKEN > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"url":            DefaultURL,
		"token":          "",
		"timeout":        DefaultTimeout.String(),
		"output":         DefaultOutput,
		"verbose":        false,
		"ci_config_path": "",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file: explicit, or searched upward from the working directory
	configFile, err := resolveConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	// 3. GITLAB_TOKEN, the conventional token variable
	if err := k.Load(env.ProviderWithValue(intconfig.TokenEnvVar, ".", func(key, value string) (string, interface{}) {
		if key != intconfig.TokenEnvVar || value == "" {
			return "", nil
		}
		return "token", value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", intconfig.TokenEnvVar, err)
	}

	// 4. GITLABCI_LINT_* variables
	// Transform: GITLABCI_LINT_CI_CONFIG_PATH -> ci_config_path
	if err := k.Load(env.Provider(intconfig.EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, intconfig.EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Flags (only those explicitly set)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || nonConfigFlags[f.Name] {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 6. Unmarshal, expanding ${VAR} references and parsing durations
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				expandEnvHook(),
				mapstructure.StringToTimeDurationHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = configFile

	return &cfg, nil
}

// resolveConfigFile returns the config file to load. An explicit path must
// exist; otherwise the working directory and its parents are searched.
func resolveConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil
	}
	return intconfig.FindConfigFileUpward(cwd), nil
}

// expandEnvHook expands ${VAR} patterns in string values. Unset variables
// are left as-is.
func expandEnvHook() mapstructure.DecodeHookFuncKind {
	return func(from, to reflect.Kind, data interface{}) (interface{}, error) {
		if from != reflect.String || to != reflect.String {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		return expandEnvVars(s), nil
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config stored by WithConfig, or defaults.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return &Config{
		URL:          DefaultURL,
		Timeout:      DefaultTimeout,
		OutputFormat: DefaultOutput,
	}
}

// NewLogger returns a debug-level text logger on w when verbose is set,
// and a discarding logger otherwise.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
