package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/agentx-labs/commitx/internal/branding"
	"github.com/agentx-labs/commitx/internal/compose"
	"github.com/agentx-labs/commitx/internal/logging"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyRules          = "rules"
	KeyLargeThreshold = "large_threshold"
	KeyMaxHeader      = "max_header"
	KeyNoVerify       = "no_verify"
	KeyLogLevel       = "log_level"
	KeyBody           = "body"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
)

var known = map[string]keyKind{
	KeyRules:          kindString,
	KeyLargeThreshold: kindInt,
	KeyMaxHeader:      kindInt,
	KeyNoVerify:       kindBool,
	KeyLogLevel:       kindString,
	KeyBody:           kindBool,
}

// Keys returns the recognized setting keys in sorted order.
func Keys() []string {
	out := make([]string, 0, len(known))
	for k := range known {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Settings is the resolved configuration.
type Settings struct {
	Rules string
	// LargeThreshold overrides the rule table's large threshold when > 0.
	LargeThreshold int
	MaxHeader      int
	NoVerify       bool
	LogLevel       string
	Body           bool
}

// Dir returns the path to the config directory (~/.commitx/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.commitx/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() error {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyMaxHeader, compose.MaxHeader)
	viper.SetDefault(KeyLogLevel, logging.DefaultLevel)

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; a broken one is not.
		if _, statErr := os.Stat(FilePath()); os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// Current returns the settings resolved from flags, environment, file and
// defaults, in that order.
func Current() Settings {
	return Settings{
		Rules:          viper.GetString(KeyRules),
		LargeThreshold: viper.GetInt(KeyLargeThreshold),
		MaxHeader:      viper.GetInt(KeyMaxHeader),
		NoVerify:       viper.GetBool(KeyNoVerify),
		LogLevel:       viper.GetString(KeyLogLevel),
		Body:           viper.GetBool(KeyBody),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set validates a key-value pair, then writes it to the config file.
func Set(key, value string) error {
	kind, ok := known[key]
	if !ok {
		return fmt.Errorf("unknown key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}

	var typed any = value
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
		}
		typed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		typed = b
	case kindString:
		if key == KeyLogLevel {
			if _, err := logging.ParseLevel(value); err != nil {
				return err
			}
		}
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, typed)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
