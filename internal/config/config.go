// Package config loads the command line configuration from flags, PANDATA_*
// environment variables and an optional YAML file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. PANDATA_LOG_FORMAT.
const EnvPrefix = "PANDATA"

// Config holds the settings shared by every command.
type Config struct {
	Verbose   bool   `mapstructure:"verbose"`
	LogFormat string `mapstructure:"log-format" validate:"oneof=console json"`
	Output    string `mapstructure:"output" validate:"oneof=table json yaml csv"`

	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Limit    int    `mapstructure:"limit" validate:"min=0"`
	AvroName string `mapstructure:"avro-name"`

	// ReadArgs and WriteArgs are raw key=value pairs. They are read from the
	// flags directly: values such as "separator=," do not survive list
	// parsing through the environment.
	ReadArgs  []string `mapstructure:"-"`
	WriteArgs []string `mapstructure:"-"`
}

var defaults = map[string]any{
	"verbose":    false,
	"log-format": "console",
	"output":     "table",
	"from":       "",
	"to":         "",
	"limit":      0,
	"avro-name":  "",
}

// Load resolves the configuration for flags. The YAML file named by the
// config flag (or PANDATA_CONFIG) is read when set.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if f := flags.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %q: %w", key, err)
			}
		}
	}

	path, _ := flags.GetString("config")
	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if flags.Lookup("read-arg") != nil {
		cfg.ReadArgs, _ = flags.GetStringArray("read-arg")
	}
	if flags.Lookup("write-arg") != nil {
		cfg.WriteArgs, _ = flags.GetStringArray("write-arg")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %q constraint (got %v)", fe.Field(), fe.Tag()+"="+fe.Param(), fe.Value())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
