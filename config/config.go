package config

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// DefaultMaxFileSize is the upload ceiling applied when the config does
	// not set one: 100 MiB.
	DefaultMaxFileSize uint = 100 << 20

	// DefaultMaxPageSize caps list page sizes when the config does not set one.
	DefaultMaxPageSize = 100

	// DefaultStorageTimeoutSeconds bounds backend store/delete calls.
	DefaultStorageTimeoutSeconds = 30

	// DefaultIdentityHeader carries the upstream-verified owner identity.
	DefaultIdentityHeader = "X-Forwarded-User"
)

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("abspath", ValidateAbsPath)
	validate.RegisterValidation("identifier", ValidateIdentifier)

	if err := validate.Struct(c); err != nil {
		return err
	}

	return nil
}

// applyDefaults fills in the optional knobs that have sensible defaults so
// the rest of the code never has to guard against zero values.
func (c *Config) applyDefaults() {
	if c.Server.Limits.MaxFileSize == 0 {
		c.Server.Limits.MaxFileSize = DefaultMaxFileSize
	}

	if c.Server.Limits.MaxPageSize <= 0 {
		c.Server.Limits.MaxPageSize = DefaultMaxPageSize
	}

	if c.Storage.TimeoutSeconds <= 0 {
		c.Storage.TimeoutSeconds = DefaultStorageTimeoutSeconds
	}

	if c.Auth.IdentityHeader == "" {
		c.Auth.IdentityHeader = DefaultIdentityHeader
	}
}

func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		log.Println("read in fail")
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Println("unmarshal fail")
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		log.Println("validate fail")
		return nil, err
	}

	return &cfg, nil
}
