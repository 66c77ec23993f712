// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
)

const (
	// EnvConfigJSON overrides config values with a JSON document from the environment.
	EnvConfigJSON = "HOWUFEELIN_CONFIG_JSON"

	// EnvCelebrationEmail adds one identity to the celebration set from the environment.
	EnvCelebrationEmail = "HOWUFEELIN_CELEBRATION_EMAIL"

	// EnvMaintenanceEmail adds one identity to the maintenance set from the environment.
	EnvMaintenanceEmail = "HOWUFEELIN_MAINTENANCE_EMAIL"

	// EnvCelebrationDate overrides the celebration target date (MM-DD) from the environment.
	EnvCelebrationDate = "HOWUFEELIN_CELEBRATION_DATE"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	applyEnvOverrides(&c)

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to merge json config from env")
	}

	return c, nil
}

// applyEnvOverrides feeds single-value environment overrides into the config.
// The celebration and maintenance sets stay independently configurable: the
// maintenance set gates the maintenance subtree and must never be widened by
// a change to the celebration set.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv(EnvCelebrationEmail); v != "" {
		c.Special.CelebrationEmails = append(c.Special.CelebrationEmails, v)
	}

	if v := os.Getenv(EnvMaintenanceEmail); v != "" {
		c.Special.MaintenanceEmails = append(c.Special.MaintenanceEmails, v)
	}

	if v := os.Getenv(EnvCelebrationDate); v != "" {
		c.Special.CelebrationDate = v
	}
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill documented fallback values.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	// validate access-control-allow-origin
	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = DefaultSessionExpiry
	}

	if c.Special.CelebrationDate == "" {
		c.Special.CelebrationDate = DefaultCelebrationDate
	}

	if c.Special.CelebrationWindowDays == 0 {
		c.Special.CelebrationWindowDays = DefaultCelebrationWindowDays
	}

	return nil
}
