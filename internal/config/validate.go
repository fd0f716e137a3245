package config

import (
	"errors"
	"fmt"

	"vrhouse/internal/scene"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateTelemetry()
}

func (c *Config) validateConversion() error {
	if len(c.Conversion.TargetPlatforms) == 0 {
		return errors.New("conversion.target_platforms must list at least one platform")
	}
	for _, p := range c.Conversion.TargetPlatforms {
		if !scene.KnownPlatform(p) {
			return fmt.Errorf("conversion.target_platforms: unknown platform %q (expected meta-quest, htc-vive, or pimax)", p)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateTelemetry() error {
	if c.Telemetry.Enabled && c.Telemetry.OTLPEndpoint == "" {
		return errors.New("telemetry.otlp_endpoint is required when telemetry is enabled")
	}
	return nil
}
