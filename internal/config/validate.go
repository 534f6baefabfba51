package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTokenizer(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if c.Batch.Jobs < 1 {
		return errors.New("batch.jobs must be at least 1")
	}
	return nil
}

func (c *Config) validateTokenizer() error {
	switch c.Tokenizer.Backend {
	case BackendBuiltin, BackendExternal:
		return nil
	default:
		return fmt.Errorf("tokenizer.backend: unsupported value %q (want %q or %q)", c.Tokenizer.Backend, BackendBuiltin, BackendExternal)
	}
}

func (c *Config) validateConversion() error {
	switch c.Conversion.ContinuationPolicy {
	case PolicyThreshold, PolicyBalance:
	default:
		return fmt.Errorf("conversion.continuation_policy: unsupported value %q (want %q or %q)", c.Conversion.ContinuationPolicy, PolicyThreshold, PolicyBalance)
	}
	if c.Conversion.PauseLongSeconds < c.Conversion.PauseShortSeconds {
		return errors.New("conversion.pause_long_seconds must be >= conversion.pause_short_seconds")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if c.Encoding.MinConfidence > 100 {
		return errors.New("encoding.min_confidence must be between 1 and 100")
	}
	return nil
}
