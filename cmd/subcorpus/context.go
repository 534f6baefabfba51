package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subcorpus/internal/config"
	"subcorpus/internal/language"
	"subcorpus/internal/ledger"
	"subcorpus/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	registryOnce sync.Once
	registry     *language.Registry
	registryErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// ensureRegistry loads the configured language table, falling back to the
// built-in one.
func (c *commandContext) ensureRegistry() (*language.Registry, error) {
	c.registryOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.registryErr = err
			return
		}
		if cfg.Paths.LanguagesFile == "" {
			c.registry = language.Builtin()
			return
		}
		c.registry, c.registryErr = language.LoadFile(cfg.Paths.LanguagesFile)
		if c.registryErr != nil {
			c.registryErr = fmt.Errorf("load languages file: %w", c.registryErr)
		}
	})
	return c.registry, c.registryErr
}

// lookupLanguage resolves a --language flag. An empty code means unknown.
func (c *commandContext) lookupLanguage(code string) (*language.Language, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}
	registry, err := c.ensureRegistry()
	if err != nil {
		return nil, err
	}
	return registry.Lookup(code)
}

func (c *commandContext) withLedger(fn func(*ledger.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
