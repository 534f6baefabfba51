package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTokenizer(); err != nil {
		return err
	}
	c.normalizeConversion()
	c.normalizeEncoding()
	c.normalizeLogging()
	if c.Batch.Jobs <= 0 {
		c.Batch.Jobs = defaultBatchJobs
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.DictionaryDir) == "" {
		c.Paths.DictionaryDir = defaultDictionaryDir
	}
	if c.Paths.DictionaryDir, err = expandPath(c.Paths.DictionaryDir); err != nil {
		return fmt.Errorf("paths.dictionary_dir: %w", err)
	}
	if c.Paths.LanguagesFile, err = expandPath(strings.TrimSpace(c.Paths.LanguagesFile)); err != nil {
		return fmt.Errorf("paths.languages_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeTokenizer() error {
	c.Tokenizer.Backend = strings.ToLower(strings.TrimSpace(c.Tokenizer.Backend))
	if c.Tokenizer.Backend == "" {
		c.Tokenizer.Backend = defaultTokenizerBackend
	}
	if value, ok := os.LookupEnv("SUBCORPUS_MOSES_TOKENIZER"); ok && strings.TrimSpace(value) != "" {
		c.Tokenizer.MosesScript = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("SUBCORPUS_KYTEA"); ok && strings.TrimSpace(value) != "" {
		c.Tokenizer.KyteaBinary = strings.TrimSpace(value)
	}
	c.Tokenizer.MosesScript = strings.TrimSpace(c.Tokenizer.MosesScript)
	if c.Tokenizer.MosesScript == "" {
		c.Tokenizer.MosesScript = defaultMosesScript
	}
	if strings.ContainsRune(c.Tokenizer.MosesScript, '/') || strings.HasPrefix(c.Tokenizer.MosesScript, "~") {
		expanded, err := expandPath(c.Tokenizer.MosesScript)
		if err != nil {
			return fmt.Errorf("tokenizer.moses_script: %w", err)
		}
		c.Tokenizer.MosesScript = expanded
	}
	c.Tokenizer.PerlBinary = strings.TrimSpace(c.Tokenizer.PerlBinary)
	if c.Tokenizer.PerlBinary == "" {
		c.Tokenizer.PerlBinary = defaultPerlBinary
	}
	c.Tokenizer.KyteaBinary = strings.TrimSpace(c.Tokenizer.KyteaBinary)
	if c.Tokenizer.KyteaBinary == "" {
		c.Tokenizer.KyteaBinary = defaultKyteaBinary
	}
	models := make(map[string]string, len(c.Tokenizer.KyteaModels))
	for key, model := range c.Tokenizer.KyteaModels {
		key = strings.ToLower(strings.TrimSpace(key))
		model = strings.TrimSpace(model)
		if key == "" || model == "" {
			continue
		}
		expanded, err := expandPath(model)
		if err != nil {
			return fmt.Errorf("tokenizer.kytea_models.%s: %w", key, err)
		}
		models[key] = expanded
	}
	c.Tokenizer.KyteaModels = models
	return nil
}

func (c *Config) normalizeConversion() {
	c.Conversion.ContinuationPolicy = strings.ToLower(strings.TrimSpace(c.Conversion.ContinuationPolicy))
	if c.Conversion.ContinuationPolicy == "" {
		c.Conversion.ContinuationPolicy = defaultContinuationPolicy
	}
	if c.Conversion.PauseShortSeconds <= 0 {
		c.Conversion.PauseShortSeconds = defaultPauseShortSeconds
	}
	if c.Conversion.PauseLongSeconds <= 0 {
		c.Conversion.PauseLongSeconds = defaultPauseLongSeconds
	}
	if c.Conversion.MaxSentenceWords <= 0 {
		c.Conversion.MaxSentenceWords = defaultMaxSentenceWords
	}
	if c.Conversion.MaxSentenceAnchors < 0 {
		c.Conversion.MaxSentenceAnchors = 0
	}
}

func (c *Config) normalizeEncoding() {
	if c.Encoding.DetectSampleBytes <= 0 {
		c.Encoding.DetectSampleBytes = defaultDetectSampleBytes
	}
	if c.Encoding.MinConfidence <= 0 {
		c.Encoding.MinConfidence = defaultMinConfidence
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
