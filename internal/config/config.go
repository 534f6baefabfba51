package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	OutputDir     string `toml:"output_dir"`
	LogDir        string `toml:"log_dir"`
	LedgerPath    string `toml:"ledger_path"`
	DictionaryDir string `toml:"dictionary_dir"`
	LanguagesFile string `toml:"languages_file"`
}

// Tokenizer selects and locates the tokenization backend.
type Tokenizer struct {
	// Backend is "builtin" (in-process) or "external" (moses/kytea subprocesses).
	Backend     string            `toml:"backend"`
	MosesScript string            `toml:"moses_script"`
	PerlBinary  string            `toml:"perl_binary"`
	KyteaBinary string            `toml:"kytea_binary"`
	KyteaModels map[string]string `toml:"kytea_models"`
}

// Conversion tunes sentence reconstruction.
type Conversion struct {
	// ContinuationPolicy is "threshold" or "balance".
	ContinuationPolicy string  `toml:"continuation_policy"`
	AlwaysSplit        bool    `toml:"always_split"`
	RawOutput          bool    `toml:"raw_output"`
	PauseShortSeconds  float64 `toml:"pause_short_seconds"`
	PauseLongSeconds   float64 `toml:"pause_long_seconds"`
	MaxSentenceWords   int     `toml:"max_sentence_words"`
	// MaxSentenceAnchors of 0 keeps the policy's own anchor limit.
	MaxSentenceAnchors int `toml:"max_sentence_anchors"`
}

// Encoding tunes statistical charset detection.
type Encoding struct {
	DetectSampleBytes int `toml:"detect_sample_bytes"`
	MinConfidence     int `toml:"min_confidence"`
}

// Batch contains settings for directory conversions.
type Batch struct {
	Jobs int `toml:"jobs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subcorpus.
//
// Configuration sections by subsystem:
//   - Paths: output, log, ledger, dictionary and language table locations
//   - Tokenizer: builtin or external (moses/kytea) tokenization
//   - Conversion: continuation policy and sentence limits
//   - Encoding: charset detection sampling
//   - Batch: parallel document conversions
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Tokenizer  Tokenizer  `toml:"tokenizer"`
	Conversion Conversion `toml:"conversion"`
	Encoding   Encoding   `toml:"encoding"`
	Batch      Batch      `toml:"batch"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subcorpus.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Paths.LedgerPath); c.Paths.LedgerPath != "" && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory %q: %w", dir, err)
		}
	}
	return nil
}

// DictionaryPath resolves a language dictionary file name against the
// dictionary directory. An empty name yields an empty path.
func (c *Config) DictionaryPath(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.DictionaryDir, name)
}

// KyteaModel returns the configured kytea model for a segmenter key, if any.
func (c *Config) KyteaModel(segmenter string) string {
	if c.Tokenizer.KyteaModels == nil {
		return ""
	}
	return c.Tokenizer.KyteaModels[strings.ToLower(strings.TrimSpace(segmenter))]
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
