package config

const (
	defaultConfigPath         = "~/.config/subcorpus/config.toml"
	defaultOutputDir          = "~/.local/share/subcorpus/xml"
	defaultLogDir             = "~/.local/share/subcorpus/logs"
	defaultLedgerPath         = "~/.local/share/subcorpus/ledger.db"
	defaultDictionaryDir      = "~/.local/share/subcorpus/dictionaries"
	defaultTokenizerBackend   = BackendBuiltin
	defaultMosesScript        = "tokenizer.perl"
	defaultPerlBinary         = "perl"
	defaultKyteaBinary        = "kytea"
	defaultContinuationPolicy = PolicyThreshold
	defaultPauseShortSeconds  = 1.0
	defaultPauseLongSeconds   = 3.0
	defaultMaxSentenceWords   = 40
	defaultDetectSampleBytes  = 2000
	defaultMinConfidence      = 70
	defaultBatchJobs          = 4
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Tokenizer backends.
const (
	BackendBuiltin  = "builtin"
	BackendExternal = "external"
)

// Continuation policies.
const (
	PolicyThreshold = "threshold"
	PolicyBalance   = "balance"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:     defaultOutputDir,
			LogDir:        defaultLogDir,
			LedgerPath:    defaultLedgerPath,
			DictionaryDir: defaultDictionaryDir,
		},
		Tokenizer: Tokenizer{
			Backend:     defaultTokenizerBackend,
			MosesScript: defaultMosesScript,
			PerlBinary:  defaultPerlBinary,
			KyteaBinary: defaultKyteaBinary,
			KyteaModels: map[string]string{},
		},
		Conversion: Conversion{
			ContinuationPolicy: defaultContinuationPolicy,
			PauseShortSeconds:  defaultPauseShortSeconds,
			PauseLongSeconds:   defaultPauseLongSeconds,
			MaxSentenceWords:   defaultMaxSentenceWords,
		},
		Encoding: Encoding{
			DetectSampleBytes: defaultDetectSampleBytes,
			MinConfidence:     defaultMinConfidence,
		},
		Batch: Batch{
			Jobs: defaultBatchJobs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
