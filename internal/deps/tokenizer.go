package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"subcorpus/internal/config"
)

// CheckTokenizer reports the external programs the configured tokenizer
// backend executes. The builtin backend needs none, so its report only
// lists them as optional.
func CheckTokenizer(cfg config.Tokenizer) []Status {
	external := cfg.Backend == config.BackendExternal
	statuses := CheckBinaries([]Requirement{
		{Name: "Perl", Command: cfg.PerlBinary, Description: "Runs the Moses tokenizer script", Optional: !external},
		{Name: "KyTea", Command: cfg.KyteaBinary, Description: "Segments Chinese and Japanese text", Optional: true},
	})
	script := CheckMosesScript(cfg.MosesScript)
	script.Optional = !external
	statuses = slices.Insert(statuses, 1, script)
	return append(statuses, CheckKyteaModels(cfg.KyteaModels)...)
}

// CheckMosesScript reports whether the Moses tokenizer script exists.
//
// Perl resolves a bare script name against the working directory, so only
// names without a separator fall back to a PATH lookup.
func CheckMosesScript(script string) Status {
	result := Status{
		Name:        "Moses tokenizer",
		Command:     strings.TrimSpace(script),
		Description: "Word tokenization for alphabetic languages",
	}
	if result.Command == "" {
		result.Detail = "script not configured"
		return result
	}
	if info, err := os.Stat(result.Command); err == nil && isRegular(info) {
		if abs, absErr := filepath.Abs(result.Command); absErr == nil {
			result.Command = abs
		}
		result.Available = true
		return result
	}
	if !strings.ContainsRune(result.Command, filepath.Separator) {
		if resolved, err := exec.LookPath(result.Command); err == nil {
			result.Command = resolved
			result.Available = true
			return result
		}
	}
	result.Detail = fmt.Sprintf("script %q not found", result.Command)
	return result
}

// CheckKyteaModels reports each configured segmenter model file, sorted by
// segmenter key.
func CheckKyteaModels(models map[string]string) []Status {
	keys := make([]string, 0, len(models))
	for key := range models {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	results := make([]Status, 0, len(keys))
	for _, key := range keys {
		status := Status{
			Name:        "KyTea model (" + key + ")",
			Command:     models[key],
			Description: "Segmentation model",
			Optional:    true,
		}
		info, err := os.Stat(models[key])
		switch {
		case err != nil:
			status.Detail = fmt.Sprintf("model %q not found", models[key])
		case !isRegular(info):
			status.Detail = fmt.Sprintf("model %q is not a file", models[key])
		default:
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

func isRegular(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().IsRegular()
}
