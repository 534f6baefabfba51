package conversion

import (
	"errors"
	"log/slog"
	"strings"

	"subcorpus/internal/charset"
	"subcorpus/internal/language"
	"subcorpus/internal/logging"
	"subcorpus/internal/subtitles"
)

// seedEncodings builds the candidate list for a document: the explicit
// override, then the language's encodings. Unknown or difficult languages
// run the detector on the first input first and put its guess in front.
// The first source is replaced by a replay reader when sampled.
func (c *Converter) seedEncodings(inputs []subtitles.Source, override string, lang *language.Language, logger *slog.Logger) (*charset.Candidates, error) {
	var labels []string
	if strings.TrimSpace(override) != "" {
		labels = append(labels, override)
	}
	if lang != nil {
		labels = append(labels, lang.Encodings...)
	}
	candidates := charset.NewCandidates(labels...)

	if c.opts.Detector == nil || len(inputs) == 0 || (lang != nil && !lang.Difficult) {
		if candidates.Len() == 0 {
			candidates.Prepend(charset.UTF8)
		}
		return candidates, nil
	}

	detection, replay, err := c.opts.Detector.Detect(inputs[0].R, labels)
	inputs[0].R = replay
	if err != nil {
		if candidates.Len() == 0 {
			return nil, wrap(KindEncoding, "detect encoding", err)
		}
		kind := "encoding_detection_low_confidence"
		if errors.Is(err, charset.ErrDisallowed) {
			kind = "encoding_detection_disallowed"
		}
		logging.WarnWithContext(logger, "encoding detection inconclusive", kind,
			logging.String("source", inputs[0].Name),
			logging.Error(err),
			logging.String("candidates", strings.Join(candidates.Labels(), ",")),
			logging.String(logging.FieldErrorHint, "pass --encoding to force the file encoding"),
			logging.String(logging.FieldImpact, "falling back to the language's candidate encodings"),
		)
		return candidates, nil
	}
	logger.Debug("encoding detected",
		logging.String("encoding", detection.Label),
		logging.Int("confidence", detection.Confidence),
	)
	candidates.Prepend(detection.Label)
	return candidates, nil
}
