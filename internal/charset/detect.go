package charset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"unicode"

	"github.com/saintfish/chardet"
)

var (
	// ErrLowConfidence is returned when the detector never reaches the
	// required confidence before the input runs out.
	ErrLowConfidence = errors.New("charset detection confidence too low")
	// ErrDisallowed is returned when the detected charset is not in the
	// caller's allow-list.
	ErrDisallowed = errors.New("detected charset not allowed")
)

const (
	defaultSampleBytes   = 2000
	defaultMinConfidence = 70
	sampleGrowth         = 5
)

// Detection is the outcome of a successful detection.
type Detection struct {
	Label      string
	Confidence int
	Language   string
}

// Detector guesses the charset of subtitle text. Lines starting with a
// digit (block indices and timing lines) are left out of the sample.
type Detector struct {
	SampleBytes int
	// MinConfidence is exclusive, on chardet's 0-100 scale.
	MinConfidence int
}

// Detect samples r and returns the detected charset together with a reader
// that replays every byte of r, consumed or not. When the sample is
// inconclusive and input remains, the sample is grown five-fold and
// detection retried. allow, when non-empty, restricts acceptable labels.
func (d Detector) Detect(r io.Reader, allow []string) (Detection, io.Reader, error) {
	sampleSize := d.SampleBytes
	if sampleSize <= 0 {
		sampleSize = defaultSampleBytes
	}
	minConfidence := d.MinConfidence
	if minConfidence <= 0 {
		minConfidence = defaultMinConfidence
	}

	br := bufio.NewReader(r)
	var consumed bytes.Buffer
	var sample []byte
	replay := func() io.Reader {
		return io.MultiReader(bytes.NewReader(consumed.Bytes()), br)
	}

	detector := chardet.NewTextDetector()
	exhausted := false
	for {
		for len(sample) < sampleSize && !exhausted {
			line, err := br.ReadBytes('\n')
			consumed.Write(line)
			if len(line) > 0 && !startsWithDigit(line) {
				sample = append(sample, line...)
			}
			if err == io.EOF {
				exhausted = true
			} else if err != nil {
				return Detection{}, replay(), fmt.Errorf("read detection sample: %w", err)
			}
		}

		if len(sample) == 0 {
			return Detection{}, replay(), fmt.Errorf("%w: no text to sample", ErrLowConfidence)
		}
		// Statistical detection has nothing to go on in plain ASCII.
		if isASCII(sample) {
			if !exhausted {
				sampleSize *= sampleGrowth
				continue
			}
			found := Detection{Label: UTF8, Confidence: 100}
			if len(allow) > 0 && !allowed(found.Label, allow) {
				found.Label = Normalize(allow[0])
			}
			return found, replay(), nil
		}
		result, err := detector.DetectBest(sample)
		if err == nil && result != nil && result.Confidence > minConfidence {
			found := Detection{Label: Normalize(result.Charset), Confidence: result.Confidence, Language: result.Language}
			if len(allow) > 0 && !allowed(found.Label, allow) {
				return found, replay(), fmt.Errorf("%w: %s", ErrDisallowed, found.Label)
			}
			return found, replay(), nil
		}
		if exhausted {
			if err == nil && result != nil {
				return Detection{Label: Normalize(result.Charset), Confidence: result.Confidence}, replay(),
					fmt.Errorf("%w: %s at %d", ErrLowConfidence, Normalize(result.Charset), result.Confidence)
			}
			return Detection{}, replay(), ErrLowConfidence
		}
		sampleSize *= sampleGrowth
	}
}

func startsWithDigit(line []byte) bool {
	return len(line) > 0 && line[0] < 0x80 && unicode.IsDigit(rune(line[0]))
}

func isASCII(sample []byte) bool {
	for _, b := range sample {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

func allowed(label string, allow []string) bool {
	return slices.ContainsFunc(allow, func(candidate string) bool {
		return Normalize(candidate) == label
	})
}
