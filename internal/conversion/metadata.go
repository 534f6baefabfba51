package conversion

import (
	"strconv"
	"strings"

	"subcorpus/internal/document"
	"subcorpus/internal/timecode"
)

// buildMetadata appends the computed subtitle and conversion fields to a
// copy of the caller's metadata.
func buildMetadata(base *document.Metadata, r *Result) *document.Metadata {
	meta := base.Clone()
	subtitle := meta.Section("subtitle")
	if r.Language != "" {
		subtitle.Set("language", r.Language)
		subtitle.Set("confidence", strconv.FormatFloat(r.Confidence, 'f', 2, 64))
	}
	if r.Blocks > 0 {
		subtitle.Set("blocks", strconv.Itoa(r.Blocks))
		subtitle.Set("duration", timecode.FormatHMS(r.Duration))
	}
	subtitle.Set("cds", strconv.Itoa(r.CDs))

	conversion := meta.Section("conversion")
	conversion.Set("sentences", strconv.Itoa(r.Sentences))
	conversion.Set("tokens", strconv.Itoa(r.Tokens))
	conversion.Set("encoding", r.Encoding)
	conversion.Set("ignored_blocks", strconv.Itoa(r.IgnoredBlocks))
	if r.Dictionary {
		conversion.Set("unknown_words", strconv.Itoa(r.UnknownWords))
		conversion.Set("corrected_words", strconv.Itoa(r.CorrectedWords))
	}
	return meta
}

// anchorBlock extracts the block id from an anchor label such as T12E.
func anchorBlock(label string) int {
	id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSuffix(strings.TrimPrefix(label, "T"), "E"), "S"))
	if err != nil {
		return 0
	}
	return id
}
