package subtitles

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Reasons reported by Spurious.
const (
	ReasonUntimed       = "missing timing"
	ReasonAdvertisement = "advertisement"
	ReasonNearDuplicate = "near duplicate"
)

// maxDuplicateTail is the number of trailing characters a block may add to
// the previous block's text and still count as a scrolling duplicate.
const maxDuplicateTail = 2

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)http`),
	regexp.MustCompile(`(?i)www`),
	regexp.MustCompile(`(?i)\.com\b`),
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byify\b`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
}

// Spurious returns why the block should be dropped, or "" when it is
// genuine dialogue.
func (b *Block) Spurious() string {
	if !b.Timed {
		return ReasonUntimed
	}
	for _, line := range b.Lines {
		for _, pattern := range adPatterns {
			if pattern.MatchString(line) {
				return ReasonAdvertisement
			}
		}
	}
	if b.Previous != nil && nearDuplicate(b.Text(), b.Previous.Text()) {
		return ReasonNearDuplicate
	}
	return ""
}

func nearDuplicate(current, previous string) bool {
	if previous == "" || !strings.HasPrefix(current, previous) {
		return false
	}
	return utf8.RuneCountInString(current[len(previous):]) <= maxDuplicateTail
}
