package ledger

import (
	"strings"
	"time"
)

// Status is the outcome of a conversion.
type Status string

const (
	StatusConverted Status = "converted"
	StatusFailed    Status = "failed"
)

// ParseStatus maps a user-supplied name onto a Status.
func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusConverted:
		return StatusConverted, true
	case StatusFailed:
		return StatusFailed, true
	}
	return "", false
}

// Entry is one recorded conversion.
type Entry struct {
	DocumentID    string
	Sources       []string
	OutputPath    string
	RawPath       string
	Status        Status
	FailureKind   string
	ErrorMessage  string
	Language      string
	Encoding      string
	Sentences     int
	Tokens        int
	IgnoredBlocks int
	RunID         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Converted reports whether the entry describes a successful conversion.
func (e *Entry) Converted() bool {
	return e != nil && e.Status == StatusConverted
}
