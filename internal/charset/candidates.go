package charset

import (
	"errors"
	"fmt"
	"slices"
)

// ErrExhausted is returned when no candidate encoding can decode a line.
var ErrExhausted = errors.New("encoding candidates exhausted")

// Candidates is an ordered, de-duplicated list of encoding labels. The
// first label is the one in use.
type Candidates struct {
	labels  []string
	dropped []string
}

// NewCandidates builds a candidate list, normalizing labels and keeping
// only the first occurrence of each.
func NewCandidates(labels ...string) *Candidates {
	c := &Candidates{}
	for _, label := range labels {
		c.add(label, false)
	}
	return c
}

func (c *Candidates) add(label string, front bool) {
	label = Normalize(label)
	if label == "" {
		return
	}
	if idx := slices.Index(c.labels, label); idx >= 0 {
		if !front {
			return
		}
		c.labels = slices.Delete(c.labels, idx, idx+1)
	}
	if front {
		c.labels = slices.Insert(c.labels, 0, label)
		return
	}
	c.labels = append(c.labels, label)
}

// Prepend moves label to the front of the list.
func (c *Candidates) Prepend(label string) {
	c.add(label, true)
}

// Current returns the encoding in use, or "" when the list is empty.
func (c *Candidates) Current() string {
	if len(c.labels) == 0 {
		return ""
	}
	return c.labels[0]
}

// Drop removes label permanently.
func (c *Candidates) Drop(label string) {
	label = Normalize(label)
	if idx := slices.Index(c.labels, label); idx >= 0 {
		c.labels = slices.Delete(c.labels, idx, idx+1)
		c.dropped = append(c.dropped, label)
	}
}

// Len returns the number of remaining candidates.
func (c *Candidates) Len() int {
	return len(c.labels)
}

// Labels returns a copy of the remaining candidates in preference order.
func (c *Candidates) Labels() []string {
	return slices.Clone(c.labels)
}

// Dropped returns the candidates removed so far, in removal order.
func (c *Candidates) Dropped() []string {
	return slices.Clone(c.dropped)
}

// Decode decodes line with the current candidate, dropping candidates that
// fail until one succeeds. The returned error wraps ErrExhausted when the
// list runs out.
func (c *Candidates) Decode(line []byte) (string, error) {
	var last error
	for len(c.labels) > 0 {
		label := c.labels[0]
		text, err := Decode(label, line)
		if err == nil {
			return text, nil
		}
		last = err
		c.Drop(label)
	}
	if last != nil {
		return "", fmt.Errorf("%w: %v", ErrExhausted, last)
	}
	return "", ErrExhausted
}
