package batch

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Job is one document of a batch: its id and the ordered subtitle parts.
type Job struct {
	ID      string
	Sources []string
}

var partPattern = regexp.MustCompile(`(?i)^(.+)\.cd(\d+)\.srt$`)

// Discover lists the .srt files directly under dir and groups them into
// jobs sorted by id. Parts of one release share the stem before
// ".cdN.srt" and are ordered by N.
func Discover(dir string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read batch directory: %w", err)
	}

	type part struct {
		number int
		path   string
	}
	groups := make(map[string][]part)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".srt") {
			continue
		}
		path := filepath.Join(dir, name)
		if m := partPattern.FindStringSubmatch(name); m != nil {
			n, convErr := strconv.Atoi(m[2])
			if convErr == nil {
				groups[m[1]] = append(groups[m[1]], part{number: n, path: path})
				continue
			}
		}
		stem := name[:len(name)-len(filepath.Ext(name))]
		groups[stem] = append(groups[stem], part{path: path})
	}

	jobs := make([]Job, 0, len(groups))
	for id, parts := range groups {
		slices.SortFunc(parts, func(a, b part) int {
			if c := cmp.Compare(a.number, b.number); c != 0 {
				return c
			}
			return strings.Compare(a.path, b.path)
		})
		job := Job{ID: id}
		for _, p := range parts {
			job.Sources = append(job.Sources, p.path)
		}
		jobs = append(jobs, job)
	}
	slices.SortFunc(jobs, func(a, b Job) int { return strings.Compare(a.ID, b.ID) })
	return jobs, nil
}
