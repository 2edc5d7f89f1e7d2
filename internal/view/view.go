// Package view projects analyze responses into rows ready for display.
package view

import (
	"fmt"
	"math"

	"github.com/sergeknystautas/commitdetective/internal/api/contracts"
)

// HighConfidence is the relevance score above which a match is tiered high.
const HighConfidence = 0.7

// Tier is the confidence class of a badge.
type Tier string

const (
	TierHigh   Tier = "high"
	TierNormal Tier = "normal"
)

// Badge is the match-confidence marker shown next to a scored commit.
type Badge struct {
	Label string `json:"label"`
	Tier  Tier   `json:"tier"`
}

// DisplayRow is one commit as it is shown to the user.
type DisplayRow struct {
	Key     string `json:"key"`
	Heading string `json:"heading"`
	Badge   *Badge `json:"badge,omitempty"`
	Body    string `json:"body"`
	Detail  string `json:"detail"`
}

// Project maps a response payload to display rows in the order received.
// Save-only rows carry no badge.
//
// Rows are keyed by commit hash. When a hash repeats, the row stays at the
// position of its first occurrence and takes the content of the last one.
func Project(payload []contracts.CommitCandidate, saveOnly bool) []DisplayRow {
	rows := make([]DisplayRow, 0, len(payload))
	index := make(map[string]int, len(payload))
	for _, c := range payload {
		row := DisplayRow{
			Key:     c.CommitHash,
			Heading: c.CommitHash,
			Body:    c.CommitMessage,
			Detail:  c.Explanation,
		}
		if !saveOnly {
			b := NewBadge(c.RelevanceScore)
			row.Badge = &b
		}
		if i, ok := index[row.Key]; ok {
			rows[i] = row
			continue
		}
		index[row.Key] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

// NewBadge labels score as a whole percentage, rounding half away from zero.
func NewBadge(score float64) Badge {
	tier := TierNormal
	if score > HighConfidence {
		tier = TierHigh
	}
	return Badge{
		Label: fmt.Sprintf("%d%% match", int(math.Round(score*100))),
		Tier:  tier,
	}
}

// DuplicateKeys returns the commit hashes that appear more than once in
// payload, in order of their second appearance.
func DuplicateKeys(payload []contracts.CommitCandidate) []string {
	seen := make(map[string]int, len(payload))
	var dups []string
	for _, c := range payload {
		seen[c.CommitHash]++
		if seen[c.CommitHash] == 2 {
			dups = append(dups, c.CommitHash)
		}
	}
	return dups
}

// Title is the heading of a result list.
func Title(saveOnly bool) string {
	if saveOnly {
		return "Saved Commits"
	}
	return "Potential Fix Commits"
}
