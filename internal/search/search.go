// Package search implements the linker's find-anything scan: a linear,
// case-insensitive substring pass over the whole tree.
package search

import (
	"fmt"
	"strings"

	"arclinker/pkg/models"
)

const summaryPreviewLen = 140

// Match is one hit in the tree. Type is "Series", "Arc" or "Mapping";
// SeriesID/ArcID point the caller back at the matched location.
type Match struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SeriesID    string `json:"seriesId"`
	ArcID       string `json:"arcId,omitempty"`
}

// Scan walks the tree in order (series, then arcs, then mappings) and
// returns every field-level hit for term. A single arc or mapping can
// appear more than once when several of its fields match; nothing is
// deduplicated. The full result is returned, truncation is the
// caller's concern.
//
// Scan holds no state between calls: same root and term, same matches.
func Scan(root *models.Root, term string) []Match {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var matches []Match

	for _, series := range root.Series {
		if contains(series.Name, term) {
			firstArc := ""
			if len(series.Arcs) > 0 {
				firstArc = series.Arcs[0].ID
			}
			matches = append(matches, Match{
				Type:        "Series",
				Title:       series.Name,
				Description: arcCountLabel(len(series.Arcs)),
				SeriesID:    series.ID,
				ArcID:       firstArc,
			})
		}

		for _, arc := range series.Arcs {
			if contains(arc.Title, term) || contains(arc.Summary, term) {
				desc := "No summary yet."
				if arc.Summary != "" {
					desc = truncate(arc.Summary, summaryPreviewLen)
				}
				matches = append(matches, Match{
					Type:        "Arc",
					Title:       series.Name + " · " + arc.Title,
					Description: desc,
					SeriesID:    series.ID,
					ArcID:       arc.ID,
				})
			}

			for _, m := range arc.Mappings {
				if contains(m.Label, term) ||
					contains(m.Manga, term) ||
					contains(m.LN, term) ||
					contains(m.Anime, term) ||
					contains(m.Notes, term) {
					title := m.Label
					if title == "" {
						title = "Untitled Mapping"
					}
					matches = append(matches, Match{
						Type:        "Mapping",
						Title:       title,
						Description: series.Name + " · " + arc.Title,
						SeriesID:    series.ID,
						ArcID:       arc.ID,
					})
				}
			}
		}
	}

	return matches
}

func contains(value, term string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), term)
}

func arcCountLabel(n int) string {
	if n == 1 {
		return "1 arc"
	}
	return fmt.Sprintf("%d arcs", n)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
