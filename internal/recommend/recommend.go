// Package recommend triages every arc in the tree into the three
// review buckets shown on the recommendations page.
package recommend

import (
	"sort"

	"arclinker/internal/health"
	"arclinker/pkg/models"
)

const topRatedThreshold = 4

// Entry is one (series, arc) pair with enough context to render a
// recommendation line without walking the tree again.
type Entry struct {
	SeriesID     string           `json:"seriesId"`
	SeriesName   string           `json:"seriesName"`
	ArcID        string           `json:"arcId"`
	ArcTitle     string           `json:"arcTitle"`
	Rating       int              `json:"rating"`
	MappingCount int              `json:"mappingCount"`
	Health       health.ArcHealth `json:"health"`
}

// Buckets holds the three fully sorted triage lists. Presentation caps
// (top 10 per list) are applied by the caller, not here.
type Buckets struct {
	Gaps       []Entry `json:"gaps"`
	Mismatches []Entry `json:"mismatches"`
	TopRated   []Entry `json:"topRated"`
}

// Build classifies every arc once and sorts each bucket:
//
//   - Gaps: arcs with gap status, most missing rows first
//   - Mismatches: mismatched arcs, most mapping rows first
//   - TopRated: arcs rated 4 or higher, best rating first, ties broken
//     by mapping count
func Build(root *models.Root) Buckets {
	var b Buckets

	for _, series := range root.Series {
		for _, arc := range series.Arcs {
			h := health.ComputeArcHealth(arc)
			entry := Entry{
				SeriesID:     series.ID,
				SeriesName:   series.Name,
				ArcID:        arc.ID,
				ArcTitle:     arc.Title,
				Rating:       arc.Rating,
				MappingCount: len(arc.Mappings),
				Health:       h,
			}

			switch h.Status {
			case health.StatusGaps:
				b.Gaps = append(b.Gaps, entry)
			case health.StatusMismatched:
				b.Mismatches = append(b.Mismatches, entry)
			}
			if arc.Rating >= topRatedThreshold {
				b.TopRated = append(b.TopRated, entry)
			}
		}
	}

	sort.SliceStable(b.Gaps, func(i, j int) bool {
		return b.Gaps[i].Health.MissingCount > b.Gaps[j].Health.MissingCount
	})
	sort.SliceStable(b.Mismatches, func(i, j int) bool {
		return b.Mismatches[i].MappingCount > b.Mismatches[j].MappingCount
	})
	sort.SliceStable(b.TopRated, func(i, j int) bool {
		if b.TopRated[i].Rating != b.TopRated[j].Rating {
			return b.TopRated[i].Rating > b.TopRated[j].Rating
		}
		return b.TopRated[i].MappingCount > b.TopRated[j].MappingCount
	})

	return b
}
