package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arclinker/pkg/models"
)

func TestComputeArcHealthNoMappings(t *testing.T) {
	arc := &models.Arc{ID: "arc-1", Title: "Empty"}

	got := ComputeArcHealth(arc)
	assert.Equal(t, StatusGaps, got.Status)
	assert.Equal(t, "Gaps · No mappings yet", got.Label)
	assert.Equal(t, 0, got.MissingCount)
}

func TestComputeArcHealthFullyAligned(t *testing.T) {
	arc := &models.Arc{
		Mappings: []*models.Mapping{
			{Manga: "Chapter 1", LN: "Vol. 1 - Ch. 1", Anime: "Episode 1"},
			{Manga: "Chapter 2", LN: "Vol. 1 - Ch. 2", Anime: "Episode 2"},
		},
	}

	got := ComputeArcHealth(arc)
	assert.Equal(t, StatusOK, got.Status)
	assert.Equal(t, "OK · Fully aligned", got.Label)
	assert.Equal(t, 0, got.MissingCount)
}

func TestComputeArcHealthCountsIncompleteRows(t *testing.T) {
	arc := &models.Arc{
		Mappings: []*models.Mapping{
			{Manga: "Chapter 1", LN: "Vol. 1", Anime: "Episode 1"},
			{Manga: "Chapter 2", LN: "", Anime: "Episode 2"},
			{Manga: "Chapter 3", LN: "Vol. 2", Anime: "   "},
		},
	}

	got := ComputeArcHealth(arc)
	assert.Equal(t, StatusGaps, got.Status)
	assert.Equal(t, 2, got.MissingCount)
	assert.Equal(t, "Gaps · 2 incomplete rows", got.Label)
}

func TestComputeArcHealthSingularLabel(t *testing.T) {
	arc := &models.Arc{
		Mappings: []*models.Mapping{
			{Manga: "Chapter 1", LN: "Vol. 1", Anime: ""},
		},
	}

	got := ComputeArcHealth(arc)
	assert.Equal(t, "Gaps · 1 incomplete row", got.Label)
	assert.Equal(t, 1, got.MissingCount)
}

func TestComputeArcHealthWhitespaceIsEmpty(t *testing.T) {
	arc := &models.Arc{
		Mappings: []*models.Mapping{
			{Manga: " \t", LN: "Vol. 1", Anime: "Episode 1"},
		},
	}

	got := ComputeArcHealth(arc)
	assert.Equal(t, StatusGaps, got.Status)
	assert.Equal(t, 1, got.MissingCount)
}
