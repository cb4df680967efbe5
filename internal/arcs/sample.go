package arcs

import "arclinker/pkg/models"

// SampleRoot returns the built-in starter dataset used when no durable
// snapshot exists yet (or the stored one fails the shape check).
func SampleRoot() *models.Root {
	return &models.Root{
		Series: []*models.Series{
			{
				ID:   "series-chronicles",
				Name: "Chronicles of Aether",
				Arcs: []*models.Arc{
					{
						ID:      "arc-aether-prologue",
						Title:   "Prologue Sparks",
						Summary: "Introduces the Aer Guild and the inciting incident that splits the trio.",
						Rating:  4,
						Mappings: []*models.Mapping{
							{
								ID:    "map-prologue-1",
								Label: "Inciting Incident",
								Manga: "Chapter 1",
								LN:    "Volume 1 - Chapter 1",
								Anime: "Episode 1",
								Notes: "Minor pacing tweaks in anime montage.",
							},
							{
								ID:    "map-prologue-2",
								Label: "Guild Oath",
								Manga: "Chapter 2",
								LN:    "Volume 1 - Chapter 2",
								Anime: "",
								Notes: "Anime omits the extended oath scene.",
							},
						},
						Chat: []*models.Post{},
					},
					{
						ID:      "arc-aether-delta",
						Title:   "Delta Expedition",
						Summary: "The crew enters the storm delta to retrieve the prism core.",
						Rating:  5,
						Mappings: []*models.Mapping{
							{
								ID:    "map-delta-1",
								Label: "Storm Entry",
								Manga: "Ch. 12-13",
								LN:    "Vol. 3 - Ch. 2",
								Anime: "Episode 8",
								Notes: "Anime condenses dialogue.",
							},
						},
						Chat: []*models.Post{},
					},
				},
			},
			{
				ID:   "series-moonforge",
				Name: "Moonforge Saga",
				Arcs: []*models.Arc{
					{
						ID:       "arc-moonforge-trials",
						Title:    "Trials of the Moonforge",
						Summary:  "Candidates face trials beneath the moonlit forge.",
						Rating:   3,
						Mappings: []*models.Mapping{},
						Chat:     []*models.Post{},
					},
				},
			},
		},
	}
}
