package arcs

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type createSeriesReq struct {
	Name string `json:"name"`
}

func (r createSeriesReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 200),
		),
	)
}

type createArcReq struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Rating  *float64 `json:"rating"`
}

func (r createArcReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 300),
		),
		validation.Field(&r.Summary, validation.Length(0, 5000)),
	)
}

type updateArcReq struct {
	Title   *string  `json:"title"`
	Summary *string  `json:"summary"`
	Rating  *float64 `json:"rating"`
}

func (r updateArcReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be empty")),
	)
}

type createMappingReq struct {
	Label string `json:"label"`
	Manga string `json:"manga"`
	LN    string `json:"ln"`
	Anime string `json:"anime"`
	Notes string `json:"notes"`
}

func (r createMappingReq) Validate() error {
	// every field may be blank: a fresh row starts unmapped
	return validation.ValidateStruct(&r,
		validation.Field(&r.Label, validation.Length(0, 300)),
		validation.Field(&r.Notes, validation.Length(0, 2000)),
	)
}

type updateMappingReq struct {
	Label *string `json:"label"`
	Manga *string `json:"manga"`
	LN    *string `json:"ln"`
	Anime *string `json:"anime"`
	Notes *string `json:"notes"`
}
