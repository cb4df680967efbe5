// Package arcs owns the canonical in-memory linker tree and its
// durable snapshot. All edits flow through the Store, which persists
// after every mutation; the snapshot is best-effort and the in-memory
// tree stays authoritative when a write fails.
package arcs

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"arclinker/internal/ident"
	"arclinker/pkg/database"
	"arclinker/pkg/models"
)

var (
	ErrSeriesNotFound  = errors.New("series not found")
	ErrArcNotFound     = errors.New("arc not found")
	ErrMappingNotFound = errors.New("mapping not found")
	ErrNameRequired    = errors.New("series name required")
	ErrTitleRequired   = errors.New("arc title required")
)

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

// ClampRating rounds v to the nearest integer and forces it into the
// 1..5 band.
func ClampRating(v float64) int {
	r := int(math.Round(v))
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// Store is the single owner of the linker tree. The live tree never
// escapes the mutex: every accessor returns a deep copy, so callers
// can marshal or walk results while other requests mutate the store.
// Edits go through Store methods so the snapshot stays in step.
type Store struct {
	mu    sync.Mutex
	slot  string
	snaps *database.SnapshotStore
	root  *models.Root
}

func NewStore(snaps *database.SnapshotStore, slot string) *Store {
	return &Store{snaps: snaps, slot: slot}
}

// Load returns a deep copy of the session tree, reading the durable
// snapshot on first use. A missing, malformed or wrong-shaped snapshot
// falls back to the built-in sample dataset (persisted immediately);
// Load never fails.
func (s *Store) Load(ctx context.Context) *models.Root {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.root.Clone()
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if s.root != nil {
		return
	}

	body, err := s.snaps.Read(ctx, s.slot)
	if err != nil {
		log.Error().Err(err).Str("slot", s.slot).Msg("snapshot read failed, seeding sample dataset")
	} else if body == nil {
		log.Info().Str("slot", s.slot).Msg("no snapshot yet, seeding sample dataset")
	} else {
		root, decodeErr := models.DecodeRoot(body)
		if decodeErr != nil {
			log.Warn().Err(decodeErr).Str("slot", s.slot).Msg("snapshot failed shape check, resetting")
		} else {
			s.root = root
			return
		}
	}

	s.root = SampleRoot()
	s.persistLocked(ctx)
}

// Persist writes the current tree to the snapshot slot. Failures are
// logged and swallowed: local durability is best-effort.
func (s *Store) Persist(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	body, err := models.EncodeRoot(s.root)
	if err != nil {
		log.Error().Err(err).Msg("encode snapshot failed")
		return
	}
	if err := s.snaps.Write(ctx, s.slot, body); err != nil {
		log.Error().Err(err).Str("slot", s.slot).Msg("persist snapshot failed, in-memory tree stays authoritative")
	}
}

// Replace swaps the whole tree (after an import merge) and persists.
// The store keeps its own copy; the caller's tree stays the caller's.
func (s *Store) Replace(ctx context.Context, root *models.Root) {
	root.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root.Clone()
	s.persistLocked(ctx)
}

// Export serializes the current tree as pretty-printed JSON.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return models.EncodeRoot(s.root)
}

// FindSeries looks a series up by id and returns a copy. Linear scan:
// the tree is a few dozen series at most, an index would not pay for
// itself.
func (s *Store) FindSeries(ctx context.Context, id string) (*models.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	series := s.root.FindSeries(id)
	if series == nil {
		return nil, ErrSeriesNotFound
	}
	return series.Clone(), nil
}

func (s *Store) FindArc(ctx context.Context, seriesID, arcID string) (*models.Arc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	arc, err := s.findArcLocked(ctx, seriesID, arcID)
	if err != nil {
		return nil, err
	}
	return arc.Clone(), nil
}

func (s *Store) findArcLocked(ctx context.Context, seriesID, arcID string) (*models.Arc, error) {
	s.ensureLoaded(ctx)
	series := s.root.FindSeries(seriesID)
	if series == nil {
		return nil, ErrSeriesNotFound
	}
	arc := series.FindArc(arcID)
	if arc == nil {
		return nil, ErrArcNotFound
	}
	return arc, nil
}

// AddSeries appends a new series with a fresh id.
func (s *Store) AddSeries(ctx context.Context, name string) (*models.Series, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	series := &models.Series{
		ID:   ident.New("series"),
		Name: name,
		Arcs: []*models.Arc{},
	}
	s.root.Series = append(s.root.Series, series)
	s.persistLocked(ctx)
	return series.Clone(), nil
}

// AddArc appends a new arc to a series. A nil rating takes the
// default of 3; anything else is clamped into 1..5.
func (s *Store) AddArc(ctx context.Context, seriesID, title, summary string, rating *float64) (*models.Arc, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	series := s.root.FindSeries(seriesID)
	if series == nil {
		return nil, ErrSeriesNotFound
	}

	r := DefaultRating
	if rating != nil {
		r = ClampRating(*rating)
	}

	arc := &models.Arc{
		ID:       ident.New("arc"),
		Title:    title,
		Summary:  strings.TrimSpace(summary),
		Rating:   r,
		Mappings: []*models.Mapping{},
		Chat:     []*models.Post{},
	}
	series.Arcs = append(series.Arcs, arc)
	s.persistLocked(ctx)
	return arc.Clone(), nil
}

// ArcUpdate carries the optional arc metadata edits; nil fields stay
// untouched.
type ArcUpdate struct {
	Title   *string
	Summary *string
	Rating  *float64
}

func (s *Store) UpdateArc(ctx context.Context, seriesID, arcID string, upd ArcUpdate) (*models.Arc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arc, err := s.findArcLocked(ctx, seriesID, arcID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		arc.Title = title
	}
	if upd.Summary != nil {
		arc.Summary = *upd.Summary
	}
	if upd.Rating != nil {
		arc.Rating = ClampRating(*upd.Rating)
	}

	s.persistLocked(ctx)
	return arc.Clone(), nil
}

func (s *Store) RemoveArc(ctx context.Context, seriesID, arcID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	series := s.root.FindSeries(seriesID)
	if series == nil {
		return ErrSeriesNotFound
	}
	for i, arc := range series.Arcs {
		if arc.ID == arcID {
			series.Arcs = append(series.Arcs[:i], series.Arcs[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return ErrArcNotFound
}

func (s *Store) RemoveSeries(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	for i, series := range s.root.Series {
		if series.ID == id {
			s.root.Series = append(s.root.Series[:i], s.root.Series[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return ErrSeriesNotFound
}

// MappingFields is the writable surface of a mapping row. Empty
// strings are valid: they mean "not yet mapped".
type MappingFields struct {
	Label string
	Manga string
	LN    string
	Anime string
	Notes string
}

func (s *Store) AddMapping(ctx context.Context, seriesID, arcID string, f MappingFields) (*models.Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arc, err := s.findArcLocked(ctx, seriesID, arcID)
	if err != nil {
		return nil, err
	}

	m := &models.Mapping{
		ID:    ident.New("mapping"),
		Label: f.Label,
		Manga: f.Manga,
		LN:    f.LN,
		Anime: f.Anime,
		Notes: f.Notes,
	}
	arc.Mappings = append(arc.Mappings, m)
	s.persistLocked(ctx)
	cp := *m
	return &cp, nil
}

// MappingPatch edits individual mapping fields; nil fields keep their
// current value.
type MappingPatch struct {
	Label *string
	Manga *string
	LN    *string
	Anime *string
	Notes *string
}

func (s *Store) UpdateMapping(ctx context.Context, seriesID, arcID, mappingID string, patch MappingPatch) (*models.Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arc, err := s.findArcLocked(ctx, seriesID, arcID)
	if err != nil {
		return nil, err
	}
	m := arc.FindMapping(mappingID)
	if m == nil {
		return nil, ErrMappingNotFound
	}

	if patch.Label != nil {
		m.Label = *patch.Label
	}
	if patch.Manga != nil {
		m.Manga = *patch.Manga
	}
	if patch.LN != nil {
		m.LN = *patch.LN
	}
	if patch.Anime != nil {
		m.Anime = *patch.Anime
	}
	if patch.Notes != nil {
		m.Notes = *patch.Notes
	}

	s.persistLocked(ctx)
	cp := *m
	return &cp, nil
}

func (s *Store) RemoveMapping(ctx context.Context, seriesID, arcID, mappingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	arc, err := s.findArcLocked(ctx, seriesID, arcID)
	if err != nil {
		return err
	}
	for i, m := range arc.Mappings {
		if m.ID == mappingID {
			arc.Mappings = append(arc.Mappings[:i], arc.Mappings[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return ErrMappingNotFound
}
