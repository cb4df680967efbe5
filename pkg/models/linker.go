package models

// Root is the entire linker database: an ordered list of series.
// Series ids are unique within a Root.
type Root struct {
	Series []*Series `json:"series"`
}

// Series is one franchise title. Arc ids are unique within a series.
type Series struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Arcs []*Arc `json:"arcs"`
}

// Arc is a bounded story segment, the unit alignment health is
// evaluated at. Rating is clamped to 1..5 by the store.
type Arc struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Summary  string     `json:"summary"`
	Rating   int        `json:"rating"`
	Mappings []*Mapping `json:"mappings"`
	Chat     []*Post    `json:"chat"`
}

// Mapping is one alignment row: the same story beat located in the
// manga, light novel and anime. An empty reference string means
// "not yet mapped".
type Mapping struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Manga string `json:"manga"`
	LN    string `json:"ln"`
	Anime string `json:"anime"`
	Notes string `json:"notes"`
}

// Post is a threaded comment on an arc. Posts are carried through
// merges and serialization untouched.
type Post struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parentId"`
	Text     string  `json:"text"`
	TS       int64   `json:"ts"`
}

// FindSeries returns the series with the given id, or nil.
func (r *Root) FindSeries(id string) *Series {
	for _, s := range r.Series {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// FindArc returns the arc with the given id, or nil.
func (s *Series) FindArc(id string) *Arc {
	for _, a := range s.Arcs {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// FindMapping returns the mapping with the given id, or nil.
func (a *Arc) FindMapping(id string) *Mapping {
	for _, m := range a.Mappings {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Clone returns a deep copy of the root. Mutating the copy never
// touches the original tree.
func (r *Root) Clone() *Root {
	out := &Root{Series: make([]*Series, 0, len(r.Series))}
	for _, s := range r.Series {
		out.Series = append(out.Series, s.Clone())
	}
	return out
}

func (s *Series) Clone() *Series {
	out := &Series{ID: s.ID, Name: s.Name, Arcs: make([]*Arc, 0, len(s.Arcs))}
	for _, a := range s.Arcs {
		out.Arcs = append(out.Arcs, a.Clone())
	}
	return out
}

func (a *Arc) Clone() *Arc {
	out := &Arc{
		ID:       a.ID,
		Title:    a.Title,
		Summary:  a.Summary,
		Rating:   a.Rating,
		Mappings: make([]*Mapping, 0, len(a.Mappings)),
		Chat:     make([]*Post, 0, len(a.Chat)),
	}
	for _, m := range a.Mappings {
		cp := *m
		out.Mappings = append(out.Mappings, &cp)
	}
	for _, p := range a.Chat {
		cp := *p
		if p.ParentID != nil {
			parent := *p.ParentID
			cp.ParentID = &parent
		}
		out.Chat = append(out.Chat, &cp)
	}
	return out
}

// Normalize replaces nil collections with empty ones so the tree
// always serializes lists as [] instead of null.
func (r *Root) Normalize() {
	if r.Series == nil {
		r.Series = []*Series{}
	}
	for _, s := range r.Series {
		if s.Arcs == nil {
			s.Arcs = []*Arc{}
		}
		for _, a := range s.Arcs {
			if a.Mappings == nil {
				a.Mappings = []*Mapping{}
			}
			if a.Chat == nil {
				a.Chat = []*Post{}
			}
		}
	}
}
