package watch

import "time"

// Event types mirror the mutation surface of the store: one event per
// committed change, plus db.replace for wholesale swaps after imports.
const (
	EventSeriesAdd     = "series.add"
	EventSeriesRemove  = "series.remove"
	EventArcAdd        = "arc.add"
	EventArcUpdate     = "arc.update"
	EventArcRemove     = "arc.remove"
	EventMappingAdd    = "mapping.add"
	EventMappingUpdate = "mapping.update"
	EventMappingRemove = "mapping.remove"
	EventDBReplace     = "db.replace"
)

type Event struct {
	Type      string    `json:"type"`
	SeriesID  string    `json:"series_id,omitempty"`
	ArcID     string    `json:"arc_id,omitempty"`
	MappingID string    `json:"mapping_id,omitempty"`
	At        time.Time `json:"at"`
}

func NewEvent(eventType, seriesID, arcID, mappingID string) Event {
	return Event{
		Type:      eventType,
		SeriesID:  seriesID,
		ArcID:     arcID,
		MappingID: mappingID,
		At:        time.Now().UTC(),
	}
}
