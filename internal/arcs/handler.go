package arcs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"arclinker/internal/health"
	"arclinker/internal/watch"
	"arclinker/pkg/models"
)

type Handler struct {
	Store *Store
	Hub   *watch.Hub
}

func NewHandler(store *Store, hub *watch.Hub) *Handler {
	return &Handler{Store: store, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.listSeries)
	rg.POST("", h.createSeries)
	rg.GET("/:series_id", h.getSeries)
	rg.DELETE("/:series_id", h.removeSeries)

	rg.POST("/:series_id/arcs", h.createArc)
	rg.GET("/:series_id/arcs/:arc_id", h.getArc)
	rg.PUT("/:series_id/arcs/:arc_id", h.updateArc)
	rg.DELETE("/:series_id/arcs/:arc_id", h.removeArc)

	rg.POST("/:series_id/arcs/:arc_id/mappings", h.createMapping)
	rg.PUT("/:series_id/arcs/:arc_id/mappings/:mapping_id", h.updateMapping)
	rg.DELETE("/:series_id/arcs/:arc_id/mappings/:mapping_id", h.removeMapping)
}

// arcView decorates an arc with its computed health badge.
type arcView struct {
	*models.Arc
	Health health.ArcHealth `json:"health"`
}

type seriesView struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Arcs []arcView `json:"arcs"`
}

func viewSeries(s *models.Series) seriesView {
	v := seriesView{ID: s.ID, Name: s.Name, Arcs: make([]arcView, 0, len(s.Arcs))}
	for _, arc := range s.Arcs {
		v.Arcs = append(v.Arcs, arcView{Arc: arc, Health: health.ComputeArcHealth(arc)})
	}
	return v
}

func (h *Handler) listSeries(c *gin.Context) {
	root := h.Store.Load(c.Request.Context())

	out := make([]seriesView, 0, len(root.Series))
	for _, s := range root.Series {
		out = append(out, viewSeries(s))
	}
	c.JSON(http.StatusOK, gin.H{"total": len(out), "series": out})
}

func (h *Handler) createSeries(c *gin.Context) {
	var req createSeriesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	series, err := h.Store.AddSeries(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.notify(watch.EventSeriesAdd, series.ID, "", "")
	c.JSON(http.StatusCreated, series)
}

func (h *Handler) getSeries(c *gin.Context) {
	series, err := h.Store.FindSeries(c.Request.Context(), c.Param("series_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewSeries(series))
}

func (h *Handler) removeSeries(c *gin.Context) {
	seriesID := c.Param("series_id")
	if err := h.Store.RemoveSeries(c.Request.Context(), seriesID); err != nil {
		h.respondError(c, err)
		return
	}
	h.notify(watch.EventSeriesRemove, seriesID, "", "")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) createArc(c *gin.Context) {
	var req createArcReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seriesID := c.Param("series_id")
	arc, err := h.Store.AddArc(c.Request.Context(), seriesID, req.Title, req.Summary, req.Rating)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.notify(watch.EventArcAdd, seriesID, arc.ID, "")
	c.JSON(http.StatusCreated, arcView{Arc: arc, Health: health.ComputeArcHealth(arc)})
}

func (h *Handler) getArc(c *gin.Context) {
	arc, err := h.Store.FindArc(c.Request.Context(), c.Param("series_id"), c.Param("arc_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, arcView{Arc: arc, Health: health.ComputeArcHealth(arc)})
}

func (h *Handler) updateArc(c *gin.Context) {
	var req updateArcReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seriesID := c.Param("series_id")
	arcID := c.Param("arc_id")
	arc, err := h.Store.UpdateArc(c.Request.Context(), seriesID, arcID, ArcUpdate{
		Title:   req.Title,
		Summary: req.Summary,
		Rating:  req.Rating,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.notify(watch.EventArcUpdate, seriesID, arcID, "")
	c.JSON(http.StatusOK, arcView{Arc: arc, Health: health.ComputeArcHealth(arc)})
}

func (h *Handler) removeArc(c *gin.Context) {
	seriesID := c.Param("series_id")
	arcID := c.Param("arc_id")
	if err := h.Store.RemoveArc(c.Request.Context(), seriesID, arcID); err != nil {
		h.respondError(c, err)
		return
	}
	h.notify(watch.EventArcRemove, seriesID, arcID, "")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) createMapping(c *gin.Context) {
	var req createMappingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seriesID := c.Param("series_id")
	arcID := c.Param("arc_id")
	m, err := h.Store.AddMapping(c.Request.Context(), seriesID, arcID, MappingFields{
		Label: req.Label,
		Manga: req.Manga,
		LN:    req.LN,
		Anime: req.Anime,
		Notes: req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.notify(watch.EventMappingAdd, seriesID, arcID, m.ID)
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) updateMapping(c *gin.Context) {
	var req updateMappingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	seriesID := c.Param("series_id")
	arcID := c.Param("arc_id")
	mappingID := c.Param("mapping_id")
	m, err := h.Store.UpdateMapping(c.Request.Context(), seriesID, arcID, mappingID, MappingPatch{
		Label: req.Label,
		Manga: req.Manga,
		LN:    req.LN,
		Anime: req.Anime,
		Notes: req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.notify(watch.EventMappingUpdate, seriesID, arcID, mappingID)
	c.JSON(http.StatusOK, m)
}

func (h *Handler) removeMapping(c *gin.Context) {
	seriesID := c.Param("series_id")
	arcID := c.Param("arc_id")
	mappingID := c.Param("mapping_id")
	if err := h.Store.RemoveMapping(c.Request.Context(), seriesID, arcID, mappingID); err != nil {
		h.respondError(c, err)
		return
	}
	h.notify(watch.EventMappingRemove, seriesID, arcID, mappingID)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) notify(eventType, seriesID, arcID, mappingID string) {
	if h.Hub == nil {
		return
	}
	go h.Hub.BroadcastJSON(watch.NewEvent(eventType, seriesID, arcID, mappingID))
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSeriesNotFound),
		errors.Is(err, ErrArcNotFound),
		errors.Is(err, ErrMappingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}
