package arcs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arclinker/pkg/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewStore(newTestSnapshots(t), testSlot)
	h := NewHandler(store, nil)

	router := gin.New()
	h.RegisterRoutes(router.Group("/series"))
	router.GET("/search", h.Search)
	router.GET("/recommendations", h.Recommendations)
	router.GET("/export", h.Export)
	router.POST("/import", h.Import)
	return router, store
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateSeriesEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/series", gin.H{"name": "New Saga"})
	require.Equal(t, http.StatusCreated, w.Code)

	var series models.Series
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
	assert.Equal(t, "New Saga", series.Name)
	assert.NotEmpty(t, series.ID)

	w = doJSON(router, http.MethodPost, "/series", gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSeriesIncludesHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/series", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total  int `json:"total"`
		Series []struct {
			ID   string `json:"id"`
			Arcs []struct {
				ID     string `json:"id"`
				Health struct {
					Status       string `json:"status"`
					MissingCount int    `json:"missingCount"`
				} `json:"health"`
			} `json:"arcs"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)

	assert.Equal(t, "arc-aether-prologue", resp.Series[0].Arcs[0].ID)
	assert.Equal(t, "Gaps", resp.Series[0].Arcs[0].Health.Status)
	assert.Equal(t, 1, resp.Series[0].Arcs[0].Health.MissingCount)
	assert.Equal(t, "OK", resp.Series[0].Arcs[1].Health.Status)
}

func TestExportEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="mla-data.json"`)

	root, err := models.DecodeRoot(w.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, root.Series, 2)
}

func TestImportEndpointRejectsBadPayloadWithoutMutating(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()
	before := len(store.Load(ctx).Series)

	for _, payload := range []string{`{"nope": true}`, `{{{`, `{"series": 7}`} {
		req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewBufferString(payload))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	assert.Equal(t, before, len(store.Load(ctx).Series))
}

func TestImportEndpointMerges(t *testing.T) {
	router, store := newTestRouter(t)

	incoming := &models.Root{Series: []*models.Series{
		{ID: "series-chronicles", Name: "Chronicles Revised", Arcs: []*models.Arc{}},
		{ID: "series-fresh", Name: "Fresh Import", Arcs: []*models.Arc{}},
	}}

	w := doJSON(router, http.MethodPost, "/import", incoming)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "review changes before uploading")

	root := store.Load(context.Background())
	require.Len(t, root.Series, 3)

	replaced := root.FindSeries("series-chronicles")
	require.NotNil(t, replaced)
	assert.Equal(t, "Chronicles Revised", replaced.Name)
	assert.Empty(t, replaced.Arcs, "imported series replaces arcs wholesale")

	assert.NotNil(t, root.FindSeries("series-moonforge"), "series absent from import survive")
	assert.NotNil(t, root.FindSeries("series-fresh"))
}

func TestSearchEndpointCapsResults(t *testing.T) {
	router, store := newTestRouter(t)

	ctx := context.Background()
	series, err := store.AddSeries(ctx, "Cap Fixture")
	require.NoError(t, err)
	for i := 0; i < 60; i++ {
		_, err := store.AddArc(ctx, series.ID, "Shared Phrase", "", nil)
		require.NoError(t, err)
	}

	w := doJSON(router, http.MethodGet, "/search?q=shared+phrase", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int               `json:"total"`
		Limit int               `json:"limit"`
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 60, resp.Total)
	assert.Equal(t, 50, resp.Limit)
	assert.Len(t, resp.Items, 50)
}

func TestRecommendationsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Gaps     []json.RawMessage `json:"gaps"`
		TopRated []json.RawMessage `json:"top_rated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Gaps, 2)
	assert.Len(t, resp.TopRated, 2)
}

func TestMappingEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	base := "/series/series-chronicles/arcs/arc-aether-prologue"

	w := doJSON(router, http.MethodPost, base+"/mappings", gin.H{"label": "New Beat"})
	require.Equal(t, http.StatusCreated, w.Code)

	var m models.Mapping
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "New Beat", m.Label)

	w = doJSON(router, http.MethodPut, base+"/mappings/"+m.ID, gin.H{"anime": "Episode 2"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, base+"/mappings/"+m.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, base+"/mappings/"+m.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
