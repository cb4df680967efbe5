package arcs

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"arclinker/internal/merge"
	"arclinker/internal/recommend"
	"arclinker/internal/search"
	"arclinker/internal/watch"
	"arclinker/pkg/models"
)

const (
	searchResultCap   = 50
	recommendationCap = 10
	exportFilename    = "mla-data.json"
)

// Search runs the tree scan for ?q= and truncates for presentation.
// The scan itself is uncapped; only the response is.
func (h *Handler) Search(c *gin.Context) {
	root := h.Store.Load(c.Request.Context())
	matches := search.Scan(root, c.Query("q"))

	total := len(matches)
	if total > searchResultCap {
		matches = matches[:searchResultCap]
	}
	if matches == nil {
		matches = []search.Match{}
	}
	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"limit": searchResultCap,
		"items": matches,
	})
}

// Recommendations returns the three triage buckets, each capped to the
// top entries for display.
func (h *Handler) Recommendations(c *gin.Context) {
	buckets := recommend.Build(h.Store.Load(c.Request.Context()))

	c.JSON(http.StatusOK, gin.H{
		"gaps":       capEntries(buckets.Gaps),
		"mismatches": capEntries(buckets.Mismatches),
		"top_rated":  capEntries(buckets.TopRated),
	})
}

func capEntries(entries []recommend.Entry) []recommend.Entry {
	if entries == nil {
		return []recommend.Entry{}
	}
	if len(entries) > recommendationCap {
		return entries[:recommendationCap]
	}
	return entries
}

// Export offers the whole tree as a downloadable pretty-printed JSON
// file.
func (h *Handler) Export(c *gin.Context) {
	data, err := h.Store.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import merges an uploaded database into the live tree. The payload
// must pass the shape check; on any failure local state is untouched.
// A series present in both copies is replaced wholesale by the
// imported version, which can drop local-only arcs; the response nags
// the caller to review before publishing.
func (h *Handler) Import(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	incoming, err := models.DecodeRoot(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid MLA data"})
		return
	}

	ctx := c.Request.Context()
	merged := merge.Databases(h.Store.Load(ctx), incoming)
	h.Store.Replace(ctx, merged)

	h.notify(watch.EventDBReplace, "", "", "")
	c.JSON(http.StatusOK, gin.H{
		"message": "import complete",
		"note":    "review changes before uploading",
		"series":  len(merged.Series),
	})
}
