package publish

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"arclinker/pkg/models"
)

const (
	// DefaultPath is where the published snapshot lands in the target
	// repository unless the caller picks another location.
	DefaultPath = "data/mla-data.json"

	defaultMessage     = "Update MLA data"
	defaultAuthorName  = "MLA Contributor"
	defaultAuthorEmail = "mla@example.com"
)

type Handler struct {
	Client *GitHubClient
}

func NewHandler(client *GitHubClient) *Handler {
	return &Handler{Client: client}
}

// RegisterRoutes mounts the submit endpoint on every verb so non-POST
// requests can be answered with an explicit 405.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Any("/submit", h.Submit)
}

type submitReq struct {
	DB          *models.Root `json:"db"`
	Path        string       `json:"path"`
	Message     string       `json:"message"`
	AuthorName  string       `json:"authorName"`
	AuthorEmail string       `json:"authorEmail"`
}

// Submit publishes the posted database as a commit:
// read the current revision token, put the pretty-printed JSON as a
// new revision, answer with the commit URL. Publishing never touches
// local state, and two overlapping submits race without coordination;
// the versioned store is what detects conflicting writers.
func (h *Handler) Submit(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	if h.Client == nil || !h.Client.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing GitHub configuration."})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body."})
		return
	}

	var req submitReq
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload."})
		return
	}
	if req.DB == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Payload missing "db" object.`})
		return
	}

	path := req.Path
	if path == "" {
		path = DefaultPath
	}
	message := req.Message
	if message == "" {
		message = defaultMessage
	}
	authorName := req.AuthorName
	if authorName == "" {
		authorName = defaultAuthorName
	}
	authorEmail := req.AuthorEmail
	if authorEmail == "" {
		authorEmail = defaultAuthorEmail
	}

	ctx := c.Request.Context()

	sha, err := h.Client.ReadSHA(ctx, path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("publish: read revision failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pretty, err := models.EncodeRoot(req.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	content := base64.StdEncoding.EncodeToString(pretty)

	commitURL, err := h.Client.PutFile(ctx, path, content, sha, message, authorName, authorEmail)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("publish: commit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"commitUrl": commitURL})
}
