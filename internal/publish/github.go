// Package publish commits the current database to a versioned GitHub
// repository through the contents API. The revision token (blob sha)
// read before each write lets GitHub itself detect concurrent external
// writers; this side does no locking of its own.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "mla-linker-bot"
)

// GitHubClient talks to the repository contents API.
type GitHubClient struct {
	Client  *http.Client
	BaseURL string

	Token  string
	Owner  string
	Repo   string
	Branch string
}

func NewGitHubClient(token, owner, repo, branch string) *GitHubClient {
	return &GitHubClient{
		Client:  &http.Client{Timeout: 15 * time.Second},
		BaseURL: defaultBaseURL,
		Token:   token,
		Owner:   owner,
		Repo:    repo,
		Branch:  branch,
	}
}

// Configured reports whether every required setting is present.
func (g *GitHubClient) Configured() bool {
	return g.Token != "" && g.Owner != "" && g.Repo != "" && g.Branch != ""
}

func (g *GitHubClient) contentsURL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.BaseURL, g.Owner, g.Repo, strings.Join(segments, "/"))
}

// ReadSHA fetches the revision token of the file at path on the
// configured branch. A missing file is not an error: it returns "".
func (g *GitHubClient) ReadSHA(ctx context.Context, path string) (string, error) {
	u := g.contentsURL(path) + "?ref=" + url.QueryEscape(g.Branch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("github: build read request: %w", err)
	}
	g.decorate(req)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("github: read existing file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to read existing file: %s", strings.TrimSpace(string(text)))
	}

	var payload struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("github: decode read response: %w", err)
	}
	return payload.SHA, nil
}

type commitRequest struct {
	Message   string       `json:"message"`
	Content   string       `json:"content"`
	SHA       string       `json:"sha,omitempty"`
	Branch    string       `json:"branch"`
	Committer commitAuthor `json:"committer"`
	Author    commitAuthor `json:"author"`
}

type commitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PutFile writes base64 content as a new revision of path, tied to the
// sha read beforehand (empty sha creates the file). It returns the
// commit's html URL.
func (g *GitHubClient) PutFile(ctx context.Context, path, content, sha, message, authorName, authorEmail string) (string, error) {
	body, err := json.Marshal(commitRequest{
		Message:   message,
		Content:   content,
		SHA:       sha,
		Branch:    g.Branch,
		Committer: commitAuthor{Name: authorName, Email: authorEmail},
		Author:    commitAuthor{Name: authorName, Email: authorEmail},
	})
	if err != nil {
		return "", fmt.Errorf("github: marshal commit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("github: build commit request: %w", err)
	}
	g.decorate(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("github: commit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		text, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("github commit failed: %s", strings.TrimSpace(string(text)))
	}

	var payload struct {
		Commit struct {
			HTMLURL string `json:"html_url"`
		} `json:"commit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("github: decode commit response: %w", err)
	}
	return payload.Commit.HTMLURL, nil
}

func (g *GitHubClient) decorate(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("User-Agent", userAgent)
}
