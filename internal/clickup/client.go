// Package clickup provides a client for the parts of the ClickUp API the
// report pipeline needs: resolving the workspace, finding the report doc,
// and fetching the month page content as markdown.
package clickup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aatumaykin/reportbot/internal/config"
	"github.com/aatumaykin/reportbot/internal/logger"
	"github.com/aatumaykin/reportbot/internal/retry"
)

// Sentinel errors for the lookup chain.
var (
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrPageContentMissing = errors.New("page content missing")
)

// Client talks to the ClickUp v2 and v3 APIs.
type Client struct {
	cfg    config.ClickUpConfig
	http   *http.Client
	logger *logger.Logger
}

// New creates a ClickUp client with the configured request timeout.
func New(cfg config.ClickUpConfig, log *logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: log,
	}
}

type team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type teamsResponse struct {
	Teams []team `json:"teams"`
}

type doc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type docsResponse struct {
	Docs []doc `json:"docs"`
}

type page struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Pages   []page `json:"pages"`
}

// pagesResponse tolerates the two shapes the pages endpoint has been seen
// returning: a bare array, or an object wrapping the list under "pages" or
// "docs".
type pagesResponse struct {
	pages []page
}

func (r *pagesResponse) UnmarshalJSON(data []byte) error {
	var bare []page
	if err := json.Unmarshal(data, &bare); err == nil {
		r.pages = bare
		return nil
	}

	var wrapped struct {
		Pages []page `json:"pages"`
		Docs  []page `json:"docs"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Pages != nil {
		r.pages = wrapped.Pages
	} else {
		r.pages = wrapped.Docs
	}
	return nil
}

// GetAuthorizedWorkspace returns the ID of the configured workspace.
func (c *Client) GetAuthorizedWorkspace(ctx context.Context) (string, error) {
	var resp teamsResponse
	if err := c.getJSON(ctx, c.cfg.V2BaseURL+"/team", nil, &resp); err != nil {
		return "", fmt.Errorf("listing workspaces: %w", err)
	}

	for _, t := range resp.Teams {
		if t.Name == c.cfg.WorkspaceName {
			return t.ID, nil
		}
	}

	return "", fmt.Errorf("workspace %q not found: %w", c.cfg.WorkspaceName, ErrWorkspaceNotFound)
}

// SearchForDoc returns the ID of the configured report document inside the
// workspace.
func (c *Client) SearchForDoc(ctx context.Context, workspaceID string) (string, error) {
	query := url.Values{}
	query.Set("deleted", "false")
	query.Set("archived", "false")
	query.Set("limit", "50")

	var resp docsResponse
	endpoint := fmt.Sprintf("%s/workspaces/%s/docs", c.cfg.V3BaseURL, workspaceID)
	if err := c.getJSON(ctx, endpoint, query, &resp); err != nil {
		return "", fmt.Errorf("listing docs: %w", err)
	}

	for _, d := range resp.Docs {
		if d.Name == c.cfg.DocumentName {
			return d.ID, nil
		}
	}

	return "", fmt.Errorf("doc %q not found: %w", c.cfg.DocumentName, ErrDocumentNotFound)
}

// FetchPageContent fetches the document page tree and returns the markdown
// content of the configured month page nested under the configured year page.
func (c *Client) FetchPageContent(ctx context.Context, workspaceID, docID string) (string, error) {
	query := url.Values{}
	query.Set("max_page_depth", "-1")
	query.Set("content_format", "text/md")

	var resp pagesResponse
	endpoint := fmt.Sprintf("%s/workspaces/%s/docs/%s/pages", c.cfg.V3BaseURL, workspaceID, docID)
	if err := c.getJSON(ctx, endpoint, query, &resp); err != nil {
		return "", fmt.Errorf("fetching pages: %w", err)
	}

	for _, parent := range resp.pages {
		if parent.Name != c.cfg.YearPage {
			continue
		}
		for _, sub := range parent.Pages {
			if sub.Name == c.cfg.MonthPage && sub.Content != "" {
				return sub.Content, nil
			}
		}
	}

	return "", fmt.Errorf("content for page %q is empty or not found: %w", c.cfg.MonthPage, ErrPageContentMissing)
}

// getJSON performs an authorized GET and decodes the JSON response.
// Transient failures are retried with backoff.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	return retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		if query != nil {
			req.URL.RawQuery = query.Encode()
		}
		req.Header.Set("Authorization", c.cfg.APIKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			c.logger.Warn("clickup request failed",
				logger.Field{Key: "url", Value: req.URL.Path},
				logger.Field{Key: "status", Value: resp.StatusCode})
			return fmt.Errorf("clickup %s: status %d: %s", req.URL.Path, resp.StatusCode, string(body))
		}

		return json.NewDecoder(resp.Body).Decode(out)
	}, retry.Config{})
}
