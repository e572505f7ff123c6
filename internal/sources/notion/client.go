package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/navdeck/internal/logger"
	"github.com/MrSnakeDoc/navdeck/internal/utils"
	"github.com/MrSnakeDoc/navdeck/internal/version"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"

	// maxBody caps how much of a response is read.
	maxBody = 16 << 20
)

// ClientOptions configures the upstream API client.
type ClientOptions struct {
	BaseURL    string
	Token      string
	Version    string        // Notion-Version header
	Timeout    time.Duration // per request, ignored when HTTPClient is set
	HTTPClient *http.Client
}

// Client talks to the Notion REST API. It is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	version string
	http    *http.Client
	log     logger.Logger
}

func NewClient(opts ClientOptions, log logger.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		version: opts.Version,
		http:    hc,
		log:     log,
	}
}

// QueryDatabase fetches one page of records (POST /v1/databases/{id}/query).
func (c *Client) QueryDatabase(ctx context.Context, sourceID string, req QueryRequest) (QueryResponse, error) {
	var resp QueryResponse
	payload, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("notion marshal query: %w", err)
	}
	err = c.do(ctx, http.MethodPost, databasePath(sourceID, "query"), payload, &resp)
	return resp, err
}

// RetrieveDatabase fetches the database object (GET /v1/databases/{id}).
func (c *Client) RetrieveDatabase(ctx context.Context, sourceID string) (Database, error) {
	var db Database
	err := c.do(ctx, http.MethodGet, databasePath(sourceID, ""), nil, &db)
	return db, err
}

func databasePath(id, action string) string {
	p := "/v1/databases/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

// do performs the request and decodes a 2xx body into out. Failures are
// returned as *FetchError with Page set to -1; callers that paginate
// overwrite it.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any) error {
	fail := func(f Failure, status int, err error) error {
		return &FetchError{Page: -1, Failure: f, Status: status, Err: err}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fail(FailureInvalidSource, 0, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fail(FailureCanceled, 0, ctx.Err())
		}
		return fail(FailureUnreachable, 0, err)
	}
	defer utils.DrainAndClose(resp.Body)

	c.log.Debug("notion request",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(classifyStatus(resp.StatusCode), resp.StatusCode, apiError(resp.Body))
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBody))
	if err := dec.Decode(out); err != nil {
		if ctx.Err() != nil {
			return fail(FailureCanceled, resp.StatusCode, ctx.Err())
		}
		return fail(FailureMalformed, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func classifyStatus(status int) Failure {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return FailureRejected
	case status == http.StatusTooManyRequests || status >= 500:
		return FailureUnreachable
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		return FailureInvalidSource
	default:
		return FailureMalformed
	}
}

// apiError extracts the upstream error message, if any.
func apiError(r io.Reader) error {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil || body.Message == "" {
		return errors.New("unexpected upstream response")
	}
	if body.Code != "" {
		return fmt.Errorf("%s: %s", body.Code, body.Message)
	}
	return errors.New(body.Message)
}
