package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/application/service"
	"github.com/khoahotran/dev-connector/internal/config"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

const userAgent = "dev-connector"

// maxBodyBytes bounds how much of an upstream body is buffered.
const maxBodyBytes = 4 << 20

// UpstreamError is a non-200 answer from GitHub.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github responded with status %d", e.Status)
}

// TransportError means no usable response arrived, timeouts included.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("github request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	token        string
	perPage      int
	logger       logger.Logger
}

func NewClient(cfg config.Config, log logger.Logger) service.RepoGateway {
	return newClient(cfg, &http.Client{Timeout: cfg.GitHub.Timeout}, log)
}

func newClient(cfg config.Config, httpClient *http.Client, log logger.Logger) *Client {
	perPage := cfg.GitHub.PerPage
	if perPage <= 0 {
		perPage = 5
	}
	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimSuffix(cfg.GitHub.APIURL, "/"),
		clientID:     cfg.GitHub.ClientID,
		clientSecret: cfg.GitHub.ClientSecret,
		token:        cfg.GitHub.Token,
		perPage:      perPage,
		logger:       log,
	}
}

// FetchRepos lists the oldest-first repositories of username. Service
// credentials come from configuration, never from the caller.
func (c *Client) FetchRepos(ctx context.Context, username string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("sort", "created")
	q.Set("direction", "asc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	case c.clientID != "":
		req.SetBasicAuth(c.clientID, c.clientSecret)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	c.logger.Info("GitHub repos fetched",
		zap.String("username", username),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if !json.Valid(body) {
		return nil, &TransportError{Err: fmt.Errorf("invalid json body")}
	}
	return json.RawMessage(body), nil
}
