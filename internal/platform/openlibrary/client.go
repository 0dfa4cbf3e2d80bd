package openlibrary

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

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://openlibrary.org"
	DefaultCoversURL = "https://covers.openlibrary.org"

	// DefaultMaxResponseBytes caps how much of a search response is read.
	DefaultMaxResponseBytes = 4 << 20
)

var errEmptyPayload = errors.New("empty payload")

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxBody    int64
}

// NewClient returns a client for the Open Library search API. Requests are
// spaced to at most rps per second; rps <= 0 disables the limiter.
func NewClient(baseURL, userAgent string, rps int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: userAgent,
		baseURL:   strings.TrimRight(baseURL, "/"),
		limiter:   limiter,
		maxBody:   DefaultMaxResponseBytes,
	}
}

// SearchDoc is one entry of search.json docs.
type SearchDoc struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	AuthorNames []string `json:"author_name"`
	ISBN        []string `json:"isbn"`
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// SearchByTitleAuthor runs one search.json query by title and author.
func (c *Client) SearchByTitleAuthor(ctx context.Context, title, author string) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("title", title)
	q.Set("author", author)
	u := c.baseURL + "/search.json?" + q.Encode()

	var res SearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return decodeJSON(io.LimitReader(resp.Body, c.maxBody), target)
}

// decodeJSON reads exactly one JSON value into target. A bare null, a
// truncated body or anything after the value is an error.
func decodeJSON(r io.Reader, target interface{}) error {
	dec := json.NewDecoder(r)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("decode response: %w", errEmptyPayload)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("decode response: unexpected data after payload")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
