package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/platform/metrics"
)

// DefaultPlaceholder is the cover reference stored when no cover can be derived.
const DefaultPlaceholder = "/path/to/placeholder.jpg"

// ErrLookup wraps every failure of the search request: transport errors,
// non-200 responses and undecodable payloads.
var ErrLookup = errors.New("open library lookup failed")

type Searcher interface {
	SearchByTitleAuthor(ctx context.Context, title, author string) (*SearchResponse, error)
}

// Resolver derives a cover reference from the first search result.
type Resolver struct {
	searcher    Searcher
	coversURL   string
	placeholder string
	metrics     *metrics.Metrics
}

func NewResolver(searcher Searcher, coversURL, placeholder string, m *metrics.Metrics) *Resolver {
	if coversURL == "" {
		coversURL = DefaultCoversURL
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Resolver{
		searcher:    searcher,
		coversURL:   strings.TrimRight(coversURL, "/"),
		placeholder: placeholder,
		metrics:     m,
	}
}

// Resolve performs one search and returns the medium cover URL of the first
// ISBN of the first result, or the placeholder when there is no match or the
// match carries no ISBN. The first result is taken as is.
func (r *Resolver) Resolve(ctx context.Context, title, author string) (string, error) {
	res, err := r.searcher.SearchByTitleAuthor(ctx, title, author)
	if err != nil {
		r.metrics.ObserveCoverLookup("error")
		return "", fmt.Errorf("%w: %w", ErrLookup, err)
	}

	if res.NumFound <= 0 || len(res.Docs) == 0 {
		r.metrics.ObserveCoverLookup("no_match")
		return r.placeholder, nil
	}

	doc := res.Docs[0]
	if len(doc.ISBN) == 0 || doc.ISBN[0] == "" {
		r.metrics.ObserveCoverLookup("no_isbn")
		return r.placeholder, nil
	}

	r.metrics.ObserveCoverLookup("match")
	return CoverURL(r.coversURL, doc.ISBN[0]), nil
}

// CoverURL builds the medium-size cover image URL for an ISBN.
func CoverURL(coversURL, isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-M.jpg", coversURL, isbn)
}
