package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/platform/metrics"
)

// Service provides book ingestion and listing.
type Service struct {
	repo     Repository
	resolver CoverResolver
	metrics  *metrics.Metrics
}

// NewService creates a new book service. m may be nil.
func NewService(repo Repository, resolver CoverResolver, m *metrics.Metrics) *Service {
	return &Service{repo: repo, resolver: resolver, metrics: m}
}

// Create validates sub, resolves its cover and inserts a new book.
// Nothing is written unless every step before the insert succeeds.
func (s *Service) Create(ctx context.Context, sub Submission) (b Book, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveIngestion("create", resultOf(err), time.Since(start)) }()

	in, err := sub.Validate()
	if err != nil {
		return Book{}, err
	}

	cover, err := s.resolver.Resolve(ctx, in.Title, in.Author)
	if err != nil {
		return Book{}, fmt.Errorf("resolve cover: %w", err)
	}

	b = in.book(cover)
	if err := s.repo.Insert(ctx, &b); err != nil {
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

// Update validates sub, re-resolves the cover and overwrites every mutable
// field of the book with the given id. The cover is resolved again even
// when title and author are unchanged.
func (s *Service) Update(ctx context.Context, id int64, sub Submission) (b Book, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveIngestion("update", resultOf(err), time.Since(start)) }()

	in, err := sub.Validate()
	if err != nil {
		return Book{}, err
	}
	if id <= 0 {
		return Book{}, ErrNotFound
	}

	cover, err := s.resolver.Resolve(ctx, in.Title, in.Author)
	if err != nil {
		return Book{}, fmt.Errorf("resolve cover: %w", err)
	}

	b = in.book(cover)
	b.ID = id
	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, fmt.Errorf("update book %d: %w", id, err)
	}
	return b, nil
}

// List returns every book in the requested order.
func (s *Service) List(ctx context.Context, sort SortKey) ([]Book, error) {
	books, err := s.repo.List(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Delete removes the book with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}

func (in Input) book(cover string) Book {
	return Book{
		Title:    in.Title,
		Author:   in.Author,
		CoverURL: cover,
		Rating:   in.Rating,
		ReadDate: in.ReadDate,
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
