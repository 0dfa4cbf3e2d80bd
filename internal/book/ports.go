package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	// Insert stores b and sets b.ID to the identifier assigned by storage.
	Insert(ctx context.Context, b *Book) error
	List(ctx context.Context, sort SortKey) ([]Book, error)
	// Update overwrites every mutable field of the row with b.ID.
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
}

// CoverResolver derives a cover reference for a title and author.
type CoverResolver interface {
	Resolve(ctx context.Context, title, author string) (string, error)
}
