package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrInvalidInput is returned when submitted book fields fail validation.
var ErrInvalidInput = errors.New("invalid book input")

// DateLayout is the format of read dates on the wire and in forms.
const DateLayout = "2006-01-02"

// Book represents a book entity.
type Book struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	CoverURL string    `json:"cover_url"`
	Rating   float64   `json:"rating"`
	ReadDate time.Time `json:"read_date"`
}

// ReadDateString formats the read date for display and form values.
func (b Book) ReadDateString() string {
	if b.ReadDate.IsZero() {
		return ""
	}
	return b.ReadDate.Format(DateLayout)
}

// SortKey selects the ordering of List.
type SortKey string

const (
	SortByReadDate SortKey = "read_date"
	SortByRating   SortKey = "rating"
	SortByTitle    SortKey = "title"
)

// ParseSortKey maps the sort_by query value to a SortKey. Unknown values
// fall back to SortByReadDate.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByRating:
		return SortByRating
	case SortByTitle:
		return SortByTitle
	default:
		return SortByReadDate
	}
}
