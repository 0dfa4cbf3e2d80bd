package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortByRating, ParseSortKey("rating"))
	assert.Equal(t, SortByTitle, ParseSortKey("title"))
	assert.Equal(t, SortByReadDate, ParseSortKey(""))
	assert.Equal(t, SortByReadDate, ParseSortKey("read_date"))
	assert.Equal(t, SortByReadDate, ParseSortKey("author"))
	assert.Equal(t, SortByReadDate, ParseSortKey("RATING"))
}

func TestBook_ReadDateString(t *testing.T) {
	assert.Equal(t, "", Book{}.ReadDateString())
	assert.Equal(t, "2024-01-01", Book{ReadDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}.ReadDateString())
}
