package book

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRating(t *testing.T) {
	testCases := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"4.5", 4.5, true},
		{"0", 0, true},
		{"5", 5, true},
		{" 3 ", 3, true},
		{"5.01", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRating(tc.in)
			if !tc.valid {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSubmission_Validate(t *testing.T) {
	t.Run("valid submission is trimmed and parsed", func(t *testing.T) {
		in, err := Submission{
			Title:    "  Dune ",
			Author:   "Frank Herbert",
			Rating:   "4.5",
			ReadDate: "2024-01-01",
		}.Validate()
		require.NoError(t, err)

		assert.Equal(t, "Dune", in.Title)
		assert.Equal(t, "Frank Herbert", in.Author)
		assert.Equal(t, 4.5, in.Rating)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), in.ReadDate)
	})

	t.Run("empty submission reports every field", func(t *testing.T) {
		_, err := Submission{}.Validate()
		require.ErrorIs(t, err, ErrInvalidInput)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))

		fields := map[string]string{}
		for _, f := range verr.Fields {
			fields[f.Field] = f.Message
		}
		assert.Equal(t, "title is required", fields["title"])
		assert.Equal(t, "author is required", fields["author"])
		assert.Equal(t, "rating is required", fields["rating"])
		assert.Equal(t, "read_date is required", fields["read_date"])
	})

	t.Run("whitespace-only title is rejected", func(t *testing.T) {
		_, err := Submission{Title: "   ", Author: "A", Rating: "3", ReadDate: "2024-01-01"}.Validate()
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("bad rating and date", func(t *testing.T) {
		_, err := Submission{Title: "Dune", Author: "Frank Herbert", Rating: "great", ReadDate: "01/02/2024"}.Validate()

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Fields, 2)
		assert.Contains(t, err.Error(), "read_date must be a date in YYYY-MM-DD format")
		assert.Contains(t, err.Error(), "rating must be a number between 0 and 5")
	})
}
