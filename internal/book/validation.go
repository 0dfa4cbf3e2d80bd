package book

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Rating bounds accepted by ParseRating.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// Submission is the raw form input for a create or update.
type Submission struct {
	Title    string `form:"title" validate:"required,max=500"`
	Author   string `form:"author" validate:"required,max=500"`
	Rating   string `form:"rating" validate:"required"`
	ReadDate string `form:"read_date" validate:"required,datetime=2006-01-02"`
}

// Input is a Submission that passed validation.
type Input struct {
	Title    string
	Author   string
	Rating   float64
	ReadDate time.Time
}

// FieldError describes one rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of a Submission.
// It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Validate trims the submission and converts it into an Input.
func (s Submission) Validate() (Input, error) {
	s.Title = strings.TrimSpace(s.Title)
	s.Author = strings.TrimSpace(s.Author)
	s.Rating = strings.TrimSpace(s.Rating)
	s.ReadDate = strings.TrimSpace(s.ReadDate)

	var fields []FieldError
	rejected := make(map[string]bool)

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Input{}, err
		}
		for _, fe := range verrs {
			rejected[fe.Field()] = true
			fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}

	var rating float64
	if !rejected["rating"] {
		r, err := ParseRating(s.Rating)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return Input{}, err
			}
			fields = append(fields, verr.Fields...)
		}
		rating = r
	}

	var readDate time.Time
	if !rejected["read_date"] {
		d, err := time.Parse(DateLayout, s.ReadDate)
		if err != nil {
			fields = append(fields, FieldError{Field: "read_date", Message: "read_date must be a date in YYYY-MM-DD format"})
		}
		readDate = d
	}

	if len(fields) > 0 {
		return Input{}, &ValidationError{Fields: fields}
	}

	return Input{
		Title:    s.Title,
		Author:   s.Author,
		Rating:   rating,
		ReadDate: readDate,
	}, nil
}

// ParseRating parses a rating from form text. Non-numeric, non-finite and
// out of range values are rejected with a *ValidationError.
func ParseRating(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < MinRating || v > MaxRating {
		return 0, &ValidationError{Fields: []FieldError{{
			Field:   "rating",
			Message: fmt.Sprintf("rating must be a number between %g and %g", MinRating, MaxRating),
		}}}
	}
	return v, nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
