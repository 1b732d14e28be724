// Package validation checks bookmark input before it reaches storage.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so clients see the fields they sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BookmarkInput is the body of a create request and one seed file entry.
type BookmarkInput struct {
	Title       string `json:"title" yaml:"title" validate:"required,max=255"`
	URL         string `json:"url" yaml:"url" validate:"required,http_url"`
	Description string `json:"description" yaml:"description" validate:"max=2000"`
	Rating      *int   `json:"rating" yaml:"rating" validate:"omitnil,min=1,max=5"`
}

// Trim strips surrounding whitespace from the text fields, so a title of
// spaces is reported as missing.
func (in BookmarkInput) Trim() BookmarkInput {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// ToNewBookmark converts validated input.
func (in BookmarkInput) ToNewBookmark() domain.NewBookmark {
	return domain.NewBookmark{
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Rating:      in.Rating,
	}
}

// BookmarkPatchInput is the body of an update request. Absent fields stay nil.
type BookmarkPatchInput struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	URL         *string `json:"url" validate:"omitnil,http_url"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Rating      *int    `json:"rating" validate:"omitnil,min=1,max=5"`
}

// Trim strips surrounding whitespace from the text fields that are set.
func (in BookmarkPatchInput) Trim() BookmarkPatchInput {
	in.Title = trimPtr(in.Title)
	in.URL = trimPtr(in.URL)
	in.Description = trimPtr(in.Description)
	return in
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// ToPatch converts validated input.
func (in BookmarkPatchInput) ToPatch() domain.BookmarkPatch {
	return domain.BookmarkPatch{
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Rating:      in.Rating,
	}
}

// Bookmark validates a create request.
func Bookmark(ctx context.Context, in BookmarkInput) error {
	return check(ctx, in)
}

// BookmarkPatch validates an update request. A patch setting no field is rejected.
func BookmarkPatch(ctx context.Context, in BookmarkPatchInput) error {
	if in.ToPatch().IsEmpty() {
		return domain.NewValidationError("body", "at least one field is required")
	}
	return check(ctx, in)
}

func check(ctx context.Context, s any) error {
	err := validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:  fe.Field(),
			Reason: reason(fe),
		})
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "http_url":
		return "must be an absolute http(s) URL"
	case "min":
		if fe.Kind() == reflect.String {
			return "must not be empty"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
