// Package post turns a single vault note into a publishable document.
package post

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/sowilo/internal/frontmatter"
)

// requiredFields lists the schema in reporting order. Keys match the
// frontmatter JSON tags that ozzo-validation uses for error keys.
var requiredFields = []struct {
	key   string
	label string
}{
	{"title", "title"},
	{"publishedAt", "date or publishedAt"},
	{"summary", "summary or description"},
	{"tags", "tags"},
}

// ValidationError names every required field a note is missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		msgs[i] = "missing required field: " + f
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// Validate checks fm against the required-field schema. All checks run; the
// returned *ValidationError lists every failure.
func Validate(fm frontmatter.Frontmatter) error {
	err := validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, validation.Required),
		validation.Field(&fm.PublishedAt, validation.Required),
		validation.Field(&fm.Summary, validation.Required),
		validation.Field(&fm.Tags, validation.Required),
	)
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return fmt.Errorf("post: validate: %w", err)
	}
	verr := &ValidationError{}
	for _, f := range requiredFields {
		if _, failed := errs[f.key]; failed {
			verr.Missing = append(verr.Missing, f.label)
		}
	}
	return verr
}
