package store

import (
	"context"
	"errors"

	"github.com/dmitrymomot/mailkit/core/template"
)

// Store persists an ordered collection of email templates. Load and Save
// operate on the whole collection: templates are loaded before a send and
// the collection is written back after edits. Template order is preserved
// across round trips.
type Store interface {
	Load(ctx context.Context) ([]*template.Template, error)
	Save(ctx context.Context, templates []*template.Template) error
}

// Error variables for store failures.
var (
	ErrLoadFailed = errors.New("failed to load templates")
	ErrSaveFailed = errors.New("failed to save templates")
)
