package page

import (
	"context"
	"time"
)

// Page is a storefront content page bound to a wizard step.
type Page struct {
	ID        int64     `json:"id"`
	Step      int       `json:"step"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Published bool      `json:"published"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository defines persistence for the step page map. The map is
// configuration owned by the storefront; the wizard only reads it.
type Repository interface {
	// GetByStep returns the page for a step, or nil when none is
	// configured.
	GetByStep(ctx context.Context, step int) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
}

// Resolver maps a step number to a browseable URL. An empty URL with
// a nil error means the step has no published page.
type Resolver interface {
	ResolveURL(ctx context.Context, step int) (string, error)
}
