package cart

import (
	"context"

	"github.com/google/uuid"
)

// Service answers questions about a shopper's cart on the storefront.
// The wizard only ever needs these two predicates.
type Service interface {
	IsEmpty(ctx context.Context, shopperID uuid.UUID) (bool, error)
	// HasBookableItem reports whether the cart holds at least one
	// line item of a bookable product type.
	HasBookableItem(ctx context.Context, shopperID uuid.UUID) (bool, error)
}
