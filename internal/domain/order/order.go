package order

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_pipeline.go -package=mocks . Pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Metadata is the captured wizard state handed to the order pipeline
// when the shopper finishes the last step.
type Metadata struct {
	FormData      map[string]string `json:"form_data"`
	SignatureData map[string]string `json:"signature_data"`
	WizardVersion string            `json:"wizard_version"`
}

// Pipeline receives the wizard handoff exactly once per completed
// session. The call is synchronous; failures surface to the caller.
type Pipeline interface {
	AttachMetadata(ctx context.Context, shopperID uuid.UUID, meta Metadata) error
}

// Order is a storefront order pending finalization, created by the
// handoff so checkout can pick the captured data up.
type Order struct {
	ID        int64     `json:"id"`
	OrderID   uuid.UUID `json:"orderId"`
	ShopperID uuid.UUID `json:"shopperId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

const StatusPending = "PENDING"

// Meta keys written by the handoff.
const (
	MetaKeyFormData      = "_wizard_form_data"
	MetaKeySignature     = "_wizard_signature"
	MetaKeyWizardVersion = "_wizard_version"
)
