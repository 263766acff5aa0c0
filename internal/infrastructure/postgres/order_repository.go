package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guided-checkout/guided-checkout/internal/domain/order"
)

// OrderRepository implements order.Pipeline: the wizard handoff writes
// a pending order, its metadata rows and an order note in one
// transaction, for the storefront checkout to pick up.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) AttachMetadata(ctx context.Context, shopperID uuid.UUID, meta order.Metadata) error {
	formData, err := json.Marshal(meta.FormData)
	if err != nil {
		return fmt.Errorf("marshal form data: %w", err)
	}
	signatureData, err := json.Marshal(meta.SignatureData)
	if err != nil {
		return fmt.Errorf("marshal signature data: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin handoff tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderID := uuid.New()
	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (order_id, shopper_id, status, created_at)
		VALUES ($1,$2,$3,$4)
	`, orderID, shopperID, order.StatusPending, now); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	metaRows := []struct {
		key   string
		value []byte
	}{
		{order.MetaKeyFormData, formData},
		{order.MetaKeySignature, signatureData},
		{order.MetaKeyWizardVersion, mustJSON(meta.WizardVersion)},
	}
	for _, m := range metaRows {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_meta (order_id, meta_key, meta_value)
			VALUES ($1,$2,$3)
		`, orderID, m.key, m.value); err != nil {
			return fmt.Errorf("insert order meta %s: %w", m.key, err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO order_notes (order_id, note, created_at)
		VALUES ($1,$2,$3)
	`, orderID, "Order created via guided checkout", now); err != nil {
		return fmt.Errorf("insert order note: %w", err)
	}

	return tx.Commit(ctx)
}

func mustJSON(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}
