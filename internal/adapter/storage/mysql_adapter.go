package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clayshop/storefront/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateCheckout(ctx context.Context, rec domain.CheckoutRecord) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO checkouts (id, session_id, intent_id, amount_cents, currency, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.IntentID, rec.AmountCents, rec.Currency,
		rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert checkout: %w", err)
	}

	return nil
}

// MarkStatus records a gateway-reported status. Rows that already settled
// are left alone, so a late or repeated poll cannot rewrite a succeeded
// checkout.
func (m *MySQLAdapter) MarkStatus(ctx context.Context, intentID string, status domain.PaymentStatus) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE checkouts
		SET status = ?, updated_at = NOW()
		WHERE intent_id = ? AND status <> ?`,
		status, intentID, domain.PaymentStatusSucceeded,
	)
	if err != nil {
		return false, fmt.Errorf("update checkout status: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
