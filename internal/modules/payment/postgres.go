package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/georgemunganga/localmarket/internal/api"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func int64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func (r *postgresRepo) GetPayableOrders(ctx context.Context, ids []int) ([]*PayableOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.reference_number, o.buyer_id, o.vendor_id, v.business_name, v.commission_rate,
		       o.status, o.total_price, o.delivery_fee
		FROM orders o
		JOIN vendors v ON v.id = o.vendor_id
		WHERE o.id = ANY($1)
		ORDER BY o.id`, pq.Array(int64s(ids)))
	if err != nil {
		return nil, fmt.Errorf("get payable orders: %w", err)
	}
	defer rows.Close()

	orders := []*PayableOrder{}
	for rows.Next() {
		o := &PayableOrder{}
		if err := rows.Scan(&o.ID, &o.ReferenceNumber, &o.BuyerID, &o.VendorID, &o.VendorName,
			&o.CommissionRate, &o.Status, &o.TotalPrice, &o.DeliveryFee); err != nil {
			return nil, fmt.Errorf("scan payable order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) CreateIntent(ctx context.Context, in *Intent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payment_intents
		  (id, client_secret, buyer_id, vendor_id, amount, currency, commission, vendor_payout, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		in.ID, in.ClientSecret, in.BuyerID, in.VendorID, in.Amount, in.Currency,
		in.Commission, in.VendorPayout, in.Status,
	).Scan(&in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment intent: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payment_intent_orders (intent_id, order_id)
		SELECT $1, unnest($2::bigint[])`, in.ID, pq.Array(int64s(in.OrderIDs)))
	if err != nil {
		return fmt.Errorf("link intent orders: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepo) GetIntent(ctx context.Context, id string) (*Intent, error) {
	in := &Intent{}
	var orderIDs pq.Int64Array
	err := r.db.QueryRowContext(ctx, `
		SELECT pi.id, pi.client_secret, pi.buyer_id, pi.vendor_id, pi.amount, pi.currency,
		       pi.commission, pi.vendor_payout, pi.status, pi.created_at, pi.updated_at,
		       COALESCE(ARRAY(SELECT order_id FROM payment_intent_orders
		                      WHERE intent_id = pi.id ORDER BY order_id), '{}')
		FROM payment_intents pi
		WHERE pi.id = $1`, id,
	).Scan(&in.ID, &in.ClientSecret, &in.BuyerID, &in.VendorID, &in.Amount, &in.Currency,
		&in.Commission, &in.VendorPayout, &in.Status, &in.CreatedAt, &in.UpdatedAt, &orderIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment intent: %w", err)
	}
	in.OrderIDs = make([]int, len(orderIDs))
	for i, oid := range orderIDs {
		in.OrderIDs[i] = int(oid)
	}
	return in, nil
}

func (r *postgresRepo) UpdateIntentStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payment_intents SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update payment intent status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MarkOrdersPaid(ctx context.Context, intentID string, ids []int) (ConfirmResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ConfirmResult{}, err
	}
	defer tx.Rollback()

	// Lock the rows so concurrent confirmations count each order once.
	rows, err := tx.QueryContext(ctx,
		`SELECT status FROM orders WHERE id = ANY($1) FOR UPDATE`, pq.Array(int64s(ids)))
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("lock orders: %w", err)
	}
	locked := 0
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			rows.Close()
			return ConfirmResult{}, fmt.Errorf("scan order status: %w", err)
		}
		if status == api.OrderCancelled {
			rows.Close()
			return ConfirmResult{}, ErrOrdersNotPayable
		}
		locked++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ConfirmResult{}, err
	}
	if locked != len(ids) {
		return ConfirmResult{}, ErrOrdersNotFound
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $2, paid_at = NOW()
		WHERE id = ANY($1) AND status = $3`,
		pq.Array(int64s(ids)), api.OrderPaid, api.OrderPending)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("mark orders paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return ConfirmResult{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE payment_intents SET status = $2, updated_at = NOW() WHERE id = $1`,
		intentID, api.PaymentSucceeded); err != nil {
		return ConfirmResult{}, fmt.Errorf("update payment intent status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ConfirmResult{}, err
	}
	return ConfirmResult{Updated: int(n), AlreadyPaid: len(ids) - int(n)}, nil
}
