package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/localmarket/internal/api"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND is_active AND stock_quantity >= $2`, o.ProductID, o.Quantity)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductUnavailable
	}

	var addressID any
	if o.DeliveryAddress != nil {
		addressID = o.DeliveryAddress.ID
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
		  (reference_number, buyer_id, vendor_id, product_id, quantity, unit_price,
		   total_price, delivery_fee, status, delivery_method, delivery_address_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`,
		o.ReferenceNumber, o.BuyerID, o.VendorID, o.ProductID, o.Quantity, o.UnitPrice,
		o.TotalPrice, o.DeliveryFee, o.Status, o.DeliveryMethod, addressID,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return tx.Commit()
}

const selectOrderSQL = `
	SELECT o.id, o.reference_number, o.buyer_id, o.vendor_id, v.user_id, v.business_name,
	       o.product_id, p.name, o.quantity, o.unit_price, o.total_price, o.delivery_fee,
	       o.status, o.delivery_method, o.paid_at, o.created_at,
	       a.id, a.address_line1, a.address_line2, a.city, a.postcode, a.country, a.is_default
	FROM orders o
	JOIN vendors v ON v.id = o.vendor_id
	JOIN products p ON p.id = o.product_id
	LEFT JOIN addresses a ON a.id = o.delivery_address_id`

func scanOrder(scan func(...any) error) (*Order, error) {
	o := &Order{}
	var paidAt sql.NullTime
	var addrID sql.NullInt64
	var line1, line2, city, postcode, country sql.NullString
	var isDefault sql.NullBool
	err := scan(
		&o.ID, &o.ReferenceNumber, &o.BuyerID, &o.VendorID, &o.VendorUserID, &o.VendorName,
		&o.ProductID, &o.ProductName, &o.Quantity, &o.UnitPrice, &o.TotalPrice, &o.DeliveryFee,
		&o.Status, &o.DeliveryMethod, &paidAt, &o.CreatedAt,
		&addrID, &line1, &line2, &city, &postcode, &country, &isDefault)
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if addrID.Valid {
		o.DeliveryAddress = &Address{
			ID:           int(addrID.Int64),
			UserID:       o.BuyerID,
			AddressLine1: line1.String,
			AddressLine2: line2.String,
			City:         city.String,
			Postcode:     postcode.String,
			Country:      country.String,
			IsDefault:    isDefault.Bool,
		}
	}
	return o, nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id int) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrderSQL+` WHERE o.id = $1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *postgresRepo) ListOrdersByBuyer(ctx context.Context, buyerID int, status string, limit, offset int) ([]*Order, int, error) {
	return r.listOrders(ctx, `o.buyer_id = $1`, buyerID, status, limit, offset)
}

func (r *postgresRepo) ListOrdersByVendorUser(ctx context.Context, vendorUserID int, status string, limit, offset int) ([]*Order, int, error) {
	return r.listOrders(ctx, `v.user_id = $1`, vendorUserID, status, limit, offset)
}

// listOrders pages through orders matching owner, a condition on $1.
func (r *postgresRepo) listOrders(ctx context.Context, owner string, ownerID int, status string, limit, offset int) ([]*Order, int, error) {
	where := ` WHERE ` + owner
	args := []any{ownerID}
	if status != "" {
		where += ` AND o.status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders o JOIN vendors v ON v.id = o.vendor_id`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	n := len(args)
	query := selectOrderSQL + where +
		fmt.Sprintf(` ORDER BY o.created_at DESC, o.id DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int, from, to string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var productID, quantity int
	err = tx.QueryRowContext(ctx, `
		UPDATE orders SET status = $3 WHERE id = $1 AND status = $2
		RETURNING product_id, quantity`, id, from, to).Scan(&productID, &quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidTransition
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if to == api.OrderCancelled {
		if _, err := tx.ExecContext(ctx, `
			UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = NOW()
			WHERE id = $1`, productID, quantity); err != nil {
			return fmt.Errorf("release stock: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetProductPrice(ctx context.Context, productID int) (*ProductPrice, error) {
	pp := &ProductPrice{}
	err := r.db.QueryRowContext(ctx, `
		SELECT vendor_id, price, stock_quantity, is_active FROM products WHERE id = $1`, productID,
	).Scan(&pp.VendorID, &pp.Price, &pp.Stock, &pp.Available)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("get product price: %w", err)
	}
	return pp, nil
}

const selectAddressSQL = `
	SELECT id, user_id, address_line1, COALESCE(address_line2, ''), city, postcode, country, is_default
	FROM addresses`

func scanAddress(scan func(...any) error) (*Address, error) {
	a := &Address{}
	if err := scan(&a.ID, &a.UserID, &a.AddressLine1, &a.AddressLine2, &a.City,
		&a.Postcode, &a.Country, &a.IsDefault); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *postgresRepo) GetAddress(ctx context.Context, userID, addressID int) (*Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx,
		selectAddressSQL+` WHERE id = $1 AND user_id = $2`, addressID, userID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: delivery_address not found", ErrInvalidOrder)
	}
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

func (r *postgresRepo) ListAddresses(ctx context.Context, userID int) ([]*Address, error) {
	rows, err := r.db.QueryContext(ctx,
		selectAddressSQL+` WHERE user_id = $1 ORDER BY is_default DESC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*Address{}
	for rows.Next() {
		a, err := scanAddress(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}
