package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `
	p.id, p.vendor_id, v.business_name, p.name, COALESCE(p.description, ''), p.category,
	p.price, p.unit, p.stock_quantity, p.is_active, COALESCE(p.image_url, ''),
	p.images, p.tags, p.created_at, p.updated_at`

func scanProduct(scan func(...any) error) (*Product, error) {
	p := &Product{}
	err := scan(&p.ID, &p.VendorID, &p.VendorName, &p.Name, &p.Description, &p.Category,
		&p.Price, &p.Unit, &p.StockQuantity, &p.IsActive, &p.ImageURL,
		pq.Array(&p.Images), pq.Array(&p.Tags), &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]*Product, int, error) {
	where := ` WHERE p.is_active = true`
	args := []any{}
	n := 1
	if f.Category != "" {
		where += fmt.Sprintf(` AND p.category = $%d`, n)
		args = append(args, f.Category)
		n++
	}
	if f.Search != "" {
		where += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.description ILIKE $%d)`, n, n)
		args = append(args, "%"+f.Search+"%")
		n++
	}
	if f.MinPrice != nil {
		where += fmt.Sprintf(` AND p.price >= $%d`, n)
		args = append(args, *f.MinPrice)
		n++
	}
	if f.MaxPrice != nil {
		where += fmt.Sprintf(` AND p.price <= $%d`, n)
		args = append(args, *f.MaxPrice)
		n++
	}
	from := ` FROM products p JOIN vendors v ON v.id = p.vendor_id`

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT` + productColumns + from + where +
		fmt.Sprintf(` ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`, n, n+1)
	rows, err := r.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+productColumns+`,
		       (SELECT COUNT(*) FROM buying_groups g
		         WHERE g.product_id = p.id AND g.status = 'open' AND g.expires_at > NOW())
		FROM products p JOIN vendors v ON v.id = p.vendor_id
		WHERE p.id = $1 AND p.is_active = true`, id)

	var groups int
	p, err := scanProduct(func(dest ...any) error {
		return row.Scan(append(dest, &groups)...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.ActiveBuyingGroups = groups
	return p, nil
}
