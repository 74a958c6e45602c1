package buyinggroup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const groupColumns = `
	g.id, g.product_id, p.name, p.price, p.category, v.id, v.business_name,
	g.postcode, g.radius_km, g.target_quantity, g.current_quantity, g.min_quantity,
	g.discount_percent, g.status, g.expires_at, g.created_at`

const groupFrom = `
	FROM buying_groups g
	JOIN products p ON p.id = g.product_id
	JOIN vendors v ON v.id = p.vendor_id`

func scanGroup(scan func(...any) error, extra ...any) (*Group, error) {
	g := &Group{}
	dest := []any{
		&g.ID, &g.ProductID, &g.ProductName, &g.ProductPrice, &g.ProductCategory,
		&g.VendorID, &g.VendorName, &g.Postcode, &g.RadiusKM, &g.TargetQuantity,
		&g.CurrentQuantity, &g.MinQuantity, &g.DiscountPercent, &g.Status,
		&g.ExpiresAt, &g.CreatedAt,
	}
	if err := scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]*Group, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 1
	if f.Status != "" {
		where += fmt.Sprintf(` AND g.status = $%d`, n)
		args = append(args, f.Status)
		n++
	}
	if fields := strings.Fields(f.Postcode); len(fields) > 0 {
		// Outward code match: "SW1A 1AA" matches groups in "SW1A".
		where += fmt.Sprintf(` AND split_part(upper(g.postcode), ' ', 1) = $%d`, n)
		args = append(args, strings.ToUpper(fields[0]))
		n++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+groupFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count buying groups: %w", err)
	}

	query := `SELECT` + groupColumns + groupFrom + where +
		fmt.Sprintf(` ORDER BY g.expires_at ASC, g.id ASC LIMIT $%d OFFSET $%d`, n, n+1)
	rows, err := r.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list buying groups: %w", err)
	}
	defer rows.Close()

	groups := []*Group{}
	for rows.Next() {
		g, err := scanGroup(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan buying group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, total, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id, viewerID int) (*Group, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+groupColumns+`,
		       (SELECT COUNT(*) FROM group_commitments c WHERE c.group_id = g.id),
		       EXISTS (SELECT 1 FROM group_commitments c WHERE c.group_id = g.id AND c.buyer_id = $2)`+
		groupFrom+` WHERE g.id = $1`, id, viewerID)

	var participants int
	var joined bool
	g, err := scanGroup(row.Scan, &participants, &joined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get buying group: %w", err)
	}
	g.ParticipantsCount = participants
	g.HasJoined = joined
	return g, nil
}
