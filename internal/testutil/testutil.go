// Package testutil holds helpers for Postgres-backed integration tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/localmarket/migrations"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730110

// OpenDB connects to TEST_DATABASE_URL, serializes the test against other
// packages with an advisory lock, and rebuilds the schema.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	dsn := RequireEnv(t, "TEST_DATABASE_URL")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Close()
		t.Fatalf("acquire advisory lock: %v", err)
	}
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", advisoryLockID)
		conn.Close()
	})

	if err := migrations.Down(ctx, db); err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

var counter atomic.Int64

// UniqueID returns a prefix-tagged identifier unique within the test binary.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), counter.Add(1))
}

// CreateUser inserts a user with the given password and returns its ID.
func CreateUser(t testing.TB, db *sql.DB, password string, isVendor bool) int {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	name := UniqueID("user")
	var id int
	err = db.QueryRowContext(context.Background(), `
		INSERT INTO users (email, username, password_hash, first_name, last_name, is_vendor)
		VALUES ($1, $2, $3, 'Test', 'User', $4) RETURNING id`,
		name+"@example.com", name, string(hash), isVendor).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

// CreateVendor inserts a vendor owned by userID.
func CreateVendor(t testing.TB, db *sql.DB, userID int, commissionRate string) int {
	t.Helper()
	var id int
	err := db.QueryRowContext(context.Background(), `
		INSERT INTO vendors (user_id, business_name, postcode, commission_rate)
		VALUES ($1, $2, 'SW1A 1AA', $3) RETURNING id`,
		userID, UniqueID("shop"), commissionRate).Scan(&id)
	if err != nil {
		t.Fatalf("insert vendor: %v", err)
	}
	return id
}

// CreateProduct inserts an active product.
func CreateProduct(t testing.TB, db *sql.DB, vendorID int, category, price string) int {
	t.Helper()
	var id int
	err := db.QueryRowContext(context.Background(), `
		INSERT INTO products (vendor_id, name, category, price, stock_quantity, tags)
		VALUES ($1, $2, $3, $4, 10, '{local}') RETURNING id`,
		vendorID, UniqueID("product"), category, price).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

// CreateOrder inserts an order with status for buyerID.
func CreateOrder(t testing.TB, db *sql.DB, buyerID, vendorID, productID int, qty int, unitPrice, deliveryFee, status string) int {
	t.Helper()
	var id int
	err := db.QueryRowContext(context.Background(), `
		INSERT INTO orders (reference_number, buyer_id, vendor_id, product_id, quantity,
		                    unit_price, total_price, delivery_fee, status)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $6::numeric * $5, $7, $8) RETURNING id`,
		UniqueID("LM"), buyerID, vendorID, productID, qty, unitPrice, deliveryFee, status).Scan(&id)
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}
	return id
}
