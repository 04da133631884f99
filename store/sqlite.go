package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hupe1980/shopagent/core"
)

// refundCompletionDays is how long a refund takes to complete once initiated.
const refundCompletionDays = 7

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dsn and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			price REAL NOT NULL,
			rating REAL NOT NULL DEFAULT 0,
			stock INTEGER NOT NULL DEFAULT 0,
			features TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			items TEXT NOT NULL,
			total REAL NOT NULL,
			ordered_at DATETIME NOT NULL,
			estimated_delivery DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS complaints (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			details TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id)
		)`,
		`CREATE TABLE IF NOT EXISTS refunds (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL UNIQUE,
			amount REAL NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			expected_completion DATETIME NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id)
		)`,
		`CREATE TABLE IF NOT EXISTS deliveries (
			order_id TEXT PRIMARY KEY,
			carrier TEXT NOT NULL,
			tracking_number TEXT NOT NULL,
			status TEXT NOT NULL,
			estimated_delivery DATETIME NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id)
		)`,
		`CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
		`INSERT OR IGNORE INTO counters (name, value) VALUES ('complaint', 100), ('refund', 100)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nextID atomically increments the named counter and renders "PREFIX-N".
func (s *SQLiteStore) nextID(ctx context.Context, tx *sql.Tx, name, prefix string) (string, error) {
	var value int
	err := tx.QueryRowContext(ctx,
		`UPDATE counters SET value = value + 1 WHERE name = ? RETURNING value`, name).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("advance %s counter: %w", name, err)
	}
	return fmt.Sprintf("%s-%d", prefix, value), nil
}

// GetProduct looks up a catalog entry by numeric id.
func (s *SQLiteStore) GetProduct(ctx context.Context, id int) (*Product, error) {
	var p Product
	var features sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, price, rating, stock, features FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Rating, &p.Stock, &features)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Kind: "product", ID: fmt.Sprintf("%d", id)}
	}
	if err != nil {
		return nil, err
	}
	if features.Valid {
		if err := json.Unmarshal([]byte(features.String), &p.Features); err != nil {
			return nil, fmt.Errorf("decode features for product %d: %w", id, err)
		}
	}
	return &p, nil
}

// ListProducts returns the full catalog ordered by id.
func (s *SQLiteStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, price, rating, stock, features FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var features sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Rating, &p.Stock, &features); err != nil {
			return nil, err
		}
		if features.Valid {
			if err := json.Unmarshal([]byte(features.String), &p.Features); err != nil {
				return nil, fmt.Errorf("decode features for product %d: %w", p.ID, err)
			}
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetOrder looks up an order by its ORD-NNNN code.
func (s *SQLiteStore) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	var items string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, items, total, ordered_at, estimated_delivery FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.Status, &items, &o.Total, &o.OrderedAt, &o.EstimatedDelivery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Kind: "order", ID: id}
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("decode items for order %s: %w", id, err)
	}
	return &o, nil
}

// CreateComplaint files a complaint against an existing order and allocates
// its CMP code.
func (s *SQLiteStore) CreateComplaint(ctx context.Context, orderID, details string) (*Complaint, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id, err := s.nextID(ctx, tx, "complaint", "CMP")
	if err != nil {
		return nil, err
	}

	c := &Complaint{
		ID:        id,
		OrderID:   orderID,
		Details:   details,
		Status:    "open",
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO complaints (id, order_id, details, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.OrderID, c.Details, c.Status, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return c, nil
}

// GetComplaint looks up a complaint by its CMP code.
func (s *SQLiteStore) GetComplaint(ctx context.Context, id string) (*Complaint, error) {
	var c Complaint
	err := s.db.QueryRowContext(ctx,
		`SELECT id, order_id, details, status, created_at FROM complaints WHERE id = ?`, id).
		Scan(&c.ID, &c.OrderID, &c.Details, &c.Status, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Kind: "complaint", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateRefund initiates a refund for the full order amount. At most one
// refund exists per order; a second request returns the existing record.
func (s *SQLiteStore) CreateRefund(ctx context.Context, orderID string) (*Refund, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing, err := s.GetRefundByOrder(ctx, orderID); err == nil {
		return existing, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id, err := s.nextID(ctx, tx, "refund", "REF")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &Refund{
		ID:                 id,
		OrderID:            orderID,
		Amount:             order.Total,
		Status:             "processing",
		CreatedAt:          now,
		ExpectedCompletion: now.AddDate(0, 0, refundCompletionDays),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO refunds (id, order_id, amount, status, created_at, expected_completion) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.OrderID, r.Amount, r.Status, r.CreatedAt, r.ExpectedCompletion)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRefundByOrder looks up the refund filed against an order, if any.
func (s *SQLiteStore) GetRefundByOrder(ctx context.Context, orderID string) (*Refund, error) {
	var r Refund
	err := s.db.QueryRowContext(ctx,
		`SELECT id, order_id, amount, status, created_at, expected_completion FROM refunds WHERE order_id = ?`, orderID).
		Scan(&r.ID, &r.OrderID, &r.Amount, &r.Status, &r.CreatedAt, &r.ExpectedCompletion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Kind: "refund", ID: orderID}
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetDelivery looks up the shipping record for an order.
func (s *SQLiteStore) GetDelivery(ctx context.Context, orderID string) (*Delivery, error) {
	var d Delivery
	err := s.db.QueryRowContext(ctx,
		`SELECT order_id, carrier, tracking_number, status, estimated_delivery FROM deliveries WHERE order_id = ?`, orderID).
		Scan(&d.OrderID, &d.Carrier, &d.TrackingNumber, &d.Status, &d.EstimatedDelivery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Kind: "delivery", ID: orderID}
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
