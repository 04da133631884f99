package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type seedFile struct {
	Products   []Product  `json:"products"`
	Orders     []Order    `json:"orders"`
	Deliveries []Delivery `json:"deliveries"`
}

// Seed loads seed.json from dir and upserts its records. A missing file is
// not an error so a fresh deployment can start empty.
func (s *SQLiteStore) Seed(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, "seed.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, p := range seed.Products {
		features, err := json.Marshal(p.Features)
		if err != nil {
			return err
		}
		_, err = s.db.Exec(
			`INSERT OR REPLACE INTO products (id, name, category, price, rating, stock, features) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Category, p.Price, p.Rating, p.Stock, string(features))
		if err != nil {
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}

	for _, o := range seed.Orders {
		items, err := json.Marshal(o.Items)
		if err != nil {
			return err
		}
		_, err = s.db.Exec(
			`INSERT OR REPLACE INTO orders (id, status, items, total, ordered_at, estimated_delivery) VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, o.Status, string(items), o.Total, o.OrderedAt, o.EstimatedDelivery)
		if err != nil {
			return fmt.Errorf("seed order %s: %w", o.ID, err)
		}
	}

	for _, d := range seed.Deliveries {
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO deliveries (order_id, carrier, tracking_number, status, estimated_delivery) VALUES (?, ?, ?, ?, ?)`,
			d.OrderID, d.Carrier, d.TrackingNumber, d.Status, d.EstimatedDelivery)
		if err != nil {
			return fmt.Errorf("seed delivery %s: %w", d.OrderID, err)
		}
	}

	return nil
}
