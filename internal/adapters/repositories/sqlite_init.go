package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id INTEGER PRIMARY KEY,
		ship_line1 TEXT NOT NULL DEFAULT '',
		ship_line2 TEXT NOT NULL DEFAULT '',
		ship_barangay TEXT NOT NULL DEFAULT '',
		ship_municipality TEXT NOT NULL DEFAULT '',
		ship_province TEXT NOT NULL DEFAULT '',
		ship_postal_code TEXT NOT NULL DEFAULT ''
	);
	`

	createOrderItemsQuery := `
	CREATE TABLE IF NOT EXISTS order_items (
		order_id INTEGER NOT NULL REFERENCES orders(order_id),
		position INTEGER NOT NULL,
		seller_label TEXT NOT NULL,
		seller_line1 TEXT NOT NULL DEFAULT '',
		seller_line2 TEXT NOT NULL DEFAULT '',
		seller_barangay TEXT NOT NULL DEFAULT '',
		seller_municipality TEXT NOT NULL DEFAULT '',
		seller_province TEXT NOT NULL DEFAULT '',
		seller_postal_code TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (order_id, position)
	);
	`

	statements := []string{
		createOrdersQuery,
		createOrderItemsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type AddressSeed struct {
	Line1        string `json:"line1"`
	Line2        string `json:"line2"`
	Barangay     string `json:"barangay"`
	Municipality string `json:"municipality"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code"`
}

type ItemSeed struct {
	SellerLabel   string       `json:"seller_label"`
	SellerAddress *AddressSeed `json:"seller_address"`
}

type OrderSeed struct {
	OrderID         int          `json:"order_id"`
	ShippingAddress *AddressSeed `json:"shipping_address"`
	Items           []ItemSeed   `json:"items"`
}

// Populate the database with order data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	data, err := loadSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	orderStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO orders (
		order_id,
		ship_line1, ship_line2, ship_barangay,
		ship_municipality, ship_province, ship_postal_code
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed orders: prepare order insert: %w", err)
	}
	defer orderStmt.Close()

	itemStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO order_items (
		order_id, position, seller_label,
		seller_line1, seller_line2, seller_barangay,
		seller_municipality, seller_province, seller_postal_code
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed orders: prepare item insert: %w", err)
	}
	defer itemStmt.Close()

	for _, o := range data {
		ship := o.ShippingAddress
		if ship == nil {
			ship = &AddressSeed{}
		}

		_, err := orderStmt.Exec(
			o.OrderID,
			ship.Line1, ship.Line2, ship.Barangay,
			ship.Municipality, ship.Province, ship.PostalCode,
		)
		if err != nil {
			return fmt.Errorf("seed orders: insert order_id=%d: %w", o.OrderID, err)
		}

		for pos, item := range o.Items {
			seller := item.SellerAddress
			if seller == nil {
				seller = &AddressSeed{}
			}

			_, err := itemStmt.Exec(
				o.OrderID, pos, item.SellerLabel,
				seller.Line1, seller.Line2, seller.Barangay,
				seller.Municipality, seller.Province, seller.PostalCode,
			)
			if err != nil {
				return fmt.Errorf("seed orders: insert order_id=%d item=%d: %w", o.OrderID, pos, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed orders: commit tx: %w", err)
	}

	return nil
}

func loadSeeds(jsonPath string) ([]OrderSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed orders: read %q: %w", jsonPath, err)
	}

	var data []OrderSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed orders: parse json: %w", err)
	}

	for i, o := range data {
		if o.OrderID <= 0 {
			return nil, fmt.Errorf("seed orders: invalid order_id at index %d: %d", i, o.OrderID)
		}
		for j, item := range o.Items {
			if strings.TrimSpace(item.SellerLabel) == "" {
				return nil, fmt.Errorf("seed orders: order_id=%d item %d: seller_label cannot be empty", o.OrderID, j)
			}
		}
	}

	return data, nil
}
