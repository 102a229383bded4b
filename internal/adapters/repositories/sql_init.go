package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema. Used by cmd/dbtool.
func InitSchemaSQL(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
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
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate a Postgres database with order data from a JSON file.
func SeedFromJSONSQL(ctx context.Context, db *sql.DB, jsonPath string) error {
	data, err := loadSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	orderStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO orders (
		order_id,
		ship_line1, ship_line2, ship_barangay,
		ship_municipality, ship_province, ship_postal_code
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (order_id) DO UPDATE
	SET ship_line1 = EXCLUDED.ship_line1,
		ship_line2 = EXCLUDED.ship_line2,
		ship_barangay = EXCLUDED.ship_barangay,
		ship_municipality = EXCLUDED.ship_municipality,
		ship_province = EXCLUDED.ship_province,
		ship_postal_code = EXCLUDED.ship_postal_code;
	`)
	if err != nil {
		return fmt.Errorf("seed orders: prepare order insert: %w", err)
	}
	defer orderStmt.Close()

	itemStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO order_items (
		order_id, position, seller_label,
		seller_line1, seller_line2, seller_barangay,
		seller_municipality, seller_province, seller_postal_code
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (order_id, position) DO UPDATE
	SET seller_label = EXCLUDED.seller_label,
		seller_line1 = EXCLUDED.seller_line1,
		seller_line2 = EXCLUDED.seller_line2,
		seller_barangay = EXCLUDED.seller_barangay,
		seller_municipality = EXCLUDED.seller_municipality,
		seller_province = EXCLUDED.seller_province,
		seller_postal_code = EXCLUDED.seller_postal_code;
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

		_, err := orderStmt.ExecContext(ctx,
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

			_, err := itemStmt.ExecContext(ctx,
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
