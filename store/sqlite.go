// Package store persists transaction ledgers in SQLite, as an alternative to
// the JSONL files the engine reads natively.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/clearlot/costbasis"
)

// SQLite holds a transaction ledger in a single-file database.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Save inserts transactions into the ledger. A transaction without an ID is
// assigned a fresh ULID, so re-saving the same slice does not collide; rows
// with an explicit ID are upserted.
func (s *SQLite) Save(txs []costbasis.Transaction) error {
	dbtx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer dbtx.Rollback()

	stmt, err := dbtx.Prepare(`
		INSERT INTO transactions (id, date, type, asset, amount, price, fee, exchange)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date=excluded.date, type=excluded.type, asset=excluded.asset,
			amount=excluded.amount, price=excluded.price, fee=excluded.fee,
			exchange=excluded.exchange`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tx := range txs {
		id := tx.ID
		if id == "" {
			id = ulid.Make().String()
		}
		// Amounts travel as text so no precision is lost to REAL columns.
		_, err := stmt.Exec(id, tx.Date.UTC().Format(time.RFC3339Nano),
			string(tx.Type), tx.Symbol(),
			tx.Amount.String(), tx.Price.String(), tx.Fee.String(), tx.Exchange)
		if err != nil {
			return fmt.Errorf("saving transaction %s: %w", id, err)
		}
	}
	return dbtx.Commit()
}

// Load reads the whole ledger, oldest first.
func (s *SQLite) Load() ([]costbasis.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT id, date, type, asset, amount, price, fee, exchange
		FROM transactions ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []costbasis.Transaction
	for rows.Next() {
		var tx costbasis.Transaction
		var date, typ, amount, price, fee string
		if err := rows.Scan(&tx.ID, &date, &typ, &tx.Asset, &amount, &price, &fee, &tx.Exchange); err != nil {
			return nil, err
		}
		tx.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: bad date %q: %w", tx.ID, date, err)
		}
		tx.Type = costbasis.ParseTransactionType(typ)
		tx.Amount = costbasis.ParseAmount("amount", amount)
		tx.Price = costbasis.ParseAmount("price", price)
		tx.Fee = costbasis.ParseAmount("fee", fee)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
