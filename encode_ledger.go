package costbasis

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeTransactions reads a JSONL stream, one transaction per line, and
// returns the decoded ledger. Empty lines are skipped. Numeric fields degrade
// leniently (see Transaction.UnmarshalJSON); structural defects fail the
// whole decode.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

// EncodeTransaction appends one transaction to w as a single JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	return json.NewEncoder(w).Encode(tx)
}

// EncodeTransactions writes the whole ledger to w in JSONL form.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
