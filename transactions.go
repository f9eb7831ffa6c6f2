package costbasis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies what a ledger entry did to the investor's
// holdings.
type TransactionType string

// Transaction types recognized by the engine.
const (
	TypeBuy        TransactionType = "buy"
	TypeSell       TransactionType = "sell"
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
	TypeSwap       TransactionType = "swap"
	TypeStake      TransactionType = "stake"
	TypeUnstake    TransactionType = "unstake"
	TypeReward     TransactionType = "reward"
	TypeFee        TransactionType = "fee"
	TypeOther      TransactionType = "other"
)

// IsAcquisition reports whether the type adds to the asset's lot pool.
// Buys, deposits, rewards, unstakes and incoming transfers open new lots.
func (t TransactionType) IsAcquisition() bool {
	switch t {
	case TypeBuy, TypeDeposit, TypeReward, TypeUnstake, TypeTransfer:
		return true
	}
	return false
}

// IsDisposal reports whether the type consumes from the asset's lot pool.
// Sells, withdrawals, swap-outs, fees and stakes reduce holdings.
func (t TransactionType) IsDisposal() bool {
	switch t {
	case TypeSell, TypeWithdrawal, TypeSwap, TypeFee, TypeStake:
		return true
	}
	return false
}

// ParseTransactionType parses a string into a TransactionType. Unrecognized
// values map to TypeOther: they are valid ledger entries that simply leave
// the lot pool untouched.
func ParseTransactionType(s string) TransactionType {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeBuy, TypeSell, TypeDeposit, TypeWithdrawal, TypeTransfer,
		TypeSwap, TypeStake, TypeUnstake, TypeReward, TypeFee:
		return t
	}
	return TypeOther
}

// ErrInvalidTransaction marks a ledger entry the engine cannot account for.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Transaction is a single immutable ledger entry handed to the engine by the
// transaction-source collaborator. The engine never mutates it.
type Transaction struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Type     TransactionType `json:"type"`
	Asset    string          `json:"asset"`
	Amount   decimal.Decimal `json:"amount"`
	Price    decimal.Decimal `json:"price"` // unit price; zero when unknown
	Fee      decimal.Decimal `json:"fee"`
	Exchange string          `json:"exchange,omitempty"`
}

// Symbol returns the case-normalized asset symbol used to key lot state.
func (t Transaction) Symbol() string {
	return strings.ToUpper(strings.TrimSpace(t.Asset))
}

// Proceeds returns the total consideration of the transaction, amount times
// unit price.
func (t Transaction) Proceeds() decimal.Decimal {
	return t.Amount.Mul(t.Price)
}

// Validate rejects transactions the engine cannot account for. A ledger
// containing any invalid transaction rejects the whole computation: partial
// cost-basis state is financially meaningless.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTransaction)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: %s has no timestamp", ErrInvalidTransaction, t.ID)
	}
	if t.Asset == "" {
		return fmt.Errorf("%w: %s has no asset symbol", ErrInvalidTransaction, t.ID)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: %s has negative amount %s", ErrInvalidTransaction, t.ID, t.Amount)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: %s has negative price %s", ErrInvalidTransaction, t.ID, t.Price)
	}
	return nil
}

// UnmarshalJSON decodes a transaction leniently: malformed numeric fields
// degrade to zero (with a logged warning) instead of failing the decode, and
// the type is case-normalized with unknown values bucketed as "other".
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Date     time.Time       `json:"date"`
		Type     string          `json:"type"`
		Asset    string          `json:"asset"`
		Amount   json.RawMessage `json:"amount"`
		Price    json.RawMessage `json:"price"`
		Fee      json.RawMessage `json:"fee"`
		Exchange string          `json:"exchange"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	t.Date = raw.Date
	t.Type = ParseTransactionType(raw.Type)
	t.Asset = raw.Asset
	t.Exchange = raw.Exchange
	t.Amount = lenientDecimal("amount", raw.Amount)
	t.Price = lenientDecimal("price", raw.Price)
	t.Fee = lenientDecimal("fee", raw.Fee)
	return nil
}

// lenientDecimal converts a raw JSON numeric field to a decimal, degrading to
// zero on malformed input.
func lenientDecimal(field string, raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero
	}
	s := string(raw)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return ParseAmount(field, s)
}

// ParseAmount converts free-form numeric input to a decimal. Malformed input
// degrades to zero instead of failing, but the degradation is logged because
// a silent zero can understate cost basis.
func ParseAmount(field, s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		slog.Warn("numeric field degraded to zero", "field", field, "value", s)
		return decimal.Zero
	}
	return d
}

// sortedByDate returns a chronologically sorted copy of the ledger. The sort
// is stable so same-timestamp transactions keep their ledger order.
func sortedByDate(txs []Transaction) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
