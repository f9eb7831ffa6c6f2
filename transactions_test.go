package costbasis

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTransactionType_ClassificationIsTotal(t *testing.T) {
	all := []TransactionType{
		TypeBuy, TypeSell, TypeDeposit, TypeWithdrawal, TypeTransfer,
		TypeSwap, TypeStake, TypeUnstake, TypeReward, TypeFee, TypeOther,
	}
	acquisitions := map[TransactionType]bool{
		TypeBuy: true, TypeDeposit: true, TypeReward: true, TypeUnstake: true, TypeTransfer: true,
	}
	disposals := map[TransactionType]bool{
		TypeSell: true, TypeWithdrawal: true, TypeSwap: true, TypeFee: true, TypeStake: true,
	}
	for _, typ := range all {
		acq, dis := typ.IsAcquisition(), typ.IsDisposal()
		if acq && dis {
			t.Errorf("%s classified as both acquisition and disposal", typ)
		}
		if acq != acquisitions[typ] {
			t.Errorf("%s: IsAcquisition() = %v", typ, acq)
		}
		if dis != disposals[typ] {
			t.Errorf("%s: IsDisposal() = %v", typ, dis)
		}
	}
}

func TestParseTransactionType_UnknownMapsToOther(t *testing.T) {
	if got := ParseTransactionType("  Buy "); got != TypeBuy {
		t.Errorf("ParseTransactionType(Buy) = %s", got)
	}
	if got := ParseTransactionType("airdrop?"); got != TypeOther {
		t.Errorf("ParseTransactionType(airdrop?) = %s, want other", got)
	}
}

func TestParseAmount_DegradesToZero(t *testing.T) {
	if got := ParseAmount("amount", "1,234.5"); !got.Equal(dec("1234.5")) {
		t.Errorf("ParseAmount(1,234.5) = %s", got)
	}
	if got := ParseAmount("amount", "not-a-number"); !got.IsZero() {
		t.Errorf("ParseAmount(not-a-number) = %s, want 0", got)
	}
	if got := ParseAmount("amount", ""); !got.IsZero() {
		t.Errorf("ParseAmount(\"\") = %s, want 0", got)
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := buy("a", day(2024, time.January, 1), "BTC", "1", "100")
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cases := map[string]Transaction{
		"missing id":      {Date: day(2024, time.January, 1), Asset: "BTC", Amount: dec("1")},
		"zero timestamp":  {ID: "a", Asset: "BTC", Amount: dec("1")},
		"missing asset":   {ID: "a", Date: day(2024, time.January, 1), Amount: dec("1")},
		"negative amount": {ID: "a", Date: day(2024, time.January, 1), Asset: "BTC", Amount: dec("-1")},
	}
	for name, tx := range cases {
		if err := tx.Validate(); !errors.Is(err, ErrInvalidTransaction) {
			t.Errorf("%s: Validate() error = %v, want ErrInvalidTransaction", name, err)
		}
	}
}

func TestTransaction_UnmarshalLeniency(t *testing.T) {
	line := `{"id":"t1","date":"2024-01-01T00:00:00Z","type":"BUY","asset":"btc","amount":"1.5","price":"oops","fee":0.1,"exchange":"Acme, Inc."}`
	var tx Transaction
	if err := json.Unmarshal([]byte(line), &tx); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if tx.Type != TypeBuy {
		t.Errorf("type = %s, want buy", tx.Type)
	}
	if !tx.Amount.Equal(dec("1.5")) {
		t.Errorf("amount = %s, want 1.5", tx.Amount)
	}
	// malformed price degrades to zero instead of failing the decode
	if !tx.Price.IsZero() {
		t.Errorf("price = %s, want 0", tx.Price)
	}
	if !tx.Fee.Equal(dec("0.1")) {
		t.Errorf("fee = %s, want 0.1", tx.Fee)
	}
	if tx.Symbol() != "BTC" {
		t.Errorf("Symbol() = %s, want BTC", tx.Symbol())
	}
}

func TestSortedByDate_StableAndNonMutating(t *testing.T) {
	txs := []Transaction{
		sell("s", day(2024, time.March, 1), "BTC", "1", "2"),
		buy("a", day(2024, time.January, 1), "BTC", "1", "1"),
		buy("b", day(2024, time.January, 1), "BTC", "1", "1"),
	}
	sorted := sortedByDate(txs)
	if sorted[0].ID != "a" || sorted[1].ID != "b" || sorted[2].ID != "s" {
		t.Errorf("unexpected order: %s %s %s", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	if txs[0].ID != "s" {
		t.Errorf("input slice was mutated")
	}
}
