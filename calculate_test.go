package costbasis

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCalculate_FIFOConsumesOldestFirst(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2024, time.January, 1), "BTC", "10", "1"),
		buy("b", day(2024, time.January, 5), "BTC", "10", "2"),
		sell("s", day(2024, time.January, 10), "BTC", "15", "3"),
	}

	result, err := Calculate(txs, FIFO, Options{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Disposals) != 2 {
		t.Fatalf("expected 2 disposal events, got %d", len(result.Disposals))
	}

	first := result.Disposals[0]
	if first.LotID != "a" || !first.Amount.Equal(dec("10")) ||
		!first.Proceeds.Equal(dec("30")) || !first.CostBasis.Equal(dec("10")) ||
		!first.GainLoss.Equal(dec("20")) {
		t.Errorf("unexpected first event: %+v", first)
	}
	second := result.Disposals[1]
	if second.LotID != "b" || !second.Amount.Equal(dec("5")) ||
		!second.Proceeds.Equal(dec("15")) || !second.CostBasis.Equal(dec("10")) ||
		!second.GainLoss.Equal(dec("5")) {
		t.Errorf("unexpected second event: %+v", second)
	}
}

func TestCalculate_LIFOConsumesNewestFirst(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2024, time.January, 1), "BTC", "10", "1"),
		buy("b", day(2024, time.January, 5), "BTC", "10", "2"),
		sell("s", day(2024, time.January, 10), "BTC", "15", "3"),
	}

	result, err := Calculate(txs, LIFO, Options{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Disposals) != 2 {
		t.Fatalf("expected 2 disposal events, got %d", len(result.Disposals))
	}

	first := result.Disposals[0]
	if first.LotID != "b" || !first.Amount.Equal(dec("10")) ||
		!first.Proceeds.Equal(dec("30")) || !first.CostBasis.Equal(dec("20")) ||
		!first.GainLoss.Equal(dec("10")) {
		t.Errorf("unexpected first event: %+v", first)
	}
	second := result.Disposals[1]
	if second.LotID != "a" || !second.Amount.Equal(dec("5")) ||
		!second.Proceeds.Equal(dec("15")) || !second.CostBasis.Equal(dec("5")) ||
		!second.GainLoss.Equal(dec("10")) {
		t.Errorf("unexpected second event: %+v", second)
	}
}

func TestCalculate_AverageCostCollapsesLots(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2024, time.January, 1), "BTC", "10", "1"),
		buy("b", day(2024, time.January, 5), "BTC", "10", "2"),
		sell("s", day(2024, time.January, 10), "BTC", "5", "3"),
	}

	result, err := Calculate(txs, AverageCost, Options{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Disposals) != 1 {
		t.Fatalf("average cost must yield exactly one event, got %d", len(result.Disposals))
	}

	e := result.Disposals[0]
	if !e.Proceeds.Equal(dec("15")) || !e.CostBasis.Equal(dec("7.5")) || !e.GainLoss.Equal(dec("7.5")) {
		t.Errorf("unexpected event: proceeds=%s cost=%s gain=%s", e.Proceeds, e.CostBasis, e.GainLoss)
	}

	if len(result.Holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(result.Holdings))
	}
	h := result.Holdings[0]
	if !h.Amount.Equal(dec("15")) || !h.AverageCost.Equal(dec("1.5")) {
		t.Errorf("unexpected holding: amount=%s avg=%s", h.Amount, h.AverageCost)
	}
	if len(h.Lots) != 1 {
		t.Fatalf("expected a single synthetic lot, got %d", len(h.Lots))
	}
	// The synthetic lot keeps the earliest pre-collapse acquisition date.
	if !h.Lots[0].AcquiredAt.Equal(day(2024, time.January, 1)) {
		t.Errorf("synthetic lot dated %s, want earliest acquisition", h.Lots[0].AcquiredAt)
	}
	if !h.Lots[0].CostBasis.Equal(dec("1.5")) {
		t.Errorf("synthetic lot cost basis = %s, want 1.5", h.Lots[0].CostBasis)
	}
}

func TestCalculate_ProceedsSumToOriginal(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2024, time.January, 1), "ETH", "3", "100"),
		buy("b", day(2024, time.February, 1), "ETH", "7", "110"),
		buy("c", day(2024, time.March, 1), "ETH", "11", "120"),
		sell("s", day(2024, time.June, 1), "ETH", "17", "130"),
	}

	result, err := Calculate(txs, FIFO, Options{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Disposals) != 3 {
		t.Fatalf("expected 3 disposal events, got %d", len(result.Disposals))
	}
	sum := dec("0")
	for _, e := range result.Disposals {
		if e.TransactionID != "s" {
			t.Fatalf("unexpected transaction id %q", e.TransactionID)
		}
		sum = sum.Add(e.Proceeds)
	}
	if !sum.Equal(dec("2210")) { // 17 * 130
		t.Errorf("proceeds sum to %s, want 2210", sum)
	}
}

func TestCalculate_HoldingPeriodBoundary(t *testing.T) {
	cases := []struct {
		disposed  time.Time
		wantDays  int
		wantShort bool
	}{
		{day(2024, time.January, 1), 365, true},
		{day(2024, time.January, 2), 366, false},
	}
	for _, tc := range cases {
		txs := []Transaction{
			buy("a", day(2023, time.January, 1), "BTC", "1", "100"),
			sell("s", tc.disposed, "BTC", "1", "200"),
		}
		result, err := Calculate(txs, FIFO, Options{})
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		e := result.Disposals[0]
		if e.HoldingDays != tc.wantDays || e.ShortTerm != tc.wantShort {
			t.Errorf("disposed %s: days=%d short=%v, want days=%d short=%v",
				tc.disposed, e.HoldingDays, e.ShortTerm, tc.wantDays, tc.wantShort)
		}
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2023, time.March, 1), "BTC", "2", "20000"),
		buy("b", day(2023, time.July, 1), "ETH", "10", "1800"),
		sell("s1", day(2024, time.February, 1), "BTC", "1.5", "45000"),
		sell("s2", day(2024, time.May, 1), "ETH", "4", "3000"),
	}
	for _, method := range []CostBasisMethod{FIFO, LIFO, AverageCost} {
		first, err := Calculate(txs, method, Options{})
		if err != nil {
			t.Fatalf("%s: Calculate() error = %v", method, err)
		}
		second, err := Calculate(txs, method, Options{})
		if err != nil {
			t.Fatalf("%s: Calculate() error = %v", method, err)
		}
		a, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("%s: marshal error = %v", method, err)
		}
		b, err := json.Marshal(second)
		if err != nil {
			t.Fatalf("%s: marshal error = %v", method, err)
		}
		if string(a) != string(b) {
			t.Errorf("%s: results differ across identical runs", method)
		}
	}
}

func TestCalculate_WindowKeepsFullHistoryCostBasis(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2023, time.January, 10), "BTC", "10", "1"),
		sell("s1", day(2023, time.June, 1), "BTC", "5", "2"),
		sell("s2", day(2024, time.March, 1), "BTC", "5", "3"),
	}
	window := Range{From: day(2024, time.January, 1), To: day(2024, time.December, 31)}

	full, err := Calculate(txs, FIFO, Options{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	windowed, err := Calculate(txs, FIFO, Options{Window: window})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if len(windowed.Disposals) != 1 {
		t.Fatalf("expected only the in-window event, got %d", len(windowed.Disposals))
	}
	got := windowed.Disposals[0]
	if got.TransactionID != "s2" {
		t.Fatalf("unexpected event %q in window", got.TransactionID)
	}
	// The in-window event's cost basis must match the full-history run,
	// proving pre-window transactions were still folded into the ledger.
	var want DisposalEvent
	for _, e := range full.Disposals {
		if e.TransactionID == "s2" {
			want = e
		}
	}
	if !got.CostBasis.Equal(want.CostBasis) {
		t.Errorf("windowed cost basis %s != full-history %s", got.CostBasis, want.CostBasis)
	}
	if !windowed.Period.From.Equal(window.From) || !windowed.Period.To.Equal(window.To) {
		t.Errorf("result period %s, want %s", windowed.Period, window)
	}
}

func TestCalculate_OversellRejected(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2024, time.January, 1), "BTC", "1", "100"),
		sell("s", day(2024, time.February, 1), "BTC", "3", "200"),
	}
	_, err := Calculate(txs, FIFO, Options{})
	if !errors.Is(err, ErrOversell) {
		t.Fatalf("Calculate() error = %v, want ErrOversell", err)
	}
}

func TestCalculate_OversellTruncatesWhenAllowed(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2024, time.January, 1), "BTC", "1", "100"),
		sell("s", day(2024, time.February, 1), "BTC", "3", "200"),
	}
	result, err := Calculate(txs, FIFO, Options{AllowOversell: true})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Disposals) != 1 {
		t.Fatalf("expected 1 truncated event, got %d", len(result.Disposals))
	}
	if !result.Disposals[0].Amount.Equal(dec("1")) {
		t.Errorf("truncated amount = %s, want 1", result.Disposals[0].Amount)
	}
	// Inventory is left at zero, never negative.
	if len(result.Holdings) != 0 {
		t.Errorf("expected no holdings after truncation, got %d", len(result.Holdings))
	}
}

func TestCalculate_NoOpTypesLeaveLedgerUntouched(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2024, time.January, 1), "BTC", "2", "100"),
		{ID: "x", Date: day(2024, time.January, 2), Type: TypeOther, Asset: "BTC", Amount: dec("99")},
	}
	result, err := Calculate(txs, FIFO, Options{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Holdings) != 1 || !result.Holdings[0].Amount.Equal(dec("2")) {
		t.Errorf("no-op transaction changed holdings: %+v", result.Holdings)
	}
}

func TestCalculate_RejectsInvalidTransaction(t *testing.T) {
	txs := []Transaction{
		{ID: "", Date: day(2024, time.January, 1), Type: TypeBuy, Asset: "BTC", Amount: dec("1")},
	}
	_, err := Calculate(txs, FIFO, Options{})
	if !errors.Is(err, ErrInvalidTransaction) {
		t.Fatalf("Calculate() error = %v, want ErrInvalidTransaction", err)
	}
}

func TestCalculate_UnsortedInputIsSorted(t *testing.T) {
	txs := []Transaction{
		sell("s", day(2024, time.January, 10), "BTC", "5", "3"),
		buy("b", day(2024, time.January, 5), "BTC", "10", "2"),
		buy("a", day(2024, time.January, 1), "BTC", "10", "1"),
	}
	result, err := Calculate(txs, FIFO, Options{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Disposals) != 1 {
		t.Fatalf("expected 1 event, got %d", len(result.Disposals))
	}
	if result.Disposals[0].LotID != "a" {
		t.Errorf("FIFO after sorting should consume lot a, got %q", result.Disposals[0].LotID)
	}
}

func TestCalculate_ZeroAmountBuyOpensNoLot(t *testing.T) {
	// A zero-amount acquisition is legal input (degraded numeric fields
	// parse to zero) but must not open a lot: an empty lot would be the
	// first one FIFO consumes, emitting a spurious zero-amount event.
	txs := []Transaction{
		buy("z", day(2024, time.January, 1), "BTC", "0", "100"),
		buy("a", day(2024, time.January, 2), "BTC", "2", "100"),
		sell("s", day(2024, time.February, 1), "BTC", "1", "200"),
	}
	result, err := Calculate(txs, FIFO, Options{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Disposals) != 1 {
		t.Fatalf("expected exactly 1 event, got %d: %+v", len(result.Disposals), result.Disposals)
	}
	e := result.Disposals[0]
	if e.LotID != "a" || !e.Amount.Equal(dec("1")) || !e.Proceeds.Equal(dec("200")) {
		t.Errorf("event lot=%s amount=%s proceeds=%s, want a, 1, 200", e.LotID, e.Amount, e.Proceeds)
	}
	if result.Summary.DisposalCount != 1 {
		t.Errorf("disposal count = %d, want 1", result.Summary.DisposalCount)
	}
	if len(result.Holdings) != 1 || len(result.Holdings[0].Lots) != 1 {
		t.Errorf("zero-amount buy leaked into holdings: %+v", result.Holdings)
	}
}
