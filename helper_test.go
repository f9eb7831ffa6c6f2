package costbasis

import (
	"time"

	"github.com/shopspring/decimal"
)

// day builds a UTC timestamp at midnight, the granularity most ledger
// fixtures need.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dec parses a decimal literal, panicking on typos in fixtures.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// buy and sell build the minimal transactions most tests need.
func buy(id string, on time.Time, asset, amount, price string) Transaction {
	return Transaction{ID: id, Date: on, Type: TypeBuy, Asset: asset, Amount: dec(amount), Price: dec(price)}
}

func sell(id string, on time.Time, asset, amount, price string) Transaction {
	return Transaction{ID: id, Date: on, Type: TypeSell, Asset: asset, Amount: dec(amount), Price: dec(price)}
}
