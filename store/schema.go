package store

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	date DATETIME NOT NULL,
	type TEXT NOT NULL,
	asset TEXT NOT NULL,
	amount TEXT NOT NULL,
	price TEXT NOT NULL,
	fee TEXT NOT NULL,
	exchange TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`
