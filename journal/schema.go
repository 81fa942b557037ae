package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	wallet TEXT NOT NULL,
	chain TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	total_realized TEXT NOT NULL,
	short_term TEXT NOT NULL,
	long_term TEXT NOT NULL,
	unrealized TEXT NOT NULL,
	sell_count INTEGER NOT NULL,
	warning_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS gains (
	gain_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	asset TEXT NOT NULL,
	amount TEXT NOT NULL,
	acquired_at DATETIME NOT NULL,
	disposed_at DATETIME NOT NULL,
	cost_basis TEXT NOT NULL,
	proceeds TEXT NOT NULL,
	gain TEXT NOT NULL,
	term TEXT NOT NULL,
	buy_hash TEXT NOT NULL,
	sell_hash TEXT NOT NULL,
	estimated INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gains_run ON gains(run_id);
CREATE INDEX IF NOT EXISTS idx_gains_disposed ON gains(disposed_at);

CREATE TABLE IF NOT EXISTS categories (
	wallet TEXT NOT NULL,
	chain TEXT NOT NULL,
	tx_hash TEXT NOT NULL,
	category TEXT NOT NULL,
	PRIMARY KEY (wallet, chain, tx_hash)
);
`
