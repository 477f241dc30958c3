package journal

// Schema creates the journal tables. Tag lists are stored as JSON arrays.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	date DATETIME NOT NULL,
	entry_time TEXT NOT NULL DEFAULT '',
	symbol TEXT NOT NULL DEFAULT '',
	direction TEXT NOT NULL DEFAULT 'long',
	entry_price REAL NOT NULL DEFAULT 0,
	exit_price REAL NOT NULL DEFAULT 0,
	stop_loss REAL NOT NULL DEFAULT 0,
	take_profit REAL NOT NULL DEFAULT 0,
	size REAL NOT NULL DEFAULT 0,
	pnl REAL NOT NULL DEFAULT 0,
	outcome TEXT NOT NULL DEFAULT 'breakeven',
	duration_minutes REAL NOT NULL DEFAULT 0,
	setup_name TEXT NOT NULL DEFAULT '',
	structure_tags TEXT NOT NULL DEFAULT '[]',
	market_shift_tags TEXT NOT NULL DEFAULT '[]',
	phase_tags TEXT NOT NULL DEFAULT '[]',
	level_tags TEXT NOT NULL DEFAULT '[]',
	psychology_factors TEXT NOT NULL DEFAULT '[]',
	good_habits TEXT NOT NULL DEFAULT '[]',
	executed_rules TEXT NOT NULL DEFAULT '[]',
	strategy_id TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
CREATE INDEX IF NOT EXISTS idx_trades_setup ON trades(setup_name);

CREATE TABLE IF NOT EXISTS strategies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS strategy_rules (
	strategy_id TEXT NOT NULL REFERENCES strategies(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	id TEXT NOT NULL,
	text TEXT NOT NULL,
	phase TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	required INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (strategy_id, id)
);
`
