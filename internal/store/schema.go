package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    source_file          TEXT NOT NULL,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    parse_errors         INTEGER NOT NULL DEFAULT 0,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    id                   TEXT NOT NULL,
    date                 TEXT NOT NULL,
    has_time             INTEGER NOT NULL DEFAULT 0,
    amount               REAL NOT NULL,
    merchant             TEXT NOT NULL,
    category             TEXT,
    payment_method       TEXT,
    transaction_type     TEXT,
    notes                TEXT,
    PRIMARY KEY (file_path, seq)
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_id ON transactions(id);
`
