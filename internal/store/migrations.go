package store

const schema = `
CREATE TABLE IF NOT EXISTS topics (
    seq          INTEGER PRIMARY KEY AUTOINCREMENT,
    id           INTEGER NOT NULL UNIQUE,
    title        TEXT NOT NULL DEFAULT '',
    views        INTEGER NOT NULL DEFAULT 0,
    like_count   INTEGER NOT NULL DEFAULT 0,
    collected_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS contributions (
    seq          INTEGER PRIMARY KEY AUTOINCREMENT,
    topic_id     INTEGER NOT NULL,
    user         TEXT NOT NULL,
    matrix_link  TEXT NOT NULL DEFAULT '',
    collected_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contributions_topic ON contributions(topic_id);
`
