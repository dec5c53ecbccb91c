package sqlite

const schema = `
-- Keywords as assigned by campaign management. seq preserves input order.
CREATE TABLE IF NOT EXISTS keywords (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL DEFAULT '',
    keyword TEXT NOT NULL,
    match_type TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_keywords_keyword ON keywords(keyword COLLATE NOCASE);

-- Measured keyword performance
CREATE TABLE IF NOT EXISTS performance (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    keyword_id TEXT NOT NULL DEFAULT '',
    keyword TEXT NOT NULL DEFAULT '',
    campaign_id TEXT NOT NULL DEFAULT '',
    impressions REAL,
    clicks REAL,
    spend REAL,
    sales REAL,
    ctr REAL,
    cvr REAL,
    acos REAL,
    roas REAL
);

CREATE INDEX IF NOT EXISTS idx_performance_keyword_id ON performance(keyword_id);
CREATE INDEX IF NOT EXISTS idx_performance_campaign ON performance(campaign_id);

-- Single-campaign assignment per identifier (keyword id or text)
CREATE TABLE IF NOT EXISTS campaign_assignments (
    identifier TEXT PRIMARY KEY,
    campaign_id TEXT NOT NULL
);

-- Multi-campaign assignment per identifier
CREATE TABLE IF NOT EXISTS campaign_sets (
    identifier TEXT NOT NULL,
    position INTEGER NOT NULL,
    campaign_id TEXT NOT NULL,
    PRIMARY KEY (identifier, position)
);

-- Import history (audit trail)
CREATE TABLE IF NOT EXISTS imports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL DEFAULT '',
    imported_at TEXT NOT NULL,
    keywords INTEGER NOT NULL DEFAULT 0,
    performances INTEGER NOT NULL DEFAULT 0,
    assignments INTEGER NOT NULL DEFAULT 0,
    campaign_sets INTEGER NOT NULL DEFAULT 0,
    -- 1 when the snapshot carried the map at all, even an empty one
    has_assignments INTEGER NOT NULL DEFAULT 0,
    has_campaign_sets INTEGER NOT NULL DEFAULT 0
);
`
