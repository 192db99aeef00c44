package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

type sqliteMigration struct {
	Version string
	Up      string
}

// sqliteMigrations are applied in semver order; each runs once.
var sqliteMigrations = []sqliteMigration{
	{Version: "1.0.0", Up: migrationCatalogUp},
	{Version: "1.1.0", Up: migrationOrdersUp},
	{Version: "1.2.0", Up: migrationChatsUp},
	{Version: "1.3.0", Up: migrationNotificationsUp},
}

const migrationCatalogUp = `
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    token_identifier TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    shop_name TEXT NOT NULL DEFAULT '',
    shop_address TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS master_items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS listings (
    id TEXT PRIMARY KEY,
    seller_id TEXT NOT NULL,
    master_item_id TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    price REAL NOT NULL,
    quantity REAL NOT NULL,
    unit TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    expires_at INTEGER,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_listings_seller ON listings(seller_id);
`

const migrationOrdersUp = `
CREATE TABLE IF NOT EXISTS orders (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    listing_id TEXT NOT NULL,
    buyer_id TEXT NOT NULL,
    seller_id TEXT NOT NULL,
    master_item_id TEXT NOT NULL,
    quantity REAL NOT NULL,
    unit TEXT NOT NULL,
    price_per_unit REAL NOT NULL,
    total_amount REAL NOT NULL,
    contact_method TEXT NOT NULL,
    delivery_address TEXT NOT NULL DEFAULT '',
    preferred_time TEXT NOT NULL DEFAULT '',
    buyer_message TEXT NOT NULL DEFAULT '',
    buyer_phone TEXT NOT NULL DEFAULT '',
    buyer_name TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    seller_response TEXT NOT NULL DEFAULT '',
    rejection_reason TEXT NOT NULL DEFAULT '',
    responded_at INTEGER,
    completed_at INTEGER,
    completion_notes TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

-- At most one pending order per buyer and listing.
CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_one_pending
    ON orders(buyer_id, listing_id) WHERE status = 'pending';
CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id, status);
CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id, status);
`

const migrationChatsUp = `
CREATE TABLE IF NOT EXISTS chats (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    listing_id TEXT NOT NULL,
    participant_0 TEXT NOT NULL,
    participant_1 TEXT NOT NULL,
    pair_low TEXT NOT NULL,
    pair_high TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    is_blocked INTEGER NOT NULL DEFAULT 0,
    blocked_by TEXT NOT NULL DEFAULT '',
    last_message_at INTEGER NOT NULL,
    last_message_preview TEXT NOT NULL DEFAULT '',
    unread_0 INTEGER NOT NULL DEFAULT 0,
    unread_1 INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

-- At most one active chat per listing and unordered participant pair.
CREATE UNIQUE INDEX IF NOT EXISTS idx_chats_active_pair
    ON chats(listing_id, pair_low, pair_high) WHERE is_active = 1;
CREATE INDEX IF NOT EXISTS idx_chats_participant_0 ON chats(participant_0, is_active);
CREATE INDEX IF NOT EXISTS idx_chats_participant_1 ON chats(participant_1, is_active);

CREATE TABLE IF NOT EXISTS messages (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    chat_id TEXT NOT NULL,
    sender_id TEXT NOT NULL,
    body TEXT NOT NULL,
    message_type TEXT NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    is_read INTEGER NOT NULL DEFAULT 0,
    read_at INTEGER,
    is_deleted INTEGER NOT NULL DEFAULT 0,
    system_message_type TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, created_at);
`

const migrationNotificationsUp = `
CREATE TABLE IF NOT EXISTS notifications (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    user_id TEXT NOT NULL,
    type TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    related_id TEXT NOT NULL DEFAULT '',
    related_type TEXT NOT NULL DEFAULT '',
    metadata TEXT NOT NULL DEFAULT '',
    action_url TEXT NOT NULL DEFAULT '',
    is_read INTEGER NOT NULL DEFAULT 0,
    read_at INTEGER,
    priority TEXT NOT NULL,
    sender_id TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, is_read, created_at);
`

// applySQLiteMigrations brings the schema up to the newest migration.
func applySQLiteMigrations(ctx context.Context, db *sql.DB) error {
	current, err := currentSchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	migrations := make([]sqliteMigration, len(sqliteMigrations))
	copy(migrations, sqliteMigrations)
	versions := make(map[string]*semver.Version, len(migrations))
	for _, m := range migrations {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", m.Version, err)
		}
		versions[m.Version] = v
	}
	sort.Slice(migrations, func(i, j int) bool {
		return versions[migrations[i].Version].LessThan(versions[migrations[j].Version])
	})

	for _, m := range migrations {
		v := versions[m.Version]
		if !current.LessThan(v) {
			continue
		}

		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			m.Version, toUnix(nowUTC())); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}
		current = v
	}

	return nil
}

func currentSchemaVersion(ctx context.Context, db *sql.DB) (*semver.Version, error) {
	var tableName string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)
	if err == sql.ErrNoRows {
		return semver.MustParse("0.0.0"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check schema_version table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer rows.Close()

	current := semver.MustParse("0.0.0")
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid schema version %s: %w", raw, err)
		}
		if v.GreaterThan(current) {
			current = v
		}
	}
	return current, rows.Err()
}
