// Package listings records SkyBlock account listings posted through
// /list, so the Buy / Update Stats / Unlist buttons keep working across
// restarts.
package listings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Listing struct {
	ID            string
	MessageID     string
	ChannelID     string
	Username      string
	MinecraftUUID string
	ProfileName   string
	PriceUSD      int64
	ListedByID    string
	CreatedAt     time.Time
	Active        bool
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS listings (
        id TEXT PRIMARY KEY,
        message_id TEXT NOT NULL UNIQUE,
        channel_id TEXT NOT NULL,
        username TEXT NOT NULL,
        minecraft_uuid TEXT NOT NULL,
        profile_name TEXT NOT NULL,
        price_usd INTEGER NOT NULL,
        listed_by TEXT NOT NULL,
        created_at TEXT NOT NULL,
        active INTEGER NOT NULL DEFAULT 1
    )`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Add inserts a new active listing and returns its generated ID.
func (s *Store) Add(ctx context.Context, l Listing) (string, error) {
	id := uuid.NewString()
	createdAt := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO listings(id, message_id, channel_id, username, minecraft_uuid, profile_name, price_usd, listed_by, created_at, active)
         VALUES(?,?,?,?,?,?,?,?,?,1)`,
		id, l.MessageID, l.ChannelID, l.Username, l.MinecraftUUID, l.ProfileName, l.PriceUSD, l.ListedByID,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetByMessage returns the listing behind a posted message, or nil when
// the message is not a listing.
func (s *Store) GetByMessage(ctx context.Context, messageID string) (*Listing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, message_id, channel_id, username, minecraft_uuid, profile_name, price_usd, listed_by, created_at, active
         FROM listings WHERE message_id=?`,
		messageID,
	)
	return scanListing(row)
}

// Get returns a listing by its ID.
func (s *Store) Get(ctx context.Context, id string) (*Listing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, message_id, channel_id, username, minecraft_uuid, profile_name, price_usd, listed_by, created_at, active
         FROM listings WHERE id=?`,
		id,
	)
	return scanListing(row)
}

// Deactivate marks a listing unlisted. The row is kept for staff history.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE listings SET active=0 WHERE id=?`, id)
	return err
}

// Active returns every listing still up, newest first.
func (s *Store) Active(ctx context.Context) ([]Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, message_id, channel_id, username, minecraft_uuid, profile_name, price_usd, listed_by, created_at, active
         FROM listings WHERE active=1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		var createdAt string
		var active int
		if err := rows.Scan(&l.ID, &l.MessageID, &l.ChannelID, &l.Username, &l.MinecraftUUID,
			&l.ProfileName, &l.PriceUSD, &l.ListedByID, &createdAt, &active); err != nil {
			return nil, err
		}
		l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		l.Active = active != 0
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*Listing, error) {
	var l Listing
	var createdAt string
	var active int
	if err := row.Scan(&l.ID, &l.MessageID, &l.ChannelID, &l.Username, &l.MinecraftUUID,
		&l.ProfileName, &l.PriceUSD, &l.ListedByID, &createdAt, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	l.Active = active != 0
	return &l, nil
}
