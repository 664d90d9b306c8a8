package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/pkg/errors"

	"github.com/micahreeves/what-time/internal/clock"
	"github.com/micahreeves/what-time/internal/domain"
)

// SQLiteStore implements Store on an embedded SQLite database. It is an
// alternative to the default file backend for deployments that prefer a
// queryable record store.
type SQLiteStore struct {
	db  *sql.DB
	clk clock.Clock
}

// OpenSQLite opens (or creates) the database under dir, applies
// PRAGMAs, runs migrations, and returns the store.
func OpenSQLite(ctx context.Context, dir string, clk clock.Clock) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "whattime.db"))
	if err != nil {
		return nil, err
	}

	// Single-writer engine; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply pragmas")
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrations: %v", domain.ErrCorruptStore, err)
	}

	return &SQLiteStore{db: db, clk: clk}, nil
}

// applyPragmas configures the connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Get(ctx context.Context, identity domain.Identity) (*domain.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT tz, updated_at FROM user_timezones WHERE identity = ?`,
		string(identity),
	)
	var (
		tz        string
		updatedAt int64
	)
	if err := row.Scan(&tz, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &domain.Record{
		Identity:  identity,
		TZ:        tz,
		UpdatedAt: time.Unix(updatedAt, 0).UTC(),
	}, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, identity domain.Identity, tz string) (*domain.Record, error) {
	now := s.clk.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_timezones (identity, tz, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET
			tz         = excluded.tz,
			updated_at = excluded.updated_at`,
		string(identity), tz, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return &domain.Record{Identity: identity, TZ: tz, UpdatedAt: now}, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, identity domain.Identity) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM user_timezones WHERE identity = ?`,
		string(identity),
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identity, tz, updated_at
		FROM user_timezones
		ORDER BY identity ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var (
			identity  string
			tz        string
			updatedAt int64
		)
		if err := rows.Scan(&identity, &tz, &updatedAt); err != nil {
			return nil, err
		}
		out = append(out, domain.Record{
			Identity:  domain.Identity(identity),
			TZ:        tz,
			UpdatedAt: time.Unix(updatedAt, 0).UTC(),
		})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ChatZones(ctx context.Context, chatID string) ([]domain.NamedZone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT display_name, tz
		FROM chat_zones
		WHERE chat_id = ?
		ORDER BY display_name ASC`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.NamedZone
	for rows.Next() {
		var z domain.NamedZone
		if err := rows.Scan(&z.Name, &z.TZ); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PutChatZone(ctx context.Context, chatID, name, tz string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chat_zones WHERE chat_id = ? AND display_name = ?`,
		chatID, name,
	).Scan(&existing)
	if err != nil {
		return err
	}
	if existing == 0 {
		var total int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM chat_zones WHERE chat_id = ?`,
			chatID,
		).Scan(&total); err != nil {
			return err
		}
		if total >= domain.MaxChatZones {
			return domain.ErrZoneLimit
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_zones (chat_id, display_name, tz)
		VALUES (?, ?, ?)
		ON CONFLICT(chat_id, display_name) DO UPDATE SET tz = excluded.tz`,
		chatID, name, tz,
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (s *SQLiteStore) RemoveChatZone(ctx context.Context, chatID, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM chat_zones WHERE chat_id = ? AND display_name = ?`,
		chatID, name,
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) ClearChatZones(ctx context.Context, chatID string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM chat_zones WHERE chat_id = ?`,
		chatID,
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}
