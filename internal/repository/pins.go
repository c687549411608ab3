package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// PinRepository stores each user's pinned achievement ids in order.
type PinRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPinRepository(db *sql.DB, logger zerolog.Logger) *PinRepository {
	return &PinRepository{db: db, logger: logger}
}

// Get returns username's pins in the order they were set.
func (r *PinRepository) Get(ctx context.Context, username string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT achievement_id FROM pins WHERE username = ? ORDER BY position`, username)
	if err != nil {
		r.logger.Error().Err(err).Str("username", username).Msg("failed to query pins")
		return nil, fmt.Errorf("failed to query pins: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Set replaces username's pins. Duplicate ids keep their first position.
func (r *PinRepository) Set(ctx context.Context, username string, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pins WHERE username = ?`, username); err != nil {
		return fmt.Errorf("failed to clear pins: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO pins (username, achievement_id, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, username, id, i); err != nil {
			return fmt.Errorf("failed to insert pin: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error().Err(err).Str("username", username).Msg("failed to commit pins")
		return fmt.Errorf("failed to commit pins: %w", err)
	}
	r.logger.Debug().Str("username", username).Int("count", len(ids)).Msg("pins saved")
	return nil
}
