// internal/database/moves.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/solitaire/internal/models"
)

// Schema creates the historian tables if they do not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS boards (
	id           UUID PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'in_progress',
	start_time   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_move_at TIMESTAMPTZ,
	end_time     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS board_moves (
	board_id     UUID NOT NULL REFERENCES boards(id),
	action_index INT NOT NULL,
	card_id      TEXT NOT NULL,
	action_type  TEXT NOT NULL,
	from_column  INT NOT NULL,
	to_column    INT NOT NULL,
	dx           DOUBLE PRECISION NOT NULL,
	dy           DOUBLE PRECISION NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (board_id, action_index)
);
`

// MoveSink persists move records to Postgres.
type MoveSink struct {
	Pool *pgxpool.Pool
}

// EnsureSchema applies Schema.
func (s *MoveSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// WriteMoves inserts a batch of records in a single transaction.
func (s *MoveSink) WriteMoves(ctx context.Context, records []models.MoveRecord) error {
	return pgx.BeginTxFunc(ctx, s.Pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertMoveTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertMoveTx: %w", err)
			}
		}
		return nil
	})
}

// MarkAbandoned marks a board 'abandoned' if it is still in progress.
func (s *MoveSink) MarkAbandoned(ctx context.Context, boardID uuid.UUID) error {
	q := `
		UPDATE boards
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	if _, err := s.Pool.Exec(ctx, q, boardID); err != nil {
		return fmt.Errorf("mark board %v abandoned: %w", boardID, err)
	}
	return nil
}

// insertMoveTx upserts the board row, inserts one move, and closes the board
// when the record says the screen was left.
func insertMoveTx(ctx context.Context, tx pgx.Tx, rec models.MoveRecord) error {
	upsertBoardQ := `
		INSERT INTO boards (id, status, last_move_at)
		VALUES ($1, 'in_progress', to_timestamp($2 / 1000.0))
		ON CONFLICT (id)
		DO UPDATE SET last_move_at = EXCLUDED.last_move_at
	`
	if _, err := tx.Exec(ctx, upsertBoardQ, rec.BoardID, rec.Timestamp); err != nil {
		return err
	}

	if rec.ActionType == models.ActionBoardClosed {
		closeQ := `
			UPDATE boards
			SET status = 'completed', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		_, err := tx.Exec(ctx, closeQ, rec.BoardID)
		return err
	}

	moveQ := `
		INSERT INTO board_moves (
			board_id, action_index, card_id, action_type,
			from_column, to_column, dx, dy, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, to_timestamp($9 / 1000.0))
		ON CONFLICT (board_id, action_index) DO NOTHING
	`
	_, err := tx.Exec(ctx, moveQ,
		rec.BoardID, rec.ActionIndex, rec.CardID, rec.ActionType,
		rec.FromColumn, rec.ToColumn, rec.DX, rec.DY, rec.Timestamp,
	)
	return err
}
