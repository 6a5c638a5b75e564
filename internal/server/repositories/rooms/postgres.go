package rooms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roomreel/roomreel/internal/common"
	"github.com/roomreel/roomreel/internal/dbx"
	"github.com/roomreel/roomreel/internal/server/models"
)

// PostgresRepository implements room lookups over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Room, error) {
	query := `SELECT id, name, created_at FROM rooms WHERE name = $1`

	room := &models.Room{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&room.ID, &room.Name, &room.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select room: %w", err)
	}
	return room, nil
}

// OwnerCount counts the room's owners. The LEFT JOIN keeps a zero-owner room
// distinguishable from a missing room.
func (r *PostgresRepository) OwnerCount(ctx context.Context, name string) (int, error) {
	query := `
		SELECT count(ro.user_id) FROM rooms r
		LEFT JOIN room_owners ro ON ro.room_id = r.id
		WHERE r.name = $1
		GROUP BY r.id
	`

	var n int
	err := r.db.QueryRowContext(ctx, query, name).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrorNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count owners: %w", err)
	}
	return n, nil
}
