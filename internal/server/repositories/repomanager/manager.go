// Package repomanager aggregates the per-entity repositories over one
// database handle and owns schema migration at startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/roomreel/roomreel/internal/dbx"
	"github.com/roomreel/roomreel/internal/server/repositories/rooms"
	"github.com/roomreel/roomreel/internal/server/repositories/videos"
)

// RepositoryManager hands out repositories bound to a DBTX, so the same
// repository code runs both on the pool and inside a transaction.
type RepositoryManager interface {
	Conn() *sql.DB
	Rooms(db dbx.DBTX) rooms.Repository
	Videos(db dbx.DBTX) videos.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
