package rooms

import (
	"context"

	"github.com/roomreel/roomreel/internal/server/models"
)

type Repository interface {
	// GetByName returns the room with the given unique name, or
	// common.ErrorNotFound.
	GetByName(ctx context.Context, name string) (*models.Room, error)

	// OwnerCount returns the number of owners of the named room, or
	// common.ErrorNotFound when no such room exists.
	OwnerCount(ctx context.Context, name string) (int, error)
}
