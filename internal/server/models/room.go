package models

import "time"

// Room is the tenant boundary grouping users, owners, editors and videos.
// Identity is the unique name; the session layer binds callers to a room by
// that name.
type Room struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
