package rooms

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/roomreel/roomreel/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestOwnerCount_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+count\(ro\.user_id\)\s+FROM\s+rooms\s+r\s+LEFT\s+JOIN\s+room_owners\b`

	mock.ExpectQuery(q).
		WithArgs("makers").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.OwnerCount(context.Background(), "makers")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerCount_RoomMissing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+count`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.OwnerCount(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestOwnerCount_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+count`).
		WithArgs("makers").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.OwnerCount(context.Background(), "makers")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByName_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow(int64(7), "makers", time.Now())

	mock.ExpectQuery(`SELECT\s+id,\s+name,\s+created_at\s+FROM\s+rooms`).
		WithArgs("makers").
		WillReturnRows(rows)

	room, err := repo.GetByName(context.Background(), "makers")
	require.NoError(t, err)
	require.Equal(t, int64(7), room.ID)
	require.Equal(t, "makers", room.Name)
}

func TestGetByName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s+name,\s+created_at\s+FROM\s+rooms`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByName(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
