package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bingo-cards-backend/internal/bingo"
	"bingo-cards-backend/internal/draw"
	"bingo-cards-backend/internal/model"
	"bingo-cards-backend/internal/rng"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

// newSQLiteStore opens a private in-memory database with the schema applied.
func newSQLiteStore(t *testing.T) (Store, *gorm.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gormDB.AutoMigrate(&model.Game{}, &model.Draw{}))
	return NewGormStore(gormDB), gormDB
}

func TestGormStore_GetGame_NotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "games" WHERE id = \$1 ORDER BY "games"."id" LIMIT \$[0-9]+`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tag", "content"}))

	_, err := s.GetGame(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetGame_Corrupt(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "games" WHERE id = \$1`).
		WithArgs("g1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tag", "content", "card_count"}).
			AddRow("g1", "fete", "|CardNo.1;1;2", 1))

	_, err := s.GetGame(context.Background(), "g1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListGames_Mock(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(`SELECT "id","tag","card_count","created_at" FROM "games" ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tag", "card_count", "created_at"}).
			AddRow("a", "Fete", 10, now).
			AddRow("b", "Quiz", 2, now.Add(-time.Hour)))

	games, err := s.ListGames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, GameSummary{ID: "a", Name: "Fete", CardCount: 10, CreatedAt: now}, games[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GameLifecycle(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()

	g := bingo.NewGame("Village Hall", 12, rng.NewLCG(1))
	summary, err := s.SaveGame(ctx, g)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, "Village Hall", summary.Name)
	assert.Equal(t, 12, summary.CardCount)

	loaded, err := s.GetGame(ctx, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, g, loaded)

	list, err := s.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, summary.ID, list[0].ID)

	require.NoError(t, s.DeleteGame(ctx, summary.ID))
	_, err = s.GetGame(ctx, summary.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteGame(ctx, summary.ID), ErrNotFound)
}

func TestGormStore_Draws(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	summary, err := s.SaveGame(ctx, bingo.NewGame("draws", 2, rng.NewLCG(2)))
	require.NoError(t, err)
	id := summary.ID

	numbers, err := s.Draws(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, numbers)

	for _, n := range []int{17, 3, 89} {
		_, err := s.AppendDraw(ctx, id, n)
		require.NoError(t, err)
	}
	numbers, err = s.Draws(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int{17, 3, 89}, numbers)

	_, err = s.AppendDraw(ctx, id, 3)
	assert.ErrorIs(t, err, draw.ErrAlreadyDrawn)
	_, err = s.AppendDraw(ctx, id, 90)
	assert.ErrorIs(t, err, draw.ErrOutOfRange)
	_, err = s.AppendDraw(ctx, "nope", 5)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.ResetDraws(ctx, id))
	numbers, err = s.Draws(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, numbers)

	_, err = s.AppendDraw(ctx, id, 3)
	require.NoError(t, err)

	require.NoError(t, s.DeleteGame(ctx, id))
	var remaining int64
	require.NoError(t, gormDB.Model(&model.Draw{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestGormStore_PurgeBefore(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	old, err := s.SaveGame(ctx, bingo.NewGame("old", 1, rng.NewLCG(3)))
	require.NoError(t, err)
	fresh, err := s.SaveGame(ctx, bingo.NewGame("fresh", 1, rng.NewLCG(4)))
	require.NoError(t, err)
	_, err = s.AppendDraw(ctx, old.ID, 10)
	require.NoError(t, err)

	require.NoError(t, gormDB.Model(&model.Game{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	purged, err := s.PurgeBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{old.ID}, purged)

	_, err = s.GetGame(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetGame(ctx, fresh.ID)
	assert.NoError(t, err)

	purged, err = s.PurgeBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, purged)
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

func TestGormStore_DeleteGame_Mock(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "draws" WHERE game_id = \$1`).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "games" WHERE id = \$1`).
		WithArgs(Any{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteGame(context.Background(), "g1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_AppendDraw_LocksGame(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "games" WHERE id = \$1 LIMIT \$2 FOR UPDATE`).
		WithArgs("g1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("g1"))
	mock.ExpectQuery(`SELECT "number" FROM "draws" WHERE game_id = \$1 ORDER BY seq ASC`).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"number"}).AddRow(17))
	mock.ExpectQuery(`INSERT INTO "draws"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	numbers, err := s.AppendDraw(context.Background(), "g1", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{17, 4}, numbers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_AppendDraw_UniqueViolation(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	// Another writer recorded 4 between our read and our insert.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "games" WHERE id = \$1 LIMIT \$2 FOR UPDATE`).
		WithArgs("g1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("g1"))
	mock.ExpectQuery(`SELECT "number" FROM "draws" WHERE game_id = \$1 ORDER BY seq ASC`).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"number"}))
	mock.ExpectQuery(`INSERT INTO "draws"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_draw_game_number"})
	mock.ExpectRollback()

	_, err := s.AppendDraw(context.Background(), "g1", 4)
	assert.ErrorIs(t, err, draw.ErrAlreadyDrawn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_AppendDraw_MissingGame(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "games" WHERE id = \$1 LIMIT \$2 FOR UPDATE`).
		WithArgs("nope", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.AppendDraw(context.Background(), "nope", 4)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
