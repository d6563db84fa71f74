package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"lantern/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

// The review decision must land in one UPDATE stamping all three columns, so
// concurrent reviews settle last-write-wins without mixing fields.
func TestReview_SingleUpdateStatement(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewCollaborationRepository(gormDB)

	at := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "diary_editors" SET "approved_at"=$1,"approved_by"=$2,"status"=$3 WHERE id = $4`)).
		WithArgs(at, uint(7), string(models.CollaborationStatusApproved), uint(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Review(context.Background(), 5, models.CollaborationStatusApproved, 7, at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReview_MissingRowIsNotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewCollaborationRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "diary_editors"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Review(context.Background(), 99, models.CollaborationStatusRejected, 7, time.Now())
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
