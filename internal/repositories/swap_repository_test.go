package repositories

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSwapRepoWithMock(t *testing.T) (*SwapRepo, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewSwapRepo(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func idRows(from, to int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for id := from; id <= to; id++ {
		rows.AddRow(id)
	}
	return rows
}

var (
	fetchMessages  = regexp.QuoteMeta(`SELECT id FROM swap_messages WHERE swap_id=$1 ORDER BY id LIMIT $2`)
	deleteMessages = regexp.QuoteMeta(`DELETE FROM swap_messages WHERE id = ANY($1)`)
	fetchPresence  = regexp.QuoteMeta(`SELECT id FROM swap_presence WHERE swap_id=$1 ORDER BY id LIMIT $2`)
	deleteParent   = regexp.QuoteMeta(`DELETE FROM swap_requests WHERE id=$1`)
)

func expectBatchDelete(mock sqlmock.Sqlmock, query string, rowsDeleted int64) {
	mock.ExpectBegin()
	mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, rowsDeleted))
	mock.ExpectCommit()
}

// 120 messages and a batch size of 50 must produce exactly three message
// batches (50+50+20) before the parent row is deleted.
func TestDeleteSwapRequestTreeBatchesMessages(t *testing.T) {
	repo, mock := newSwapRepoWithMock(t)

	mock.ExpectQuery(fetchMessages).WithArgs("swap-1", DeleteBatchSize).WillReturnRows(idRows(1, 50))
	expectBatchDelete(mock, deleteMessages, 50)
	mock.ExpectQuery(fetchMessages).WithArgs("swap-1", DeleteBatchSize).WillReturnRows(idRows(51, 100))
	expectBatchDelete(mock, deleteMessages, 50)
	mock.ExpectQuery(fetchMessages).WithArgs("swap-1", DeleteBatchSize).WillReturnRows(idRows(101, 120))
	expectBatchDelete(mock, deleteMessages, 20)
	mock.ExpectQuery(fetchMessages).WithArgs("swap-1", DeleteBatchSize).WillReturnRows(idRows(1, 0))

	mock.ExpectQuery(fetchPresence).WithArgs("swap-1", DeleteBatchSize).WillReturnRows(idRows(1, 0))

	mock.ExpectExec(deleteParent).WithArgs("swap-1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteSwapRequestTree(context.Background(), "swap-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Empty child tables short-circuit straight to the parent delete.
func TestDeleteSwapRequestTreeEmptySubtree(t *testing.T) {
	repo, mock := newSwapRepoWithMock(t)

	mock.ExpectQuery(fetchMessages).WithArgs("swap-2", DeleteBatchSize).WillReturnRows(idRows(1, 0))
	mock.ExpectQuery(fetchPresence).WithArgs("swap-2", DeleteBatchSize).WillReturnRows(idRows(1, 0))
	mock.ExpectExec(deleteParent).WithArgs("swap-2").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteSwapRequestTree(context.Background(), "swap-2"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSwapRequestTreeParentMissing(t *testing.T) {
	repo, mock := newSwapRepoWithMock(t)

	mock.ExpectQuery(fetchMessages).WithArgs("swap-3", DeleteBatchSize).WillReturnRows(idRows(1, 0))
	mock.ExpectQuery(fetchPresence).WithArgs("swap-3", DeleteBatchSize).WillReturnRows(idRows(1, 0))
	mock.ExpectExec(deleteParent).WithArgs("swap-3").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteSwapRequestTree(context.Background(), "swap-3")
	require.ErrorIs(t, err, ErrSwapNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A failed batch commit aborts the whole drain; nothing beyond the failing
// batch runs.
func TestDeleteSwapRequestTreeBatchFailureAborts(t *testing.T) {
	repo, mock := newSwapRepoWithMock(t)

	mock.ExpectQuery(fetchMessages).WithArgs("swap-4", DeleteBatchSize).WillReturnRows(idRows(1, 50))
	mock.ExpectBegin()
	mock.ExpectExec(deleteMessages).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.DeleteSwapRequestTree(context.Background(), "swap-4")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
