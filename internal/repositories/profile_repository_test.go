package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newProfileRepoWithMock(t *testing.T) (*ProfileRepo, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewProfileRepo(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func profileRows(uid, username, usernameLowercase, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"uid", "username", "username_lowercase", "email", "country", "is_premium",
		"is_id_verified", "unread_count", "swap_count", "formatted_address",
		"address_components", "created_at", "updated_at",
	}).AddRow(uid, username, usernameLowercase, email, "", false, false, 0, 0, "", nil, now, now)
}

// The stored username_lowercase must always be the lowercase transform of the
// username the caller supplied.
func TestCreateProfileLowercasesUsername(t *testing.T) {
	repo, mock := newProfileRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("uid-1", "RoseNoire", "rosenoire", "rose@example.com").
		WillReturnRows(profileRows("uid-1", "RoseNoire", "rosenoire", "rose@example.com"))

	profile, err := repo.CreateProfile(context.Background(), "uid-1", "RoseNoire", "rose@example.com")
	require.NoError(t, err)
	require.Equal(t, "rosenoire", profile.UsernameLowercase)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsernameTaken(t *testing.T) {
	repo, mock := newProfileRepoWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("rose").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.UsernameTaken(context.Background(), "rose")
	require.NoError(t, err)
	require.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Fresh profiles have a NULL address_components column; scanning one must not
// error and must leave the field nil.
func TestGetProfileNullAddressComponents(t *testing.T) {
	repo, mock := newProfileRepoWithMock(t)

	mock.ExpectQuery(`SELECT uid`).
		WithArgs("uid-1").
		WillReturnRows(profileRows("uid-1", "Rose", "rose", "rose@example.com"))

	profile, err := repo.GetProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	require.Nil(t, profile.AddressComponents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAddressReturnsComponents(t *testing.T) {
	repo, mock := newProfileRepoWithMock(t)

	components := []byte(`{"city":"Grasse"}`)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"uid", "username", "username_lowercase", "email", "country", "is_premium",
		"is_id_verified", "unread_count", "swap_count", "formatted_address",
		"address_components", "created_at", "updated_at",
	}).AddRow("uid-1", "Rose", "rose", "rose@example.com", "", false, false, 0, 0,
		"1 Rue du Parfum, Grasse", components, now, now)

	mock.ExpectQuery(`UPDATE profiles`).
		WithArgs("uid-1", "1 Rue du Parfum, Grasse", components).
		WillReturnRows(rows)

	profile, err := repo.SaveAddress(context.Background(), "uid-1", "1 Rue du Parfum, Grasse", json.RawMessage(components))
	require.NoError(t, err)
	require.NotNil(t, profile.AddressComponents)
	require.JSONEq(t, `{"city":"Grasse"}`, string(*profile.AddressComponents))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileNotFound(t *testing.T) {
	repo, mock := newProfileRepoWithMock(t)

	empty := sqlmock.NewRows([]string{
		"uid", "username", "username_lowercase", "email", "country", "is_premium",
		"is_id_verified", "unread_count", "swap_count", "formatted_address",
		"address_components", "created_at", "updated_at",
	})
	mock.ExpectQuery(`SELECT uid`).WithArgs("missing").WillReturnRows(empty)

	_, err := repo.GetProfile(context.Background(), "missing")
	require.ErrorIs(t, err, ErrProfileNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
