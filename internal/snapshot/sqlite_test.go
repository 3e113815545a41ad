package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/catalog"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "catalog.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	records := catalog.Records()

	require.NoError(t, store.Save(ctx, catalog.DefaultTitle, records))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(records, loaded); diff != "" {
		t.Errorf("snapshot round trip mismatch (-want +got):\n%s", diff)
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStore_SaveReplaces(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "first", catalog.Records()))
	require.NoError(t, store.Save(ctx, "second", catalog.Records()[2:]))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Periventricular Nodular Heterotopia", loaded[0].Name)
	assert.Len(t, loaded[0].Genes, 2)

	info, err := store.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", info.Title)
	assert.Equal(t, 1, info.Records)
	assert.WithinDuration(t, time.Now(), info.SavedAt, time.Minute)
}

func TestStore_EmptyGenesSurvive(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	records := []domain.Disorder{{ID: "x", Name: "No Genes"}}
	require.NoError(t, store.Save(ctx, "t", records))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.NotNil(t, loaded[0].Genes)
	assert.Empty(t, loaded[0].Genes)
}

func TestStore_InfoBeforeSave(t *testing.T) {
	store := createTestStore(t)

	info, err := store.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Info{}, info)
}

func TestStore_DuplicateIDRollsBack(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "good", catalog.Records()))

	dup := catalog.Records()
	dup[1].ID = dup[0].ID
	err := store.Save(ctx, "bad", dup)
	require.Error(t, err)

	// the previous snapshot is untouched
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 3)

	info, err := store.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "good", info.Title)
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS disorders").WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewStore(db)
	require.NoError(t, err)
	return store, mock
}

func TestNewStore_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("read-only database"))

	_, err = NewStore(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveInsertFailureRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM genes").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM disorders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO disorders").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.Save(context.Background(), "t", catalog.Records())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert disorder \"Lissencephaly\"")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveCommitFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM genes").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM disorders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO snapshot_meta").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO snapshot_meta").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("locked"))

	err := store.Save(context.Background(), "t", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit snapshot")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadQueryFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM disorders").WillReturnError(errors.New("no such table"))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query disorders")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadOrphanGene(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM disorders").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "common_name", "icon", "cause", "symptoms"}).
			AddRow("a", "A", "", "", "", ""))
	mock.ExpectQuery("SELECT (.+) FROM genes").WillReturnRows(
		sqlmock.NewRows([]string{"disorder_id", "id", "name", "description"}).
			AddRow("b", "g", "G", "desc"))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown disorder")
}
