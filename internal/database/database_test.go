package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "linkpage.db")
	db, err := New(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, "SQLite", db.DatabaseType())
}

func TestNew_EmptyPath(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.Error(t, err)
}

func TestStores_GetPut(t *testing.T) {
	stores := map[string]Store{
		"sqlite": newTestDB(t),
		"memory": NewMemory(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, "doc", doc{Title: "first", Tags: []string{"a"}}))
			var got doc
			require.NoError(t, GetJSON(ctx, s, "doc", &got))
			assert.Equal(t, doc{Title: "first", Tags: []string{"a"}}, got)

			// Last write wins.
			require.NoError(t, s.Put(ctx, "doc", doc{Title: "second"}))
			got = doc{}
			require.NoError(t, GetJSON(ctx, s, "doc", &got))
			assert.Equal(t, "second", got.Title)
			assert.Nil(t, got.Tags)
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Put(ctx, "k", map[string]int{"n": 1}))
	require.NoError(t, db.Close())

	db, err = New(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	raw, err := db.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(raw))
}

func TestGetJSON_DecodeError(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Put(ctx, "k", "a string"))

	var v doc
	err := GetJSON(ctx, s, "k", &v)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPut_UnencodableValue(t *testing.T) {
	err := NewMemory().Put(context.Background(), "k", make(chan int))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "memory", "")
	require.NoError(t, err)
	assert.Equal(t, "Memory", s.DatabaseType())

	s, err = Open(ctx, "sqlite", filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "SQLite", s.DatabaseType())

	_, err = Open(ctx, "mongo", "")
	assert.Error(t, err)
}
