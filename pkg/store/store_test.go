package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestKV(t *testing.T) *FileKV {
	t.Helper()
	s, err := NewFileKV(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return s
}

func TestFileKVSetGet(t *testing.T) {
	s := setupTestKV(t)

	err := s.Set("goalBasket", []byte(`{"goals":[]}`))
	require.NoError(t, err)

	data, err := s.Get("goalBasket")
	require.NoError(t, err)
	assert.JSONEq(t, `{"goals":[]}`, string(data))

	// File should exist under the root
	_, err = os.Stat(filepath.Join(s.Root, "goalBasket.json"))
	assert.NoError(t, err)
}

func TestFileKVGetMissing(t *testing.T) {
	s := setupTestKV(t)

	_, err := s.Get("goalBasket")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileKVOverwriteLeavesNoTempFiles(t *testing.T) {
	s := setupTestKV(t)

	require.NoError(t, s.Set("goalBasket", []byte("one")))
	require.NoError(t, s.Set("goalBasket", []byte("two")))

	data, err := s.Get("goalBasket")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(s.Root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "goalBasket.json", entries[0].Name())
}

func TestFileKVDelete(t *testing.T) {
	s := setupTestKV(t)

	require.NoError(t, s.Set("goalBasket", []byte("x")))
	require.NoError(t, s.Delete("goalBasket"))

	_, err := s.Get("goalBasket")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is fine
	assert.NoError(t, s.Delete("goalBasket"))
	assert.Empty(t, s.LastWrite("goalBasket"))
}

func TestFileKVRejectsPathKeys(t *testing.T) {
	s := setupTestKV(t)

	assert.Error(t, s.Set("../escape", []byte("x")))
	_, err := s.Get("a/b")
	assert.Error(t, err)
	assert.Error(t, s.Delete(""))
}

func TestFileKVOwnWrite(t *testing.T) {
	s := setupTestKV(t)

	require.NoError(t, s.Set("goalBasket", []byte("mine")))
	assert.True(t, s.IsOwnWrite("goalBasket", []byte("mine")))
	assert.False(t, s.IsOwnWrite("goalBasket", []byte("someone else")))
	assert.False(t, s.IsOwnWrite("other", []byte("mine")))
}

func TestMemoryKV(t *testing.T) {
	m := NewMemoryKV()

	_, err := m.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	value := []byte("v1")
	require.NoError(t, m.Set("k", value))
	value[0] = 'X' // caller mutation must not leak in

	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, m.Delete("k"))
	_, err = m.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteKV(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSQLiteKV(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.Get("goalBasket")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("goalBasket", []byte("first")))
	require.NoError(t, s.Set("goalBasket", []byte("second")))

	got, err := s.Get("goalBasket")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	require.NoError(t, s.Delete("goalBasket"))
	_, err = s.Get("goalBasket")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.FileExists(t, filepath.Join(dir, "tandem.db"))
}

func TestSQLiteKVPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	s, err := NewSQLiteKV(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("goalBasket", []byte("kept")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteKV(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get("goalBasket")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open("", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileKV{}, kv)

	kv, err = Open(BackendMemory, dir)
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	kv, err = Open(BackendSQLite, dir)
	require.NoError(t, err)
	require.IsType(t, &SQLiteKV{}, kv)
	kv.(*SQLiteKV).Close()

	_, err = Open("redis", dir)
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("basket"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint([]byte("basket")))
	assert.NotEqual(t, a, Fingerprint([]byte("basket!")))
}
