package leveldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase(t *testing.T) {
	path := t.TempDir()
	db, err := New(path, 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, path, db.Path())

	key, value := []byte("key"), []byte("value")
	has, err := db.Has(key)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = db.Get(key)
	assert.True(t, IsNotFoundErr(err))

	require.NoError(t, db.Put(key, value))
	got, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	has, err = db.Has(key)
	require.NoError(t, err)
	assert.True(t, has)
	require.NoError(t, db.Close())

	// writes survive reopening, also readonly
	db, err = New(path, 0, 0, false)
	require.NoError(t, err)
	require.NoError(t, db.Put(key, value))
	require.NoError(t, db.Close())

	db, err = New(path, 0, 0, true)
	require.NoError(t, err)
	defer db.Close()
	got, err = db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}
