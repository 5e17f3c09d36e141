package infra

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptem/configs"
	"cryptem/internal/logging"
	"cryptem/internal/repository"
)

func TestOpenUserStore_FileWhenNoDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	store, err := OpenUserStore(context.Background(), configs.StorageConfig{UsersFile: path}, logging.Discard())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &repository.UserFileRepository{}, store.Users)
	assert.Nil(t, store.Pool)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenUserStore_BadDatabaseURL(t *testing.T) {
	_, err := OpenUserStore(context.Background(), configs.StorageConfig{DatabaseURL: "postgres://%zz"}, logging.Discard())
	assert.Error(t, err)
}
