package di

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/GoArmGo/RecipeApp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildApp_Memory(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.StoreMemory,
		JWTSecret:   "secret",
		ServerPort:  "0",
	}

	a, err := BuildApp(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.NotNil(t, a.Logger())
	assert.NoError(t, a.Shutdown())
}

func TestBuildApp_EmptySecret(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMemory}

	_, err := BuildApp(context.Background(), cfg, discardLogger())
	require.Error(t, err)
}

func TestBuildStores_UnknownDriver(t *testing.T) {
	_, err := BuildStores(context.Background(), &config.Config{StoreDriver: "sqlite"}, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestMigrate_Memory(t *testing.T) {
	assert.NoError(t, Migrate(context.Background(), &config.Config{StoreDriver: config.StoreMemory}, discardLogger()))
}
