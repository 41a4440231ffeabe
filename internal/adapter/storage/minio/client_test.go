package minio

import (
	"context"
	"io"
	"log/slog"
	"testing"

	appconfig "github.com/GoArmGo/RecipeApp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", EndpointURL("localhost:9000", false))
	assert.Equal(t, "https://s3.example.com", EndpointURL("s3.example.com", true))
	assert.Equal(t, "http://minio:9000", EndpointURL("http://minio:9000", true))
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"http://cdn.test/recipe-images/recipes/1/2.png",
		ObjectURL("http://cdn.test/", "recipe-images", "recipes/1/2.png"),
	)
}

func TestNewMinioClient_RequiresCredentials(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewMinioClient(context.Background(), &appconfig.Config{MinioEndpoint: "localhost:9000"}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MINIO_ACCESS_KEY_ID")
}
