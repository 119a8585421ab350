package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.RetrievalK)
	assert.True(t, cfg.Search.WebEnabled)
	assert.True(t, cfg.Search.SocialEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("CHUNK_OVERLAP", "50")
	t.Setenv("WEB_SEARCH_ENABLED", "false")
	t.Setenv("MAX_VIDEO_RESULTS", "7")
	t.Setenv("COLLECTION_NAME", "papers")

	cfg := Load()

	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.False(t, cfg.Search.WebEnabled)
	assert.Equal(t, 7, cfg.Search.MaxVideoResults)
	assert.Equal(t, "papers", cfg.CollectionName)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "not-a-number")
	t.Setenv("VIDEO_SEARCH_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.True(t, cfg.Search.VideoEnabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		k       int
		wantErr bool
	}{
		{"defaults", 1000, 200, 5, false},
		{"zero overlap", 1000, 0, 5, false},
		{"overlap equals size", 1000, 1000, 5, true},
		{"overlap exceeds size", 1000, 1500, 5, true},
		{"negative overlap", 1000, -1, 5, true},
		{"zero size", 0, 0, 5, true},
		{"zero k", 1000, 200, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ChunkSize: tt.size, ChunkOverlap: tt.overlap, RetrievalK: tt.k}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
