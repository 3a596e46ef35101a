package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory-locker", cfg.ServiceName)
	assert.Equal(t, ":8290", cfg.Addr())
	assert.True(t, cfg.IsLocalStorage())
	assert.False(t, cfg.IsS3Storage())
	assert.Equal(t, PhotoStorageInline, cfg.PhotoStorage)
	assert.Equal(t, "admin123", cfg.AuthorSecret)
	assert.Equal(t, "love123", cfg.ReaderSecret)
	assert.Equal(t, int64(20971520), cfg.MaxUploadBytes)
}

func TestLoadS3RequiresCredentials(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing bucket",
			env: map[string]string{
				"LOCKER_S3_ACCESS_KEY_ID":     "key",
				"LOCKER_S3_SECRET_ACCESS_KEY": "secret",
			},
		},
		{
			name: "missing access key",
			env: map[string]string{
				"LOCKER_S3_BUCKET":            "memories",
				"LOCKER_S3_SECRET_ACCESS_KEY": "secret",
			},
		},
		{
			name: "missing secret",
			env: map[string]string{
				"LOCKER_S3_BUCKET":        "memories",
				"LOCKER_S3_ACCESS_KEY_ID": "key",
			},
		},
		{
			name: "blank bucket",
			env: map[string]string{
				"LOCKER_S3_BUCKET":            "   ",
				"LOCKER_S3_ACCESS_KEY_ID":     "key",
				"LOCKER_S3_SECRET_ACCESS_KEY": "secret",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOCKER_STORAGE_BACKEND", "s3")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadS3Complete(t *testing.T) {
	t.Setenv("LOCKER_STORAGE_BACKEND", "s3")
	t.Setenv("LOCKER_S3_BUCKET", "memories")
	t.Setenv("LOCKER_S3_ACCESS_KEY_ID", "key")
	t.Setenv("LOCKER_S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("LOCKER_PHOTO_STORAGE", "blob")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsS3Storage())
	assert.Equal(t, PhotoStorageBlob, cfg.PhotoStorage)
}

func TestLoadPhotoStorageValidation(t *testing.T) {
	t.Run("blob requires s3 backend", func(t *testing.T) {
		t.Setenv("LOCKER_STORAGE_BACKEND", "local")
		t.Setenv("LOCKER_PHOTO_STORAGE", "blob")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		t.Setenv("LOCKER_PHOTO_STORAGE", "cloudinary")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("local mode accepted", func(t *testing.T) {
		t.Setenv("LOCKER_PHOTO_STORAGE", "local")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, PhotoStorageLocal, cfg.PhotoStorage)
	})
}
