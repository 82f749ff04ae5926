package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	p := filepath.Join(t.TempDir(), "config.json")
	jsonBody := `{
		"backend": {
			"url": "https://abcd.supabase.co",
			"anon_key": "anon",
			"schema": "public",
			"request_timeout": "20s",
			"persist_session": false
		},
		"storage": {
			"db": { "dsn": "pools.db" },
			"avatars": { "bucket": "avatars", "endpoint": "http://localhost:9000" }
		},
		"app": { "storage_key": "0123456789abcdef" },
		"workers": { "refresh_interval": "15s", "refresh_margin": 60000000000 },
		"callback": { "address": "127.0.0.1:5173" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://abcd.supabase.co", cfg.Backend.URL)
	assert.Equal(t, "anon", cfg.Backend.AnonKey)
	assert.Equal(t, 20*time.Second, cfg.Backend.RequestTimeout)
	require.NotNil(t, cfg.Backend.PersistSession)
	assert.False(t, *cfg.Backend.PersistSession)
	assert.Nil(t, cfg.Backend.AutoRefreshToken)
	assert.Equal(t, "pools.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "avatars", cfg.Storage.Avatars.Bucket)
	assert.Equal(t, "0123456789abcdef", cfg.App.StorageKey)
	assert.Equal(t, 15*time.Second, cfg.Workers.RefreshInterval)
	assert.Equal(t, time.Minute, cfg.Workers.RefreshMargin)
	assert.Equal(t, "127.0.0.1:5173", cfg.Callback.Address)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading a json file")
	})

	t.Run("malformed body", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(p, []byte(`{"backend": `), 0o600))

		_, err := parseJSON(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error decoding json configs")
	})

	t.Run("invalid duration", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(p, []byte(`{"workers": {"refresh_interval": "often"}}`), 0o600))

		_, err := parseJSON(p)
		require.Error(t, err)
	})
}

func TestDuration_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(data))

	var d Duration
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, Duration(90*time.Second), d)

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}
