// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	setEnviron(t, map[string]string{
		"CONFIG": "/path/to/config.json",

		"SUPABASE_URL":                  "https://abcd.supabase.co",
		"SUPABASE_ANON_KEY":             "anon-key",
		"BACKEND_SCHEMA":                "pools",
		"BACKEND_CLIENT_INFO":           "pools-cli@0.1.0",
		"BACKEND_REQUEST_TIMEOUT":       "5s",
		"BACKEND_SITE_URL":              "https://pools.example.com",
		"BACKEND_AUTO_REFRESH_TOKEN":    "false",
		"BACKEND_PERSIST_SESSION":       "true",
		"BACKEND_DETECT_SESSION_IN_URL": "false",

		"STORAGE_DB_DSN":                    "/var/lib/pools/pools.db",
		"STORAGE_AVATARS_ENDPOINT":          "https://abcd.supabase.co/storage/v1/s3",
		"STORAGE_AVATARS_REGION":            "eu-west-1",
		"STORAGE_AVATARS_BUCKET":            "avatars",
		"STORAGE_AVATARS_ACCESS_KEY_ID":     "AKIA",
		"STORAGE_AVATARS_SECRET_ACCESS_KEY": "secret",
		"STORAGE_AVATARS_PUBLIC_URL":        "https://abcd.supabase.co/storage/v1/object/public/avatars",

		"APP_STORAGE_KEY":          "0123456789abcdef",
		"WORKERS_REFRESH_INTERVAL": "10s",
		"WORKERS_REFRESH_MARGIN":   "2m",
		"CALLBACK_ADDRESS":         "127.0.0.1:8085",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "https://abcd.supabase.co", cfg.Backend.URL)
	assert.Equal(t, "anon-key", cfg.Backend.AnonKey)
	assert.Equal(t, "pools", cfg.Backend.Schema)
	assert.Equal(t, "pools-cli@0.1.0", cfg.Backend.ClientInfo)
	assert.Equal(t, 5*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, "https://pools.example.com", cfg.Backend.SiteURL)
	require.NotNil(t, cfg.Backend.AutoRefreshToken)
	assert.False(t, *cfg.Backend.AutoRefreshToken)
	require.NotNil(t, cfg.Backend.PersistSession)
	assert.True(t, *cfg.Backend.PersistSession)
	require.NotNil(t, cfg.Backend.DetectSessionInURL)
	assert.False(t, *cfg.Backend.DetectSessionInURL)

	assert.Equal(t, "/var/lib/pools/pools.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "avatars", cfg.Storage.Avatars.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Storage.Avatars.Region)
	assert.Equal(t, "AKIA", cfg.Storage.Avatars.AccessKeyID)
	assert.Equal(t, "secret", cfg.Storage.Avatars.SecretAccessKey)

	assert.Equal(t, "0123456789abcdef", cfg.App.StorageKey)
	assert.Equal(t, 10*time.Second, cfg.Workers.RefreshInterval)
	assert.Equal(t, 2*time.Minute, cfg.Workers.RefreshMargin)
	assert.Equal(t, "127.0.0.1:8085", cfg.Callback.Address)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	setEnviron(t, map[string]string{})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, &StructuredConfig{}, cfg)
	assert.Nil(t, cfg.Backend.AutoRefreshToken, "unset switches must stay nil")
}

func TestParseEnv_ViteNames(t *testing.T) {
	setEnviron(t, map[string]string{
		"VITE_SUPABASE_URL":      "https://vite.supabase.co",
		"VITE_SUPABASE_ANON_KEY": "vite-key",
	})

	vite := &viteBackend{}
	require.NoError(t, parseEnv(vite))

	assert.Equal(t, "https://vite.supabase.co", vite.URL)
	assert.Equal(t, "vite-key", vite.AnonKey)
}

func TestParseEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"duration", map[string]string{"BACKEND_REQUEST_TIMEOUT": "soon"}},
		{"bool", map[string]string{"BACKEND_PERSIST_SESSION": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnviron(t, tt.vars)

			err := parseEnv(&StructuredConfig{})

			require.Error(t, err)
			assert.Contains(t, err.Error(), "env")
		})
	}
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"minutes", "45m", 45 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"combined", "1m30s", 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnviron(t, map[string]string{"WORKERS_REFRESH_INTERVAL": tt.envValue})

			cfg := &StructuredConfig{}
			require.NoError(t, parseEnv(cfg))
			assert.Equal(t, tt.expected, cfg.Workers.RefreshInterval)
		})
	}
}

// Helpers

func setEnviron(t *testing.T, vars map[string]string) {
	t.Helper()
	prev := environ
	environ = func() map[string]string { return vars }
	t.Cleanup(func() { environ = prev })
}
