package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{"empty address", NetAddress{}, ""},
		{"localhost with port", NetAddress{Host: "localhost", Port: 5173}, "localhost:5173"},
		{"IP address with port", NetAddress{Host: "127.0.0.1", Port: 9090}, "127.0.0.1:9090"},
		{"only port no host", NetAddress{Port: 8080}, ":8080"},
		{"ipv6", NetAddress{Host: "::1", Port: 8080}, "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		host        string
		port        int
	}{
		{name: "localhost", input: "localhost:5173", host: "localhost", port: 5173},
		{name: "ipv4", input: "127.0.0.1:8085", host: "127.0.0.1", port: 8085},
		{name: "ipv6", input: "[::1]:8085", host: "::1", port: 8085},
		{name: "missing port", input: "localhost", expectError: true},
		{name: "non numeric port", input: "localhost:http", expectError: true},
		{name: "zero port", input: "localhost:0", expectError: true},
		{name: "port out of range", input: "localhost:70000", expectError: true},
		{name: "hostname", input: "example.com:80", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, NetAddress{}, addr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, addr.Host)
			assert.Equal(t, tt.port, addr.Port)
		})
	}
}

func newTestFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("pools", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestParseFlags_OnlyChangedFlags(t *testing.T) {
	fs := newTestFlagSet(t,
		"--url", "https://abcd.supabase.co",
		"--anon-key", "anon",
		"--request-timeout", "3s",
		"--persist-session=false",
		"-d", "session.db",
		"-c", "pools.json",
		"--callback-address", "127.0.0.1:9999",
	)

	cfg, err := parseFlags(fs)

	require.NoError(t, err)
	assert.Equal(t, "https://abcd.supabase.co", cfg.Backend.URL)
	assert.Equal(t, "anon", cfg.Backend.AnonKey)
	assert.Equal(t, 3*time.Second, cfg.Backend.RequestTimeout)
	require.NotNil(t, cfg.Backend.PersistSession)
	assert.False(t, *cfg.Backend.PersistSession)
	assert.Nil(t, cfg.Backend.AutoRefreshToken, "unchanged flag defaults must not leak into the config")
	assert.Equal(t, "session.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "pools.json", cfg.JSONFilePath)
	assert.Equal(t, "127.0.0.1:9999", cfg.Callback.Address)
	assert.Empty(t, cfg.Backend.Schema)
}

func TestParseFlags_NoArgs(t *testing.T) {
	cfg, err := parseFlags(newTestFlagSet(t))

	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestRegisterFlags_InvalidCallbackAddress(t *testing.T) {
	fs := pflag.NewFlagSet("pools", pflag.ContinueOnError)
	RegisterFlags(fs)

	err := fs.Parse([]string{"--callback-address", "nowhere"})

	assert.Error(t, err)
}
