// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the raw configuration assembled from every source
// before it is narrowed into a [ClientConfig].
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//
// Boolean switches are pointers so that an explicit false survives merging.
type StructuredConfig struct {
	// Backend holds the hosted backend endpoint, public key and client options.
	Backend Backend

	// Storage holds the local session database and the avatar bucket settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// App holds application-level secrets.
	App App `envPrefix:"APP_"`

	// Workers holds the session auto-refresh schedule.
	Workers Workers `envPrefix:"WORKERS_"`

	// Callback holds the listen address of the local redirect callback server.
	Callback Callback `envPrefix:"CALLBACK_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG, flag: --config / -c.
	JSONFilePath string `env:"CONFIG"`
}

// Backend describes how to reach the hosted backend.
type Backend struct {
	// URL is the project base URL (e.g. "https://abcd.supabase.co").
	// Env: SUPABASE_URL
	URL string `env:"SUPABASE_URL"`

	// AnonKey is the public (anon) API key of the project.
	// Env: SUPABASE_ANON_KEY
	AnonKey string `env:"SUPABASE_ANON_KEY"`

	// Schema is the database schema addressed by the data API.
	// Env: BACKEND_SCHEMA
	Schema string `env:"BACKEND_SCHEMA"`

	// ClientInfo is sent as the X-Client-Info header on every request.
	// Env: BACKEND_CLIENT_INFO
	ClientInfo string `env:"BACKEND_CLIENT_INFO"`

	// RequestTimeout bounds every outbound request.
	// Env: BACKEND_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"BACKEND_REQUEST_TIMEOUT"`

	// SiteURL is the origin that password-reset links redirect back to.
	// Env: BACKEND_SITE_URL
	SiteURL string `env:"BACKEND_SITE_URL"`

	// Env: BACKEND_AUTO_REFRESH_TOKEN
	AutoRefreshToken *bool `env:"BACKEND_AUTO_REFRESH_TOKEN"`

	// Env: BACKEND_PERSIST_SESSION
	PersistSession *bool `env:"BACKEND_PERSIST_SESSION"`

	// Env: BACKEND_DETECT_SESSION_IN_URL
	DetectSessionInURL *bool `env:"BACKEND_DETECT_SESSION_IN_URL"`
}

// viteBackend accepts the variable names used by the web build of the app.
// They are consulted only when the primary names are unset.
type viteBackend struct {
	URL     string `env:"VITE_SUPABASE_URL"`
	AnonKey string `env:"VITE_SUPABASE_ANON_KEY"`
}

// Storage groups the persistence settings.
type Storage struct {
	// DB is the local SQLite database that holds the persisted session.
	DB DB `envPrefix:"DB_"`

	// Avatars is the S3-compatible bucket profile pictures are uploaded to.
	Avatars Avatars `envPrefix:"AVATARS_"`
}

// DB holds the local database location.
type DB struct {
	// DSN is the go-sqlite3 data source name (e.g. "pools.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Avatars holds the S3-compatible storage settings. Uploads are disabled
// when Bucket is empty.
type Avatars struct {
	// Env: STORAGE_AVATARS_ENDPOINT
	Endpoint string `env:"ENDPOINT"`
	// Env: STORAGE_AVATARS_REGION
	Region string `env:"REGION"`
	// Env: STORAGE_AVATARS_BUCKET
	Bucket string `env:"BUCKET"`
	// Env: STORAGE_AVATARS_ACCESS_KEY_ID
	AccessKeyID string `env:"ACCESS_KEY_ID"`
	// Env: STORAGE_AVATARS_SECRET_ACCESS_KEY
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	// PublicURL is the base URL objects are publicly served from.
	// Env: STORAGE_AVATARS_PUBLIC_URL
	PublicURL string `env:"PUBLIC_URL"`
}

// App holds application-level settings.
type App struct {
	// StorageKey, when set, seals the persisted session at rest.
	// Env: APP_STORAGE_KEY
	StorageKey string `env:"STORAGE_KEY"`
}

// Workers holds the background session refresh schedule.
type Workers struct {
	// RefreshInterval is how often the session expiry is checked.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`

	// RefreshMargin is how long before expiry a session gets refreshed.
	// Env: WORKERS_REFRESH_MARGIN
	RefreshMargin time.Duration `env:"REFRESH_MARGIN"`
}

// Callback holds the local redirect callback server settings.
type Callback struct {
	// Address is the host:port the callback server listens on.
	// Env: CALLBACK_ADDRESS
	Address string `env:"ADDRESS"`
}

// Default values applied to every field no source provided.
const (
	DefaultSchema          = "public"
	DefaultClientInfo      = "ubuntu-pools-web@1.0.0"
	DefaultRequestTimeout  = 15 * time.Second
	DefaultSiteURL         = "http://localhost:5173"
	DefaultRefreshInterval = 30 * time.Second
	DefaultRefreshMargin   = 60 * time.Second
	DefaultCallbackAddress = "127.0.0.1:5173"
	DefaultDSN             = "pools.db"
)

func defaults() *StructuredConfig {
	enabled := true
	return &StructuredConfig{
		Backend: Backend{
			Schema:             DefaultSchema,
			ClientInfo:         DefaultClientInfo,
			RequestTimeout:     DefaultRequestTimeout,
			SiteURL:            DefaultSiteURL,
			AutoRefreshToken:   &enabled,
			PersistSession:     &enabled,
			DetectSessionInURL: &enabled,
		},
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Workers: Workers{
			RefreshInterval: DefaultRefreshInterval,
			RefreshMargin:   DefaultRefreshMargin,
		},
		Callback: Callback{Address: DefaultCallbackAddress},
	}
}
