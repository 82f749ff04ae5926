package config

import "errors"

// Validation errors returned when the merged configuration cannot be used.
var (
	// ErrMissingBackendConfig is returned when the backend URL or public key
	// is absent. The process cannot start without both.
	ErrMissingBackendConfig = errors.New("missing backend URL or anon key")
	// ErrInvalidAdapterConfigs indicates unusable transport settings
	// (malformed URL, zero timeout, empty schema).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates unusable storage settings
	// (empty DSN, in-memory DSN with session persistence, bucket without endpoint).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates a storage key too short to derive a sealing key from.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidWorkerConfigs indicates a non-positive refresh interval or negative margin.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
