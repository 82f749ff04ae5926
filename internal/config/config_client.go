package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ClientBackend holds the resolved backend connection settings.
type ClientBackend struct {
	URL                string
	AnonKey            string
	Schema             string
	ClientInfo         string
	RequestTimeout     time.Duration
	SiteURL            string
	AutoRefreshToken   bool
	PersistSession     bool
	DetectSessionInURL bool
}

// IsConfigured reports whether both required backend values are present.
// Callers use it to short-circuit before attempting any network call.
func (b ClientBackend) IsConfigured() bool {
	return b.URL != "" && b.AnonKey != ""
}

// ClientDB contains local database connection settings.
type ClientDB struct {
	DSN string
}

// ClientAvatars contains the avatar bucket settings.
type ClientAvatars struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

// Enabled reports whether avatar uploads are configured.
func (a ClientAvatars) Enabled() bool {
	return a.Bucket != ""
}

// ClientStorage groups client storage settings.
type ClientStorage struct {
	DB      ClientDB
	Avatars ClientAvatars
}

// ClientApp holds application-level secrets.
type ClientApp struct {
	StorageKey string
}

// ClientWorkers contains the session refresh schedule.
type ClientWorkers struct {
	RefreshInterval time.Duration
	RefreshMargin   time.Duration
}

// ClientCallback holds the redirect callback server settings.
type ClientCallback struct {
	Address string
}

// ClientConfig is the validated configuration consumed by the client runtime.
type ClientConfig struct {
	Backend  ClientBackend
	Storage  ClientStorage
	App      ClientApp
	Workers  ClientWorkers
	Callback ClientCallback
}

// GetStructuredConfig merges flags, environment, the optional JSON file and
// defaults into a single [StructuredConfig]. fs may be nil.
func GetStructuredConfig(fs *pflag.FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(fs).
		withEnv().
		withJSON().
		withDefaults().
		build()
}

// GetClientConfig builds and validates the client configuration. A missing
// backend URL or key yields an error wrapping [ErrMissingBackendConfig].
func GetClientConfig(fs *pflag.FlagSet) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.Client()
	if err := clientCfg.validate(); err != nil {
		return nil, err
	}

	return clientCfg, nil
}

// Client flattens the structured config into a [ClientConfig].
func (cfg *StructuredConfig) Client() *ClientConfig {
	avatars := cfg.Storage.Avatars
	return &ClientConfig{
		Backend: ClientBackend{
			URL:                cfg.Backend.URL,
			AnonKey:            cfg.Backend.AnonKey,
			Schema:             cfg.Backend.Schema,
			ClientInfo:         cfg.Backend.ClientInfo,
			RequestTimeout:     cfg.Backend.RequestTimeout,
			SiteURL:            cfg.Backend.SiteURL,
			AutoRefreshToken:   deref(cfg.Backend.AutoRefreshToken),
			PersistSession:     deref(cfg.Backend.PersistSession),
			DetectSessionInURL: deref(cfg.Backend.DetectSessionInURL),
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
			Avatars: ClientAvatars{
				Endpoint:        avatars.Endpoint,
				Region:          avatars.Region,
				Bucket:          avatars.Bucket,
				AccessKeyID:     avatars.AccessKeyID,
				SecretAccessKey: avatars.SecretAccessKey,
				PublicURL:       avatars.PublicURL,
			},
		},
		App: ClientApp{StorageKey: cfg.App.StorageKey},
		Workers: ClientWorkers{
			RefreshInterval: cfg.Workers.RefreshInterval,
			RefreshMargin:   cfg.Workers.RefreshMargin,
		},
		Callback: ClientCallback{Address: cfg.Callback.Address},
	}
}

func deref(b *bool) bool {
	return b != nil && *b
}
