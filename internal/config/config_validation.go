// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// MinStorageKeyLength is the shortest accepted APP_STORAGE_KEY.
const MinStorageKeyLength = 16

func (cfg *ClientConfig) validate() error {
	if !cfg.Backend.IsConfigured() {
		return ErrMissingBackendConfig
	}

	u, err := url.Parse(cfg.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: backend URL %q", ErrInvalidAdapterConfigs, cfg.Backend.URL)
	}

	if cfg.Backend.RequestTimeout <= 0 || cfg.Backend.Schema == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Backend.PersistSession && strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return fmt.Errorf("%w: in-memory database cannot persist a session", ErrInvalidStorageConfigs)
	}

	if cfg.Storage.Avatars.Enabled() && cfg.Storage.Avatars.Endpoint == "" {
		return fmt.Errorf("%w: avatar bucket requires an endpoint", ErrInvalidStorageConfigs)
	}

	if cfg.App.StorageKey != "" && len(cfg.App.StorageKey) < MinStorageKeyLength {
		return ErrInvalidAppConfigs
	}

	if cfg.Workers.RefreshInterval <= 0 || cfg.Workers.RefreshMargin < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
