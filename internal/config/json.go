package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the optional JSON config file.
type StructuredJSONConfig struct {
	Backend struct {
		URL                string   `json:"url"`
		AnonKey            string   `json:"anon_key"`
		Schema             string   `json:"schema"`
		ClientInfo         string   `json:"client_info"`
		RequestTimeout     Duration `json:"request_timeout"`
		SiteURL            string   `json:"site_url"`
		AutoRefreshToken   *bool    `json:"auto_refresh_token"`
		PersistSession     *bool    `json:"persist_session"`
		DetectSessionInURL *bool    `json:"detect_session_in_url"`
	} `json:"backend"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db"`

		Avatars struct {
			Endpoint        string `json:"endpoint"`
			Region          string `json:"region"`
			Bucket          string `json:"bucket"`
			AccessKeyID     string `json:"access_key_id"`
			SecretAccessKey string `json:"secret_access_key"`
			PublicURL       string `json:"public_url"`
		} `json:"avatars"`
	} `json:"storage"`

	App struct {
		StorageKey string `json:"storage_key"`
	} `json:"app"`

	Workers struct {
		RefreshInterval Duration `json:"refresh_interval"`
		RefreshMargin   Duration `json:"refresh_margin"`
	} `json:"workers"`

	Callback struct {
		Address string `json:"address"`
	} `json:"callback"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	avatars := jsonCfg.Storage.Avatars
	cfg := &StructuredConfig{
		Backend: Backend{
			URL:                jsonCfg.Backend.URL,
			AnonKey:            jsonCfg.Backend.AnonKey,
			Schema:             jsonCfg.Backend.Schema,
			ClientInfo:         jsonCfg.Backend.ClientInfo,
			RequestTimeout:     time.Duration(jsonCfg.Backend.RequestTimeout),
			SiteURL:            jsonCfg.Backend.SiteURL,
			AutoRefreshToken:   jsonCfg.Backend.AutoRefreshToken,
			PersistSession:     jsonCfg.Backend.PersistSession,
			DetectSessionInURL: jsonCfg.Backend.DetectSessionInURL,
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
			Avatars: Avatars{
				Endpoint:        avatars.Endpoint,
				Region:          avatars.Region,
				Bucket:          avatars.Bucket,
				AccessKeyID:     avatars.AccessKeyID,
				SecretAccessKey: avatars.SecretAccessKey,
				PublicURL:       avatars.PublicURL,
			},
		},
		App: App{StorageKey: jsonCfg.App.StorageKey},
		Workers: Workers{
			RefreshInterval: time.Duration(jsonCfg.Workers.RefreshInterval),
			RefreshMargin:   time.Duration(jsonCfg.Workers.RefreshMargin),
		},
		Callback: Callback{Address: jsonCfg.Callback.Address},
	}

	return cfg, nil
}

// Duration accepts JSON strings like "1h" or "30s" as well as raw nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
