package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Flag names registered by [RegisterFlags].
const (
	FlagConfig             = "config"
	FlagBackendURL         = "url"
	FlagAnonKey            = "anon-key"
	FlagSchema             = "schema"
	FlagRequestTimeout     = "request-timeout"
	FlagSiteURL            = "site-url"
	FlagAutoRefresh        = "auto-refresh"
	FlagPersistSession     = "persist-session"
	FlagDetectSessionInURL = "detect-session-in-url"
	FlagDSN                = "dsn"
	FlagStorageKey         = "storage-key"
	FlagRefreshInterval    = "refresh-interval"
	FlagCallbackAddress    = "callback-address"
)

// NetAddress is a host:port pair. It implements pflag.Value.
type NetAddress struct {
	Host string
	Port int
}

// RegisterFlags declares every configuration flag on fs. Only flags the user
// actually set are taken into account when the config is built.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "JSON config file path")
	fs.String(FlagBackendURL, "", "Backend project URL")
	fs.String(FlagAnonKey, "", "Backend public (anon) API key")
	fs.String(FlagSchema, "", "Database schema addressed by the data API")
	fs.Duration(FlagRequestTimeout, 0, "Request timeout (e.g. 15s, 1m)")
	fs.String(FlagSiteURL, "", "Origin password reset links redirect to")
	fs.Bool(FlagAutoRefresh, true, "Refresh the access token before it expires")
	fs.Bool(FlagPersistSession, true, "Keep the session across restarts")
	fs.Bool(FlagDetectSessionInURL, true, "Accept sessions from redirect callbacks")
	fs.StringP(FlagDSN, "d", "", "Local session database DSN")
	fs.String(FlagStorageKey, "", "Key sealing the persisted session")
	fs.Duration(FlagRefreshInterval, 0, "Session expiry check interval")
	fs.Var(&NetAddress{}, FlagCallbackAddress, "Callback server address host:port")
}

// parseFlags converts the flags the user changed into a partial config.
func parseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	var errs []error

	str := func(name string, dst *string) {
		if !fs.Changed(name) {
			return
		}
		v, err := fs.GetString(name)
		errs = append(errs, err)
		*dst = v
	}
	dur := func(name string, dst *time.Duration) {
		if !fs.Changed(name) {
			return
		}
		v, err := fs.GetDuration(name)
		errs = append(errs, err)
		*dst = v
	}
	boolean := func(name string, dst **bool) {
		if !fs.Changed(name) {
			return
		}
		v, err := fs.GetBool(name)
		errs = append(errs, err)
		*dst = &v
	}

	str(FlagConfig, &cfg.JSONFilePath)
	str(FlagBackendURL, &cfg.Backend.URL)
	str(FlagAnonKey, &cfg.Backend.AnonKey)
	str(FlagSchema, &cfg.Backend.Schema)
	dur(FlagRequestTimeout, &cfg.Backend.RequestTimeout)
	str(FlagSiteURL, &cfg.Backend.SiteURL)
	boolean(FlagAutoRefresh, &cfg.Backend.AutoRefreshToken)
	boolean(FlagPersistSession, &cfg.Backend.PersistSession)
	boolean(FlagDetectSessionInURL, &cfg.Backend.DetectSessionInURL)
	str(FlagDSN, &cfg.Storage.DB.DSN)
	str(FlagStorageKey, &cfg.App.StorageKey)
	dur(FlagRefreshInterval, &cfg.Workers.RefreshInterval)

	if f := fs.Lookup(FlagCallbackAddress); f != nil && f.Changed {
		cfg.Callback.Address = f.Value.String()
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("error reading flags: %w", err)
	}

	return cfg, nil
}

// String returns the canonical host:port form, or "" when unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses host:port. The host must be "localhost" or an IP address.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
