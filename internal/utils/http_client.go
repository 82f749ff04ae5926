package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// Header names sent to the hosted backend.
const (
	HeaderAPIKey         = "apikey"
	HeaderClientInfo     = "X-Client-Info"
	HeaderRequestID      = "X-Request-Id"
	HeaderAcceptProfile  = "Accept-Profile"
	HeaderContentProfile = "Content-Profile"
	HeaderPrefer         = "Prefer"
	HeaderAuthorization  = "Authorization"
)

// HTTPClient embeds *resty.Client so all of its methods are available directly.
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOptions configures [NewHTTPClient].
type HTTPClientOptions struct {
	BaseURL    string
	APIKey     string
	ClientInfo string
	Timeout    time.Duration
}

// NewHTTPClient returns an independent resty client preconfigured with the
// base URL, timeout and the headers every backend request carries.
func NewHTTPClient(opts HTTPClientOptions) *HTTPClient {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json")

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.APIKey != "" {
		client.SetHeader(HeaderAPIKey, opts.APIKey)
	}
	if opts.ClientInfo != "" {
		client.SetHeader(HeaderClientInfo, opts.ClientInfo)
	}

	return &HTTPClient{Client: client}
}
