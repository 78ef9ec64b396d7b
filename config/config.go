// Package config loads the adapter's configuration from the process
// environment. Configuration is read once at startup and never mutated;
// a missing access token is a fatal error that prevents the server from
// serving any request.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names.
const (
	EnvToken      = "TIBBER_TOKEN"
	EnvAPIURL     = "TIBBER_API_URL"
	EnvWSURL      = "TIBBER_WS_URL"
	EnvTimeout    = "TIBBER_TIMEOUT"
	EnvHTTPAddr   = "TIBBER_MCP_HTTP_ADDR"
	EnvHTTPAPIKey = "TIBBER_MCP_API_KEY"
)

// Defaults for the optional settings.
const (
	DefaultAPIURL  = "https://api.tibber.com/v1-beta/gql"
	DefaultWSURL   = "wss://websocket-api.tibber.com/v1-beta/gql/subscriptions"
	DefaultTimeout = 30 * time.Second
)

// Config holds the immutable runtime configuration.
type Config struct {
	// Token is the Tibber API access token. Required.
	Token string

	// APIURL is the GraphQL query endpoint.
	APIURL string

	// WSURL is the GraphQL subscription (websocket) endpoint.
	WSURL string

	// Timeout bounds every upstream call, including the realtime read.
	Timeout time.Duration

	// HTTPAddr, when non-empty, enables the optional local HTTP
	// transport on that address in addition to stdio.
	HTTPAddr string

	// HTTPAPIKey is the bearer key required by the HTTP transport.
	HTTPAPIKey string
}

// FromEnv builds a Config from the process environment. It fails when
// TIBBER_TOKEN is absent or empty, when TIBBER_TIMEOUT is not a positive
// number of seconds, or when the HTTP transport is enabled without a key.
func FromEnv() (Config, error) {
	cfg := Config{
		Token:      os.Getenv(EnvToken),
		APIURL:     DefaultAPIURL,
		WSURL:      DefaultWSURL,
		Timeout:    DefaultTimeout,
		HTTPAddr:   os.Getenv(EnvHTTPAddr),
		HTTPAPIKey: os.Getenv(EnvHTTPAPIKey),
	}

	if cfg.Token == "" {
		return Config{}, fmt.Errorf("%s environment variable required", EnvToken)
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvWSURL); v != "" {
		cfg.WSURL = v
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive number of seconds, got %q", EnvTimeout, v)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	if cfg.HTTPAddr != "" && cfg.HTTPAPIKey == "" {
		return Config{}, fmt.Errorf("%s is required when %s is set", EnvHTTPAPIKey, EnvHTTPAddr)
	}

	return cfg, nil
}
