package client

import (
	"net/http"
	"time"
)

// Option adjusts a Client built by NewClient. Options run in order, so a
// later option overrides an earlier one touching the same setting.
type Option func(*Client)

// WithHTTPClient replaces the transport used for every API call, for example
// to route requests to the analysis service through a proxy. nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger receives retry and request traces. dprctl passes its
// *zap.SugaredLogger here.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryMax bounds how often a request that failed with a transport error,
// 429 or 5xx is repeated. Zero disables retries; negative values are ignored.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retryMax = n
		}
	}
}

// WithRetryWait sets the first and the largest backoff interval between
// attempts. A non-positive first interval leaves both unchanged; a ceiling
// below the first interval is raised to it.
func WithRetryWait(first, ceiling time.Duration) Option {
	return func(c *Client) {
		if first <= 0 {
			return
		}
		c.retryWaitMin = first
		c.retryWaitMax = max(ceiling, first)
	}
}

// WithUserAgent tags requests so the server access log can tell dprctl,
// dashboards and scripts apart.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout caps a single attempt. Comprehensive what-if analyses run all
// named scenarios server side and may need more than the 30s default. The
// HTTP client is copied, so one supplied through WithHTTPClient is not
// modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := http.Client{}
		if c.httpClient != nil {
			hc = *c.httpClient
		}
		hc.Timeout = d
		c.httpClient = &hc
	}
}
