package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()
	custom := &http.Client{Timeout: time.Minute}
	c := &Client{}
	WithHTTPClient(custom)(c)
	assert.Same(t, custom, c.httpClient)
	WithHTTPClient(nil)(c)
	assert.Same(t, custom, c.httpClient)
}

func TestWithLogger(t *testing.T) {
	t.Parallel()
	logger := &testLogger{}
	c := &Client{}
	WithLogger(logger)(c)
	assert.Equal(t, logger, c.logger)
	WithLogger(nil)(c)
	assert.Equal(t, logger, c.logger)
}

func TestWithRetryMax(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"positive value", 5, 5},
		{"zero value", 0, 0},
		{"negative value ignored", -1, 3},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &Client{retryMax: 3}
			WithRetryMax(tt.input)(c)
			assert.Equal(t, tt.expected, c.retryMax)
		})
	}
}

func TestWithRetryWait(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		min, max  time.Duration
		expectMin time.Duration
		expectMax time.Duration
	}{
		{"valid range", time.Second, 5 * time.Second, time.Second, 5 * time.Second},
		{"equal values", 2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second},
		{"zero min ignored", 0, 5 * time.Second, 0, 0},
		{"ceiling below first raised", 5 * time.Second, 2 * time.Second, 5 * time.Second, 5 * time.Second},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &Client{}
			WithRetryWait(tt.min, tt.max)(c)
			assert.Equal(t, tt.expectMin, c.retryWaitMin)
			assert.Equal(t, tt.expectMax, c.retryWaitMax)
		})
	}
}

func TestWithUserAgent(t *testing.T) {
	t.Parallel()
	c := &Client{userAgent: "default"}
	WithUserAgent("")(c)
	assert.Equal(t, "default", c.userAgent)
	WithUserAgent("dprctl/1.0")(c)
	assert.Equal(t, "dprctl/1.0", c.userAgent)
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()
	c := &Client{httpClient: &http.Client{Timeout: time.Second}}
	WithTimeout(0)(c)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	WithTimeout(time.Minute)(c)
	assert.Equal(t, time.Minute, c.httpClient.Timeout)
}

func TestWithTimeout_LeavesSuppliedClientAlone(t *testing.T) {
	t.Parallel()
	shared := &http.Client{Timeout: 5 * time.Second}
	c, err := NewClient("http://dpr.local", "", WithHTTPClient(shared), WithTimeout(2*time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Second, shared.Timeout)
	assert.Equal(t, 2*time.Minute, c.httpClient.Timeout)
	assert.NotSame(t, shared, c.httpClient)
}

//Personal.AI order the ending
