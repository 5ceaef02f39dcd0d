// Package client holds the shared HTTP client every Jira service is built on.
package client

import (
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nlorusso/jql-agent/pkg/config"
)

// Client wraps a resty client configured for the Jira REST API v3.
type Client struct {
	BaseURL    string
	HTTPClient *resty.Client
}

// New builds a client for the instance described by cfg. Rate limiting (429)
// and server errors (5xx) are retried with backoff before a response ever
// reaches a service; everything else surfaces on the first attempt.
func New(cfg *config.Config) *Client {
	base := cfg.APIBaseURL()

	httpClient := resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBasicAuth(cfg.Email, cfg.APIToken).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(4 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	return &Client{
		BaseURL:    base,
		HTTPClient: httpClient,
	}
}

// GetRequest starts a GET request against the API base.
func (c *Client) GetRequest() *resty.Request {
	return c.HTTPClient.R()
}

// PostRequest starts a POST request against the API base.
func (c *Client) PostRequest() *resty.Request {
	return c.HTTPClient.R()
}
