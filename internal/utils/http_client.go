package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client. The embedding exposes the full resty API
// while leaving room for application-specific helpers.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client with its own configuration and
// connection pool.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
