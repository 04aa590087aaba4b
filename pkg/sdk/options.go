package ormgen

import "net/http"

// Option configures the Client.
type Option interface {
	apply(*Client)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithSecret sets the Backend-Secret header sent with every request.
func WithSecret(secret string) Option {
	return optionFunc(func(c *Client) {
		c.secret = secret
	})
}

// WithHTTPClient replaces the underlying HTTP client.
// Useful for custom timeouts, transports or test doubles.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	})
}
