package remote

import (
	"context"
	"time"

	"github.com/example/storefront/domain/product"
	"github.com/valyala/fasthttp"
)

// Client fetches the catalog over HTTP.
type Client struct {
	url     string
	timeout time.Duration
	http    *fasthttp.Client
}

// NewClient creates a catalog client for url. Each request is bounded by
// timeout or the context deadline, whichever comes first.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:     url,
		timeout: timeout,
		http: &fasthttp.Client{
			Name:                "storefront",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

// URL returns the catalog endpoint.
func (c *Client) URL() string {
	return c.url
}

type fetchResult struct {
	code int
	body []byte
	err  error
}

// FetchProducts performs GET on the catalog endpoint.
func (c *Client) FetchProducts(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ConnectivityError{Err: err}
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	// fasthttp has no context support, so the request runs on its own
	// goroutine which owns the pooled request and response objects.
	done := make(chan fetchResult, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(c.url)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set(fasthttp.HeaderAccept, "application/json")

		if err := c.http.DoTimeout(req, resp, timeout); err != nil {
			done <- fetchResult{err: err}
			return
		}
		done <- fetchResult{
			code: resp.StatusCode(),
			body: append([]byte(nil), resp.Body()...),
		}
	}()

	select {
	case <-ctx.Done():
		return nil, &ConnectivityError{Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			return nil, &ConnectivityError{Err: r.err}
		}
		if r.code < 200 || r.code > 299 {
			return nil, &StatusError{Code: r.code, Status: fasthttp.StatusMessage(r.code)}
		}
		return decodeProducts(r.body)
	}
}
