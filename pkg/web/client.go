package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fairjournal/journalfs/pkg/model"
)

// RemoteError is a failure reported by a journalfs server
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// ClientOption configures a client
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetries sets how many times a request is retried on transport failures
func WithRetries(retries uint64) ClientOption {
	return func(c *Client) {
		c.retries = retries
	}
}

// Client calls a journalfs server.
//
// Transport failures are retried with an exponential backoff. Failures reported by the
// server are returned as *RemoteError and never retried.
type Client struct {
	baseURL string
	http    *http.Client
	retries uint64
}

// NewClient for a server at baseURL, e.g. http://localhost:5100
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: time.Minute},
		retries: 3,
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, build func() (*http.Request, error), target interface{}) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries),
		ctx,
	)
	return backoff.Retry(func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req.WithContext(ctx))
		if err != nil {
			return err // retry
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			var failure errorResponse
			if erj := json.Unmarshal(body, &failure); erj != nil || failure.Message == "" {
				return backoff.Permanent(&RemoteError{Message: fmt.Sprintf("unexpected response %s", resp.Status)})
			}
			return backoff.Permanent(&RemoteError{Message: failure.Message})
		}
		if err := json.Unmarshal(body, target); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	}, policy)
}

func (c *Client) endpoint(path string, query url.Values) string {
	if len(query) == 0 {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + query.Encode()
}

// UploadBlob sends some content to be ingested
func (c *Client) UploadBlob(ctx context.Context, name string, content []byte) (model.BlobMetadata, error) {
	var result uploadResponse
	err := c.do(ctx, func() (*http.Request, error) {
		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		part, err := form.CreateFormFile("blob", name)
		if err != nil {
			return nil, err
		}
		if _, err = part.Write(content); err != nil {
			return nil, err
		}
		if err = form.Close(); err != nil {
			return nil, err
		}
		req, err := http.NewRequest(http.MethodPost, c.endpoint("/v1/fs/blob/upload", nil), &body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", form.FormDataContentType())
		return req, nil
	}, &result)
	return result.Data, err
}

// ApplyUpdate submits a signed update
func (c *Client) ApplyUpdate(ctx context.Context, u *model.Update) error {
	payload, err := json.Marshal(applyRequest{Update: u})
	if err != nil {
		return err
	}
	var result okResponse
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.endpoint("/v1/fs/update/apply", nil), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &result)
}

// LastSequence returns the sequence number of the last update applied for an address
func (c *Client) LastSequence(ctx context.Context, address string) (uint64, error) {
	var result updateIDResponse
	err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, c.endpoint("/v1/fs/user/get-update-id", url.Values{"address": {address}}), nil)
	}, &result)
	return result.UpdateID, err
}

// ListArticles of a user
func (c *Client) ListArticles(ctx context.Context, address string) ([]model.ArticleInfo, error) {
	var result articlesResponse
	err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, c.endpoint("/v1/fs/blob/get-articles", url.Values{"userAddress": {address}}), nil)
	}, &result)
	return result.Articles, err
}

// GetArticle of a user
func (c *Client) GetArticle(ctx context.Context, address, slug string) (model.Article, error) {
	var result articleResponse
	err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, c.endpoint("/v1/fs/blob/get-article", url.Values{"userAddress": {address}, "slug": {slug}}), nil)
	}, &result)
	return result.Article, err
}
