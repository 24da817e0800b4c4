// Package media downloads chat attachments into memory.
//
// Files are read whole; there is no streaming. MaxBytes bounds the read
// when set, otherwise large attachments are held entirely in memory.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 60 * time.Second

// ErrTooLarge is returned when a file exceeds the configured cap.
var ErrTooLarge = errors.New("media: file exceeds download limit")

type Downloader struct {
	client   *resty.Client
	maxBytes int64
}

type Option func(*Downloader)

// WithMaxBytes caps the number of bytes read per file. Zero disables the cap.
func WithMaxBytes(n int64) Option {
	return func(d *Downloader) { d.maxBytes = n }
}

func WithTimeout(timeout time.Duration) Option {
	return func(d *Downloader) { d.client.SetTimeout(timeout) }
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Downloader) {
		timeout := d.client.GetClient().Timeout
		d.client = resty.NewWithClient(hc)
		if hc.Timeout == 0 {
			d.client.SetTimeout(timeout)
		}
	}
}

func NewDownloader(opts ...Option) *Downloader {
	d := &Downloader{
		client: resty.New().SetTimeout(defaultTimeout),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches url fully into memory.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		var ue *neturl.Error
		if errors.As(err, &ue) {
			ue.URL = redact(ue.URL)
		}
		return nil, fmt.Errorf("media: GET %s: %w", redact(url), err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("media: GET %s: unexpected status %s", redact(url), resp.Status())
	}

	if d.maxBytes > 0 && resp.RawResponse.ContentLength > d.maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, resp.RawResponse.ContentLength, d.maxBytes)
	}

	reader := io.Reader(body)
	if d.maxBytes > 0 {
		reader = io.LimitReader(body, d.maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("media: reading %s: %w", redact(url), err)
	}
	if d.maxBytes > 0 && int64(len(data)) > d.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, d.maxBytes)
	}

	return data, nil
}
