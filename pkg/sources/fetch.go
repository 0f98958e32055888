// Package sources loads the emissions and geography datasets at startup.
package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("file not found on server")

type progressWriter struct {
	io.Writer
	total  uint64
	last   uint64
	label  string
	logger *zap.Logger
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.total += uint64(n)
	if pw.total-pw.last > 5*1024*1024 { // Log every 5MB
		pw.logger.Info("download progress", zap.String("file", pw.label), zap.Uint64("mb", pw.total/1024/1024))
		pw.last = pw.total
	}
	return n, err
}

// Fetcher reads dataset locations, which are either local paths or http(s)
// URLs. Remote bodies are kept in Cache when one is set.
type Fetcher struct {
	Client *http.Client
	Cache  *Cache
	Logger *zap.Logger
}

func NewFetcher(cache *Cache, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{Client: http.DefaultClient, Cache: cache, Logger: logger}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch returns the full body of location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f.fetch(ctx, location, nil)
}

// fetch returns the body of location once check accepts it. A cached body
// that check rejects is evicted and downloaded again; a download is only
// cached after check accepts it.
func (f *Fetcher) fetch(ctx context.Context, location string, check func([]byte) error) ([]byte, error) {
	if check == nil {
		check = func([]byte) error { return nil }
	}
	if !isRemote(location) {
		b, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", location, err)
		}
		if err := check(b); err != nil {
			return nil, fmt.Errorf("%s: %w", location, err)
		}
		return b, nil
	}

	if f.Cache != nil {
		b, err := f.Cache.Get(location)
		switch {
		case err != nil:
			f.Logger.Warn("cache read failed", zap.String("url", location), zap.Error(err))
		case b != nil:
			err := check(b)
			if err == nil {
				f.Logger.Info("using cached file", zap.String("url", location), zap.Int("bytes", len(b)))
				return b, nil
			}
			f.Logger.Warn("discarding cached file", zap.String("url", location), zap.Error(err))
			if err := f.Cache.Delete(location); err != nil {
				f.Logger.Warn("cache delete failed", zap.String("url", location), zap.Error(err))
			}
		}
	}

	f.Logger.Info("downloading", zap.String("url", location))
	b, err := f.download(ctx, location)
	if err != nil {
		return nil, err
	}
	if err := check(b); err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	if f.Cache != nil {
		if err := f.Cache.Put(location, b); err != nil {
			f.Logger.Warn("cache write failed", zap.String("url", location), zap.Error(err))
		}
	}
	return b, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.Logger.Warn("error closing response body", zap.Error(err))
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: bad status: %s", url, resp.Status)
	}

	var buf bytes.Buffer
	label := url[strings.LastIndex(url, "/")+1:]
	pw := &progressWriter{Writer: &buf, label: label, logger: f.Logger}
	if _, err := io.Copy(pw, resp.Body); err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return buf.Bytes(), nil
}
