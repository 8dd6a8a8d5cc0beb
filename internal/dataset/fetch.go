package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// IsRemote reports whether loc is an http(s) URL.
func IsRemote(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Fetch downloads a remote dataset into dir and returns the local path.
// Transport errors and 5xx responses are retried with exponential backoff;
// other non-2xx responses fail immediately.
func Fetch(ctx context.Context, rawURL, dir string, maxElapsed time.Duration, log *logrus.Entry) (string, error) {
	log = component(log, "dataset.fetch").WithField("url", rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "dataset.csv"
	}
	dest := filepath.Join(dir, name)

	var lastErr error
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("download attempt failed")
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", resp.Status)
			log.WithField("status", resp.StatusCode).Warn("download attempt failed")
			return lastErr
		}
		if resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("download failed: %s", resp.Status)
			return backoff.Permanent(lastErr)
		}
		f, err := os.Create(dest)
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			lastErr = fmt.Errorf("write dataset: %w", err)
			return lastErr
		}
		if err := f.Close(); err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		lastErr = nil
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return "", fmt.Errorf("fetch dataset: %w", lastErr)
	}
	log.WithField("dest", dest).Info("dataset downloaded")
	return dest, nil
}
