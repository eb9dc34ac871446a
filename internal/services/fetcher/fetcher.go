// Package fetcher streams remote resources to local files. It carries no
// policy: one attempt per call, errors surface to the caller.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"go.uber.org/zap"
)

var (
	ErrNetwork    = errors.New("network error")
	ErrFilesystem = errors.New("filesystem error")
)

type Fetcher struct {
	client   *http.Client
	logger   *zap.Logger
	progress bool
}

// New builds a Fetcher with bounded connection timeouts. There is no total
// request timeout; stalls are bounded at the transport level so large
// artifacts on slow links still complete.
func New(logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 60 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   60 * time.Second,
				ResponseHeaderTimeout: 60 * time.Second,
				IdleConnTimeout:       60 * time.Second,
			},
		},
		logger:   logger,
		progress: true,
	}
}

// WithoutProgress disables the terminal progress bar. Used in tests.
func (f *Fetcher) WithoutProgress() *Fetcher {
	f.progress = false
	return f
}

// Fetch downloads url to destPath, replacing any prior content. The body is
// streamed to destPath + ".tmp" and renamed into place on success, so a
// failed attempt never leaves a truncated file at the final path.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string) error {
	f.logger.Info("downloading",
		zap.String("url", url),
		zap.String("dest", destPath),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %v", ErrNetwork, url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: requesting %s: %v", ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrNetwork, url, resp.StatusCode)
	}

	tmpPath := destPath + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrFilesystem, tmpPath, err)
	}

	body := resp.Body
	var (
		bars *mpb.Progress
		bar  *mpb.Bar
	)
	if f.progress && resp.ContentLength > 0 {
		bars = mpb.New(
			mpb.WithWidth(60),
			mpb.WithRefreshRate(180*time.Millisecond),
		)
		bar = bars.AddBar(resp.ContentLength,
			mpb.PrependDecorators(
				decor.Name(filepath.Base(destPath), decor.WC{W: 40, C: decor.DidentRight}),
				decor.CountersKibiByte("% .2f / % .2f"),
			),
			mpb.AppendDecorators(
				decor.EwmaETA(decor.ET_STYLE_GO, 90),
				decor.Name(" ] "),
				decor.EwmaSpeed(decor.UnitKiB, "% .2f", 60),
			),
		)
		body = bar.ProxyReader(resp.Body)
	}

	written, err := io.Copy(file, body)
	if bars != nil {
		if err != nil {
			bar.Abort(true)
		}
		bars.Wait()
	}
	if err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: streaming %s: %v", ErrNetwork, url, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing %s: %v", ErrFilesystem, tmpPath, err)
	}

	if resp.ContentLength > 0 && written != resp.ContentLength {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: size mismatch for %s: expected %d, got %d",
			ErrNetwork, url, resp.ContentLength, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: moving %s into place: %v", ErrFilesystem, destPath, err)
	}

	return nil
}
