// Package artifact resolves a usable model file onto local storage before
// the service starts. Resolution follows a three-tier priority policy and is
// idempotent across restarts on a persistent volume: the downloaded archive
// and an extraction marker act as completed-operation signals, so a restart
// never re-downloads or re-unpacks work that already succeeded.
package artifact

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Fallback release coordinates. Used only when no model URL is configured
// and no model file is present in the cache.
const (
	fallbackReleaseBase = "https://github.com/doda25-team16/model-service/releases/download"
	fallbackReleaseTag  = "model-20251119230101"
)

// Fetcher retrieves a remote resource to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// Extractor unpacks a tar.gz archive into a directory.
type Extractor interface {
	Extract(archivePath, destDir string) error
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(archivePath, destDir string) error

func (f ExtractorFunc) Extract(archivePath, destDir string) error {
	return f(archivePath, destDir)
}

// NotFoundError reports that remote-bundle resolution completed but none of
// the probed candidate locations held the model file.
type NotFoundError struct {
	ModelFile  string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model url was set but %s not found after extraction; tried: %s",
		e.ModelFile, strings.Join(e.Candidates, ", "))
}

// Resolver owns the resolution procedure. Collaborators are injected so
// tests can run it against a temporary cache with fakes.
type Resolver struct {
	cache     *Cache
	modelURL  string
	modelFile string
	fetcher   Fetcher
	extractor Extractor
	logger    *zap.Logger

	resolved string
}

func NewResolver(cache *Cache, modelURL, modelFile string, fetcher Fetcher, extractor Extractor, logger *zap.Logger) *Resolver {
	return &Resolver{
		cache:     cache,
		modelURL:  modelURL,
		modelFile: modelFile,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}
}

// Resolve produces the verified local path to the model file, evaluating
// three tiers in order, first match wins:
//
//  1. a configured model URL: download the release bundle (once), extract it
//     (once), then probe the candidate locations;
//  2. a model file already present at the default cache location;
//  3. a hardcoded fallback release, downloaded to the default location.
//
// The result is computed at most once per process; later calls return the
// same path without touching the network or the filesystem.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.resolved != "" {
		return r.resolved, nil
	}

	path, err := r.resolve(ctx)
	if err != nil {
		return "", err
	}

	r.resolved = path
	return path, nil
}

func (r *Resolver) resolve(ctx context.Context) (string, error) {
	if r.modelURL != "" {
		return r.resolveFromBundle(ctx)
	}

	if defaultPath := r.cache.ModelPath(r.modelFile); pathExists(defaultPath) {
		r.logger.Info("using existing model", zap.String("path", defaultPath))
		return defaultPath, nil
	}

	return r.resolveFallback(ctx)
}

func (r *Resolver) resolveFromBundle(ctx context.Context) (string, error) {
	archivePath := r.cache.ArchivePath()

	if !pathExists(archivePath) {
		if err := r.fetcher.Fetch(ctx, r.modelURL, archivePath); err != nil {
			return "", fmt.Errorf("failed to download release bundle: %w", err)
		}
	} else {
		r.logger.Info("using cached artifact, skipping download",
			zap.String("archive", archivePath))
	}

	if !pathExists(r.cache.MarkerPath()) {
		if err := r.extractor.Extract(archivePath, r.cache.Dir()); err != nil {
			return "", fmt.Errorf("failed to extract release bundle: %w", err)
		}
		if err := r.cache.WriteMarker(); err != nil {
			return "", err
		}
	} else {
		r.logger.Info("extraction already done, skipping extract",
			zap.String("marker", r.cache.MarkerPath()))
	}

	candidates := r.cache.Candidates(r.modelFile)
	found, ok := firstExisting(candidates)
	if !ok {
		return "", &NotFoundError{ModelFile: r.modelFile, Candidates: candidates}
	}

	r.logger.Info("using model from extracted artifact", zap.String("path", found))
	return found, nil
}

func (r *Resolver) resolveFallback(ctx context.Context) (string, error) {
	destPath := r.cache.ModelPath(r.modelFile)
	url := fmt.Sprintf("%s/%s/%s", fallbackReleaseBase, fallbackReleaseTag, r.modelFile)

	// downloading without any explicit configuration is surprising; be loud
	r.logger.Warn("model file not found and no model url set; downloading default release",
		zap.String("model_file", r.modelFile),
		zap.String("url", url),
	)

	if err := r.fetcher.Fetch(ctx, url, destPath); err != nil {
		return "", fmt.Errorf("failed to download default model: %w", err)
	}

	r.logger.Info("downloaded default model", zap.String("path", destPath))
	return destPath, nil
}
