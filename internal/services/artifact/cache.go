package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	archiveName = "model-release.tar.gz"
	markerName  = ".extracted_ok"
)

// Cache is the on-disk artifact cache. It typically sits on a mounted
// volume, so its contents (downloaded archive, extraction marker, extracted
// files) survive process restarts.
type Cache struct {
	dir string
}

// OpenCache creates the cache directory if it is absent and returns a handle
// to it.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string {
	return c.dir
}

// ArchivePath is the fixed location of the downloaded release bundle. The
// file's presence is the signal that the download already happened.
func (c *Cache) ArchivePath() string {
	return filepath.Join(c.dir, archiveName)
}

// MarkerPath is the fixed location of the extraction sentinel. The file's
// presence means the archive was already unpacked into this cache.
func (c *Cache) MarkerPath() string {
	return filepath.Join(c.dir, markerName)
}

// ModelPath is the default location of the model file inside the cache.
func (c *Cache) ModelPath(modelFile string) string {
	return filepath.Join(c.dir, modelFile)
}

// Candidates lists, in probe order, the locations the model file may occupy
// after extraction: directly in the cache, then under outputs/, then under
// output/.
func (c *Cache) Candidates(modelFile string) []string {
	return []string{
		filepath.Join(c.dir, modelFile),
		filepath.Join(c.dir, "outputs", modelFile),
		filepath.Join(c.dir, "output", modelFile),
	}
}

// WriteMarker records that extraction completed. Only called after a fully
// successful extraction.
func (c *Cache) WriteMarker() error {
	if err := os.WriteFile(c.MarkerPath(), []byte("ok\n"), 0644); err != nil {
		return fmt.Errorf("failed to write extraction marker: %w", err)
	}
	return nil
}

func pathExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// firstExisting returns the first path in candidates that exists as a
// regular file.
func firstExisting(candidates []string) (string, bool) {
	for _, p := range candidates {
		if pathExists(p) {
			return p, true
		}
	}
	return "", false
}
