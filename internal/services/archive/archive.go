// Package archive unpacks gzip-compressed tarballs. It carries no policy:
// one archive in, its members written under one directory.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var (
	ErrCorruptArchive = errors.New("corrupt archive")
	ErrFilesystem     = errors.New("filesystem error")
)

// Extract unpacks every member of the tar.gz archive at archivePath into
// destDir, preserving relative paths. Only regular files and directories are
// materialized. Members whose resolved path would escape destDir are
// rejected outright.
func Extract(archivePath, destDir string) error {
	fp, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrCorruptArchive, archivePath, err)
	}
	defer fp.Close()

	gz, err := gzip.NewReader(fp)
	if err != nil {
		return fmt.Errorf("%w: %s is not a gzip stream: %v", ErrCorruptArchive, archivePath, err)
	}
	defer gz.Close()

	tarr := tar.NewReader(gz)
	for {
		hdr, err := tarr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: reading %s: %v", ErrCorruptArchive, archivePath, err)
		}

		if hdr.Name == "" {
			continue
		}

		fullpath, err := memberPath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(fullpath, 0755); err != nil {
				return fmt.Errorf("%w: creating directory %s: %v", ErrFilesystem, fullpath, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(fullpath), 0755); err != nil {
				return fmt.Errorf("%w: creating directory for %s: %v", ErrFilesystem, fullpath, err)
			}
			if err := writeMember(fullpath, tarr); err != nil {
				return err
			}
		default:
			// symlinks, devices and the rest are skipped; a model bundle
			// has no business containing them
		}
	}
}

// memberPath resolves a member name against destDir and rejects names that
// escape it ("../...", absolute paths).
func memberPath(destDir, name string) (string, error) {
	fullpath := filepath.Join(destDir, name)
	rel, err := filepath.Rel(destDir, fullpath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: member %q escapes destination directory", ErrCorruptArchive, name)
	}
	return fullpath, nil
}

func writeMember(fullpath string, r io.Reader) error {
	fp, err := os.OpenFile(fullpath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrFilesystem, fullpath, err)
	}
	defer fp.Close()

	if _, err := io.Copy(fp, r); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrFilesystem, fullpath, err)
	}

	return nil
}
