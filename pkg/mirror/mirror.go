// Copyright © 2018 One Concern

// Package mirror copies a directory tree to another location, leaving out excluded entries.
package mirror

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oneconcern/desfixer/pkg/fixer/status"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	dirPerm    = 0755
	ownerWrite = 0200
)

// Stats sums up what a Copy did
type Stats struct {
	Dirs    int   `json:"dirs"`
	Files   int   `json:"files"`
	Bytes   int64 `json:"bytes"`
	Skipped int   `json:"skipped"`
}

// Copy mirrors the tree rooted at src into dst.
//
// dst is created if need be. Entries land in dst at the same path relative to src.
// Excluded directories are skipped with their whole subtree.
// The first error stops the copy.
func Copy(fs afero.Fs, src, dst string, opts ...Option) (Stats, error) {
	var stats Stats
	o := defaultOptions()
	for _, apply := range opts {
		apply(o)
	}

	info, err := fs.Stat(src)
	if err != nil {
		return stats, fmt.Errorf("couldn't stat %q: %w", src, err)
	}
	if !info.IsDir() {
		return stats, status.ErrNotDirectory.Wrap(fmt.Errorf("%q", src))
	}
	if err = fs.MkdirAll(dst, dirPerm); err != nil {
		return stats, fmt.Errorf("creating %q: %w", dst, err)
	}

	err = afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == src {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			if _, skip := o.excludedDirs[info.Name()]; skip {
				o.l.Debug("skipping directory", zap.String("path", path))
				stats.Skipped++
				return filepath.SkipDir
			}
			if err := fs.MkdirAll(target, dirPerm); err != nil {
				return fmt.Errorf("creating %q: %w", target, err)
			}
			stats.Dirs++
			return nil
		}

		if _, skip := o.excludedFiles[info.Name()]; skip {
			o.l.Debug("skipping file", zap.String("path", path))
			stats.Skipped++
			return nil
		}

		if !info.Mode().IsRegular() {
			// follow links, but do not descend into linked directories
			resolved, err := fs.Stat(path)
			if err != nil {
				return fmt.Errorf("couldn't stat %q: %w", path, err)
			}
			if resolved.IsDir() {
				o.l.Warn("not following linked directory", zap.String("path", path))
				stats.Skipped++
				return nil
			}
			info = resolved
		}

		n, err := copyFile(fs, path, target, info.Mode().Perm()|ownerWrite)
		if err != nil {
			return err
		}
		o.l.Debug("copied file",
			zap.String("source", path),
			zap.String("target", target),
			zap.Int64("bytes", n),
		)
		stats.Files++
		stats.Bytes += n
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, nil
}

func copyFile(fs afero.Fs, src, dst string, perm os.FileMode) (n int64, err error) {
	in, err := fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening %q: %w", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return 0, fmt.Errorf("creating %q: %w", dst, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	n, err = io.Copy(out, in)
	if err != nil {
		return n, fmt.Errorf("copying %q to %q: %w", src, dst, err)
	}
	if err = fs.Chmod(dst, perm); err != nil {
		return n, fmt.Errorf("setting mode on %q: %w", dst, err)
	}
	return n, nil
}
