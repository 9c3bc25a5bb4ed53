// Copyright © 2018 One Concern

// Package decrypt runs the external decryption tool over a tree of game files.
package decrypt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oneconcern/desfixer/pkg/fixer/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultSkippedFiles are left as is: the emulator handles them
var DefaultSkippedFiles = []string{"EBOOT.BIN"}

// Stats sums up what a decryption pass did
type Stats struct {
	Files   int `json:"files"`
	Skipped int `json:"skipped"`
}

// Option is a functor to tune a decryption pass
type Option func(*options)

type options struct {
	skipped  map[string]struct{}
	excluded map[string]struct{}
	l        *zap.Logger
}

// SkipFiles replaces the names of files left untouched, at any depth
func SkipFiles(names ...string) Option {
	return func(o *options) {
		o.skipped = toSet(names)
	}
}

// ExcludeDirs names directories skipped with their whole content, at any depth.
// Use it for directories left out of the mirrored tree: their files have no target.
func ExcludeDirs(names ...string) Option {
	return func(o *options) {
		o.excluded = toSet(names)
	}
}

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.l = l
		}
	}
}

// Tree decrypts every file under src into the same relative location under dst, one file at a time.
//
// Files are handed to the decrypter in lexical order. The first failure stops the pass.
func Tree(ctx context.Context, fs afero.Fs, src, dst string, d Decrypter, opts ...Option) (Stats, error) {
	var stats Stats
	o := &options{l: zap.NewNop()}
	SkipFiles(DefaultSkippedFiles...)(o)
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

	err = afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if _, skip := o.excluded[info.Name()]; skip && path != src {
				o.l.Debug("skipping directory", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if _, skip := o.skipped[info.Name()]; skip {
			o.l.Debug("skipping file", zap.String("path", path))
			stats.Skipped++
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		o.l.Info(fmt.Sprintf("Decrypting file %s to target %s...", path, target))
		if err := d.DecryptFile(ctx, path, target); err != nil {
			return status.ErrDecrypt.Wrap(fmt.Errorf("%q: %w", path, err))
		}
		stats.Files++
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
