package mirror

import (
	"go.uber.org/zap"
)

// DefaultExcludedDirs lists the directories of a title which are never mirrored
var DefaultExcludedDirs = []string{"LICDIR", "MANUAL"}

// DefaultExcludedFiles lists the files of a title which are never mirrored
var DefaultExcludedFiles = []string{"ISO2PKG.DAT"}

// Option is a functor to tune a Copy
type Option func(*options)

type options struct {
	excludedDirs  map[string]struct{}
	excludedFiles map[string]struct{}
	l             *zap.Logger
}

func defaultOptions() *options {
	return &options{
		excludedDirs:  toSet(DefaultExcludedDirs),
		excludedFiles: toSet(DefaultExcludedFiles),
		l:             zap.NewNop(),
	}
}

// ExcludeDirs replaces the names of directories skipped with their content, at any depth
func ExcludeDirs(names ...string) Option {
	return func(o *options) {
		o.excludedDirs = toSet(names)
	}
}

// ExcludeFiles replaces the names of files skipped, at any depth
func ExcludeFiles(names ...string) Option {
	return func(o *options) {
		o.excludedFiles = toSet(names)
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

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
