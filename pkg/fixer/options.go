package fixer

import (
	"github.com/oneconcern/desfixer/pkg/decrypt"
	"github.com/oneconcern/desfixer/pkg/region"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Option is a functor to build a Fixer with some options
type Option func(*Fixer)

// Fs defines the file system holding the game and the output
func Fs(fs afero.Fs) Option {
	return func(f *Fixer) {
		if fs != nil {
			f.fs = fs
		}
	}
}

// SourceRoot defines the directory where game installs are looked up
func SourceRoot(root string) Option {
	return func(f *Fixer) {
		if root != "" {
			f.sourceRoot = root
		}
	}
}

// OutputDir defines the PS3_GAME directory receiving the converted game
func OutputDir(dir string) Option {
	return func(f *Fixer) {
		if dir != "" {
			f.outputDir = dir
		}
	}
}

// Tool defines the decryption tool
func Tool(t *decrypt.Tool) Option {
	return func(f *Fixer) {
		if t != nil {
			f.tool = t
		}
	}
}

// Region forces the release to convert, bypassing detection. region.Unknown means auto-detect.
func Region(r region.Region) Option {
	return func(f *Fixer) {
		f.region = r
	}
}

// DryRun mirrors the game files but only lists the files which would be decrypted
func DryRun(enabled bool) Option {
	return func(f *Fixer) {
		f.dryRun = enabled
	}
}

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(f *Fixer) {
		if l != nil {
			f.l = l
		}
	}
}
