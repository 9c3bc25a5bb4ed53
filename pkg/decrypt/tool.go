// Copyright © 2018 One Concern

package decrypt

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/oneconcern/desfixer/pkg/fixer/status"
	"github.com/spf13/afero"
)

// DefaultToolPath is where the decryption tool is expected, relative to the working directory
var DefaultToolPath = defaultToolPath()

func defaultToolPath() string {
	name := "make_npdata"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(".", "resources", name)
}

// Decrypter knows how to decrypt a single file
type Decrypter interface {
	DecryptFile(ctx context.Context, src, dst string) error
}

var _ Decrypter = &Tool{}

// Tool drives the make_npdata executable
type Tool struct {
	path   string
	runner Runner
}

// ToolOption is a functor to build a Tool with some options
type ToolOption func(*Tool)

// WithRunner overrides how the tool gets executed
func WithRunner(r Runner) ToolOption {
	return func(t *Tool) {
		if r != nil {
			t.runner = r
		}
	}
}

// NewTool builds a Tool for the executable at path. An empty path selects DefaultToolPath.
func NewTool(path string, opts ...ToolOption) *Tool {
	if path == "" {
		path = DefaultToolPath
	}
	t := &Tool{
		path:   path,
		runner: ExecRunner{},
	}
	for _, apply := range opts {
		apply(t)
	}
	return t
}

// Path to the executable
func (t *Tool) Path() string {
	return t.path
}

// Check that the executable is present
func (t *Tool) Check(fs afero.Fs) error {
	found, err := afero.Exists(fs, t.path)
	if err != nil {
		return fmt.Errorf("looking for %q: %w", t.path, err)
	}
	if !found {
		return status.ErrToolNotFound.Wrap(fmt.Errorf("missing %q", t.path))
	}
	return nil
}

// Args builds the command line decrypting src into dst
func (t *Tool) Args(src, dst string) []string {
	return []string{"-d", src, dst, "0"}
}

// DecryptFile runs the tool on src, writing the decrypted content to dst
func (t *Tool) DecryptFile(ctx context.Context, src, dst string) error {
	return t.runner.Run(ctx, t.path, t.Args(src, dst)...)
}
