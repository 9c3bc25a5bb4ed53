// Package fixer converts a PSN install of Demon's Souls into a decrypted disc layout
// the RPCS3 emulator can load.
//
// The conversion runs sequentially:
//   - detect which regional release is installed
//   - mirror the install into the PS3_GAME output directory
//   - decrypt every game file of the install into the mirrored tree
package fixer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/oneconcern/desfixer/pkg/decrypt"
	"github.com/oneconcern/desfixer/pkg/fixer/status"
	"github.com/oneconcern/desfixer/pkg/mirror"
	"github.com/oneconcern/desfixer/pkg/region"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// DefaultSourceRoot is where game installs are looked up, relative to the working directory
	DefaultSourceRoot = ".."

	// DefaultOutputDir receives the converted game, relative to the working directory
	DefaultOutputDir = "../../disc/DeS-Converted/PS3_GAME"
)

// Fixer converts a game install
type Fixer struct {
	fs         afero.Fs
	sourceRoot string
	outputDir  string
	tool       *decrypt.Tool
	region     region.Region
	dryRun     bool
	l          *zap.Logger
}

// New builds a Fixer. Without options, it works on the OS file system with the default locations.
func New(opts ...Option) *Fixer {
	f := &Fixer{
		fs:         afero.NewOsFs(),
		sourceRoot: DefaultSourceRoot,
		outputDir:  DefaultOutputDir,
		l:          zap.NewNop(),
	}
	for _, apply := range opts {
		apply(f)
	}
	if f.tool == nil {
		f.tool = decrypt.NewTool("")
	}
	return f
}

// Detect the release to convert
func (f *Fixer) Detect() (region.Region, error) {
	if f.region.Known() {
		found, err := region.Exists(f.fs, f.sourceRoot, f.region)
		if err != nil {
			return region.Unknown, err
		}
		if !found {
			return region.Unknown, status.ErrNoGameFound.Wrap(
				fmt.Errorf("no %s release at %q", f.region, f.region.TitleDir(f.sourceRoot)))
		}
		return f.region, nil
	}

	r, err := region.Detect(f.fs, f.sourceRoot)
	if err != nil {
		return region.Unknown, err
	}
	if !r.Known() {
		return region.Unknown, status.ErrNoGameFound.Wrap(fmt.Errorf("nothing found in %q", f.sourceRoot))
	}
	return r, nil
}

// CheckTool verifies the decryption tool is available
func (f *Fixer) CheckTool() error {
	return f.tool.Check(f.fs)
}

// Copy mirrors the install of a release into the output directory
func (f *Fixer) Copy(r region.Region) (mirror.Stats, error) {
	if !r.Known() {
		return mirror.Stats{}, status.ErrNoGameFound
	}
	stats, err := mirror.Copy(f.fs, r.TitleDir(f.sourceRoot), f.outputDir, mirror.Logger(f.l))
	if err != nil {
		return stats, status.ErrCopy.Wrap(err)
	}
	return stats, nil
}

// Decrypt the game files of a release into the output directory, which must hold a mirror of the install
func (f *Fixer) Decrypt(ctx context.Context, r region.Region) (decrypt.Stats, error) {
	if !r.Known() {
		return decrypt.Stats{}, status.ErrNoGameFound
	}
	var d decrypt.Decrypter = f.tool
	if f.dryRun {
		d = listing{l: f.l}
	}
	return decrypt.Tree(ctx, f.fs, r.ContentDir(f.sourceRoot), f.contentOutputDir(), d,
		decrypt.ExcludeDirs(mirror.DefaultExcludedDirs...),
		decrypt.SkipFiles(skippedFiles()...),
		decrypt.Logger(f.l),
	)
}

// skippedFiles are left untouched by the decryption pass: files the mirror leaves out have no target
func skippedFiles() []string {
	names := make([]string, 0, len(decrypt.DefaultSkippedFiles)+len(mirror.DefaultExcludedFiles))
	names = append(names, decrypt.DefaultSkippedFiles...)
	return append(names, mirror.DefaultExcludedFiles...)
}

func (f *Fixer) contentOutputDir() string {
	return filepath.Join(f.outputDir, region.ContentDirName)
}

// Run the whole conversion
func (f *Fixer) Run(ctx context.Context) (Report, error) {
	report := Report{
		OutputDir: f.outputDir,
		DryRun:    f.dryRun,
	}

	if !f.dryRun {
		if err := f.CheckTool(); err != nil {
			return report, err
		}
	}

	r, err := f.Detect()
	if err != nil {
		return report, err
	}
	report.Region = r
	report.TitleDir = r.TitleDir(f.sourceRoot)

	start := time.Now()
	f.l.Info("Game found. Starting process.",
		zap.Stringer("region", r),
		zap.String("title", r.TitleID()),
	)

	f.l.Info("Copying game files. Please wait...")
	report.Copied, err = f.Copy(r)
	if err != nil {
		return report, err
	}
	f.l.Info("game files copied",
		zap.Int("files", report.Copied.Files),
		zap.Int("dirs", report.Copied.Dirs),
		zap.Int64("bytes", report.Copied.Bytes),
		zap.Int("skipped", report.Copied.Skipped),
	)

	f.l.Info("Starting decryption. This can take a while....")
	report.Decrypted, err = f.Decrypt(ctx, r)
	report.Elapsed = time.Since(start)
	if err != nil {
		return report, err
	}

	f.l.Info(fmt.Sprintf("Game decrypted in %d seconds.", report.Seconds()),
		zap.Int("files", report.Decrypted.Files),
		zap.Int("skipped", report.Decrypted.Skipped),
		zap.Bool("dry-run", f.dryRun),
	)
	return report, nil
}

// listing stands in for the decryption tool in dry runs
type listing struct {
	l *zap.Logger
}

func (d listing) DecryptFile(_ context.Context, src, dst string) error {
	d.l.Info("would decrypt file", zap.String("source", src), zap.String("target", dst))
	return nil
}
