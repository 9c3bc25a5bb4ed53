package fixer

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/oneconcern/desfixer/pkg/decrypt"
	"github.com/oneconcern/desfixer/pkg/errors"
	"github.com/oneconcern/desfixer/pkg/fixer/status"
	"github.com/oneconcern/desfixer/pkg/mirror"
	"github.com/oneconcern/desfixer/pkg/region"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	gameRoot  = "/dev_hdd0/game"
	outputDir = "/dev_hdd0/disc/DeS-Converted/PS3_GAME"
	toolPath  = "/fixer/resources/make_npdata"
)

// fakeRunner emulates the decryption tool over an afero.Fs
type fakeRunner struct {
	fs      afero.Fs
	sources []string
	err     error
}

func (r *fakeRunner) Run(_ context.Context, _ string, args ...string) error {
	if r.err != nil {
		return r.err
	}
	r.sources = append(r.sources, args[1])
	b, err := afero.ReadFile(r.fs, args[1])
	if err != nil {
		return err
	}
	return afero.WriteFile(r.fs, args[2], append([]byte("decrypted:"), b...), 0644)
}

func setupGame(t testing.TB, fs afero.Fs, r region.Region) {
	t.Helper()
	for _, p := range []string{
		"PARAM.SFO",
		"ISO2PKG.DAT",
		"LICDIR/LIC.DAT",
		"MANUAL/001.PNG",
		"USRDIR/EBOOT.BIN",
		"USRDIR/dvdroot_ps3/param/gameparam.parambnd.dcx",
		"USRDIR/dvdroot_ps3/sound/fdlc_main.fsb",
	} {
		path := filepath.Join(r.TitleDir(gameRoot), p)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(p), 0644))
	}
	require.NoError(t, fs.MkdirAll(filepath.Dir(toolPath), 0755))
	require.NoError(t, afero.WriteFile(fs, toolPath, []byte("tool"), 0755))
}

func newTestFixer(fs afero.Fs, runner decrypt.Runner, l *zap.Logger, opts ...Option) *Fixer {
	return New(append([]Option{
		Fs(fs),
		SourceRoot(gameRoot),
		OutputDir(outputDir),
		Tool(decrypt.NewTool(toolPath, decrypt.WithRunner(runner))),
		Logger(l),
	}, opts...)...)
}

func readString(t testing.TB, fs afero.Fs, path string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(b)
}

func TestRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	setupGame(t, fs, region.EU)
	runner := &fakeRunner{fs: fs}
	core, logs := observer.New(zapcore.InfoLevel)

	report, err := newTestFixer(fs, runner, zap.New(core)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, region.EU, report.Region)
	assert.Equal(t, filepath.Join(gameRoot, "NPEB01202"), report.TitleDir)
	assert.Equal(t, outputDir, report.OutputDir)
	assert.Equal(t, mirror.Stats{Files: 4, Dirs: 4, Skipped: 3, Bytes: int64(len(
		"PARAM.SFO" +
			"USRDIR/EBOOT.BIN" +
			"USRDIR/dvdroot_ps3/param/gameparam.parambnd.dcx" +
			"USRDIR/dvdroot_ps3/sound/fdlc_main.fsb"))}, report.Copied)
	assert.Equal(t, decrypt.Stats{Files: 2, Skipped: 1}, report.Decrypted)
	assert.False(t, report.DryRun)

	assert.Equal(t, "PARAM.SFO", readString(t, fs, filepath.Join(outputDir, "PARAM.SFO")))
	assert.Equal(t, "USRDIR/EBOOT.BIN", readString(t, fs, filepath.Join(outputDir, "USRDIR", "EBOOT.BIN")))
	assert.Equal(t, "decrypted:USRDIR/dvdroot_ps3/sound/fdlc_main.fsb",
		readString(t, fs, filepath.Join(outputDir, "USRDIR", "dvdroot_ps3", "sound", "fdlc_main.fsb")))

	for _, skipped := range []string{"ISO2PKG.DAT", "LICDIR", "MANUAL"} {
		exists, err := afero.Exists(fs, filepath.Join(outputDir, skipped))
		require.NoError(t, err)
		assert.False(t, exists, skipped)
	}

	assert.Equal(t, []string{
		filepath.Join(gameRoot, "NPEB01202", "USRDIR", "dvdroot_ps3", "param", "gameparam.parambnd.dcx"),
		filepath.Join(gameRoot, "NPEB01202", "USRDIR", "dvdroot_ps3", "sound", "fdlc_main.fsb"),
	}, runner.sources)

	for _, msg := range []string{
		"Game found. Starting process.",
		"Copying game files. Please wait...",
		"Starting decryption. This can take a while....",
	} {
		assert.Equal(t, 1, logs.FilterMessage(msg).Len(), msg)
	}
	assert.Equal(t, 2, logs.FilterMessageSnippet("Decrypting file ").Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("Game decrypted in").Len())
}

func TestRunNestedExclusions(t *testing.T) {
	fs := afero.NewMemMapFs()
	setupGame(t, fs, region.US)
	nested := []string{
		"USRDIR/dvdroot_ps3/MANUAL/page.png",
		"USRDIR/dvdroot_ps3/LICDIR/LIC.DAT",
		"USRDIR/dvdroot_ps3/sound/ISO2PKG.DAT",
	}
	for _, p := range nested {
		path := filepath.Join(region.US.TitleDir(gameRoot), p)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(p), 0644))
	}
	runner := &fakeRunner{fs: fs}

	report, err := newTestFixer(fs, runner, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, decrypt.Stats{Files: 2, Skipped: 2}, report.Decrypted)

	for _, p := range nested {
		exists, err := afero.Exists(fs, filepath.Join(outputDir, p))
		require.NoError(t, err)
		assert.False(t, exists, p)
	}
	for _, source := range runner.sources {
		assert.NotContains(t, source, "MANUAL")
		assert.NotContains(t, source, "LICDIR")
		assert.NotContains(t, source, "ISO2PKG.DAT")
	}
}

func TestRunDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	setupGame(t, fs, region.US)
	require.NoError(t, fs.Remove(toolPath))
	runner := &fakeRunner{fs: fs, err: fmt.Errorf("must not run")}
	core, logs := observer.New(zapcore.InfoLevel)

	report, err := newTestFixer(fs, runner, zap.New(core), DryRun(true)).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, decrypt.Stats{Files: 2, Skipped: 1}, report.Decrypted)
	assert.Equal(t, 2, logs.FilterMessage("would decrypt file").Len())
	assert.Contains(t, report.String(), "2 files to decrypt")

	assert.Equal(t, "USRDIR/dvdroot_ps3/sound/fdlc_main.fsb",
		readString(t, fs, filepath.Join(outputDir, "USRDIR", "dvdroot_ps3", "sound", "fdlc_main.fsb")))
}

func TestRunToolMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	setupGame(t, fs, region.JP)
	require.NoError(t, fs.Remove(toolPath))

	_, err := newTestFixer(fs, &fakeRunner{fs: fs}, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrToolNotFound))

	exists, err := afero.Exists(fs, outputDir)
	require.NoError(t, err)
	assert.False(t, exists, "nothing should be copied")
}

func TestRunNoGame(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Dir(toolPath), 0755))
	require.NoError(t, afero.WriteFile(fs, toolPath, []byte("tool"), 0755))

	report, err := newTestFixer(fs, &fakeRunner{fs: fs}, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNoGameFound))
	assert.Equal(t, region.Unknown, report.Region)
}

func TestRunDecryptFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	setupGame(t, fs, region.US)
	runner := &fakeRunner{fs: fs, err: fmt.Errorf("exit status 1")}

	report, err := newTestFixer(fs, runner, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrDecrypt))
	assert.Equal(t, 4, report.Copied.Files)
	assert.Equal(t, 0, report.Decrypted.Files)
}

func TestDetectOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	setupGame(t, fs, region.US)
	setupGame(t, fs, region.JP)

	r, err := newTestFixer(fs, nil, nil).Detect()
	require.NoError(t, err)
	assert.Equal(t, region.US, r)

	r, err = newTestFixer(fs, nil, nil, Region(region.JP)).Detect()
	require.NoError(t, err)
	assert.Equal(t, region.JP, r)

	_, err = newTestFixer(fs, nil, nil, Region(region.EU)).Detect()
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNoGameFound))
}

func TestPassesRequireRegion(t *testing.T) {
	f := newTestFixer(afero.NewMemMapFs(), nil, nil)

	_, err := f.Copy(region.Unknown)
	assert.True(t, errors.Is(err, status.ErrNoGameFound))

	_, err = f.Decrypt(context.Background(), region.Unknown)
	assert.True(t, errors.Is(err, status.ErrNoGameFound))

	_, err = f.Copy(region.EU)
	assert.True(t, errors.Is(err, status.ErrCopy))
}

func TestNewDefaults(t *testing.T) {
	f := New()
	assert.Equal(t, DefaultSourceRoot, f.sourceRoot)
	assert.Equal(t, DefaultOutputDir, f.outputDir)
	assert.Equal(t, decrypt.DefaultToolPath, f.tool.Path())
	assert.Equal(t, region.Unknown, f.region)
}

func TestReport(t *testing.T) {
	r := Report{
		Region:    region.US,
		Copied:    mirror.Stats{Files: 10, Dirs: 3, Skipped: 2, Bytes: 2 * 1000 * 1000},
		Decrypted: decrypt.Stats{Files: 8, Skipped: 1},
		Elapsed:   90*time.Second + 500*time.Millisecond,
	}
	assert.Equal(t, int64(90), r.Seconds())
	s := r.String()
	assert.Contains(t, s, "US release (NPUB30910)")
	assert.Contains(t, s, "10 files copied (2MB)")
	assert.Contains(t, s, "8 files decrypted, 1 skipped")
	assert.Contains(t, s, "About a minute")
}
