// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/oneconcern/desfixer/pkg/decrypt"
	"github.com/oneconcern/desfixer/pkg/dlogger"
	"github.com/oneconcern/desfixer/pkg/fixer"
	"github.com/oneconcern/desfixer/pkg/region"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const defaultLogFile = "log_fixer.log"

type flagsT struct {
	paths struct {
		Source  string
		Output  string
		Tool    string
		LogFile string
	}
	root struct {
		logLevel string
		noPause  bool
		region   string
		dryRun   bool
	}
	detect struct {
		json bool
		all  bool
	}
	config struct {
		file string
	}
	doc struct {
		docTarget string
	}
}

var desfixerFlags = flagsT{}

const (
	sourceFlag   = "source"
	outputFlag   = "output"
	toolFlag     = "tool"
	logFileFlag  = "log-file"
	logLevelFlag = "loglevel"
	noPauseFlag  = "no-pause"
	regionFlag   = "region"
)

func addSourceFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&desfixerFlags.paths.Source, sourceFlag, fixer.DefaultSourceRoot,
		"The directory holding the game install (NPUB30910, NPEB01202 or NPJA00102)")
	return sourceFlag
}

func addOutputFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&desfixerFlags.paths.Output, outputFlag, fixer.DefaultOutputDir,
		"The PS3_GAME directory receiving the converted game")
	return outputFlag
}

func addToolFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&desfixerFlags.paths.Tool, toolFlag, decrypt.DefaultToolPath,
		"The path to the make_npdata executable")
	return toolFlag
}

func addLogFileFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&desfixerFlags.paths.LogFile, logFileFlag, defaultLogFile,
		"The log file, overwritten at each run. Leave empty to log to the console only")
	return logFileFlag
}

func addLogLevel(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&desfixerFlags.root.logLevel, logLevelFlag, dlogger.LogLevelInfo,
		"The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return logLevelFlag
}

func addNoPauseFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().BoolVar(&desfixerFlags.root.noPause, noPauseFlag, false,
		"Do not wait for Enter before exiting")
	return noPauseFlag
}

func addRegionFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&desfixerFlags.root.region, regionFlag, "",
		"Force the release to convert (us, eu or jp) instead of detecting it")
	return regionFlag
}

func addDryRunFlag(cmd *cobra.Command) string {
	c := "dry-run"
	cmd.Flags().BoolVar(&desfixerFlags.root.dryRun, c, false,
		"Copy the game files but only list the files to decrypt, without running the tool")
	return c
}

func addJSONFlag(cmd *cobra.Command) string {
	c := "json"
	cmd.Flags().BoolVar(&desfixerFlags.detect.json, c, false, "Print the result as JSON")
	return c
}

func addAllFlag(cmd *cobra.Command) string {
	c := "all"
	cmd.Flags().BoolVar(&desfixerFlags.detect.all, c, false, "List every known release, installed or not")
	return c
}

func addConfigFileFlag(cmd *cobra.Command) string {
	c := "file"
	cmd.Flags().StringVar(&desfixerFlags.config.file, c, "",
		"The config file to write (defaults to $HOME/.desfixer/desfixer.yaml)")
	return c
}

func addTargetFlag(cmd *cobra.Command) string {
	c := "target-dir"
	cmd.Flags().StringVar(&desfixerFlags.doc.docTarget, c, ".", "The target directory where to generate the markdown documentation")
	return c
}

/** parameters struct from other formats */

// apply config file + env vars to structure used to parse cli flags, unless set on the command line
func (flags *flagsT) setDefaultsFromConfig(fs *pflag.FlagSet, c *CLIConfig) {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	if !changed(sourceFlag) && c.Source != "" {
		flags.paths.Source = c.Source
	}
	if !changed(outputFlag) && c.Output != "" {
		flags.paths.Output = c.Output
	}
	if !changed(toolFlag) && c.Tool != "" {
		flags.paths.Tool = c.Tool
	}
	if !changed(logFileFlag) && c.LogFile != "" {
		flags.paths.LogFile = c.LogFile
	}
	if !changed(logLevelFlag) && c.LogLevel != "" {
		flags.root.logLevel = c.LogLevel
	}
	if !changed(regionFlag) && c.Region != "" {
		flags.root.region = c.Region
	}
	if !changed(noPauseFlag) && c.NoPause {
		flags.root.noPause = true
	}
}

/** combined config (file + env var) and parameters (pflags) */

type cliOptionInputs struct {
	config *CLIConfig
	params *flagsT

	onceLogger sync.Once
	onceClose  sync.Once
	logger     *zap.Logger
	logFile    afero.File
	loggerErr  error

	stopSignals func()
}

func newCliOptionInputs(config *CLIConfig, params *flagsT) *cliOptionInputs {
	return &cliOptionInputs{
		config: config,
		params: params,
	}
}

/** combined config and parameters to internal objects */

// getLogger builds the console logger, teed to the log file when withFile is set.
// Without the file, logs go to stderr.
func (in *cliOptionInputs) getLogger(withFile bool) (*zap.Logger, error) {
	in.onceLogger.Do(func() {
		if !withFile {
			in.logger, in.loggerErr = dlogger.GetLogger(in.params.root.logLevel)
			if in.loggerErr != nil {
				in.loggerErr = fmt.Errorf("failed to set log level: %w", in.loggerErr)
			}
			return
		}
		if in.params.paths.LogFile != "" {
			in.logFile, in.loggerErr = appFs.OpenFile(in.params.paths.LogFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
			if in.loggerErr != nil {
				in.loggerErr = fmt.Errorf("failed to create log file: %w", in.loggerErr)
				return
			}
		}
		in.logger, in.loggerErr = dlogger.NewCombinedLogger(in.params.root.logLevel, consoleOut, in.logFile)
		if in.loggerErr != nil {
			in.loggerErr = fmt.Errorf("failed to set log level: %w", in.loggerErr)
		}
	})
	return in.logger, in.loggerErr
}

// closeLogger flushes the logger and closes the log file
func (in *cliOptionInputs) closeLogger() {
	in.onceClose.Do(func() {
		if in.logger != nil {
			_ = in.logger.Sync()
		}
		if in.logFile != nil {
			_ = in.logFile.Close()
		}
	})
}

// handleSIGINT returns a context cancelled on SIGINT, until releaseSignals is called
func (in *cliOptionInputs) handleSIGINT(parent context.Context) context.Context {
	ctx, stop := sigintHandler(parent)
	in.stopSignals = stop
	return ctx
}

// releaseSignals restores the default SIGINT behavior, so Ctrl-C works again at the prompt
func (in *cliOptionInputs) releaseSignals() {
	if in.stopSignals != nil {
		in.stopSignals()
		in.stopSignals = nil
	}
}

func (in *cliOptionInputs) fixer(logger *zap.Logger) (*fixer.Fixer, error) {
	r, err := region.Parse(in.params.root.region)
	if err != nil {
		return nil, err
	}
	return fixer.New(
		fixer.Fs(appFs),
		fixer.SourceRoot(in.params.paths.Source),
		fixer.OutputDir(in.params.paths.Output),
		fixer.Tool(decrypt.NewTool(in.params.paths.Tool)),
		fixer.Region(r),
		fixer.DryRun(in.params.root.dryRun),
		fixer.Logger(logger),
	), nil
}

func (in *cliOptionInputs) dumpConfig() string {
	return fmt.Sprintf("using source:%s output:%s tool:%s", in.params.paths.Source, in.params.paths.Output, in.params.paths.Tool)
}
