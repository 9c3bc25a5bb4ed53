package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Source   string `json:"source" yaml:"source"`     // Directory holding the game install
	Output   string `json:"output" yaml:"output"`     // PS3_GAME output directory
	Tool     string `json:"tool" yaml:"tool"`         // Path to make_npdata
	LogFile  string `json:"logfile" yaml:"logfile"`   // Log file
	LogLevel string `json:"loglevel" yaml:"loglevel"` // Log level
	Region   string `json:"region" yaml:"region"`     // Forced release
	NoPause  bool   `json:"nopause" yaml:"nopause"`   // Do not wait for Enter
}

var configKeys = []string{"source", "output", "tool", "logfile", "loglevel", "region", "nopause"}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func configFromFlags(flags *flagsT) CLIConfig {
	return CLIConfig{
		Source:   flags.paths.Source,
		Output:   flags.paths.Output,
		Tool:     flags.paths.Tool,
		LogFile:  flags.paths.LogFile,
		LogLevel: flags.root.logLevel,
		Region:   flags.root.region,
		NoPause:  flags.root.noPause,
	}
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage a config",
	Long: `Commands to manage desfixer CLI config.

Configuration for desfixer is the set of flags that do not change across runs: where the game is installed,
where the converted game goes and where the decryption tool lives.

The config file is looked up as ./desfixer.yaml, then $HOME/.desfixer/desfixer.yaml.
The DESFIXER_CONFIG environment variable points to another file.
Every setting may also be set as an environment variable, e.g. DESFIXER_SOURCE.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
