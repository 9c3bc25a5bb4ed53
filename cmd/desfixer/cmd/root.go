// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "desfixer",
	Short: "desfixer turns a PSN install of Demon's Souls into a decrypted disc layout",
	Long: `desfixer turns a PSN install of Demon's Souls into a decrypted disc layout the RPCS3 emulator can load.

Run it without any flag from a directory next to the game install (e.g. dev_hdd0/game/fixer):
  - the installed release is detected (NPUB30910, NPEB01202 or NPJA00102 in the parent directory)
  - game files are copied to ../../disc/DeS-Converted/PS3_GAME (LICDIR, MANUAL and ISO2PKG.DAT are left out)
  - every file of USRDIR but EBOOT.BIN is decrypted in place with ./resources/make_npdata

Progress is logged to the console and to log_fixer.log.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		inputs := newCliOptionInputs(config, &desfixerFlags)
		logger, err := inputs.getLogger(true)
		if err != nil {
			wrapFatalln("create logger", err)
			return
		}
		defer inputs.closeLogger()
		logger.Debug(inputs.dumpConfig())

		ctx := inputs.handleSIGINT(context.Background())
		defer inputs.releaseSignals()

		fx, err := inputs.fixer(logger)
		if err != nil {
			fail(inputs, logger, err)
			return
		}
		report, err := fx.Run(ctx)
		if err != nil {
			fail(inputs, logger, err)
			return
		}

		_, _ = fmt.Fprintln(consoleOut)
		logger.Info("Good to go.")
		logger.Info("RPCS3 should pick it up after a game list refresh, or a restart")
		_, _ = doneColor.Fprintln(consoleOut, report.String())
		inputs.closeLogger()
		inputs.releaseSignals()
		pause()
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var err error
	if err = rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	addSourceFlag(rootCmd)
	addOutputFlag(rootCmd)
	addToolFlag(rootCmd)
	addLogFileFlag(rootCmd)
	addLogLevel(rootCmd)
	addNoPauseFlag(rootCmd)
	addRegionFlag(rootCmd)
	addDryRunFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.Reset()
	for _, key := range configKeys {
		viper.SetDefault(key, "")
	}
	viper.SetDefault("nopause", false)
	if os.Getenv("DESFIXER_CONFIG") != "" {
		// Use config file from the env var.
		viper.SetConfigFile(os.Getenv("DESFIXER_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.desfixer")
		viper.SetConfigName("desfixer")
	}

	viper.SetEnvPrefix("desfixer")
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
		return
	}
	desfixerFlags.setDefaultsFromConfig(rootCmd.PersistentFlags(), config)
}
