// Copyright © 2018 One Concern

package cmd

import (
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the game files only",
	Long: `Mirror the detected install into the output directory, without decrypting anything.

LICDIR and MANUAL directories, and ISO2PKG.DAT files are left out.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		inputs := newCliOptionInputs(config, &desfixerFlags)
		logger, err := inputs.getLogger(true)
		if err != nil {
			wrapFatalln("create logger", err)
			return
		}
		defer inputs.closeLogger()

		fx, err := inputs.fixer(logger)
		if err != nil {
			fail(inputs, logger, err)
			return
		}
		r, err := fx.Detect()
		if err != nil {
			fail(inputs, logger, err)
			return
		}
		logger.Info("Copying game files. Please wait...", zap.Stringer("region", r))
		stats, err := fx.Copy(r)
		if err != nil {
			fail(inputs, logger, err)
			return
		}
		logger.Info("game files copied",
			zap.Int("files", stats.Files),
			zap.Int("dirs", stats.Dirs),
			zap.String("size", units.HumanSize(float64(stats.Bytes))),
			zap.Int("skipped", stats.Skipped),
		)
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
}
