// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt the game files only",
	Long: `Decrypt the game files of the detected install into an output directory already holding a copy of the install.

Run "desfixer copy" first. EBOOT.BIN is left untouched.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		inputs := newCliOptionInputs(config, &desfixerFlags)
		logger, err := inputs.getLogger(true)
		if err != nil {
			wrapFatalln("create logger", err)
			return
		}
		defer inputs.closeLogger()

		ctx := inputs.handleSIGINT(context.Background())
		defer inputs.releaseSignals()

		fx, err := inputs.fixer(logger)
		if err != nil {
			fail(inputs, logger, err)
			return
		}
		if err = fx.CheckTool(); err != nil {
			fail(inputs, logger, err)
			return
		}
		r, err := fx.Detect()
		if err != nil {
			fail(inputs, logger, err)
			return
		}
		logger.Info("Starting decryption. This can take a while....", zap.Stringer("region", r))
		stats, err := fx.Decrypt(ctx, r)
		if err != nil {
			fail(inputs, logger, err)
			return
		}
		logger.Info("game files decrypted",
			zap.Int("files", stats.Files),
			zap.Int("skipped", stats.Skipped),
		)
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
}
