package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var configGen = &cobra.Command{
	Use:   "create",
	Short: "Create a config",
	Long: "Create a config to use for desfixer, from the current settings. " +
		"Config file will be placed in $HOME/.desfixer/desfixer.yaml unless --file is set",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		target := desfixerFlags.config.file
		if target == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				wrapFatalln("Could not get home directory for user", err)
				return
			}
			target = filepath.Join(home, ".desfixer", "desfixer.yaml")
		}

		o, err := yaml.Marshal(configFromFlags(&desfixerFlags))
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		if err = appFs.MkdirAll(filepath.Dir(target), 0777); err != nil {
			wrapFatalln("create config directory", err)
			return
		}
		if err = afero.WriteFile(appFs, target, o, 0666); err != nil {
			wrapFatalln("write config file", err)
			return
		}
		infoLogger.Println("Config written to", target)
	},
}

func init() {
	addConfigFileFlag(configGen)

	configCmd.AddCommand(configGen)
}
