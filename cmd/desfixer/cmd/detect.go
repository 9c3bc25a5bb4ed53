package cmd

import (
	"github.com/gosuri/uitable"
	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/desfixer/pkg/region"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type detectResult struct {
	Region    region.Region `json:"region"`
	TitleID   string        `json:"titleId"`
	TitleDir  string        `json:"titleDir"`
	Installed bool          `json:"installed"`
}

func newDetectResult(r region.Region, installed bool) detectResult {
	return detectResult{
		Region:    r,
		TitleID:   r.TitleID(),
		TitleDir:  r.TitleDir(desfixerFlags.paths.Source),
		Installed: installed,
	}
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the installed release",
	Long: `Detect which release of the game is installed in the source directory.

Releases are looked up in this order: US (NPUB30910), EU (NPEB01202), JP (NPJA00102).
The command fails when none is found, unless --all is set: every release is then listed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if desfixerFlags.detect.all {
			listReleases(appFs, desfixerFlags.paths.Source)
			return
		}

		inputs := newCliOptionInputs(config, &desfixerFlags)
		logger, err := inputs.getLogger(false)
		if err != nil {
			wrapFatalln("create logger", err)
			return
		}
		fx, err := inputs.fixer(logger)
		if err != nil {
			wrapFatalWithCodef(1, "%v", err)
			return
		}
		r, err := fx.Detect()
		if err != nil {
			wrapFatalWithCodef(1, "%v", err)
			return
		}
		res := newDetectResult(r, true)

		if desfixerFlags.detect.json {
			printJSON(res)
			return
		}
		logStdOut("%s release (%s) at %s\n", res.Region, res.TitleID, res.TitleDir)
	},
}

func listReleases(fs afero.Fs, root string) {
	results := make([]detectResult, 0, len(region.All()))
	for _, r := range region.All() {
		installed, err := region.Exists(fs, root, r)
		if err != nil {
			wrapFatalWithCodef(1, "%v", err)
			return
		}
		results = append(results, newDetectResult(r, installed))
	}

	if desfixerFlags.detect.json {
		printJSON(results)
		return
	}
	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("REGION", "TITLE ID", "INSTALLED", "PATH")
	for _, res := range results {
		installed := "no"
		if res.Installed {
			installed = "yes"
		}
		table.AddRow(res.Region, res.TitleID, installed, res.TitleDir)
	}
	logStdOut("%s\n", table)
}

func printJSON(v interface{}) {
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
	if err != nil {
		wrapFatalln("serialize detection result", err)
		return
	}
	logStdOut("%s\n", b)
}

func init() {
	addJSONFlag(detectCmd)
	addAllFlag(detectCmd)

	rootCmd.AddCommand(detectCmd)
}
