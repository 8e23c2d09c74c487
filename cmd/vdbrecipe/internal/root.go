package internal

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	profilePath  string
	settingPairs []string
	optionPairs  []string
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "vdbrecipe",
	Short: "vdbrecipe resolves and builds the openvdb/8.1.0 package",
	Long: `vdbrecipe validates an openvdb/8.1.0 configuration against a platform profile,
resolves its requirements and drives the cmake build that produces the package.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and build tool output")
	flags.StringVarP(&profilePath, "profile", "p", "", "Profile file (default: detected host)")
	flags.StringArrayVarP(&settingPairs, "setting", "s", nil, "Override a setting, e.g. -s compiler.version=9")
	flags.StringArrayVarP(&optionPairs, "option", "o", nil, "Set an option, e.g. -o shared=True")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
