package internal

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goplus/openvdb-recipe/recipe"
)

var infoCmd = &cobra.Command{
	Use:   "info <package-dir>",
	Short: "Print the metadata of a built package",
	Long:  `Info prints the settings, options and consumer metadata recorded when the package was created.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	rec, err := recipe.LoadRecord(args[0])
	if err != nil {
		return fmt.Errorf("failed to load package metadata: %w", err)
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return enc.Close()
}
