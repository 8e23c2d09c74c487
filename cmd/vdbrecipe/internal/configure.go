package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/openvdb-recipe/recipe"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Print the cmake definitions",
	Long:  `Configure validates the configuration and prints the cmake cache definitions, one per line, without running cmake.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	r := inv.newRecipe(recipe.Layout{})
	if err := r.Validate(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, arg := range r.Defines().Args() {
		fmt.Fprintln(out, arg)
	}
	return nil
}
