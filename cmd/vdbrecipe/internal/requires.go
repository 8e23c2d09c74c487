package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/openvdb-recipe/recipe"
)

var requiresCmd = &cobra.Command{
	Use:   "requires",
	Short: "Print the resolved requirements",
	Long:  `Requires validates the configuration and prints the packages openvdb links against and the tools needed to build it.`,
	Args:  cobra.NoArgs,
	RunE:  runRequires,
}

func init() {
	rootCmd.AddCommand(requiresCmd)
}

func runRequires(cmd *cobra.Command, args []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	r := inv.newRecipe(recipe.Layout{})
	if err := r.Validate(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, dep := range r.Requirements() {
		fmt.Fprintln(out, dep)
	}
	for _, tool := range recipe.BuildRequirements(inv.platform) {
		fmt.Fprintf(out, "%s (build)\n", tool)
	}
	return nil
}
