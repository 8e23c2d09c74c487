package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/openvdb-recipe/recipe"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration against the platform",
	Long:  `Validate finalizes the options for the profile and reports the first rule the configuration violates.`,
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	r := inv.newRecipe(recipe.Layout{})
	if err := r.Validate(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s is valid for %s %s with %s %s\n", recipe.Reference(),
		inv.platform.OS, inv.platform.Arch, inv.platform.Compiler.Name, inv.platform.Compiler.Version)
	for _, pair := range r.Options.Pairs() {
		fmt.Fprintln(out, "  "+pair)
	}
	return nil
}
