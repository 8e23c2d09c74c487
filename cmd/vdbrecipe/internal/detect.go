package internal

import (
	"github.com/spf13/cobra"

	"github.com/goplus/openvdb-recipe/internal/profile"
)

var detectSIMD bool

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Print the host profile",
	Long:  `Detect describes the host platform as a profile that can be saved and passed to -p.`,
	Args:  cobra.NoArgs,
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectSIMD, "simd", false, "Select the widest SIMD instruction set of the host CPU")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	p := profile.Detect()
	if detectSIMD {
		p.Options = map[string]any{"simd": profile.HostSIMD().String()}
	}
	return p.Encode(cmd.OutOrStdout())
}
