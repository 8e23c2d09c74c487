package internal

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/goplus/openvdb-recipe/internal/env"
	"github.com/goplus/openvdb-recipe/recipe"
)

var (
	createBuildDir   string
	createPackageDir string
	createOutput     string
)

var createCmd = &cobra.Command{
	Use:   "create <source-dir>",
	Short: "Build and package openvdb from a source tree",
	Long: `Create runs the whole recipe over an extracted openvdb source tree: validation,
source adjustment, cmake configure, build and install. The package is kept in
the user cache unless --package-dir is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createBuildDir, "build-dir", "", "Build directory (default: in the user cache)")
	createCmd.Flags().StringVar(&createPackageDir, "package-dir", "", "Package directory (default: in the user cache)")
	createCmd.Flags().StringVar(&createOutput, "output", "", "Copy the finished package to this directory")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	sourceDir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve source dir: %w", err)
	}
	layout, err := createLayout(sourceDir, inv)
	if err != nil {
		return err
	}

	var opts []recipe.Option
	if !verbose {
		opts = append(opts, recipe.WithOutput(io.Discard, io.Discard))
	}
	r := inv.newRecipe(layout, opts...)

	if err := r.Validate(); err != nil {
		return err
	}
	for _, dep := range r.Requirements() {
		if _, ok := inv.profile.Dependencies[dep.Path]; !ok {
			log.WithField("require", dep.String()).Warn("no install root in profile, relying on cmake search paths")
		}
	}
	if err := r.Build(); err != nil {
		return fmt.Errorf("failed to build %s: %w", recipe.Reference(), err)
	}
	if err := r.Package(); err != nil {
		return fmt.Errorf("failed to package %s: %w", recipe.Reference(), err)
	}
	info, err := r.PackageInfo()
	if err != nil {
		return err
	}

	if createOutput != "" {
		if err := os.CopyFS(createOutput, os.DirFS(layout.PackageDir)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, info.Components[recipe.CoreComponent].Metadata())
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(info); err != nil {
		return err
	}
	return enc.Close()
}

// createLayout places the build and package trees of one configuration
// under the package root unless the flags name them.
func createLayout(sourceDir string, inv *invocation) (recipe.Layout, error) {
	l := recipe.Layout{
		SourceDir:  sourceDir,
		BuildDir:   createBuildDir,
		PackageDir: createPackageDir,
	}
	if l.BuildDir != "" && l.PackageDir != "" {
		return l, nil
	}
	root, err := env.PackageRoot(recipe.Reference())
	if err != nil {
		return recipe.Layout{}, fmt.Errorf("failed to get package root: %w", err)
	}
	id := configID(inv.platform, recipe.ConfigureOptions(inv.platform, inv.request))
	if l.BuildDir == "" {
		l.BuildDir = filepath.Join(root, "build", id)
	}
	if l.PackageDir == "" {
		l.PackageDir = filepath.Join(root, "package", id)
	}
	return l, nil
}

// configID identifies a settings and options combination.
func configID(p recipe.Platform, o recipe.Options) string {
	fields := []string{
		p.OS, p.Arch, p.Compiler.Name, p.Compiler.Version, p.Compiler.Runtime, p.Compiler.CppStd, p.BuildType,
	}
	sum := blake3.Sum256([]byte(strings.Join(append(fields, o.Pairs()...), "\n")))
	return hex.EncodeToString(sum[:8])
}
