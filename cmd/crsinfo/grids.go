package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var gridsCmd = &cobra.Command{
	Use:   "grids NAME...",
	Short: "Show grid alternatives and download information",
	Long: `grids resolves each authority grid name to its registered local
alternative and reports where the file can be downloaded and whether it is
already present under a --grid-path directory.`,
	Example: `  crsinfo grids conus NTv2_0.gsb
  crsinfo --grid-path /usr/share/proj grids ntf_r93.gsb`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGrids,
}

func init() {
	rootCmd.AddCommand(gridsCmd)
}

func runGrids(cmd *cobra.Command, args []string) error {
	ctx, err := openRegistry()
	if err != nil {
		return err
	}
	if ctx == nil {
		return errors.New("grids needs a registry: set --registry or CRSINFO_REGISTRY")
	}
	defer func() { _ = ctx.Close() }()

	for _, name := range args {
		alt, ok, err := ctx.LookForGridAlternative(name)
		if err != nil {
			return err
		}
		if ok && alt.ProjFilename != name {
			fmt.Printf("%s -> %s (%s", name, alt.ProjFilename, alt.ProjFormat)
			if alt.Inverse {
				fmt.Print(", inverse")
			}
			fmt.Println(")")
		}

		info, known, err := ctx.LookForGridInfo(name)
		if err != nil {
			return err
		}
		switch {
		case !known:
			fmt.Printf("%s: not in the registry\n", name)
		case info.Available:
			fmt.Printf("%s: available as %s\n", name, info.FullFilename)
		case info.URL != "":
			fmt.Printf("%s: missing, download %s", name, info.URL)
			if info.PackageName != "" {
				fmt.Printf(" (package %s)", info.PackageName)
			}
			if !info.OpenLicense {
				fmt.Print(" [restricted license]")
			}
			fmt.Println()
		default:
			fmt.Printf("%s: missing, no download source\n", name)
		}
	}
	return nil
}
