package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

var diffFormat string

var diffCmd = &cobra.Command{
	Use:   "diff A B",
	Short: "Compare two definitions under one convention",
	Long: `diff parses both definitions, renders them under the same convention,
and prints a character-level diff. Differences that normalize away during
the round trip (dialect keywords, number spelling, defaulted nodes) vanish,
so what remains is a real difference between the two objects.`,
	Example: `  crsinfo diff EPSG:4326 'GEOGCS["WGS 84",...]'
  crsinfo diff -o proj5 EPSG:32631 '+proj=utm +zone=31 +datum=WGS84'`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "output", "o", "wkt2_2018",
		"convention both definitions are rendered to")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx, err := openRegistry()
	if err != nil {
		return err
	}
	if ctx != nil {
		defer func() { _ = ctx.Close() }()
	}

	renderOne := func(text string) (string, error) {
		obj, err := parseDefinition(text, ctx)
		if err != nil {
			return "", fmt.Errorf("%q: %w", text, err)
		}
		return render(obj, diffFormat, ctx, false)
	}
	a, err := renderOne(args[0])
	if err != nil {
		return err
	}
	b, err := renderOne(args[1])
	if err != nil {
		return err
	}

	dmp := diffpatch.New()
	doMultiLine := strings.Contains(a, "\n") && strings.Contains(b, "\n")
	diffs := dmp.DiffMain(a, b, doMultiLine)
	if len(diffs) == 1 && diffs[0].Type == diffpatch.DiffEqual {
		fmt.Println("definitions are equivalent")
		return nil
	}

	if !useColor(os.Stdout) {
		color.NoColor = true
	}
	ins := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed, color.CrossedOut).SprintFunc()
	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			sb.WriteString(ins(d.Text))
		case diffpatch.DiffDelete:
			sb.WriteString(del(d.Text))
		case diffpatch.DiffEqual:
			sb.WriteString(d.Text)
		}
	}
	fmt.Println(sb.String())
	return nil
}
