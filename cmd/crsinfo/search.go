package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"

	"github.com/spatialref/crstext/object"
	"github.com/spatialref/crstext/registry"
)

var (
	whereExpr   string
	searchLimit int
	exactSearch bool
)

var searchCmd = &cobra.Command{
	Use:   "search NAME",
	Short: "Find registry objects by name or alias",
	Long: `search looks the registry up by object name. Matching is loose:
case and underscore/space differences are ignored, aliases count, and
substring matches are reported when nothing matches exactly.

--where filters rows with an expression over name, category, authority,
code and deprecated.`,
	Example: `  crsinfo search 'WGS 84'
  crsinfo search wgs --where 'category == "geographic_crs" && !deprecated'`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&whereExpr, "where", "",
		"expression filter over name, category, authority, code, deprecated")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0,
		"maximum number of results (0 means no limit)")
	searchCmd.Flags().BoolVar(&exactSearch, "exact", false,
		"match the full name only, no substring fallback")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, err := openRegistry()
	if err != nil {
		return err
	}
	if ctx == nil {
		return errors.New("search needs a registry: set --registry or CRSINFO_REGISTRY")
	}
	defer func() { _ = ctx.Close() }()

	var prg *vm.Program
	if whereExpr != "" {
		prg, err = expr.Compile(whereExpr, expr.AsBool())
		if err != nil {
			return fmt.Errorf("bad --where expression: %w", err)
		}
	}

	objs, err := registry.NewFactory(ctx, "").CreateObjectsFromName(args[0], nil, !exactSearch, searchLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, obj := range objs {
		env := rowEnv(obj)
		if prg != nil {
			keep, err := expr.Run(prg, env)
			if err != nil {
				return fmt.Errorf("--where evaluation: %w", err)
			}
			if ok, _ := keep.(bool); !ok {
				continue
			}
		}
		fmt.Fprintf(w, "%s:%s\t%s\t%s\n", env["authority"], env["code"], env["category"], env["name"])
	}
	return w.Flush()
}

// rowEnv exposes one search hit to --where expressions.
func rowEnv(obj object.Object) map[string]any {
	env := map[string]any{
		"name":       obj.Name(),
		"category":   obj.Category().String(),
		"authority":  "",
		"code":       "",
		"deprecated": false,
	}
	if coded, ok := obj.(interface {
		Authority() string
		Code() string
	}); ok {
		env["authority"] = coded.Authority()
		env["code"] = coded.Code()
	}
	if d, ok := obj.(interface{ Deprecated() bool }); ok {
		env["deprecated"] = d.Deprecated()
	}
	return env
}
