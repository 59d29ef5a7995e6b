package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/spatialref/crstext"
	"github.com/spatialref/crstext/object"
	"github.com/spatialref/crstext/projstring"
	"github.com/spatialref/crstext/registry"
	"github.com/spatialref/crstext/wkt"
)

var (
	outputFormat string
	strictParse  bool
	singleLine   bool
	noColor      bool
	proj4Rules   bool
)

func init() {
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "wkt2_2018",
		"output form: wkt2_2015, wkt2_2015_simplified, wkt2_2018, wkt2_2018_simplified, wkt1_gdal, wkt1_esri, proj4, proj5, json")
	rootCmd.Flags().BoolVar(&strictParse, "strict", false,
		"escalate parse warnings to errors")
	rootCmd.Flags().BoolVar(&singleLine, "single-line", false,
		"render on one line instead of the multi-line layout")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")
	rootCmd.Flags().BoolVar(&proj4Rules, "proj4-init-rules", false,
		"expand +init clauses with legacy PROJ.4 semantics")
}

func runConvert(cmd *cobra.Command, args []string) error {
	text, err := inputText(args)
	if err != nil {
		return err
	}
	ctx, err := openRegistry()
	if err != nil {
		return err
	}
	if ctx != nil {
		defer func() { _ = ctx.Close() }()
	}
	obj, err := parseDefinition(text, ctx)
	if err != nil {
		return err
	}
	out, err := render(obj, outputFormat, ctx, useColor(os.Stdout))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// inputText returns the definition from the argument, or from stdin when no
// argument (or "-") is given.
func inputText(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no definition given")
	}
	return string(data), nil
}

// parseDefinition dispatches through the user-input resolver. Strict mode
// goes straight to the grammar parsers so warnings become errors; the other
// forms have no warnings to escalate.
func parseDefinition(text string, ctx *registry.Context) (object.Object, error) {
	if strictParse {
		trimmed := strings.TrimSpace(text)
		if wkt.GuessDialect(trimmed) != wkt.DialectNotWKT {
			return wkt.NewParser(wkt.ParseStrict(true)).CreateFromWKT(trimmed)
		}
		if strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "proj=") {
			opts := []projstring.ParserOption{projstring.ParseStrict(true)}
			if ctx != nil {
				opts = append(opts, projstring.WithInitResolver(ctx))
			}
			if proj4Rules {
				opts = append(opts, projstring.UsePROJ4InitRules(true))
			}
			return projstring.NewParser(opts...).CreateFromPROJString(trimmed)
		}
	}
	return crstext.CreateFromUserInput(text, ctx, proj4Rules)
}

func render(obj object.Object, format string, ctx *registry.Context, colored bool) (string, error) {
	switch format {
	case "proj4", "proj5":
		conv, err := projstring.ParseConvention(format)
		if err != nil {
			return "", err
		}
		e, ok := obj.(projstring.Exportable)
		if !ok {
			return "", fmt.Errorf("%w: %q has no operation form", projstring.ErrFormat, obj.Name())
		}
		return projstring.Export(e, projstring.WithConvention(conv))
	case "json":
		node, err := objectTree(obj)
		if err != nil {
			return "", err
		}
		data, err := json.MarshalIndent(node, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		conv, err := wkt.ParseConvention(format)
		if err != nil {
			return "", err
		}
		e, ok := obj.(wkt.Exportable)
		if !ok {
			return "", fmt.Errorf("%w: %q has no bracketed form", wkt.ErrFormat, obj.Name())
		}
		opts := []wkt.FormatterOption{wkt.WithConvention(conv)}
		if singleLine {
			opts = append(opts, wkt.MultiLine(false))
		}
		if ctx != nil {
			opts = append(opts, wkt.WithAliasSource(ctx))
		}
		if colored {
			opts = append(opts, wkt.WithColors(wkt.NewColors()))
		}
		return wkt.Export(e, opts...)
	}
}

// objectTree returns the object's bracketed tree, reparsing its rendered
// form when the object does not carry one directly (registry hits wrap
// their payload, PROJ results have only a pipeline).
func objectTree(obj object.Object) (*wkt.Node, error) {
	if src, ok := obj.(wkt.TreeSource); ok {
		return src.Node(), nil
	}
	e, ok := obj.(wkt.Exportable)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no bracketed form", wkt.ErrFormat, obj.Name())
	}
	text, err := wkt.Export(e, wkt.MultiLine(false))
	if err != nil {
		return nil, err
	}
	reparsed, err := wkt.NewParser().CreateFromWKT(text)
	if err != nil {
		return nil, err
	}
	src, ok := reparsed.(wkt.TreeSource)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no bracketed tree", wkt.ErrFormat, obj.Name())
	}
	return src.Node(), nil
}

// useColor applies the usual precedence: an explicit --no-color wins,
// otherwise color follows whether the stream is a terminal.
func useColor(f *os.File) bool {
	if noColor {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}
