package wkt

import (
	"fmt"
	"strings"

	"github.com/spatialref/crstext/object"
)

// rootCategories maps root keywords of both grammar generations to object
// categories.
var rootCategories = map[string]object.Category{
	"GEOGCRS":       object.CategoryGeographicCRS,
	"GEOGRAPHICCRS": object.CategoryGeographicCRS,
	"GEOGCS":        object.CategoryGeographicCRS,

	"GEODCRS":     object.CategoryGeodeticCRS,
	"GEODETICCRS": object.CategoryGeodeticCRS,
	"GEOCCS":      object.CategoryGeodeticCRS,

	"PROJCRS":        object.CategoryProjectedCRS,
	"PROJECTEDCRS":   object.CategoryProjectedCRS,
	"PROJCS":         object.CategoryProjectedCRS,
	"DERIVEDPROJCRS": object.CategoryProjectedCRS,

	"VERTCRS":     object.CategoryVerticalCRS,
	"VERTICALCRS": object.CategoryVerticalCRS,
	"VERT_CS":     object.CategoryVerticalCRS,

	"COMPOUNDCRS": object.CategoryCompoundCRS,
	"COMPD_CS":    object.CategoryCompoundCRS,

	"BOUNDCRS":       object.CategoryCRS,
	"LOCAL_CS":       object.CategoryCRS,
	"FITTED_CS":      object.CategoryCRS,
	"ENGCRS":         object.CategoryCRS,
	"ENGINEERINGCRS": object.CategoryCRS,
	"TIMECRS":        object.CategoryCRS,
	"PARAMETRICCRS":  object.CategoryCRS,

	"DATUM":         object.CategoryGeodeticDatum,
	"TRF":           object.CategoryGeodeticDatum,
	"GEODETICDATUM": object.CategoryGeodeticDatum,
	"ENSEMBLE":      object.CategoryGeodeticDatum,

	"VDATUM":        object.CategoryVerticalDatum,
	"VRF":           object.CategoryVerticalDatum,
	"VERTICALDATUM": object.CategoryVerticalDatum,
	"VERT_DATUM":    object.CategoryVerticalDatum,

	"ELLIPSOID": object.CategoryEllipsoid,
	"SPHEROID":  object.CategoryEllipsoid,

	"PRIMEM":        object.CategoryPrimeMeridian,
	"PRIMEMERIDIAN": object.CategoryPrimeMeridian,

	"CONVERSION":         object.CategoryConversion,
	"DERIVINGCONVERSION": object.CategoryConversion,
	"PROJECTION":         object.CategoryConversion,

	"COORDINATEOPERATION":    object.CategoryTransformation,
	"ABRIDGEDTRANSFORMATION": object.CategoryTransformation,
	"CONCATENATEDOPERATION":  object.CategoryConcatenatedOperation,

	"UNIT":           object.CategoryUnitOfMeasure,
	"LENGTHUNIT":     object.CategoryUnitOfMeasure,
	"ANGLEUNIT":      object.CategoryUnitOfMeasure,
	"SCALEUNIT":      object.CategoryUnitOfMeasure,
	"TIMEUNIT":       object.CategoryUnitOfMeasure,
	"PARAMETRICUNIT": object.CategoryUnitOfMeasure,
}

// knownKeywords is the combined bracketed vocabulary of every supported
// dialect; bracketed nodes outside it draw a warning.
var knownKeywords = func() map[string]bool {
	m := map[string]bool{}
	for kw := range rootCategories {
		m[kw] = true
	}
	for _, kw := range []string{
		"BASEGEODCRS", "BASEGEOGCRS", "BASEPROJCRS", "BASEVERTCRS",
		"BASEENGCRS", "MEMBER", "ENSEMBLEACCURACY", "EDATUM",
		"ENGINEERINGDATUM", "PDATUM", "PARAMETRICDATUM", "TDATUM",
		"TIMEDATUM", "TIMEORIGIN", "DYNAMIC", "FRAMEEPOCH", "CS", "AXIS",
		"ORDER", "MERIDIAN", "BEARING", "METHOD", "PARAMETER",
		"PARAMETERFILE", "OPERATIONACCURACY", "SOURCECRS", "TARGETCRS",
		"INTERPOLATIONCRS", "STEP", "ID", "AUTHORITY", "CITATION", "URI",
		"SCOPE", "AREA", "BBOX", "VERTICALEXTENT", "TIMEEXTENT", "USAGE",
		"REMARK", "ANCHOR", "ANCHOREPOCH", "VERSION", "GEOIDMODEL",
		"TRIAXIAL", "TOWGS84", "EXTENSION", "LOCAL_DATUM",
	} {
		m[kw] = true
	}
	return m
}()

// wkt2Roots are the root keywords that declare the modern grammar; legacy
// nodes under them are flagged.
var wkt2Roots = map[string]bool{
	"GEOGCRS": true, "GEOGRAPHICCRS": true, "GEODCRS": true,
	"GEODETICCRS": true, "PROJCRS": true, "PROJECTEDCRS": true,
	"VERTCRS": true, "VERTICALCRS": true, "COMPOUNDCRS": true,
	"BOUNDCRS": true, "ENGCRS": true, "ENGINEERINGCRS": true,
	"TIMECRS": true, "PARAMETRICCRS": true, "DERIVEDPROJCRS": true,
	"COORDINATEOPERATION": true, "CONCATENATEDOPERATION": true,
}

type ParserOption func(*Parser)

// ParseStrict escalates warnings to errors.
func ParseStrict(v bool) ParserOption {
	return func(p *Parser) { p.strict = v }
}

// ParseConstructor replaces the default tree-backed object constructor, so
// a richer object hierarchy can be built from parsed trees.
func ParseConstructor(fn func(*Node) (object.Object, error)) ParserOption {
	return func(p *Parser) { p.constructor = fn }
}

// Parser turns bracketed text into objects. It collects non-fatal anomalies
// as warnings and keeps going; strict mode turns the first anomaly into an
// error.
type Parser struct {
	strict      bool
	constructor func(*Node) (object.Object, error)
	warnings    []string
}

func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Warnings returns the anomalies collected by the last CreateFromWKT call.
func (p *Parser) Warnings() []string { return p.warnings }

func (p *Parser) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// CreateFromWKT parses one definition and builds an object from it.
func (p *Parser) CreateFromWKT(text string) (object.Object, error) {
	p.warnings = nil
	tree, err := ParseTree(text)
	if err != nil {
		return nil, err
	}
	root := strings.ToUpper(tree.Value())
	category, ok := rootCategories[root]
	if !ok {
		return nil, fmt.Errorf("%w: unexpected root keyword %q", ErrParse, tree.Value())
	}
	p.inspect(tree, wkt2Roots[root])
	if p.strict && len(p.warnings) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrParse, p.warnings[0])
	}
	if p.constructor != nil {
		return p.constructor(tree)
	}
	return &rawObject{
		name:     nameOf(tree),
		category: category,
		tree:     tree,
	}, nil
}

// inspect walks the tree collecting warnings: vocabulary misses and legacy
// nodes under modern roots.
func (p *Parser) inspect(n *Node, modern bool) {
	for _, c := range n.Children() {
		if len(c.Children()) == 0 {
			continue
		}
		kw := strings.ToUpper(c.Value())
		switch {
		case !knownKeywords[kw]:
			p.warn("ignoring unrecognized keyword %s inside %s", c.Value(), n.Value())
		case modern && (kw == "TOWGS84" || kw == "EXTENSION"):
			p.warn("legacy %s node inside %s", kw, n.Value())
		}
		p.inspect(c, modern)
	}
}

// nameOf extracts the conventional name of a definition: its first quoted
// child.
func nameOf(tree *Node) string {
	for _, c := range tree.Children() {
		if c.IsQuoted() {
			return c.UnquotedValue()
		}
	}
	return "unnamed"
}

// rawObject is the default parse result: the tree itself, classified, with
// export by verbatim replay.
type rawObject struct {
	name     string
	category object.Category
	tree     *Node
}

func (o *rawObject) Name() string              { return o.name }
func (o *rawObject) Category() object.Category { return o.category }

// Node returns the underlying tree.
func (o *rawObject) Node() *Node { return o.tree }

func (o *rawObject) AppendWKT(f *Formatter) error {
	f.IngestNode(o.tree)
	return nil
}

// TreeSource is satisfied by parse results that expose their underlying
// tree.
type TreeSource interface {
	Node() *Node
}
