package wkt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spatialref/crstext/object"
)

// numberPrecision is the default significant-digit count for floating point
// output. Fifteen digits round-trip every value the grammar carries in
// practice while avoiding artifacts like 0.016666666666666666.
const numberPrecision = 15

// AliasSource supplies alternate spellings of official names. The registry
// Context satisfies it; the formatter consults it for dialect renames before
// falling back to mechanical morphing.
type AliasSource interface {
	AliasFromOfficialName(officialName, table, source string) (string, error)
}

type formatterOptions struct {
	convention  Convention
	multiLine   *bool
	indentWidth *int
	outputAxis  *OutputAxisRule
	outputIDs   *bool
	strict      bool
	colors      *Colors
	aliases     AliasSource
}

type FormatterOption func(*formatterOptions)

// WithConvention selects the output convention; layout defaults follow it
// and individual options below override them.
func WithConvention(c Convention) FormatterOption {
	return func(o *formatterOptions) { o.convention = c }
}

// MultiLine toggles one-node-per-line layout.
func MultiLine(v bool) FormatterOption {
	return func(o *formatterOptions) { o.multiLine = &v }
}

// IndentWidth sets the spaces per nesting level in multi-line layout.
func IndentWidth(n int) FormatterOption {
	return func(o *formatterOptions) { o.indentWidth = &n }
}

// Strict makes the formatter reject constructs it would otherwise silently
// normalize (non-finite numbers, control characters in strings).
func Strict(v bool) FormatterOption {
	return func(o *formatterOptions) { o.strict = v }
}

// OutputAxis overrides the convention's axis-node rule.
func OutputAxis(r OutputAxisRule) FormatterOption {
	return func(o *formatterOptions) { o.outputAxis = &r }
}

// OutputIDs overrides the convention's identifier-node rule.
func OutputIDs(v bool) FormatterOption {
	return func(o *formatterOptions) { o.outputIDs = &v }
}

// WithAliasSource attaches a source of dialect-specific name aliases.
func WithAliasSource(src AliasSource) FormatterOption {
	return func(o *formatterOptions) { o.aliases = src }
}

// WithColors colorizes output for terminal display. Colorized text is not
// re-parseable.
func WithColors(c *Colors) FormatterOption {
	return func(o *formatterOptions) { o.colors = c }
}

// nodeFrame is the per-open-node state. ancestorHasID is the OR of the
// hasID flags of all enclosing nodes, which is what decides identifier
// suppression on the current one.
type nodeFrame struct {
	keyword       string
	hasID         bool
	ancestorHasID bool
	children      int
}

// Formatter accumulates one definition. Exporters drive it through
// StartNode/EndNode and the Add* writers, consult the convention predicates
// to decide what to write, and bracket temporary context with the Push*
// methods, releasing each returned restore function on every exit path.
//
// A Formatter is single-use: after WKT() it must be discarded.
type Formatter struct {
	convention  Convention
	params      conventionParams
	indentWidth int
	strict      bool
	colors      *Colors
	aliases     AliasSource

	sb    strings.Builder
	stack []nodeFrame

	// scoped overrides; each stack starts one deep so readers always have
	// a current value.
	outputUnitStack []bool
	outputIDStack   []bool
	axisLinearUnit  []object.Unit
	axisAngularUnit []object.Unit

	// cross-exporter state for constructs whose rendering is decided by an
	// ancestor exporter.
	abridgedTransformation bool
	useDerivingConversion  bool
	towgs84                []float64
	vdatumExtension        string
	hdatumExtension        string

	err error
}

func NewFormatter(opts ...FormatterOption) *Formatter {
	o := formatterOptions{convention: ConventionWKT2_2015}
	for _, opt := range opts {
		opt(&o)
	}
	p := o.convention.params()
	if o.multiLine != nil {
		p.multiLine = *o.multiLine
	}
	if o.outputAxis != nil {
		p.outputAxis = *o.outputAxis
	}
	if o.outputIDs != nil {
		p.outputIDs = *o.outputIDs
	}
	f := &Formatter{
		convention:      o.convention,
		params:          p,
		indentWidth:     4,
		strict:          o.strict,
		colors:          o.colors,
		aliases:         o.aliases,
		outputUnitStack: []bool{true},
		outputIDStack:   []bool{true},
		axisLinearUnit:  []object.Unit{object.Metre},
		axisAngularUnit: []object.Unit{object.Degree},
	}
	if o.indentWidth != nil {
		f.indentWidth = *o.indentWidth
	}
	return f
}

func (f *Formatter) Convention() Convention { return f.convention }

// Convention predicates. Exporters branch on these, never on the convention
// value itself.

func (f *Formatter) Version() Version               { return f.params.version }
func (f *Formatter) Use2018Keywords() bool          { return f.params.use2018Keywords }
func (f *Formatter) UseESRIDialect() bool           { return f.params.useESRIDialect }
func (f *Formatter) MultiLine() bool                { return f.params.multiLine }
func (f *Formatter) OutputAxisRule() OutputAxisRule { return f.params.outputAxis }
func (f *Formatter) ForceUNITKeyword() bool         { return f.params.forceUNITKeyword }

func (f *Formatter) PrimeMeridianOmittedIfGreenwich() bool { return f.params.primeMeridianOmittedIfGreenwich }
func (f *Formatter) EllipsoidUnitOmittedIfMetre() bool     { return f.params.ellipsoidUnitOmittedIfMetre }
func (f *Formatter) OutputCSUnitOnlyOnceIfSame() bool      { return f.params.outputCSUnitOnlyOnceIfSame }
func (f *Formatter) PrimeMeridianInDegree() bool           { return f.params.primeMeridianInDegree }

// PrimeMeridianOrParameterUnitOmittedIfSameAsAxis reports whether subordinate
// angular units equal to the axis unit are left implicit.
func (f *Formatter) PrimeMeridianOrParameterUnitOmittedIfSameAsAxis() bool {
	return f.params.pmOrParamUnitOmittedIfSameAxis
}

// StartNode opens a bracketed node. hasID declares that the exporter will
// attach an identifier to this node, which suppresses identifier output on
// everything nested inside it. An empty keyword opens a transparent frame
// that groups children without emitting anything.
func (f *Formatter) StartNode(keyword string, hasID bool) {
	frame := nodeFrame{keyword: keyword, hasID: hasID}
	if len(f.stack) > 0 {
		parent := &f.stack[len(f.stack)-1]
		frame.ancestorHasID = parent.ancestorHasID || parent.hasID
		if keyword != "" {
			f.startChild(true)
		}
	}
	if keyword != "" {
		f.sb.WriteString(f.colorKeyword(keyword))
		f.sb.WriteByte('[')
	}
	f.stack = append(f.stack, frame)
}

// EndNode closes the node opened by the matching StartNode.
func (f *Formatter) EndNode() {
	if len(f.stack) == 0 {
		panic("wkt: EndNode without StartNode")
	}
	frame := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	if frame.keyword != "" {
		f.sb.WriteByte(']')
	}
}

// Enter opens a transparent frame, Leave closes it. They exist for exporters
// that need ID inheritance or sibling grouping without a bracketed node.
func (f *Formatter) Enter() { f.StartNode("", false) }
func (f *Formatter) Leave() { f.EndNode() }

// MarkCurrentNodeHasID declares after the fact that the current node carries
// an identifier, so nested nodes suppress theirs.
func (f *Formatter) MarkCurrentNodeHasID() {
	if len(f.stack) == 0 {
		panic("wkt: MarkCurrentNodeHasID without StartNode")
	}
	f.stack[len(f.stack)-1].hasID = true
}

// startChild writes the separator before a new child of the current node:
// a comma after a previous sibling, and for bracketed children in multi-line
// layout a newline plus indentation.
func (f *Formatter) startChild(bracketed bool) {
	if len(f.stack) == 0 {
		return
	}
	cur := &f.stack[len(f.stack)-1]
	if cur.children > 0 {
		f.sb.WriteByte(',')
	}
	if bracketed && f.params.multiLine {
		f.sb.WriteByte('\n')
		f.sb.WriteString(strings.Repeat(" ", f.indentLevel()*f.indentWidth))
	}
	cur.children++
}

func (f *Formatter) indentLevel() int {
	n := 0
	for _, fr := range f.stack {
		if fr.keyword != "" {
			n++
		}
	}
	return n
}

// AddQuotedString writes s as a quoted string child, doubling inner quotes.
// Control characters are replaced by spaces, or rejected in strict mode.
func (f *Formatter) AddQuotedString(s string) {
	clean, bad := normalizeQuotable(s)
	if bad && f.strict {
		f.fail(fmt.Errorf("%w: control character in string %q", ErrFormat, s))
	}
	f.startChild(false)
	f.sb.WriteString(f.colorQuoted(`"` + strings.ReplaceAll(clean, `"`, `""`) + `"`))
}

// AddToken writes a bare token child (enumeration values such as axis
// directions).
func (f *Formatter) AddToken(s string) {
	f.startChild(false)
	f.sb.WriteString(f.colorToken(s))
}

// AddNumber writes v with the default precision.
func (f *Formatter) AddNumber(v float64) { f.AddNumberPrec(v, numberPrecision) }

// AddNumberPrec writes v with prec significant digits; prec <= 0 selects the
// shortest representation that round-trips. Non-finite values are normalized
// to 0, or rejected in strict mode.
func (f *Formatter) AddNumberPrec(v float64, prec int) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		if f.strict {
			f.fail(fmt.Errorf("%w: non-finite number", ErrFormat))
		}
		v = 0
	}
	if prec <= 0 {
		prec = -1
	}
	f.startChild(false)
	f.sb.WriteString(f.colorNumber(strconv.FormatFloat(v, 'g', prec, 64)))
}

func (f *Formatter) AddInt(v int64) {
	f.startChild(false)
	f.sb.WriteString(f.colorNumber(strconv.FormatInt(v, 10)))
}

// IngestNode replays a parsed subtree verbatim as children of the current
// node, preserving quoting and token spelling. It is how unknown or
// extension constructs survive a reformat.
func (f *Formatter) IngestNode(n *Node) {
	if len(n.Children()) == 0 {
		f.startChild(false)
		switch {
		case n.IsQuoted():
			f.sb.WriteString(f.colorQuoted(n.Value()))
		default:
			f.sb.WriteString(f.colorToken(n.Value()))
		}
		return
	}
	f.StartNode(n.Value(), false)
	for _, c := range n.Children() {
		f.IngestNode(c)
	}
	f.EndNode()
}

// Scoped overrides. Each Push* returns the function restoring the previous
// value; release it on every exit path, typically by deferring it at the
// call site.

func (f *Formatter) PushOutputUnit(v bool) func() {
	f.outputUnitStack = append(f.outputUnitStack, v)
	return func() { f.outputUnitStack = f.outputUnitStack[:len(f.outputUnitStack)-1] }
}

func (f *Formatter) PushOutputID(v bool) func() {
	f.outputIDStack = append(f.outputIDStack, v)
	return func() { f.outputIDStack = f.outputIDStack[:len(f.outputIDStack)-1] }
}

func (f *Formatter) PushAxisLinearUnit(u object.Unit) func() {
	f.axisLinearUnit = append(f.axisLinearUnit, u)
	return func() { f.axisLinearUnit = f.axisLinearUnit[:len(f.axisLinearUnit)-1] }
}

func (f *Formatter) PushAxisAngularUnit(u object.Unit) func() {
	f.axisAngularUnit = append(f.axisAngularUnit, u)
	return func() { f.axisAngularUnit = f.axisAngularUnit[:len(f.axisAngularUnit)-1] }
}

// OutputUnit reports whether unit nodes should be written in the current
// scope.
func (f *Formatter) OutputUnit() bool { return f.outputUnitStack[len(f.outputUnitStack)-1] }

// OutputID reports whether an identifier node should be written on the
// current node: identifiers are globally enabled, not suppressed in the
// current scope, and allowed at this depth by the convention. The modern
// grammar writes an identifier only when no ancestor node carries one; the
// legacy grammar repeats AUTHORITY at every level.
func (f *Formatter) OutputID() bool {
	if !f.params.outputIDs {
		return false
	}
	if !f.outputIDStack[len(f.outputIDStack)-1] {
		return false
	}
	if f.params.idOnTopLevelOnly && len(f.stack) > 1 {
		return false
	}
	if f.params.version == VersionWKT2 &&
		len(f.stack) > 0 && f.stack[len(f.stack)-1].ancestorHasID {
		return false
	}
	return true
}

func (f *Formatter) AxisLinearUnit() object.Unit  { return f.axisLinearUnit[len(f.axisLinearUnit)-1] }
func (f *Formatter) AxisAngularUnit() object.Unit { return f.axisAngularUnit[len(f.axisAngularUnit)-1] }

// Cross-exporter state.

func (f *Formatter) SetAbridgedTransformation(v bool) { f.abridgedTransformation = v }
func (f *Formatter) AbridgedTransformation() bool     { return f.abridgedTransformation }

func (f *Formatter) SetUseDerivingConversion(v bool) { f.useDerivingConversion = v }
func (f *Formatter) UseDerivingConversion() bool     { return f.useDerivingConversion }

func (f *Formatter) SetTOWGS84Parameters(p []float64) { f.towgs84 = append([]float64(nil), p...) }
func (f *Formatter) TOWGS84Parameters() []float64     { return f.towgs84 }

func (f *Formatter) SetVDatumExtension(name string) { f.vdatumExtension = name }
func (f *Formatter) VDatumExtension() string        { return f.vdatumExtension }

func (f *Formatter) SetHDatumExtension(name string) { f.hdatumExtension = name }
func (f *Formatter) HDatumExtension() string        { return f.hdatumExtension }

// ESRIName returns the spelling of an official name under the active
// dialect: unchanged outside the ESRI convention, the registry alias when
// one is known, and the mechanical morph otherwise. aliasTable names the
// registry table the name belongs to (e.g. "geodetic_datum").
func (f *Formatter) ESRIName(name, aliasTable string) string {
	if !f.params.useESRIDialect {
		return name
	}
	if f.aliases != nil {
		alt, err := f.aliases.AliasFromOfficialName(name, aliasTable, "ESRI")
		if err == nil && alt != "" {
			return alt
		}
	}
	return MorphNameToESRI(name)
}

// fail records the first error; later writes keep accumulating so the
// balance contract can still be checked.
func (f *Formatter) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// WKT returns the accumulated text. It panics if any StartNode or Push*
// scope is still open, since that is a bug in the calling exporter, and
// returns an error for strict-mode violations recorded along the way.
func (f *Formatter) WKT() (string, error) {
	switch {
	case len(f.stack) != 0:
		panic(fmt.Sprintf("wkt: %d node(s) left open at WKT()", len(f.stack)))
	case len(f.outputUnitStack) != 1:
		panic("wkt: unbalanced PushOutputUnit at WKT()")
	case len(f.outputIDStack) != 1:
		panic("wkt: unbalanced PushOutputID at WKT()")
	case len(f.axisLinearUnit) != 1 || len(f.axisAngularUnit) != 1:
		panic("wkt: unbalanced axis unit push at WKT()")
	}
	if f.err != nil {
		return "", f.err
	}
	return f.sb.String(), nil
}

// MorphNameToESRI converts a name to the ESRI spelling convention: runs of
// non-alphanumeric characters become single underscores and are trimmed at
// both ends.
func MorphNameToESRI(name string) string {
	var sb strings.Builder
	pendingUnderscore := false
	for _, r := range name {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if alnum {
			if pendingUnderscore && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
			pendingUnderscore = false
		} else {
			pendingUnderscore = true
		}
	}
	return sb.String()
}

// normalizeQuotable replaces characters that cannot appear inside a quoted
// string with spaces. It reports whether anything was replaced.
func normalizeQuotable(s string) (string, bool) {
	bad := false
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			bad = true
			return ' '
		}
		return r
	}, s)
	return clean, bad
}
