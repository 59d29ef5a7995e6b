package projstring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spatialref/crstext/object"
)

// InitResolver resolves +init=AUTH:CODE references to their stored text
// definition. The registry Context satisfies it.
type InitResolver interface {
	TextDefinition(authority, code string) (string, error)
}

type ParserOption func(*Parser)

// ParseStrict escalates warnings to errors.
func ParseStrict(v bool) ParserOption {
	return func(p *Parser) { p.strict = v }
}

// UsePROJ4InitRules reinstates the legacy tolerance for mixing +init with
// explicit parameters. Either way a bare +init string parses to the same
// pipeline as its stored definition.
func UsePROJ4InitRules(v bool) ParserOption {
	return func(p *Parser) { p.proj4InitRules = v }
}

// WithInitResolver attaches the registry used to expand +init references.
func WithInitResolver(r InitResolver) ParserOption {
	return func(p *Parser) { p.inits = r }
}

// ParseConstructor replaces the default pipeline-backed object constructor.
func ParseConstructor(fn func(*Pipeline) (object.Object, error)) ParserOption {
	return func(p *Parser) { p.constructor = fn }
}

// Parser turns operation strings into objects, collecting non-fatal
// anomalies as warnings.
type Parser struct {
	strict         bool
	proj4InitRules bool
	inits          InitResolver
	constructor    func(*Pipeline) (object.Object, error)
	warnings       []string
}

func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Warnings returns the anomalies collected by the last call.
func (p *Parser) Warnings() []string { return p.warnings }

// CreateFromPROJString parses one operation string and builds an object.
func (p *Parser) CreateFromPROJString(text string) (object.Object, error) {
	pl, warns, err := parsePipeline(text, p.inits, p.proj4InitRules)
	p.warnings = warns
	if err != nil {
		return nil, err
	}
	if p.strict && len(warns) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrParse, warns[0])
	}
	if p.constructor != nil {
		return p.constructor(pl)
	}
	name := pl.Title
	if name == "" {
		name = "unnamed"
	}
	return &rawPipeline{name: name, category: inferCategory(pl), pl: pl}, nil
}

// parsePipeline is the shared core of the parser and the formatter's ingest
// path.
func parsePipeline(text string, inits InitResolver, proj4Rules bool) (*Pipeline, []string, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, nil, err
	}
	if len(toks) == 0 {
		return nil, nil, fmt.Errorf("%w: empty string", ErrParse)
	}
	b := &builder{pl: &Pipeline{}, inits: inits, proj4Rules: proj4Rules}
	for _, tok := range toks {
		if err := b.token(tok); err != nil {
			return nil, b.warnings, err
		}
	}
	if err := b.finish(); err != nil {
		return nil, b.warnings, err
	}
	return b.pl, b.warnings, nil
}

type builder struct {
	pl         *Pipeline
	warnings   []string
	inits      InitResolver
	proj4Rules bool

	isPipeline bool // saw +proj=pipeline
	inSteps    bool // saw +step
	initUsed   bool // current step was expanded from +init
	mixWarned  bool
}

func (b *builder) warn(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

func (b *builder) cur() *Step {
	if len(b.pl.Steps) == 0 {
		return nil
	}
	return &b.pl.Steps[len(b.pl.Steps)-1]
}

func (b *builder) newStep() *Step {
	b.pl.Steps = append(b.pl.Steps, Step{})
	b.initUsed = false
	b.mixWarned = false
	return &b.pl.Steps[len(b.pl.Steps)-1]
}

func (b *builder) token(tok string) error {
	name, value, hasValue := splitToken(tok)
	if name == "" {
		return fmt.Errorf("%w: parameter with no name in %q", ErrParse, tok)
	}
	switch name {
	case "step":
		if hasValue {
			return fmt.Errorf("%w: +step takes no value", ErrParse)
		}
		if !b.isPipeline {
			return fmt.Errorf("%w: +step outside a pipeline", ErrParse)
		}
		b.inSteps = true
		b.newStep()
		return nil

	case "inv":
		s := b.cur()
		if s == nil || (b.isPipeline && !b.inSteps) {
			b.warn("ignoring +inv applied to the pipeline itself")
			return nil
		}
		s.Inverted = true
		return nil

	case "proj":
		if !hasValue || value == "" {
			return fmt.Errorf("%w: +proj requires a value", ErrParse)
		}
		if value == "pipeline" {
			if b.isPipeline {
				return fmt.Errorf("%w: pipeline inside a pipeline", ErrParse)
			}
			if len(b.pl.Steps) > 0 {
				return fmt.Errorf("%w: +proj=pipeline must come first", ErrParse)
			}
			b.isPipeline = true
			return nil
		}
		if b.isPipeline && !b.inSteps {
			return fmt.Errorf("%w: +proj=%s on the pipeline itself (missing +step)", ErrParse, value)
		}
		s := b.cur()
		if s == nil {
			s = b.newStep()
		}
		if s.Name != "" {
			return fmt.Errorf("%w: duplicate +proj in one step", ErrParse)
		}
		b.noteExplicit("proj")
		s.Name = value
		return nil

	case "title":
		if !b.inSteps {
			b.pl.Title = value
			return nil
		}

	case "init":
		return b.expandInit(value, hasValue)

	case "no_defs":
		// legacy marker, implied today
		return nil

	case "wktext":
		b.warn("ignoring legacy +wktext")
		return nil
	}

	if b.isPipeline && !b.inSteps {
		b.warn("ignoring unexpected parameter +%s on the pipeline", name)
		return nil
	}
	s := b.cur()
	if s == nil {
		s = b.newStep()
	}
	if s.HasParam(name) {
		b.warn("duplicate parameter +%s ignored", name)
		return nil
	}
	b.noteExplicit(name)
	s.Params = append(s.Params, typedParam(name, value, hasValue))
	return nil
}

// noteExplicit warns the first time explicit parameters are mixed with an
// expanded +init, a combination the legacy rules allowed freely.
func (b *builder) noteExplicit(name string) {
	if b.initUsed && !b.proj4Rules && !b.mixWarned {
		b.warn("+%s mixed with +init; prefer a fully explicit definition", name)
		b.mixWarned = true
	}
}

// expandInit splices the stored definition of +init=AUTH:CODE into the
// current step. First occurrence wins on conflicts, so parameters given
// before the +init keep priority over the expansion.
func (b *builder) expandInit(value string, hasValue bool) error {
	if !hasValue || value == "" {
		return fmt.Errorf("%w: +init requires AUTHORITY:CODE", ErrParse)
	}
	if b.isPipeline && !b.inSteps {
		return fmt.Errorf("%w: +init not allowed on the pipeline itself", ErrParse)
	}
	if b.inits == nil {
		return fmt.Errorf("%w: no registry available to resolve +init=%s", ErrParse, value)
	}
	auth, code, ok := strings.Cut(value, ":")
	if !ok || auth == "" || code == "" {
		return fmt.Errorf("%w: malformed +init=%s", ErrParse, value)
	}
	text, err := b.inits.TextDefinition(auth, code)
	if err != nil {
		return fmt.Errorf("resolving +init=%s: %w", value, err)
	}
	// nested +init in the stored text fails naturally: no resolver is
	// passed down
	initPl, _, err := parsePipeline(text, nil, b.proj4Rules)
	if err != nil {
		return fmt.Errorf("in definition of +init=%s: %w", value, err)
	}
	if len(initPl.Steps) != 1 {
		return fmt.Errorf("%w: +init=%s expands to a pipeline", ErrParse, value)
	}
	if b.pl.Title == "" {
		b.pl.Title = initPl.Title
	}
	src := initPl.Steps[0]
	s := b.cur()
	if s == nil {
		s = b.newStep()
	}
	switch {
	case s.Name == "":
		s.Name = src.Name
	case src.Name != "" && src.Name != s.Name:
		b.warn("+init=%s wants +proj=%s, keeping explicit +proj=%s", value, src.Name, s.Name)
	}
	for _, p := range src.Params {
		if !s.HasParam(p.Name) {
			s.Params = append(s.Params, p)
		}
	}
	b.initUsed = true
	return nil
}

func (b *builder) finish() error {
	if b.isPipeline && len(b.pl.Steps) == 0 {
		return fmt.Errorf("%w: pipeline contains no steps", ErrParse)
	}
	if len(b.pl.Steps) == 0 {
		return fmt.Errorf("%w: missing +proj parameter", ErrParse)
	}
	for i := range b.pl.Steps {
		if b.pl.Steps[i].Name == "" {
			return fmt.Errorf("%w: step %d has no +proj parameter", ErrParse, i+1)
		}
	}
	return nil
}

// tokenize splits on whitespace; double quotes protect embedded whitespace
// and are removed.
func tokenize(text string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		}
		start := i
		var sb strings.Builder
		inQuotes := false
	token:
		for i < len(text) {
			c := text[i]
			switch {
			case c == '"':
				inQuotes = !inQuotes
			case !inQuotes && (c == ' ' || c == '\t' || c == '\n' || c == '\r'):
				break token
			default:
				sb.WriteByte(c)
			}
			i++
		}
		if inQuotes {
			return nil, fmt.Errorf("%w: unterminated quote at offset %d", ErrParse, start)
		}
		toks = append(toks, sb.String())
	}
	return toks, nil
}

func splitToken(tok string) (name, value string, hasValue bool) {
	tok = strings.TrimPrefix(tok, "+")
	name, value, hasValue = strings.Cut(tok, "=")
	return name, value, hasValue
}

// typedParam types a value: integer, then double, then comma-separated
// double list, then plain string.
func typedParam(name, value string, hasValue bool) Param {
	if !hasValue {
		return Param{Name: name, Kind: FlagParam}
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return Param{Name: name, Kind: IntParam, Int: i}
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Param{Name: name, Kind: DoubleParam, Double: f}
	}
	if parts := strings.Split(value, ","); len(parts) > 1 {
		doubles := make([]float64, 0, len(parts))
		allNumeric := true
		for _, part := range parts {
			f, err := strconv.ParseFloat(part, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				allNumeric = false
				break
			}
			doubles = append(doubles, f)
		}
		if allNumeric {
			return Param{Name: name, Kind: DoubleListParam, Doubles: doubles}
		}
	}
	return Param{Name: name, Kind: StringParam, Str: value}
}

// step names that denote map projections when they stand alone.
var projectionNames = map[string]bool{
	"utm": true, "tmerc": true, "etmerc": true, "merc": true,
	"webmerc": true, "lcc": true, "laea": true, "aea": true, "aeqd": true,
	"stere": true, "sterea": true, "ups": true, "cass": true, "cea": true,
	"eqc": true, "eqdc": true, "gnom": true, "krovak": true, "mill": true,
	"moll": true, "nzmg": true, "omerc": true, "ortho": true, "poly": true,
	"robin": true, "sinu": true, "somerc": true, "vandg": true, "geos": true,
}

// inferCategory classifies a pipeline by its shape: a single forward step
// can denote a coordinate reference system, everything else is an
// operation.
func inferCategory(pl *Pipeline) object.Category {
	if len(pl.Steps) != 1 || pl.Steps[0].Inverted {
		return object.CategoryCoordinateOperation
	}
	switch pl.Steps[0].Name {
	case "longlat", "latlong", "latlon", "lonlat":
		return object.CategoryGeographicCRS
	case "geocent", "cart":
		return object.CategoryGeodeticCRS
	}
	if projectionNames[pl.Steps[0].Name] {
		return object.CategoryProjectedCRS
	}
	return object.CategoryCoordinateOperation
}

// rawPipeline is the default parse result: the pipeline itself, classified,
// with export by replay.
type rawPipeline struct {
	name     string
	category object.Category
	pl       *Pipeline
}

func (o *rawPipeline) Name() string              { return o.name }
func (o *rawPipeline) Category() object.Category { return o.category }

// Pipeline returns the underlying model, shared with the object.
func (o *rawPipeline) Pipeline() *Pipeline { return o.pl }

func (o *rawPipeline) AppendPROJString(f *Formatter) error {
	if o.pl.Title != "" {
		f.SetTitle(o.pl.Title)
	}
	for _, s := range o.pl.Steps {
		f.IngestStep(s)
	}
	return nil
}

// PipelineSource is satisfied by parse results that expose their underlying
// pipeline.
type PipelineSource interface {
	Pipeline() *Pipeline
}
