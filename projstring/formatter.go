package projstring

import (
	"fmt"
	"sort"
	"strings"
)

// Convention selects the output generation: PROJ5 understands multi-step
// pipelines, the legacy PROJ4 syntax does not.
type Convention int

const (
	ConventionPROJ5 Convention = iota
	ConventionPROJ4
)

var ErrBadConvention = fmt.Errorf("%w: bad convention", ErrFormat)

func ParseConvention(v string) (Convention, error) {
	switch v {
	case "proj5", "proj":
		return ConventionPROJ5, nil
	case "proj4", "proj.4":
		return ConventionPROJ4, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadConvention, v)
}

func (c Convention) String() string {
	if c == ConventionPROJ4 {
		return "proj4"
	}
	return "proj5"
}

// gridParamNames are the step parameters that reference grid files.
var gridParamNames = map[string]bool{
	"grids":      true,
	"nadgrids":   true,
	"geoidgrids": true,
	"file":       true,
}

// IsGridParam reports whether a step parameter of this name references grid
// files.
func IsGridParam(name string) bool { return gridParamNames[name] }

type formatterOptions struct {
	convention Convention
	addNoDefs  *bool
}

type FormatterOption func(*formatterOptions)

func WithConvention(c Convention) FormatterOption {
	return func(o *formatterOptions) { o.convention = c }
}

// AddNoDefs overrides whether the legacy +no_defs marker is appended; it
// defaults to on for the PROJ4 convention.
func AddNoDefs(v bool) FormatterOption {
	return func(o *formatterOptions) { o.addNoDefs = &v }
}

// Formatter accumulates a pipeline step by step. Exporters open steps with
// AddStep and attach parameters to the open one; StartInversion and
// StopInversion bracket a run of steps to be emitted in reverse with flipped
// directions, which is how a reversed edge of an operation graph is
// expressed.
//
// A Formatter is single-use: after PROJString() it must be discarded.
type Formatter struct {
	convention Convention
	addNoDefs  bool

	title           string
	steps           []Step
	inversionStarts []int

	useETMerc    bool
	useETMercSet bool

	coordOpOptimizations      bool
	omitProjLongLatIfPossible bool
	omitZUnitConversion       bool

	towgs84 []float64
	vdatum  string
	hdatum  string
}

func NewFormatter(opts ...FormatterOption) *Formatter {
	o := formatterOptions{convention: ConventionPROJ5}
	for _, opt := range opts {
		opt(&o)
	}
	f := &Formatter{
		convention: o.convention,
		addNoDefs:  o.convention == ConventionPROJ4,
	}
	if o.addNoDefs != nil {
		f.addNoDefs = *o.addNoDefs
	}
	return f
}

func (f *Formatter) Convention() Convention { return f.convention }

// SetTitle attaches a +title parameter to the output.
func (f *Formatter) SetTitle(t string) { f.title = t }

// AddStep opens a new step named name; subsequent parameters attach to it.
func (f *Formatter) AddStep(name string) {
	f.steps = append(f.steps, Step{Name: name})
}

func (f *Formatter) current() *Step {
	if len(f.steps) == 0 {
		panic("projstring: parameter added before AddStep")
	}
	return &f.steps[len(f.steps)-1]
}

// SetCurrentStepInverted flips the direction of the open step.
func (f *Formatter) SetCurrentStepInverted(v bool) {
	f.current().Inverted = v
}

// AddParam adds a bare flag parameter to the open step.
func (f *Formatter) AddParam(name string) {
	s := f.current()
	s.Params = append(s.Params, Param{Name: name, Kind: FlagParam})
}

func (f *Formatter) AddParamString(name, v string) {
	s := f.current()
	s.Params = append(s.Params, Param{Name: name, Kind: StringParam, Str: v})
}

func (f *Formatter) AddParamInt(name string, v int64) {
	s := f.current()
	s.Params = append(s.Params, Param{Name: name, Kind: IntParam, Int: v})
}

func (f *Formatter) AddParamDouble(name string, v float64) {
	s := f.current()
	s.Params = append(s.Params, Param{Name: name, Kind: DoubleParam, Double: v})
}

func (f *Formatter) AddParamDoubles(name string, vs ...float64) {
	s := f.current()
	s.Params = append(s.Params, Param{
		Name: name, Kind: DoubleListParam, Doubles: append([]float64(nil), vs...),
	})
}

// HasParam reports whether the open step already carries name.
func (f *Formatter) HasParam(name string) bool {
	if len(f.steps) == 0 {
		return false
	}
	return f.current().HasParam(name)
}

// IngestStep appends a copy of a prebuilt step.
func (f *Formatter) IngestStep(s Step) {
	f.steps = append(f.steps, Step{
		Name:     s.Name,
		Inverted: s.Inverted,
		Params:   append([]Param(nil), s.Params...),
	})
}

// IngestPROJString parses text and appends its steps, so an operation
// expressed as text can be spliced into a larger pipeline. An active
// inversion applies to the spliced steps like any others. The title of the
// ingested text is dropped.
func (f *Formatter) IngestPROJString(text string) error {
	pl, _, err := parsePipeline(text, nil, false)
	if err != nil {
		return err
	}
	for _, s := range pl.Steps {
		f.IngestStep(s)
	}
	return nil
}

// StartInversion marks the start of a run of steps to be reversed; it nests.
func (f *Formatter) StartInversion() {
	f.inversionStarts = append(f.inversionStarts, len(f.steps))
}

// StopInversion closes the innermost StartInversion: the steps added since
// then are reversed in place and each flips direction.
func (f *Formatter) StopInversion() {
	if len(f.inversionStarts) == 0 {
		panic("projstring: StopInversion without StartInversion")
	}
	start := f.inversionStarts[len(f.inversionStarts)-1]
	f.inversionStarts = f.inversionStarts[:len(f.inversionStarts)-1]
	sub := f.steps[start:]
	for i, j := 0, len(sub)-1; i < j; i, j = i+1, j-1 {
		sub[i], sub[j] = sub[j], sub[i]
	}
	for i := range sub {
		sub[i].Inverted = !sub[i].Inverted
	}
}

// IsInverted reports whether an inversion is currently open.
func (f *Formatter) IsInverted() bool { return len(f.inversionStarts) > 0 }

// SetUseETMercForTMerc selects the extended (exact) transverse mercator
// implementation when rendering tmerc steps.
func (f *Formatter) SetUseETMercForTMerc(v bool) {
	f.useETMerc = v
	f.useETMercSet = true
}

// UseETMercForTMerc returns the selection and whether one was made.
func (f *Formatter) UseETMercForTMerc() (value, set bool) {
	return f.useETMerc, f.useETMercSet
}

// SetCoordinateOperationOptimizations enables pipeline simplification when
// rendering: adjacent steps that are exact inverses of each other cancel.
func (f *Formatter) SetCoordinateOperationOptimizations(v bool) {
	f.coordOpOptimizations = v
}

// SetOmitProjLongLatIfPossible and SetOmitZUnitConversion record rendering
// preferences consulted by coordinate-system exporters.
func (f *Formatter) SetOmitProjLongLatIfPossible(v bool) { f.omitProjLongLatIfPossible = v }
func (f *Formatter) OmitProjLongLatIfPossible() bool     { return f.omitProjLongLatIfPossible }

func (f *Formatter) SetOmitZUnitConversion(v bool) { f.omitZUnitConversion = v }
func (f *Formatter) OmitZUnitConversion() bool     { return f.omitZUnitConversion }

// Cross-exporter state, mirroring the bracketed formatter.

func (f *Formatter) SetTOWGS84Parameters(p []float64) { f.towgs84 = append([]float64(nil), p...) }
func (f *Formatter) TOWGS84Parameters() []float64     { return f.towgs84 }

func (f *Formatter) SetVDatumExtension(name string) { f.vdatum = name }
func (f *Formatter) VDatumExtension() string        { return f.vdatum }

func (f *Formatter) SetHDatumExtension(name string) { f.hdatum = name }
func (f *Formatter) HDatumExtension() string        { return f.hdatum }

// UsedGridNames returns the distinct grid file names referenced by the
// accumulated steps, sorted. Optional-grid markers ('@' prefixes) are
// stripped and the "null" sentinel is skipped.
func (f *Formatter) UsedGridNames() []string {
	seen := map[string]bool{}
	for _, s := range f.steps {
		for _, p := range s.Params {
			if !gridParamNames[p.Name] {
				continue
			}
			for _, name := range strings.Split(p.ValueString(), ",") {
				name = strings.TrimPrefix(strings.TrimSpace(name), "@")
				if name == "" || name == "null" {
					continue
				}
				seen[name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PROJString renders the accumulated pipeline. It panics if an inversion is
// still open, and fails when the convention cannot express the content: the
// legacy PROJ4 syntax has no spelling for multi-step or inverted pipelines.
func (f *Formatter) PROJString() (string, error) {
	if len(f.inversionStarts) != 0 {
		panic("projstring: inversion left open at PROJString()")
	}
	steps := f.renderSteps()

	var sb strings.Builder
	if len(steps) == 0 {
		sb.WriteString("+proj=noop")
		return sb.String(), nil
	}
	if len(steps) == 1 && !steps[0].Inverted {
		f.writeStep(&sb, steps[0], true)
		if f.addNoDefs {
			sb.WriteString(" +no_defs")
		}
		return sb.String(), nil
	}
	if f.convention == ConventionPROJ4 {
		return "", fmt.Errorf("%w: PROJ.4 syntax cannot express a multi-step or inverted pipeline", ErrFormat)
	}
	sb.WriteString("+proj=pipeline")
	if f.title != "" {
		writeParamToken(&sb, "title", f.title)
	}
	for _, s := range steps {
		sb.WriteString(" +step")
		if s.Inverted {
			sb.WriteString(" +inv")
		}
		f.writeStep(&sb, s, false)
	}
	return sb.String(), nil
}

// MustPROJString is PROJString for call sites that know rendering cannot
// fail.
func (f *Formatter) MustPROJString() string {
	s, err := f.PROJString()
	if err != nil {
		panic(err)
	}
	return s
}

// renderSteps returns the steps to write, applying the etmerc substitution
// and, when enabled, cancellation of adjacent mutually inverse steps.
func (f *Formatter) renderSteps() []Step {
	steps := f.steps
	if f.coordOpOptimizations {
		steps = cancelInversePairs(steps)
	}
	if f.useETMercSet && f.useETMerc {
		out := make([]Step, len(steps))
		copy(out, steps)
		for i := range out {
			if out[i].Name == "tmerc" {
				out[i].Name = "etmerc"
			}
		}
		steps = out
	}
	return steps
}

func cancelInversePairs(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if n := len(out); n > 0 && inverseOf(out[n-1], s) {
			out = out[:n-1]
			continue
		}
		out = append(out, s)
	}
	return out
}

func inverseOf(a, b Step) bool {
	if a.Name != b.Name || a.Inverted == b.Inverted || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].String() != b.Params[i].String() {
			return false
		}
	}
	return true
}

func (f *Formatter) writeStep(sb *strings.Builder, s Step, leading bool) {
	if leading {
		sb.WriteString("+proj=" + s.Name)
		if f.title != "" {
			writeParamToken(sb, "title", f.title)
		}
	} else {
		sb.WriteString(" +proj=" + s.Name)
	}
	for _, p := range s.Params {
		if p.Kind == FlagParam {
			sb.WriteString(" +" + p.Name)
			continue
		}
		writeParamToken(sb, p.Name, p.ValueString())
	}
}

func writeParamToken(sb *strings.Builder, name, value string) {
	if strings.ContainsAny(value, " \t") {
		value = `"` + value + `"`
	}
	sb.WriteString(" +" + name + "=" + value)
}

// Exportable is implemented by constructs that can describe themselves as an
// operation string.
type Exportable interface {
	AppendPROJString(f *Formatter) error
}

// Export renders obj under the given options.
func Export(obj Exportable, opts ...FormatterOption) (string, error) {
	f := NewFormatter(opts...)
	if err := obj.AppendPROJString(f); err != nil {
		return "", err
	}
	return f.PROJString()
}

// MustExport is Export for call sites that know rendering cannot fail.
func MustExport(obj Exportable, opts ...FormatterOption) string {
	s, err := Export(obj, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
