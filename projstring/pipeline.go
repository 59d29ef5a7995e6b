package projstring

import (
	"strconv"
	"strings"
)

// ParamKind tags which value field of a Param is meaningful.
type ParamKind int

const (
	// FlagParam is a bare parameter with no value, e.g. +south.
	FlagParam ParamKind = iota
	StringParam
	IntParam
	DoubleParam
	// DoubleListParam holds a comma-separated numeric list, e.g.
	// +towgs84=0,0,0.
	DoubleListParam
)

// Param is one +name or +name=value token of a step.
type Param struct {
	Name    string
	Kind    ParamKind
	Str     string
	Int     int64
	Double  float64
	Doubles []float64
}

// ValueString renders the parameter value as it appears after the equals
// sign; it is empty for flags.
func (p Param) ValueString() string {
	switch p.Kind {
	case StringParam:
		return p.Str
	case IntParam:
		return strconv.FormatInt(p.Int, 10)
	case DoubleParam:
		return formatDouble(p.Double)
	case DoubleListParam:
		parts := make([]string, len(p.Doubles))
		for i, v := range p.Doubles {
			parts[i] = formatDouble(v)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func (p Param) String() string {
	if p.Kind == FlagParam {
		return "+" + p.Name
	}
	return "+" + p.Name + "=" + p.ValueString()
}

// formatDouble writes fifteen significant digits, enough to round-trip the
// values the grammar carries in practice.
func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'g', 15, 64)
}

// Step is one operation of a pipeline.
type Step struct {
	Name     string
	Inverted bool
	Params   []Param
}

// Param returns the first parameter named name.
func (s *Step) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (s *Step) HasParam(name string) bool {
	_, ok := s.Param(name)
	return ok
}

// Pipeline is the parsed model of an operation string: an ordered list of
// steps, each possibly inverted. A single-step pipeline round-trips without
// the +proj=pipeline wrapper.
type Pipeline struct {
	Title string
	Steps []Step
}

// Clone returns a deep copy.
func (pl *Pipeline) Clone() *Pipeline {
	out := &Pipeline{Title: pl.Title, Steps: make([]Step, len(pl.Steps))}
	for i, s := range pl.Steps {
		params := append([]Param(nil), s.Params...)
		for k := range params {
			if params[k].Doubles != nil {
				params[k].Doubles = append([]float64(nil), params[k].Doubles...)
			}
		}
		out.Steps[i] = Step{
			Name:     s.Name,
			Inverted: s.Inverted,
			Params:   params,
		}
	}
	return out
}

// Invert reverses the pipeline in place: steps run in opposite order with
// each step's direction flipped.
func (pl *Pipeline) Invert() {
	for i, j := 0, len(pl.Steps)-1; i < j; i, j = i+1, j-1 {
		pl.Steps[i], pl.Steps[j] = pl.Steps[j], pl.Steps[i]
	}
	for i := range pl.Steps {
		pl.Steps[i].Inverted = !pl.Steps[i].Inverted
	}
}
