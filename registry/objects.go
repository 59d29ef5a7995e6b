package registry

import (
	"fmt"

	"github.com/spatialref/crstext/object"
	"github.com/spatialref/crstext/projstring"
	"github.com/spatialref/crstext/wkt"
)

// registryObject pairs a parsed definition with its registry identity. The
// row's name and category are authoritative over whatever the raw text
// carried.
type registryObject struct {
	payload    object.Object
	name       string
	category   object.Category
	authority  string
	code       string
	deprecated bool
}

func (o *registryObject) Name() string              { return o.name }
func (o *registryObject) Category() object.Category { return o.category }

// Authority returns the authority the object was resolved from.
func (o *registryObject) Authority() string { return o.authority }

// Code returns the code the object was resolved from.
func (o *registryObject) Code() string { return o.code }

// Deprecated reports whether the registry marks the object deprecated.
func (o *registryObject) Deprecated() bool { return o.deprecated }

func (o *registryObject) AppendWKT(f *wkt.Formatter) error {
	if e, ok := o.payload.(wkt.Exportable); ok {
		return e.AppendWKT(f)
	}
	return fmt.Errorf("%w: %s:%s has no bracketed form", wkt.ErrFormat, o.authority, o.code)
}

func (o *registryObject) AppendPROJString(f *projstring.Formatter) error {
	if e, ok := o.payload.(projstring.Exportable); ok {
		return e.AppendPROJString(f)
	}
	return fmt.Errorf("%w: %s:%s has no operation form", projstring.ErrFormat, o.authority, o.code)
}

// pipelineObject replays a prebuilt pipeline. Grid substitution produces
// these when it rewrites a stored operation.
type pipelineObject struct {
	pl *projstring.Pipeline
}

func (o *pipelineObject) Name() string {
	if o.pl.Title != "" {
		return o.pl.Title
	}
	return "unnamed"
}

func (o *pipelineObject) Category() object.Category { return object.CategoryCoordinateOperation }

func (o *pipelineObject) AppendPROJString(f *projstring.Formatter) error {
	if o.pl.Title != "" {
		f.SetTitle(o.pl.Title)
	}
	for _, s := range o.pl.Steps {
		f.IngestStep(s)
	}
	return nil
}

func (o *pipelineObject) Pipeline() *projstring.Pipeline { return o.pl }

// operationLeg is one hop of a concatenated operation.
type operationLeg struct {
	op       object.Object
	reversed bool
}

// concatenatedOperation chains resolved operations. Reversed legs are
// emitted inside an inversion so the rendered pipeline runs them backwards.
type concatenatedOperation struct {
	name string
	legs []operationLeg
}

func (o *concatenatedOperation) Name() string { return o.name }

func (o *concatenatedOperation) Category() object.Category {
	return object.CategoryConcatenatedOperation
}

func (o *concatenatedOperation) AppendPROJString(f *projstring.Formatter) error {
	for _, leg := range o.legs {
		e, ok := leg.op.(projstring.Exportable)
		if !ok {
			return fmt.Errorf("%w: %s has no operation form", projstring.ErrFormat, leg.op.Name())
		}
		if leg.reversed {
			f.StartInversion()
		}
		if err := e.AppendPROJString(f); err != nil {
			return err
		}
		if leg.reversed {
			f.StopInversion()
		}
	}
	return nil
}
