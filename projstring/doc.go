// Package projstring reads and writes coordinate operations expressed in
// the +proj parameter notation.
//
// An operation is modelled as a [Pipeline] of [Step] values. A bare
// operation such as "+proj=utm +zone=31" is a one-step pipeline and
// renders without the pipeline header; anything longer renders as
// "+proj=pipeline +step ...".
//
// # Usage
//
//	// Parse text into an object, collecting warnings
//	p := projstring.NewParser()
//	obj, err := p.CreateFromPROJString("+proj=utm +zone=31 +ellps=GRS80")
//	warns := p.Warnings()
//
//	// Render an object back to text
//	out, err := projstring.Export(obj.(projstring.Exportable))
//
//	// Build a pipeline by hand
//	f := projstring.NewFormatter()
//	f.AddStep("axisswap")
//	f.AddParamString("order", "2,1")
//	out, err = f.PROJString()
//
// The PROJ4 convention restricts output to what the legacy syntax could
// say: single forward steps. Asking it to render a multi-step or inverted
// pipeline fails with [ErrFormat].
//
// # Related Packages
//
//   - github.com/spatialref/crstext/wkt - bracketed definition text
//   - github.com/spatialref/crstext/registry - resolving authority codes
package projstring
