// Package wkt reads and writes the bracketed Well-Known Text grammar used
// to describe coordinate reference systems and their parts.
//
// # Usage
//
//	// Parse text into a tree
//	tree, err := wkt.ParseTree(`ELLIPSOID["WGS 84",6378137,298.257223563]`)
//
//	// Parse text into an object, collecting warnings
//	p := wkt.NewParser()
//	obj, err := p.CreateFromWKT(text)
//	warns := p.Warnings()
//
//	// Render an object under a convention
//	out, err := wkt.Export(obj.(wkt.Exportable),
//	    wkt.WithConvention(wkt.ConventionWKT2_2018))
//
// The grammar itself is dialect-free: one node shape covers every revision.
// Dialects only matter when classifying whole definitions (GuessDialect) and
// when writing (Convention).
//
// # Related Packages
//
//   - github.com/spatialref/crstext/projstring - operation pipeline text
//   - github.com/spatialref/crstext/registry - resolving authority codes
package wkt
