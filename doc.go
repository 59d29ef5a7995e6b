// Package crstext reads and writes the textual representations of
// coordinate reference systems: bracketed definitions (several WKT
// dialects), operation pipeline text (PROJ strings), and registry code
// references.
//
// The root package is a thin dispatcher over the subpackages:
//
//   - wkt: bracketed grammar, dialect guessing, convention-aware writing
//   - projstring: pipeline model, parsing, inversion-aware writing
//   - registry: SQLite-backed code and name resolution
//   - object: the small construct interface the packages exchange
//
// # Usage
//
//	ctx, err := registry.Open("crs.db")
//	obj, err := crstext.CreateFromUserInput("EPSG:4326", ctx, false)
//
//	out, err := wkt.Export(obj.(wkt.Exportable),
//	    wkt.WithConvention(wkt.ConventionWKT2_2018))
package crstext
