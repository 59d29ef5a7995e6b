// Package registry resolves authority codes and names against a SQLite
// database of stored definitions.
//
// A Context wraps one database handle plus caches; a Factory binds a
// Context to one authority (or all of them) and parses what it finds with
// the sibling text packages. Stored definitions are plain WKT or PROJ
// strings, so anything the registry returns can be re-exported.
//
// # Usage
//
//	ctx, err := registry.Open("crs.db")
//	defer ctx.Close()
//
//	f := registry.NewFactory(ctx, "EPSG")
//	crs, err := f.CreateCoordinateReferenceSystem("4326")
//
//	// List transformations between two systems
//	ops, err := f.CreateFromCRSCodes("EPSG", "4267", "EPSG", "4326", true, true)
//
// An empty database is laid out by InitSchema and filled either with SQL or
// with a YAML Seed:
//
//	db, _ := sql.Open("sqlite3", "file:crs.db")
//	err := registry.InitSchema(db)
//	seed, err := registry.LoadSeed(yamlBytes)
//	err = seed.Apply(db)
//	ctx := registry.NewFromDB(db)
//
// # Related Packages
//
//   - github.com/spatialref/crstext/wkt - bracketed definition text
//   - github.com/spatialref/crstext/projstring - operation pipeline text
package registry
